package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverplan/catalog"
)

func registerTable(t *testing.T, name string, stream bool, rowCount float64, columns ...string) *catalog.Table {
	t.Helper()
	b := catalog.NewBuilder(name).SetStream(stream)
	for _, c := range columns {
		b.AddColumn(c, catalog.ColumnDescriptor{Type: catalog.TypeInt64})
	}
	def, err := b.Build()
	require.NoError(t, err)

	table, err := catalog.NewRegistry().Register(def, rowCount)
	require.NoError(t, err)
	return table
}

func TestNewScanFullProjection(t *testing.T) {
	table := registerTable(t, "orders", true, 1000, "a", "b", "c")
	s := NewScan(table)

	assert.Equal(t, catalog.TableID("orders"), s.TableID())
	assert.Equal(t, []catalog.ColumnID{0, 1, 2}, s.ColumnIDs())
	assert.True(t, s.Stream())
	assert.Equal(t, ConventionLogical, s.Convention())
	assert.Empty(t, s.Inputs())
}

func TestWithColumns(t *testing.T) {
	table := registerTable(t, "orders", true, 1000, "a", "b", "c", "d", "e")
	s := NewScan(table)

	tests := []struct {
		name    string
		columns []catalog.ColumnID
		wantErr string
	}{
		{name: "subset", columns: []catalog.ColumnID{1, 3}},
		{name: "reordered", columns: []catalog.ColumnID{4, 0}},
		{name: "full", columns: []catalog.ColumnID{0, 1, 2, 3, 4}},
		{name: "empty", columns: nil, wantErr: "empty column set"},
		{name: "foreign_id", columns: []catalog.ColumnID{0, 9}, wantErr: "column 9 not in table"},
		{name: "duplicate_id", columns: []catalog.ColumnID{2, 2}, wantErr: "duplicate column 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrowed, err := s.WithColumns(tt.columns)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidProjection)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, narrowed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.columns, narrowed.ColumnIDs())
			// Everything but the projection is shared/unchanged.
			assert.Same(t, s.Table(), narrowed.Table())
			assert.Equal(t, s.Stream(), narrowed.Stream())
			assert.Equal(t, s.Convention(), narrowed.Convention())
			// The source node is untouched.
			assert.Equal(t, []catalog.ColumnID{0, 1, 2, 3, 4}, s.ColumnIDs())
		})
	}
}

func TestWithColumnsIdempotent(t *testing.T) {
	table := registerTable(t, "t", false, 10, "a", "b", "c")
	s := NewScan(table)

	once, err := s.WithColumns([]catalog.ColumnID{0, 2})
	require.NoError(t, err)
	twice, err := once.WithColumns([]catalog.ColumnID{0, 2})
	require.NoError(t, err)

	assert.Equal(t, once.ColumnIDs(), twice.ColumnIDs())
	assert.Equal(t, once.TableID(), twice.TableID())
	assert.Equal(t, once.Stream(), twice.Stream())
	assert.Equal(t, once.Digest(), twice.Digest())
}

func TestEstimateCost(t *testing.T) {
	table := registerTable(t, "t", false, 1000, "a", "b", "c", "d", "e")
	full := NewScan(table)

	cost := full.EstimateCost(1000)
	assert.Equal(t, Cost{Rows: 5000, CPU: 5001, IO: 0}, cost)

	narrow, err := full.WithColumns([]catalog.ColumnID{0, 1})
	require.NoError(t, err)
	cost = narrow.EstimateCost(1000)
	assert.Equal(t, Cost{Rows: 2000, CPU: 2001, IO: 0}, cost)
}

func TestEstimateCostZeroRowsNeverFree(t *testing.T) {
	table := registerTable(t, "t", false, 0, "a")
	cost := NewScan(table).EstimateCost(0)
	assert.Equal(t, float64(0), cost.Rows)
	assert.Equal(t, float64(1), cost.CPU)
	assert.Equal(t, float64(0), cost.IO)
}

func TestEstimateCostMonotonicity(t *testing.T) {
	table := registerTable(t, "t", false, 0, "a", "b", "c", "d")
	s := NewScan(table)

	// Fixed columns: cost grows weakly with the row estimate.
	prev := s.EstimateCost(0)
	for _, rows := range []float64{1, 10, 500, 1e6} {
		cur := s.EstimateCost(rows)
		assert.LessOrEqual(t, prev.Rows, cur.Rows)
		assert.LessOrEqual(t, prev.CPU, cur.CPU)
		prev = cur
	}

	// Fixed row estimate: narrowing never increases rows or cpu.
	wide := s.EstimateCost(100)
	narrow, err := s.WithColumns([]catalog.ColumnID{1})
	require.NoError(t, err)
	got := narrow.EstimateCost(100)
	assert.LessOrEqual(t, got.Rows, wide.Rows)
	assert.LessOrEqual(t, got.CPU, wide.CPU)
}

func TestScanDigest(t *testing.T) {
	table := registerTable(t, "orders", true, 10, "a", "b")
	s := NewScan(table)
	assert.Equal(t, "Scan(table=orders, columns=[0 1], stream=true, convention=logical)", s.Digest())
}
