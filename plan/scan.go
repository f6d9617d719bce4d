package plan

import (
	"errors"
	"fmt"
	"strings"

	"riverplan/catalog"
)

// ErrInvalidProjection is returned by Scan.WithColumns when the requested
// column set is empty, contains duplicates, or references an identifier
// the underlying table does not have. It indicates a caller bug in the
// optimizer, never a transient condition.
var ErrInvalidProjection = errors.New("invalid column projection")

// Scan is the logical scan node: read one table restricted to a column
// projection. It shares the resolved catalog entry rather than copying it,
// and its stream flag is fixed at conversion time. Scans are created by
// the scan conversion rule and narrowed — never mutated — by WithColumns.
type Scan struct {
	table   *catalog.Table
	columns []catalog.ColumnID
	stream  bool
}

// NewScan creates a logical scan over the full sorted column set of the
// resolved table, with the table's stream flag.
func NewScan(table *catalog.Table) *Scan {
	return &Scan{
		table:   table,
		columns: table.SortedColumnIDs(),
		stream:  table.Stream(),
	}
}

// Table returns the shared catalog entry this scan reads.
func (s *Scan) Table() *catalog.Table { return s.table }

// TableID returns the identifier of the scanned table.
func (s *Scan) TableID() catalog.TableID { return s.table.ID() }

// ColumnIDs returns a copy of the ordered projection.
func (s *Scan) ColumnIDs() []catalog.ColumnID {
	out := make([]catalog.ColumnID, len(s.columns))
	copy(out, s.columns)
	return out
}

// Stream reports whether the scanned table is an unbounded change feed.
func (s *Scan) Stream() bool { return s.stream }

func (s *Scan) Kind() Kind             { return KindScan }
func (s *Scan) Convention() Convention { return ConventionLogical }
func (s *Scan) Inputs() []Node         { return nil }

// WithColumns returns a new scan over the same table, stream flag, and
// convention but the supplied projection. The input must be non-empty,
// duplicate-free, and a subset of the table's known columns.
func (s *Scan) WithColumns(columns []catalog.ColumnID) (*Scan, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: empty column set for table %s", ErrInvalidProjection, s.table.ID())
	}
	seen := make(map[catalog.ColumnID]bool, len(columns))
	for _, id := range columns {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate column %d for table %s", ErrInvalidProjection, id, s.table.ID())
		}
		seen[id] = true
		if !s.table.HasColumn(id) {
			return nil, fmt.Errorf("%w: column %d not in table %s", ErrInvalidProjection, id, s.table.ID())
		}
	}

	out := make([]catalog.ColumnID, len(columns))
	copy(out, columns)
	return &Scan{table: s.table, columns: out, stream: s.stream}, nil
}

// EstimateCost computes the scan cost for a given row-count estimate. With
// valueCount = rowCountEstimate * |columns|, the cost is (valueCount,
// valueCount+1, 0): the +1 is fixed per-scan overhead so even a zero-row
// scan is never free to a search procedure, and logical scans are not
// charged I/O.
func (s *Scan) EstimateCost(rowCountEstimate float64) Cost {
	valueCount := rowCountEstimate * float64(len(s.columns))
	return Cost{Rows: valueCount, CPU: valueCount + 1, IO: 0}
}

func (s *Scan) Digest() string {
	cols := make([]string, len(s.columns))
	for i, id := range s.columns {
		cols[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("Scan(table=%s, columns=[%s], stream=%t, convention=%s)",
		s.table.ID(), strings.Join(cols, " "), s.stream, s.Convention())
}
