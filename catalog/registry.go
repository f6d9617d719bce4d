package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnresolvedTable is returned when a table identifier is unknown to the
// catalog. Planning abandons the affected alternative; catalog state does
// not change mid-planning, so callers never retry.
var ErrUnresolvedTable = errors.New("table not found in catalog")

// TableID identifies a registered table. In this catalog the identifier is
// the table name, matching how the metastore resolves tables.
type TableID string

// Table is a resolved catalog entry: the read-only facts the planner needs
// about a registered table. Instances are immutable after registration.
type Table struct {
	id        TableID
	def       *TableDefinition
	columnIDs []ColumnID
	rowCount  float64
}

// ID returns the table identifier.
func (t *Table) ID() TableID { return t.id }

// Definition returns the table definition this entry was registered from.
func (t *Table) Definition() *TableDefinition { return t.def }

// Stream reports whether the table is an unbounded change feed.
func (t *Table) Stream() bool { return t.def.Stream() }

// RowCountEstimate returns the heuristic row count. Never negative.
func (t *Table) RowCountEstimate() float64 { return t.rowCount }

// SortedColumnIDs returns the full set of the table's column identifiers
// in ascending order.
func (t *Table) SortedColumnIDs() []ColumnID {
	out := make([]ColumnID, len(t.columnIDs))
	copy(out, t.columnIDs)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasColumn reports whether id is one of the table's column identifiers.
func (t *Table) HasColumn(id ColumnID) bool {
	for _, c := range t.columnIDs {
		if c == id {
			return true
		}
	}
	return false
}

// ColumnName returns the name of the column with the given id, or the
// empty string if the id is unknown.
func (t *Table) ColumnName(id ColumnID) string {
	cols := t.def.Columns()
	if int(id) < 0 || int(id) >= len(cols) {
		return ""
	}
	return cols[id].Name
}

// Resolver resolves table identifiers to catalog entries. The planner
// treats the catalog as read-only; implementations must return a
// point-in-time consistent view per call.
type Resolver interface {
	Resolve(id TableID) (*Table, error)
}

// Registry is an in-memory catalog. Registration happens at startup (or
// through the API); resolution is concurrent-safe.
type Registry struct {
	mu     sync.RWMutex
	tables map[TableID]*Table
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: map[TableID]*Table{}}
}

// Register adds a built definition under its name with the given row-count
// estimate. Column IDs are assigned in definition order. Negative row
// estimates are clamped to zero. Registering a name twice is an error.
func (r *Registry) Register(def *TableDefinition, rowCountEstimate float64) (*Table, error) {
	if def == nil {
		return nil, fmt.Errorf("register: nil definition")
	}
	if rowCountEstimate < 0 {
		rowCountEstimate = 0
	}

	cols := def.Columns()
	columnIDs := make([]ColumnID, len(cols))
	for i := range cols {
		columnIDs[i] = ColumnID(i)
	}

	t := &Table{
		id:        TableID(def.Name()),
		def:       def,
		columnIDs: columnIDs,
		rowCount:  rowCountEstimate,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[t.id]; ok {
		return nil, fmt.Errorf("register: table %q already registered", def.Name())
	}
	r.tables[t.id] = t
	return t, nil
}

// Resolve implements Resolver.
func (r *Registry) Resolve(id TableID) (*Table, error) {
	r.mu.RLock()
	t, ok := r.tables[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", string(id), ErrUnresolvedTable)
	}
	return t, nil
}

// List returns all registered tables sorted by identifier.
func (r *Registry) List() []*Table {
	r.mu.RLock()
	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
