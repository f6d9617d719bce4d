package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidDefinition is returned by Builder.Build when the accumulated
// state cannot form a valid table definition.
var ErrInvalidDefinition = errors.New("invalid table definition")

// TableDefinition is the immutable description of a table produced by DDL
// compilation: its name, ordered columns, connector properties, and mode
// flags. Column order is significant — it defines the default projection
// order and the order in which the registry assigns column IDs.
type TableDefinition struct {
	name         string
	columns      []NamedColumn
	properties   map[string]string
	appendOnly   bool
	materialized bool
	stream       bool
	rowFormat    string
}

// Name returns the table name.
func (d *TableDefinition) Name() string { return d.name }

// Columns returns a copy of the ordered column list.
func (d *TableDefinition) Columns() []NamedColumn {
	out := make([]NamedColumn, len(d.columns))
	copy(out, d.columns)
	return out
}

// Properties returns a copy of the connector property map.
func (d *TableDefinition) Properties() map[string]string {
	out := make(map[string]string, len(d.properties))
	for k, v := range d.properties {
		out[k] = v
	}
	return out
}

// AppendOnly reports whether the table expects no updates or deletes.
func (d *TableDefinition) AppendOnly() bool { return d.appendOnly }

// Materialized reports whether the table is derived from a query rather
// than base storage.
func (d *TableDefinition) Materialized() bool { return d.materialized }

// Stream reports whether rows represent an unbounded change feed.
func (d *TableDefinition) Stream() bool { return d.stream }

// RowFormat returns the free-form row encoding tag, possibly empty.
func (d *TableDefinition) RowFormat() string { return d.rowFormat }

// Builder accumulates table definition state. It performs no validation
// until Build; setters never fail and last write wins, so DDL compilation
// can chain calls unconditionally.
type Builder struct {
	name         string
	columns      []NamedColumn
	properties   map[string]string
	appendOnly   bool
	materialized bool
	stream       bool
	rowFormat    string
}

// NewBuilder creates a builder bound to the given table name. An empty name
// is accepted here and rejected by Build.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddColumn appends a (name, descriptor) pair. Duplicate names are caught
// at Build, not here.
func (b *Builder) AddColumn(name string, desc ColumnDescriptor) *Builder {
	b.columns = append(b.columns, NamedColumn{Name: name, Desc: desc})
	return b
}

// SetAppendOnly sets the append-only flag.
func (b *Builder) SetAppendOnly(appendOnly bool) *Builder {
	b.appendOnly = appendOnly
	return b
}

// SetMaterialized sets the materialized flag.
func (b *Builder) SetMaterialized(materialized bool) *Builder {
	b.materialized = materialized
	return b
}

// SetStream sets the stream flag.
func (b *Builder) SetStream(stream bool) *Builder {
	b.stream = stream
	return b
}

// SetProperties replaces the connector property map.
func (b *Builder) SetProperties(properties map[string]string) *Builder {
	b.properties = properties
	return b
}

// SetRowFormat sets the row encoding tag.
func (b *Builder) SetRowFormat(rowFormat string) *Builder {
	b.rowFormat = rowFormat
	return b
}

// Build validates the accumulated state and produces an immutable
// TableDefinition. Columns and properties are copied, so mutating the
// builder afterwards does not affect the returned definition.
func (b *Builder) Build() (*TableDefinition, error) {
	if b.name == "" {
		return nil, fmt.Errorf("%w: table name is empty", ErrInvalidDefinition)
	}
	if len(b.columns) == 0 {
		return nil, fmt.Errorf("%w: table %q has no columns", ErrInvalidDefinition, b.name)
	}
	seen := make(map[string]bool, len(b.columns))
	for _, c := range b.columns {
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: duplicate column %q in table %q", ErrInvalidDefinition, c.Name, b.name)
		}
		seen[c.Name] = true
	}

	columns := make([]NamedColumn, len(b.columns))
	copy(columns, b.columns)
	properties := make(map[string]string, len(b.properties))
	for k, v := range b.properties {
		properties[k] = v
	}

	return &TableDefinition{
		name:         b.name,
		columns:      columns,
		properties:   properties,
		appendOnly:   b.appendOnly,
		materialized: b.materialized,
		stream:       b.stream,
		rowFormat:    b.rowFormat,
	}, nil
}
