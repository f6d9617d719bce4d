package catalog

// DataType is the semantic type of a column value.
type DataType string

// Supported column data types.
const (
	TypeBoolean   DataType = "boolean"
	TypeInt16     DataType = "int16"
	TypeInt32     DataType = "int32"
	TypeInt64     DataType = "int64"
	TypeFloat32   DataType = "float32"
	TypeFloat64   DataType = "float64"
	TypeDecimal   DataType = "decimal"
	TypeVarchar   DataType = "varchar"
	TypeDate      DataType = "date"
	TypeTimestamp DataType = "timestamp"
)

// ColumnID identifies a column within a table. IDs are assigned by the
// registry in column insertion order, so the ascending order of a table's
// IDs matches its definition order.
type ColumnID int32

// ColumnDescriptor describes a column's type and nullability. It carries no
// name — the owning TableDefinition pairs descriptors with names.
type ColumnDescriptor struct {
	Type     DataType
	Nullable bool
}

// NamedColumn is an ordered (name, descriptor) pair inside a TableDefinition.
type NamedColumn struct {
	Name string
	Desc ColumnDescriptor
}
