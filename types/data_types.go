package types

type DataType string

const (
	Null    DataType = "null"
	Int64   DataType = "integer"
	Float64 DataType = "number"
	String  DataType = "string"
	Bool    DataType = "boolean"
	Object  DataType = "object"
	Array   DataType = "array"
)

// Record is an untyped row produced by a record source
type Record map[string]any

// ZeroValue returns the value used to complete a record missing a field of this type
func (d DataType) ZeroValue() any {
	switch d {
	case String:
		return ""
	case Bool:
		return false
	case Int64:
		return int64(0)
	case Float64:
		return float64(0)
	case Array:
		return []any{}
	case Object:
		return map[string]any{}
	default:
		return nil
	}
}

// Date-time formats understood in schema "format" keywords
const (
	FormatDateTime = "date-time"
	FormatDate     = "date"
)
