package random

// ValueType identifies the kind of value a Randomizer produces. It is only used as a lookup key.
type ValueType uint8

const (
	Unknown ValueType = iota
	Int
	Int32
	Int64
	Float32
	Float64
	String
	Bool
)

var valueTypeNames = [...]string{
	Unknown: "unknown",
	Int:     "int",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
	Bool:    "bool",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return valueTypeNames[Unknown]
}

// TypeOf returns the ValueType of T, or Unknown if T has no identifier.
func TypeOf[T any]() ValueType {
	var zero T
	switch any(zero).(type) {
	case int:
		return Int
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	case string:
		return String
	case bool:
		return Bool
	default:
		return Unknown
	}
}
