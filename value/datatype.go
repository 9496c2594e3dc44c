package value

import (
	"strconv"
	"strings"
)

// DataType identifies the type of a column, vector or value. The numeric
// codes are persisted and must stay stable.
type DataType uint8

const (
	// TypeVoid marks an untyped or empty slot.
	TypeVoid DataType = 0
	// TypeDouble is a 64-bit float.
	TypeDouble DataType = 1
	// TypeInt is a 64-bit signed integer.
	TypeInt DataType = 2
	// TypeString is text.
	TypeString DataType = 3
	// TypeDateTime is a point in time stored as days since 1899-12-30.
	TypeDateTime DataType = 4
	// TypeEnumeration is an index into a field's allowed values, stored as int.
	TypeEnumeration DataType = 5
	// TypeValue is a column of scalar variants with arbitrary tags.
	TypeValue DataType = 6
	// TypeByte is an unsigned 8-bit integer.
	TypeByte DataType = 7
)

// String returns the string representation of the DataType.
func (d DataType) String() string {
	switch d {
	case TypeVoid:
		return "Void"
	case TypeDouble:
		return "Double"
	case TypeInt:
		return "Int"
	case TypeString:
		return "String"
	case TypeDateTime:
		return "DateTime"
	case TypeEnumeration:
		return "Enumeration"
	case TypeValue:
		return "Value"
	case TypeByte:
		return "Byte"
	default:
		return "DataType(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseDataType returns the DataType named s, ignoring case.
func ParseDataType(s string) (DataType, bool) {
	for d := TypeVoid; d <= TypeByte; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, true
		}
	}
	return TypeVoid, false
}

// Valid reports whether d is a known DataType.
func (d DataType) Valid() bool {
	return d <= TypeByte
}

// Storage returns the DataType that holds d's values: DateTime is stored as
// Double and Enumeration as Int. Every other type stores itself.
func (d DataType) Storage() DataType {
	switch d {
	case TypeDateTime:
		return TypeDouble
	case TypeEnumeration:
		return TypeInt
	default:
		return d
	}
}

// IsScalarTag reports whether d can be the tag of a Value.
func (d DataType) IsScalarTag() bool {
	switch d {
	case TypeVoid, TypeByte, TypeInt, TypeDouble, TypeString:
		return true
	default:
		return false
	}
}

// Accepts reports whether a Value tagged tag may be stored in a column of
// type d.
func (d DataType) Accepts(tag DataType) bool {
	if d == TypeValue {
		return true
	}
	return d.Storage() == tag
}

// CanConvert reports whether a column may change its type from d to to.
// The relation is total: unknown types never convert.
//
//   - a type converts to itself
//   - Void, String and Value convert to and from any type
//   - Byte, Int and Double convert among each other
//   - DateTime converts to and from Double
//   - Enumeration converts to and from Int
func (d DataType) CanConvert(to DataType) bool {
	if !d.Valid() || !to.Valid() {
		return false
	}
	if d == to {
		return true
	}
	switch {
	case isWildcard(d) || isWildcard(to):
		return true
	case isNumeric(d) && isNumeric(to):
		return true
	case pair(d, to, TypeDateTime, TypeDouble):
		return true
	case pair(d, to, TypeEnumeration, TypeInt):
		return true
	default:
		return false
	}
}

func isWildcard(d DataType) bool {
	return d == TypeVoid || d == TypeString || d == TypeValue
}

func isNumeric(d DataType) bool {
	return d == TypeByte || d == TypeInt || d == TypeDouble
}

func pair(a, b, x, y DataType) bool {
	return (a == x && b == y) || (a == y && b == x)
}
