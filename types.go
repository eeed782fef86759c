package remora

import (
	"fmt"
	"strings"
)

type TypeID int

const (
	TypeIDInvalid TypeID = iota
	TypeIDInt64
	TypeIDInt32
	TypeIDFloat64
	TypeIDFloat32
	TypeIDBoolean
	TypeIDString
	TypeIDCategorical
	TypeIDTime
)

// Type is a logical type from the fixed backend-neutral type set. Categorical
// types carry their dictionary; all other variants are payload-free.
type Type struct {
	TypeID      TypeID
	Categorical struct {
		Categories []string
	}
}

var (
	Int64   = Type{TypeID: TypeIDInt64}
	Int32   = Type{TypeID: TypeIDInt32}
	Float64 = Type{TypeID: TypeIDFloat64}
	Float32 = Type{TypeID: TypeIDFloat32}
	Boolean = Type{TypeID: TypeIDBoolean}
	String  = Type{TypeID: TypeIDString}
	Time    = Type{TypeID: TypeIDTime}
)

func Categorical(categories []string) Type {
	return Type{
		TypeID: TypeIDCategorical,
		Categorical: struct {
			Categories []string
		}{Categories: categories},
	}
}

func (t Type) Equals(other Type) bool {
	if t.TypeID != other.TypeID {
		return false
	}
	if t.TypeID == TypeIDCategorical {
		if len(t.Categorical.Categories) != len(other.Categorical.Categories) {
			return false
		}
		for i := range t.Categorical.Categories {
			if t.Categorical.Categories[i] != other.Categorical.Categories[i] {
				return false
			}
		}
	}
	return true
}

// FixedWidth returns the byte width of a single value in the buffer exchange
// layout, or 0 for variable-width and bit-packed types.
func (t Type) FixedWidth() int {
	switch t.TypeID {
	case TypeIDInt64, TypeIDFloat64, TypeIDTime:
		return 8
	case TypeIDInt32, TypeIDFloat32, TypeIDCategorical:
		return 4
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t.TypeID {
	case TypeIDInt64:
		return "Int64"
	case TypeIDInt32:
		return "Int32"
	case TypeIDFloat64:
		return "Float64"
	case TypeIDFloat32:
		return "Float32"
	case TypeIDBoolean:
		return "Boolean"
	case TypeIDString:
		return "String"
	case TypeIDCategorical:
		return fmt.Sprintf("Categorical[%s]", strings.Join(t.Categorical.Categories, ", "))
	case TypeIDTime:
		return "Time"
	}
	return "Invalid"
}
