package remora

import (
	"fmt"
	"time"
)

// Value is a single boxed value of one of the common logical types. It is
// used at the row-oriented edges of the system (predicates, membership tests,
// the materialized conversion path); columnar code paths work on Column
// instead.
type Value struct {
	Type    Type
	Null    bool
	Int     int64
	Float   float64
	Boolean bool
	Str     string
	Time    time.Time
}

func NewNull(t Type) Value {
	return Value{Type: t, Null: true}
}

func NewInt64(v int64) Value {
	return Value{Type: Int64, Int: v}
}

func NewInt32(v int32) Value {
	return Value{Type: Int32, Int: int64(v)}
}

func NewFloat64(v float64) Value {
	return Value{Type: Float64, Float: v}
}

func NewFloat32(v float32) Value {
	return Value{Type: Float32, Float: float64(v)}
}

func NewBoolean(v bool) Value {
	return Value{Type: Boolean, Boolean: v}
}

func NewString(v string) Value {
	return Value{Type: String, Str: v}
}

func NewCategorical(t Type, category string) Value {
	return Value{Type: t, Str: category}
}

func NewTime(v time.Time) Value {
	return Value{Type: Time, Time: v}
}

// Compare orders values. Nulls sort first; values of different types order by
// type id, so mixed-type comparisons are total but meaningless beyond
// ordering.
func (v Value) Compare(other Value) int {
	if v.Null || other.Null {
		if v.Null && other.Null {
			return 0
		}
		if v.Null {
			return -1
		}
		return 1
	}
	if v.Type.TypeID != other.Type.TypeID {
		if v.Type.TypeID < other.Type.TypeID {
			return -1
		}
		return 1
	}

	switch v.Type.TypeID {
	case TypeIDInt64, TypeIDInt32:
		if v.Int < other.Int {
			return -1
		} else if v.Int > other.Int {
			return 1
		}
		return 0
	case TypeIDFloat64, TypeIDFloat32:
		if v.Float < other.Float {
			return -1
		} else if v.Float > other.Float {
			return 1
		}
		return 0
	case TypeIDBoolean:
		if !v.Boolean && other.Boolean {
			return -1
		} else if v.Boolean && !other.Boolean {
			return 1
		}
		return 0
	case TypeIDString, TypeIDCategorical:
		if v.Str < other.Str {
			return -1
		} else if v.Str > other.Str {
			return 1
		}
		return 0
	case TypeIDTime:
		if v.Time.Before(other.Time) {
			return -1
		} else if v.Time.After(other.Time) {
			return 1
		}
		return 0
	}
	panic("impossible, type switch bug")
}

func (v Value) Equal(other Value) bool {
	return v.Compare(other) == 0
}

func (v Value) String() string {
	if v.Null {
		return "<null>"
	}
	switch v.Type.TypeID {
	case TypeIDInt64, TypeIDInt32:
		return fmt.Sprint(v.Int)
	case TypeIDFloat64, TypeIDFloat32:
		return fmt.Sprint(v.Float)
	case TypeIDBoolean:
		return fmt.Sprint(v.Boolean)
	case TypeIDString, TypeIDCategorical:
		return v.Str
	case TypeIDTime:
		return v.Time.Format(time.RFC3339Nano)
	}
	return "<invalid>"
}
