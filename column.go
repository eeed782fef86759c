package remora

import (
	"time"

	"github.com/pkg/errors"
)

// Column is the generic columnar value container used by the materialized
// conversion path and the reference engine. Exactly one of the typed slices
// is populated, according to Type. Valid is nil when every row is valid.
//
// Int64 and Time values share Ints (Time is stored as Unix nanoseconds);
// Int32 and categorical dictionary codes share Ints32.
type Column struct {
	Type   Type
	Ints   []int64
	Ints32 []int32
	Floats []float64
	Flts32 []float32
	Bools  []bool
	Strs   []string
	Valid  []bool
}

func NewColumn(t Type, capacity int) Column {
	col := Column{Type: t}
	switch t.TypeID {
	case TypeIDInt64, TypeIDTime:
		col.Ints = make([]int64, 0, capacity)
	case TypeIDInt32, TypeIDCategorical:
		col.Ints32 = make([]int32, 0, capacity)
	case TypeIDFloat64:
		col.Floats = make([]float64, 0, capacity)
	case TypeIDFloat32:
		col.Flts32 = make([]float32, 0, capacity)
	case TypeIDBoolean:
		col.Bools = make([]bool, 0, capacity)
	case TypeIDString:
		col.Strs = make([]string, 0, capacity)
	}
	return col
}

func (c Column) Len() int {
	switch c.Type.TypeID {
	case TypeIDInt64, TypeIDTime:
		return len(c.Ints)
	case TypeIDInt32, TypeIDCategorical:
		return len(c.Ints32)
	case TypeIDFloat64:
		return len(c.Floats)
	case TypeIDFloat32:
		return len(c.Flts32)
	case TypeIDBoolean:
		return len(c.Bools)
	case TypeIDString:
		return len(c.Strs)
	}
	return 0
}

func (c Column) IsValid(i int) bool {
	return c.Valid == nil || c.Valid[i]
}

func (c Column) Value(i int) Value {
	if !c.IsValid(i) {
		return NewNull(c.Type)
	}
	switch c.Type.TypeID {
	case TypeIDInt64:
		return NewInt64(c.Ints[i])
	case TypeIDInt32:
		return NewInt32(c.Ints32[i])
	case TypeIDFloat64:
		return NewFloat64(c.Floats[i])
	case TypeIDFloat32:
		return NewFloat32(c.Flts32[i])
	case TypeIDBoolean:
		return NewBoolean(c.Bools[i])
	case TypeIDString:
		return NewString(c.Strs[i])
	case TypeIDCategorical:
		return NewCategorical(c.Type, c.Type.Categorical.Categories[c.Ints32[i]])
	case TypeIDTime:
		return NewTime(time.Unix(0, c.Ints[i]).UTC())
	}
	panic("impossible, type switch bug")
}

func (c *Column) Append(v Value) error {
	if v.Null {
		if c.Valid == nil {
			c.Valid = make([]bool, c.Len())
			for i := range c.Valid {
				c.Valid[i] = true
			}
		}
		c.Valid = append(c.Valid, false)
		c.appendZero()
		return nil
	}
	if c.Valid != nil {
		c.Valid = append(c.Valid, true)
	}
	switch c.Type.TypeID {
	case TypeIDInt64:
		c.Ints = append(c.Ints, v.Int)
	case TypeIDInt32:
		c.Ints32 = append(c.Ints32, int32(v.Int))
	case TypeIDFloat64:
		c.Floats = append(c.Floats, v.Float)
	case TypeIDFloat32:
		c.Flts32 = append(c.Flts32, float32(v.Float))
	case TypeIDBoolean:
		c.Bools = append(c.Bools, v.Boolean)
	case TypeIDString:
		c.Strs = append(c.Strs, v.Str)
	case TypeIDCategorical:
		code := -1
		for i, category := range c.Type.Categorical.Categories {
			if category == v.Str {
				code = i
				break
			}
		}
		if code == -1 {
			return errors.Errorf("category %q not in dictionary of type %s", v.Str, c.Type)
		}
		c.Ints32 = append(c.Ints32, int32(code))
	case TypeIDTime:
		c.Ints = append(c.Ints, v.Time.UnixNano())
	default:
		return errors.Errorf("can't append to column of invalid type")
	}
	return nil
}

func (c *Column) appendZero() {
	switch c.Type.TypeID {
	case TypeIDInt64, TypeIDTime:
		c.Ints = append(c.Ints, 0)
	case TypeIDInt32, TypeIDCategorical:
		c.Ints32 = append(c.Ints32, 0)
	case TypeIDFloat64:
		c.Floats = append(c.Floats, 0)
	case TypeIDFloat32:
		c.Flts32 = append(c.Flts32, 0)
	case TypeIDBoolean:
		c.Bools = append(c.Bools, false)
	case TypeIDString:
		c.Strs = append(c.Strs, "")
	}
}

// Take gathers the rows at the given indices into a fresh column.
func (c Column) Take(indices []int) Column {
	out := NewColumn(c.Type, len(indices))
	for _, i := range indices {
		// Append can only fail for categorical codes outside the dictionary,
		// which can't happen when gathering from a well-formed column.
		_ = out.Append(c.Value(i))
	}
	return out
}

// EqualData compares two columns value for value, including null positions.
func (c Column) EqualData(other Column) bool {
	if !c.Type.Equals(other.Type) || c.Len() != other.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsValid(i) != other.IsValid(i) {
			return false
		}
		if c.IsValid(i) && !c.Value(i).Equal(other.Value(i)) {
			return false
		}
	}
	return true
}
