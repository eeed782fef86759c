package exchange

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// Encode builds an exchange descriptor over a generic column. Fixed-width
// values are exposed as views over the column's slices (a borrow); boolean
// and string columns are re-packed into the protocol layout, so their
// buffers are fresh allocations owned by the descriptor.
func Encode(name string, col remora.Column, nullable bool) (Column, error) {
	out := Column{
		Name:     name,
		Type:     col.Type,
		Nullable: nullable,
		Length:   col.Len(),
	}
	switch col.Type.TypeID {
	case remora.TypeIDInt64, remora.TypeIDTime:
		out.Values = Buffer{Bytes: Int64Bytes(col.Ints)}
	case remora.TypeIDInt32, remora.TypeIDCategorical:
		out.Values = Buffer{Bytes: Int32Bytes(col.Ints32)}
	case remora.TypeIDFloat64:
		out.Values = Buffer{Bytes: Float64Bytes(col.Floats)}
	case remora.TypeIDFloat32:
		out.Values = Buffer{Bytes: Float32Bytes(col.Flts32)}
	case remora.TypeIDBoolean:
		out.Values = Buffer{Bytes: BitmapFromBools(col.Bools)}
	case remora.TypeIDString:
		offsets := make([]int32, len(col.Strs)+1)
		var total int32
		for i, s := range col.Strs {
			offsets[i] = total
			total += int32(len(s))
		}
		offsets[len(col.Strs)] = total
		values := make([]byte, 0, total)
		for _, s := range col.Strs {
			values = append(values, s...)
		}
		out.Values = Buffer{Bytes: values}
		out.Offsets = &Buffer{Bytes: Int32Bytes(offsets)}
	default:
		return Column{}, errors.Wrapf(remora.ErrUnsupportedDType, "column %q has type %s", name, col.Type)
	}
	if col.Valid != nil {
		out.Validity = &Buffer{Bytes: BitmapFromBools(col.Valid)}
	}
	return out, nil
}

// Decode reads an exported column back into the generic container. Host
// fixed-width buffers are viewed in place (the result keeps borrowing the
// producer's memory); strings and booleans are unpacked into fresh slices.
// Device-resident buffers can't be decoded here: the caller must go through
// the producing backend's own copy path first.
func Decode(c Column) (remora.Column, error) {
	if err := c.Validate(); err != nil {
		return remora.Column{}, err
	}
	if c.Values.Residency == Device {
		return remora.Column{}, errors.Wrapf(remora.ErrResidencyMismatch,
			"column %q is device-resident and no copy was requested", c.Name)
	}
	out := remora.Column{Type: c.Type}
	switch c.Type.TypeID {
	case remora.TypeIDInt64, remora.TypeIDTime:
		out.Ints = BytesInt64(c.Values.Bytes)[:c.Length]
	case remora.TypeIDInt32, remora.TypeIDCategorical:
		out.Ints32 = BytesInt32(c.Values.Bytes)[:c.Length]
	case remora.TypeIDFloat64:
		out.Floats = BytesFloat64(c.Values.Bytes)[:c.Length]
	case remora.TypeIDFloat32:
		out.Flts32 = BytesFloat32(c.Values.Bytes)[:c.Length]
	case remora.TypeIDBoolean:
		out.Bools = BoolsFromBitmap(c.Values.Bytes, c.Length)
	case remora.TypeIDString:
		offsets := BytesInt32(c.Offsets.Bytes)[:c.Length+1]
		out.Strs = make([]string, c.Length)
		for i := 0; i < c.Length; i++ {
			out.Strs[i] = string(c.Values.Bytes[offsets[i]:offsets[i+1]])
		}
	}
	if c.Validity != nil {
		out.Valid = BoolsFromBitmap(c.Validity.Bytes, c.Length)
	}
	return out, nil
}

// SchemaOf reconstructs the logical schema described by a set of exported
// columns.
func SchemaOf(cols []Column) remora.Schema {
	fields := make([]remora.SchemaField, len(cols))
	for i, c := range cols {
		fields[i] = remora.SchemaField{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
	}
	return remora.Schema{Fields: fields}
}
