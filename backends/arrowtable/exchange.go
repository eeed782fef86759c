package arrowtable

import (
	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/exchange"
)

// Arrow's physical layout matches the exchange protocol directly: validity
// is bit-per-row with 1 = valid, booleans are bit-packed, strings carry
// int32 offsets. Export therefore hands out views of the arrays' own
// buffers, and import adopts foreign buffers without copying.

func exportArray(field arrow.Field, arr arrow.Array) (exchange.Column, error) {
	t, err := fromArrowType(field.Type)
	if err != nil {
		return exchange.Column{}, err
	}
	data := arr.Data()
	if data.Offset() != 0 {
		// A sliced array's buffers start mid-buffer; the protocol has no
		// offset field, so sliced records take the materialized path.
		return exchange.Column{}, errors.Errorf("can't export sliced array for column %q", field.Name)
	}
	buffers := data.Buffers()

	out := exchange.Column{
		Name:     field.Name,
		Type:     t,
		Nullable: field.Nullable,
		Length:   arr.Len(),
	}
	if arr.NullN() > 0 && buffers[0] != nil {
		out.Validity = &exchange.Buffer{Bytes: buffers[0].Bytes()}
	}
	switch t.TypeID {
	case remora.TypeIDString:
		out.Offsets = &exchange.Buffer{Bytes: buffers[1].Bytes()[:(arr.Len()+1)*4]}
		out.Values = exchange.Buffer{Bytes: buffers[2].Bytes()}
	case remora.TypeIDBoolean:
		out.Values = exchange.Buffer{Bytes: buffers[1].Bytes()}
	default:
		width := t.FixedWidth()
		out.Values = exchange.Buffer{Bytes: buffers[1].Bytes()[:arr.Len()*width]}
	}
	return out, nil
}

func importArray(col exchange.Column) (arrow.Array, arrow.Field, error) {
	dt, err := toArrowType(col.Type)
	if err != nil {
		return nil, arrow.Field{}, err
	}

	var validity *memory.Buffer
	nullCount := 0
	if col.Validity != nil {
		validity = memory.NewBufferBytes(col.Validity.Bytes)
		nullCount = array.UnknownNullCount
	}
	values := memory.NewBufferBytes(col.Values.Bytes)

	var buffers []*memory.Buffer
	if col.Type.TypeID == remora.TypeIDString {
		buffers = []*memory.Buffer{validity, memory.NewBufferBytes(col.Offsets.Bytes), values}
	} else {
		buffers = []*memory.Buffer{validity, values}
	}
	data := array.NewData(dt, col.Length, buffers, nil, nullCount, 0)
	defer data.Release()

	field := arrow.Field{Name: col.Name, Type: dt, Nullable: col.Nullable}
	return array.MakeFromData(data), field, nil
}
