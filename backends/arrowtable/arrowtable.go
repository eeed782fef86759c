// Package arrowtable is an eager, host-resident backend whose native object
// is an Apache Arrow record batch. Column access, filtering and head are
// native Arrow call sequences; the remaining operations are declared
// fallback-only and routed through the reference backend by the dispatcher.
//
// Arrow has no representation for this layer's categorical type, so
// categorical columns degrade to plain strings on construction — the
// conversion engine treats that pair as known-unreliable.
package arrowtable

import (
	"time"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

func toArrowType(t remora.Type) (arrow.DataType, error) {
	switch t.TypeID {
	case remora.TypeIDInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case remora.TypeIDInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case remora.TypeIDFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case remora.TypeIDFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case remora.TypeIDBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case remora.TypeIDString, remora.TypeIDCategorical:
		return arrow.BinaryTypes.String, nil
	case remora.TypeIDTime:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	}
	return nil, errors.Wrapf(remora.ErrUnsupportedDType, "no arrow mapping for %s", t)
}

func fromArrowType(dt arrow.DataType) (remora.Type, error) {
	switch dt.ID() {
	case arrow.INT64:
		return remora.Int64, nil
	case arrow.INT32:
		return remora.Int32, nil
	case arrow.FLOAT64:
		return remora.Float64, nil
	case arrow.FLOAT32:
		return remora.Float32, nil
	case arrow.BOOL:
		return remora.Boolean, nil
	case arrow.STRING:
		return remora.String, nil
	case arrow.TIMESTAMP:
		if dt.(*arrow.TimestampType).Unit == arrow.Nanosecond {
			return remora.Time, nil
		}
	}
	return remora.Type{}, errors.Wrapf(remora.ErrUnsupportedDType, "arrow type %s is outside the common type set", dt)
}

// buildRecord constructs an Arrow record from generic columns. Categorical
// columns are written out as their string labels.
func buildRecord(schema remora.Schema, columns []remora.Column) (arrow.Record, error) {
	fields := make([]arrow.Field, len(schema.Fields))
	arrays := make([]arrow.Array, len(schema.Fields))
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	for i, field := range schema.Fields {
		dt, err := toArrowType(field.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", field.Name)
		}
		fields[i] = arrow.Field{Name: field.Name, Type: dt, Nullable: field.Nullable}
		arr, err := buildArray(dt, columns[i])
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", field.Name)
		}
		arrays[i] = arr
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrays, int64(rows)), nil
}

func buildArray(dt arrow.DataType, col remora.Column) (arrow.Array, error) {
	switch dt.ID() {
	case arrow.INT64:
		builder := array.NewInt64Builder(memory.DefaultAllocator)
		defer builder.Release()
		for i := 0; i < col.Len(); i++ {
			if !col.IsValid(i) {
				builder.AppendNull()
			} else {
				builder.Append(col.Ints[i])
			}
		}
		return builder.NewArray(), nil
	case arrow.INT32:
		builder := array.NewInt32Builder(memory.DefaultAllocator)
		defer builder.Release()
		for i := 0; i < col.Len(); i++ {
			if !col.IsValid(i) {
				builder.AppendNull()
			} else {
				builder.Append(col.Ints32[i])
			}
		}
		return builder.NewArray(), nil
	case arrow.FLOAT64:
		builder := array.NewFloat64Builder(memory.DefaultAllocator)
		defer builder.Release()
		for i := 0; i < col.Len(); i++ {
			if !col.IsValid(i) {
				builder.AppendNull()
			} else {
				builder.Append(col.Floats[i])
			}
		}
		return builder.NewArray(), nil
	case arrow.FLOAT32:
		builder := array.NewFloat32Builder(memory.DefaultAllocator)
		defer builder.Release()
		for i := 0; i < col.Len(); i++ {
			if !col.IsValid(i) {
				builder.AppendNull()
			} else {
				builder.Append(col.Flts32[i])
			}
		}
		return builder.NewArray(), nil
	case arrow.BOOL:
		builder := array.NewBooleanBuilder(memory.DefaultAllocator)
		defer builder.Release()
		for i := 0; i < col.Len(); i++ {
			if !col.IsValid(i) {
				builder.AppendNull()
			} else {
				builder.Append(col.Bools[i])
			}
		}
		return builder.NewArray(), nil
	case arrow.STRING:
		builder := array.NewStringBuilder(memory.DefaultAllocator)
		defer builder.Release()
		for i := 0; i < col.Len(); i++ {
			if !col.IsValid(i) {
				builder.AppendNull()
			} else {
				builder.Append(col.Value(i).Str)
			}
		}
		return builder.NewArray(), nil
	case arrow.TIMESTAMP:
		builder := array.NewTimestampBuilder(memory.DefaultAllocator, dt.(*arrow.TimestampType))
		defer builder.Release()
		for i := 0; i < col.Len(); i++ {
			if !col.IsValid(i) {
				builder.AppendNull()
			} else {
				builder.Append(arrow.Timestamp(col.Ints[i]))
			}
		}
		return builder.NewArray(), nil
	}
	return nil, errors.Wrapf(remora.ErrUnsupportedDType, "can't build arrow array of type %s", dt)
}

func extractColumn(arr arrow.Array) (remora.Column, error) {
	t, err := fromArrowType(arr.DataType())
	if err != nil {
		return remora.Column{}, err
	}
	col := remora.NewColumn(t, arr.Len())
	value := func(i int) remora.Value {
		switch typed := arr.(type) {
		case *array.Int64:
			return remora.NewInt64(typed.Value(i))
		case *array.Int32:
			return remora.NewInt32(typed.Value(i))
		case *array.Float64:
			return remora.NewFloat64(typed.Value(i))
		case *array.Float32:
			return remora.NewFloat32(typed.Value(i))
		case *array.Boolean:
			return remora.NewBoolean(typed.Value(i))
		case *array.String:
			return remora.NewString(typed.Value(i))
		case *array.Timestamp:
			return remora.Value{Type: remora.Time, Time: time.Unix(0, int64(typed.Value(i))).UTC()}
		}
		panic("impossible, covered by fromArrowType")
	}
	for i := 0; i < arr.Len(); i++ {
		v := remora.NewNull(t)
		if arr.IsValid(i) {
			v = value(i)
		}
		if err := col.Append(v); err != nil {
			return remora.Column{}, err
		}
	}
	return col, nil
}
