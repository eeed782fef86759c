package engine

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// GroupAggregate groups rows by the key columns and computes the requested
// aggregations. Groups appear in first-appearance order. Null keys form
// their own group; aggregations skip null inputs, and count counts non-null
// values.
func GroupAggregate(t Table, keys []string, aggregates []remora.Aggregate) (Table, error) {
	keyColumns := make([]remora.Column, len(keys))
	for i, key := range keys {
		col, err := t.column(key)
		if err != nil {
			return Table{}, errors.Wrap(err, "couldn't resolve group key")
		}
		keyColumns[i] = col
	}
	aggColumns := make([]remora.Column, len(aggregates))
	for i, agg := range aggregates {
		col, err := t.column(agg.Column)
		if err != nil {
			return Table{}, errors.Wrap(err, "couldn't resolve aggregate input")
		}
		if agg.Kind != remora.AggregateCount && !isNumericType(col.Type) {
			if agg.Kind == remora.AggregateSum || agg.Kind == remora.AggregateAvg {
				return Table{}, errors.Wrapf(remora.ErrUnsupportedDType,
					"%s over column %q of type %s", agg.Kind, agg.Column, col.Type)
			}
		}
		aggColumns[i] = col
	}

	groupIndex := map[string]int{}
	var groupRows [][]int
	for row := 0; row < t.Rows(); row++ {
		key := encodeGroupKey(keyColumns, row)
		idx, ok := groupIndex[key]
		if !ok {
			idx = len(groupRows)
			groupIndex[key] = idx
			groupRows = append(groupRows, nil)
		}
		groupRows[idx] = append(groupRows[idx], row)
	}

	out := Table{}
	for i, key := range keys {
		idx := t.Schema.FieldIndex(key)
		out.Schema.Fields = append(out.Schema.Fields, t.Schema.Fields[idx])
		keyOut := remora.NewColumn(keyColumns[i].Type, len(groupRows))
		for _, rows := range groupRows {
			if err := keyOut.Append(keyColumns[i].Value(rows[0])); err != nil {
				return Table{}, err
			}
		}
		out.Columns = append(out.Columns, keyOut)
	}
	for i, agg := range aggregates {
		outType := aggregateOutputType(agg.Kind, aggColumns[i].Type)
		out.Schema.Fields = append(out.Schema.Fields, remora.SchemaField{
			Name:     agg.OutputName(),
			Type:     outType,
			Nullable: agg.Kind != remora.AggregateCount,
		})
		aggOut := remora.NewColumn(outType, len(groupRows))
		for _, rows := range groupRows {
			if err := aggOut.Append(computeAggregate(agg.Kind, outType, aggColumns[i], rows)); err != nil {
				return Table{}, err
			}
		}
		out.Columns = append(out.Columns, aggOut)
	}
	return out, nil
}

func aggregateOutputType(kind remora.AggregateKind, input remora.Type) remora.Type {
	switch kind {
	case remora.AggregateCount:
		return remora.Int64
	case remora.AggregateAvg:
		return remora.Float64
	case remora.AggregateSum:
		if isIntegerType(input) {
			return remora.Int64
		}
		return remora.Float64
	default:
		return input
	}
}

func computeAggregate(kind remora.AggregateKind, outType remora.Type, col remora.Column, rows []int) remora.Value {
	switch kind {
	case remora.AggregateCount:
		var n int64
		for _, row := range rows {
			if col.IsValid(row) {
				n++
			}
		}
		return remora.NewInt64(n)

	case remora.AggregateSum:
		var intSum int64
		var floatSum float64
		var seen bool
		for _, row := range rows {
			if !col.IsValid(row) {
				continue
			}
			seen = true
			if isIntegerType(col.Type) {
				intSum += col.Value(row).Int
			} else {
				floatSum += numericValue(col.Value(row))
			}
		}
		if !seen {
			return remora.NewNull(outType)
		}
		if outType.TypeID == remora.TypeIDInt64 {
			return remora.NewInt64(intSum)
		}
		return remora.NewFloat64(floatSum)

	case remora.AggregateAvg:
		var sum float64
		var n int
		for _, row := range rows {
			if col.IsValid(row) {
				sum += numericValue(col.Value(row))
				n++
			}
		}
		if n == 0 {
			return remora.NewNull(outType)
		}
		return remora.NewFloat64(sum / float64(n))

	case remora.AggregateMin, remora.AggregateMax:
		var best remora.Value
		var seen bool
		for _, row := range rows {
			if !col.IsValid(row) {
				continue
			}
			v := col.Value(row)
			if !seen {
				best, seen = v, true
				continue
			}
			cmp := v.Compare(best)
			if (kind == remora.AggregateMin && cmp < 0) || (kind == remora.AggregateMax && cmp > 0) {
				best = v
			}
		}
		if !seen {
			return remora.NewNull(outType)
		}
		return best
	}
	panic("impossible, aggregate switch bug")
}

// encodeGroupKey builds a collision-free key by length-prefixing each
// component. Nulls get their own marker so they group together.
func encodeGroupKey(columns []remora.Column, row int) string {
	var buf []byte
	var scratch [4]byte
	for i := range columns {
		if !columns[i].IsValid(row) {
			buf = append(buf, 0)
			continue
		}
		s := columns[i].Value(row).String()
		buf = append(buf, 1)
		binary.LittleEndian.PutUint32(scratch[:], uint32(len(s)))
		buf = append(buf, scratch[:]...)
		buf = append(buf, s...)
	}
	return string(buf)
}
