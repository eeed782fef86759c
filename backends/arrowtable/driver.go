package arrowtable

import (
	"context"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/compute"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/engine"
	"github.com/remora-data/remora/exchange"
)

const Version = "13.0.0"

type Driver struct{}

func init() {
	backend.MustRegister(Driver{})
}

func (Driver) Identity() backend.Identity {
	return backend.Identity{
		Kind:             backend.KindArrowTable,
		Mode:             backend.Eager,
		Residency:        exchange.Host,
		SupportsExchange: true,
		Version:          Version,
	}
}

func (Driver) Capabilities() backend.Capabilities {
	return backend.NewCapabilities(backend.ContainsByValueConvention, map[remora.OpKind]backend.Support{
		remora.OpKindSelect:         backend.SupportNative,
		remora.OpKindFilter:         backend.SupportNative,
		remora.OpKindHead:           backend.SupportNative,
		remora.OpKindGroupAggregate: backend.SupportFallback,
		remora.OpKindJoin:           backend.SupportFallback,
		remora.OpKindSort:           backend.SupportFallback,
		remora.OpKindWithColumn:     backend.SupportFallback,
		remora.OpKindRename:         backend.SupportFallback,
		remora.OpKindDrop:           backend.SupportFallback,
		remora.OpKindUnique:         backend.SupportFallback,
		remora.OpKindDropNulls:      backend.SupportFallback,
		remora.OpKindContains:       backend.SupportNative,
		remora.OpKindExchangeExport: backend.SupportNative,
		remora.OpKindExchangeImport: backend.SupportNative,
	})
}

func (Driver) NewTable(schema remora.Schema, columns []remora.Column) (any, error) {
	return buildRecord(schema, columns)
}

func (Driver) Materialize(native any) (remora.Schema, []remora.Column, error) {
	record, err := asRecord(native)
	if err != nil {
		return remora.Schema{}, nil, err
	}
	schema, err := recordSchema(record)
	if err != nil {
		return remora.Schema{}, nil, err
	}
	columns := make([]remora.Column, record.NumCols())
	for i := range columns {
		col, err := extractColumn(record.Column(i))
		if err != nil {
			return remora.Schema{}, nil, errors.Wrapf(err, "column %q", record.ColumnName(i))
		}
		columns[i] = col
	}
	return schema, columns, nil
}

// MaterializeLenient extracts the columns inside the common type set and
// reports the ones it had to drop.
func (Driver) MaterializeLenient(native any) (remora.Schema, []remora.Column, []string, error) {
	record, err := asRecord(native)
	if err != nil {
		return remora.Schema{}, nil, nil, err
	}
	var schema remora.Schema
	var columns []remora.Column
	var dropped []string
	for i := 0; i < int(record.NumCols()); i++ {
		field := record.Schema().Field(i)
		t, err := fromArrowType(field.Type)
		if err != nil {
			dropped = append(dropped, field.Name)
			continue
		}
		col, err := extractColumn(record.Column(i))
		if err != nil {
			return remora.Schema{}, nil, nil, errors.Wrapf(err, "column %q", field.Name)
		}
		schema.Fields = append(schema.Fields, remora.SchemaField{Name: field.Name, Type: t, Nullable: field.Nullable})
		columns = append(columns, col)
	}
	return schema, columns, dropped, nil
}

func (Driver) Schema(native any) (remora.Schema, error) {
	record, err := asRecord(native)
	if err != nil {
		return remora.Schema{}, err
	}
	return recordSchema(record)
}

func (Driver) Rows(native any) (int, error) {
	record, err := asRecord(native)
	if err != nil {
		return 0, err
	}
	return int(record.NumRows()), nil
}

func (d Driver) Apply(native any, op remora.Op) (any, error) {
	record, err := asRecord(native)
	if err != nil {
		return nil, err
	}
	switch op.Kind {
	case remora.OpKindSelect:
		return selectColumns(record, op.Columns)
	case remora.OpKindHead:
		n := int64(op.Count)
		if n > record.NumRows() {
			n = record.NumRows()
		}
		return record.NewSlice(0, n), nil
	case remora.OpKindFilter:
		return d.filter(record, op.Predicate)
	}
	return nil, errors.Wrapf(remora.ErrOperationUnsupported, "arrowtable can't natively apply %s", op.Kind)
}

func selectColumns(record arrow.Record, columns []string) (arrow.Record, error) {
	fields := make([]arrow.Field, len(columns))
	arrays := make([]arrow.Array, len(columns))
	for i, name := range columns {
		indices := record.Schema().FieldIndices(name)
		if len(indices) == 0 {
			return nil, errors.Wrapf(remora.ErrColumnNotFound, "select column %q", name)
		}
		fields[i] = record.Schema().Field(indices[0])
		arrays[i] = record.Column(indices[0])
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrays, record.NumRows()), nil
}

// filter evaluates the predicate into a selection mask and applies it with
// the arrow library's selection kernel, the same way the reference arrow
// execution path does.
func (d Driver) filter(record arrow.Record, predicate remora.Predicate) (arrow.Record, error) {
	schema, columns, err := d.Materialize(record)
	if err != nil {
		return nil, err
	}
	keep, err := engine.FilterMask(engine.Table{Schema: schema, Columns: columns}, predicate)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't evaluate filter predicate")
	}
	maskBuilder := array.NewBooleanBuilder(memory.DefaultAllocator)
	defer maskBuilder.Release()
	for _, v := range keep {
		maskBuilder.Append(v)
	}
	selection := maskBuilder.NewArray()
	defer selection.Release()

	out, err := compute.FilterRecordBatch(context.Background(), record, selection, &compute.FilterOptions{
		NullSelection: compute.SelectionDropNulls,
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't filter record batch")
	}
	return out, nil
}

func (Driver) ExportExchange(native any) ([]exchange.Column, error) {
	record, err := asRecord(native)
	if err != nil {
		return nil, err
	}
	out := make([]exchange.Column, record.NumCols())
	for i := range out {
		col, err := exportArray(record.Schema().Field(i), record.Column(i))
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't export column %q", record.ColumnName(i))
		}
		out[i] = col
	}
	return out, nil
}

func (Driver) ImportExchange(columns []exchange.Column) (any, error) {
	fields := make([]arrow.Field, len(columns))
	arrays := make([]arrow.Array, len(columns))
	rows := 0
	for i, col := range columns {
		if col.Values.Residency != exchange.Host {
			return nil, errors.Wrapf(remora.ErrResidencyMismatch,
				"arrowtable is host-resident but column %q is %s-resident", col.Name, col.Values.Residency)
		}
		if col.Type.TypeID == remora.TypeIDCategorical {
			return nil, errors.Wrapf(remora.ErrUnsupportedDType,
				"arrowtable can't adopt categorical buffers for column %q", col.Name)
		}
		arr, field, err := importArray(col)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't import column %q", col.Name)
		}
		fields[i] = field
		arrays[i] = arr
		rows = col.Length
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrays, int64(rows)), nil
}

func (d Driver) ContainsByValue(native any, column string, value remora.Value) (bool, error) {
	record, err := asRecord(native)
	if err != nil {
		return false, err
	}
	indices := record.Schema().FieldIndices(column)
	if len(indices) == 0 {
		return false, errors.Wrapf(remora.ErrColumnNotFound, "column %q", column)
	}
	col, err := extractColumn(record.Column(indices[0]))
	if err != nil {
		return false, err
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsValid(i) && col.Value(i).Equal(value) {
			return true, nil
		}
	}
	return false, nil
}

func (Driver) ContainsByLabel(native any, column string, label remora.Value) (bool, error) {
	return false, errors.Wrapf(remora.ErrOperationUnsupported,
		"contains_by_label on backend %s, which has no row-label index", backend.KindArrowTable)
}

func recordSchema(record arrow.Record) (remora.Schema, error) {
	fields := make([]remora.SchemaField, record.Schema().NumFields())
	for i := range fields {
		field := record.Schema().Field(i)
		t, err := fromArrowType(field.Type)
		if err != nil {
			return remora.Schema{}, errors.Wrapf(err, "column %q", field.Name)
		}
		fields[i] = remora.SchemaField{Name: field.Name, Type: t, Nullable: field.Nullable}
	}
	return remora.Schema{Fields: fields}, nil
}

func asRecord(native any) (arrow.Record, error) {
	record, ok := native.(arrow.Record)
	if !ok {
		return nil, errors.Errorf("expected an arrow record, got %T", native)
	}
	return record, nil
}
