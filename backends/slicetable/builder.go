package slicetable

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// Builder assembles a table row by row. Errors stick and surface at Build,
// so call sites can chain appends without checking each one.
type Builder struct {
	schema  remora.Schema
	columns []remora.Column
	labels  []remora.Value
	err     error
}

func NewBuilder(schema remora.Schema) *Builder {
	columns := make([]remora.Column, len(schema.Fields))
	for i, field := range schema.Fields {
		columns[i] = remora.NewColumn(field.Type, 0)
	}
	return &Builder{schema: schema, columns: columns}
}

func (b *Builder) AppendRow(values ...remora.Value) *Builder {
	return b.AppendLabeledRow(remora.NewInt64(int64(len(b.labels))), values...)
}

func (b *Builder) AppendLabeledRow(label remora.Value, values ...remora.Value) *Builder {
	if b.err != nil {
		return b
	}
	if len(values) != len(b.schema.Fields) {
		b.err = errors.Errorf("got %d values for %d columns", len(values), len(b.schema.Fields))
		return b
	}
	for i, v := range values {
		if v.Null && !b.schema.Fields[i].Nullable {
			b.err = errors.Errorf("null in non-nullable column %q", b.schema.Fields[i].Name)
			return b
		}
		if err := b.columns[i].Append(v); err != nil {
			b.err = errors.Wrapf(err, "column %q", b.schema.Fields[i].Name)
			return b
		}
	}
	b.labels = append(b.labels, label)
	return b
}

func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewWithLabels(b.schema, b.columns, b.labels)
}
