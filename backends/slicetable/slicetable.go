// Package slicetable is the reference backend: an eager, host-resident
// columnar table over Go slices. It supports every operation of the common
// vocabulary natively and implements both halves of the buffer exchange
// protocol, which makes it the routing target for other backends' fallback
// operations.
//
// A slicetable additionally keeps a row-label index, pandas-style, so it is
// a backend on which the by-label and by-value membership conventions
// genuinely diverge.
package slicetable

import (
	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/engine"
)

type Table struct {
	data   engine.Table
	labels []remora.Value
	index  *btree.BTree
}

// New builds a table with positional integer labels.
func New(schema remora.Schema, columns []remora.Column) (*Table, error) {
	if err := validate(schema, columns); err != nil {
		return nil, err
	}
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	labels := make([]remora.Value, rows)
	for i := range labels {
		labels[i] = remora.NewInt64(int64(i))
	}
	return newWithLabels(engine.Table{Schema: schema, Columns: columns}, labels)
}

// NewWithLabels builds a table with an explicit row-label index.
func NewWithLabels(schema remora.Schema, columns []remora.Column, labels []remora.Value) (*Table, error) {
	if err := validate(schema, columns); err != nil {
		return nil, err
	}
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	if len(labels) != rows {
		return nil, errors.Errorf("got %d labels for %d rows", len(labels), rows)
	}
	return newWithLabels(engine.Table{Schema: schema, Columns: columns}, labels)
}

func newWithLabels(data engine.Table, labels []remora.Value) (*Table, error) {
	index := btree.New(8)
	for _, label := range labels {
		index.ReplaceOrInsert(labelItem{label})
	}
	return &Table{data: data, labels: labels, index: index}, nil
}

func validate(schema remora.Schema, columns []remora.Column) error {
	if len(schema.Fields) != len(columns) {
		return errors.Errorf("schema has %d fields but got %d columns", len(schema.Fields), len(columns))
	}
	for i, field := range schema.Fields {
		if !columns[i].Type.Equals(field.Type) {
			return errors.Errorf("column %q: schema says %s but column holds %s",
				field.Name, field.Type, columns[i].Type)
		}
		if i > 0 && columns[i].Len() != columns[0].Len() {
			return errors.Errorf("column %q has %d rows, expected %d",
				field.Name, columns[i].Len(), columns[0].Len())
		}
	}
	return nil
}

func (t *Table) Schema() remora.Schema {
	return t.data.Schema
}

func (t *Table) Rows() int {
	return t.data.Rows()
}

// Labels returns the row-label index values in row order.
func (t *Table) Labels() []remora.Value {
	return t.labels
}

type labelItem struct {
	value remora.Value
}

func (i labelItem) Less(than btree.Item) bool {
	return i.value.Compare(than.(labelItem).value) < 0
}
