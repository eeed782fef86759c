// Package engine is the reference columnar engine: generic implementations
// of the common operation vocabulary over remora.Column slices. The
// slicetable backend uses it as its native execution path and the lazytable
// backend executes collected plans through it.
package engine

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

type Table struct {
	Schema  remora.Schema
	Columns []remora.Column
}

func (t Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

func (t Table) column(name string) (remora.Column, error) {
	i := t.Schema.FieldIndex(name)
	if i == -1 {
		return remora.Column{}, errors.Wrapf(remora.ErrColumnNotFound, "column %q", name)
	}
	return t.Columns[i], nil
}

// take gathers the given row indices across all columns.
func (t Table) take(indices []int) Table {
	out := Table{Schema: t.Schema, Columns: make([]remora.Column, len(t.Columns))}
	for i := range t.Columns {
		out.Columns[i] = t.Columns[i].Take(indices)
	}
	return out
}

// Apply runs a single operation. Join sides must already be resolved to
// engine tables by the caller (see Join).
func Apply(t Table, op remora.Op) (Table, error) {
	switch op.Kind {
	case remora.OpKindSelect:
		return Select(t, op.Columns)
	case remora.OpKindFilter:
		return Filter(t, op.Predicate)
	case remora.OpKindGroupAggregate:
		return GroupAggregate(t, op.GroupKeys, op.Aggregates)
	case remora.OpKindSort:
		return Sort(t, op.SortKeys)
	case remora.OpKindWithColumn:
		return WithColumn(t, op.ColumnName, op.Expr)
	case remora.OpKindRename:
		return Rename(t, op.Mapping)
	case remora.OpKindHead:
		return Head(t, op.Count), nil
	case remora.OpKindDrop:
		return Drop(t, op.Columns)
	case remora.OpKindUnique:
		return Unique(t, op.Columns)
	case remora.OpKindDropNulls:
		return DropNulls(t), nil
	}
	return Table{}, errors.Wrapf(remora.ErrOperationUnsupported, "engine can't apply %s", op.Kind)
}
