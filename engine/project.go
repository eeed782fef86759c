package engine

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

func Select(t Table, columns []string) (Table, error) {
	out := Table{Columns: make([]remora.Column, len(columns))}
	out.Schema.Fields = make([]remora.SchemaField, len(columns))
	for i, name := range columns {
		idx := t.Schema.FieldIndex(name)
		if idx == -1 {
			return Table{}, errors.Wrapf(remora.ErrColumnNotFound, "select column %q", name)
		}
		out.Schema.Fields[i] = t.Schema.Fields[idx]
		out.Columns[i] = t.Columns[idx]
	}
	return out, nil
}

func Drop(t Table, columns []string) (Table, error) {
	dropped := make(map[string]bool, len(columns))
	for _, name := range columns {
		if t.Schema.FieldIndex(name) == -1 {
			return Table{}, errors.Wrapf(remora.ErrColumnNotFound, "drop column %q", name)
		}
		dropped[name] = true
	}
	var out Table
	for i, field := range t.Schema.Fields {
		if !dropped[field.Name] {
			out.Schema.Fields = append(out.Schema.Fields, field)
			out.Columns = append(out.Columns, t.Columns[i])
		}
	}
	return out, nil
}

func Rename(t Table, mapping map[string]string) (Table, error) {
	out := Table{Schema: remora.Schema{Fields: make([]remora.SchemaField, len(t.Schema.Fields))}, Columns: t.Columns}
	copy(out.Schema.Fields, t.Schema.Fields)
	for from, to := range mapping {
		idx := out.Schema.FieldIndex(from)
		if idx == -1 {
			return Table{}, errors.Wrapf(remora.ErrColumnNotFound, "rename column %q", from)
		}
		out.Schema.Fields[idx].Name = to
	}
	return out, nil
}

func Head(t Table, n int) Table {
	if n > t.Rows() {
		n = t.Rows()
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return t.take(indices)
}

// WithColumn appends a derived column, or replaces an existing one of the
// same name.
func WithColumn(t Table, name string, expr remora.Expr) (Table, error) {
	col, nullable, err := evalExpr(t, expr)
	if err != nil {
		return Table{}, errors.Wrapf(err, "couldn't evaluate expression for column %q", name)
	}
	field := remora.SchemaField{Name: name, Type: col.Type, Nullable: nullable}

	out := Table{
		Schema:  remora.Schema{Fields: make([]remora.SchemaField, len(t.Schema.Fields))},
		Columns: make([]remora.Column, len(t.Columns)),
	}
	copy(out.Schema.Fields, t.Schema.Fields)
	copy(out.Columns, t.Columns)

	if idx := out.Schema.FieldIndex(name); idx != -1 {
		out.Schema.Fields[idx] = field
		out.Columns[idx] = col
		return out, nil
	}
	out.Schema.Fields = append(out.Schema.Fields, field)
	out.Columns = append(out.Columns, col)
	return out, nil
}

func DropNulls(t Table) Table {
	var indices []int
rows:
	for row := 0; row < t.Rows(); row++ {
		for i := range t.Columns {
			if !t.Columns[i].IsValid(row) {
				continue rows
			}
		}
		indices = append(indices, row)
	}
	return t.take(indices)
}
