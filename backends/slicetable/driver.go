package slicetable

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/engine"
	"github.com/remora-data/remora/exchange"
)

const Version = "0.3.0"

type Driver struct{}

func init() {
	backend.MustRegister(Driver{})
}

func (Driver) Identity() backend.Identity {
	return backend.Identity{
		Kind:             backend.KindSliceTable,
		Mode:             backend.Eager,
		Residency:        exchange.Host,
		SupportsExchange: true,
		Version:          Version,
	}
}

func (Driver) Capabilities() backend.Capabilities {
	return backend.NewCapabilities(backend.ContainsDivergent, map[remora.OpKind]backend.Support{
		remora.OpKindSelect:         backend.SupportNative,
		remora.OpKindFilter:         backend.SupportNative,
		remora.OpKindGroupAggregate: backend.SupportNative,
		remora.OpKindJoin:           backend.SupportNative,
		remora.OpKindSort:           backend.SupportNative,
		remora.OpKindWithColumn:     backend.SupportNative,
		remora.OpKindRename:         backend.SupportNative,
		remora.OpKindHead:           backend.SupportNative,
		remora.OpKindDrop:           backend.SupportNative,
		remora.OpKindUnique:         backend.SupportNative,
		remora.OpKindDropNulls:      backend.SupportNative,
		remora.OpKindContains:       backend.SupportNative,
		remora.OpKindExchangeExport: backend.SupportNative,
		remora.OpKindExchangeImport: backend.SupportNative,
	})
}

func (Driver) NewTable(schema remora.Schema, columns []remora.Column) (any, error) {
	return New(schema, columns)
}

func (Driver) Materialize(native any) (remora.Schema, []remora.Column, error) {
	t, err := asTable(native)
	if err != nil {
		return remora.Schema{}, nil, err
	}
	return t.data.Schema, t.data.Columns, nil
}

func (Driver) Schema(native any) (remora.Schema, error) {
	t, err := asTable(native)
	if err != nil {
		return remora.Schema{}, err
	}
	return t.data.Schema, nil
}

func (Driver) Rows(native any) (int, error) {
	t, err := asTable(native)
	if err != nil {
		return 0, err
	}
	return t.data.Rows(), nil
}

// Apply runs one operation through the reference engine. Results get fresh
// positional labels: the common vocabulary has no label propagation rules,
// so none are invented.
func (Driver) Apply(native any, op remora.Op) (any, error) {
	t, err := asTable(native)
	if err != nil {
		return nil, err
	}

	var result engine.Table
	if op.Kind == remora.OpKindJoin {
		if op.JoinRight == nil || op.JoinRight.Plan != nil {
			return nil, errors.Errorf("slicetable join needs an eager right side")
		}
		right, err := asTable(op.JoinRight.Native)
		if err != nil {
			return nil, err
		}
		result, err = engine.Join(t.data, right.data, op.JoinOn, op.JoinHow)
		if err != nil {
			return nil, err
		}
	} else {
		result, err = engine.Apply(t.data, op)
		if err != nil {
			return nil, err
		}
	}
	return New(result.Schema, result.Columns)
}

func (Driver) ExportExchange(native any) ([]exchange.Column, error) {
	t, err := asTable(native)
	if err != nil {
		return nil, err
	}
	out := make([]exchange.Column, len(t.data.Columns))
	for i, field := range t.data.Schema.Fields {
		col, err := exchange.Encode(field.Name, t.data.Columns[i], field.Nullable)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't export column %q", field.Name)
		}
		out[i] = col
	}
	return out, nil
}

func (Driver) ImportExchange(columns []exchange.Column) (any, error) {
	decoded := make([]remora.Column, len(columns))
	for i, col := range columns {
		if col.Values.Residency != exchange.Host {
			return nil, errors.Wrapf(remora.ErrResidencyMismatch,
				"slicetable is host-resident but column %q is %s-resident",
				col.Name, col.Values.Residency)
		}
		c, err := exchange.Decode(col)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't import column %q", col.Name)
		}
		decoded[i] = c
	}
	return New(exchange.SchemaOf(columns), decoded)
}

func (Driver) ContainsByValue(native any, column string, value remora.Value) (bool, error) {
	t, err := asTable(native)
	if err != nil {
		return false, err
	}
	idx := t.data.Schema.FieldIndex(column)
	if idx == -1 {
		return false, errors.Wrapf(remora.ErrColumnNotFound, "column %q", column)
	}
	col := t.data.Columns[idx]
	for i := 0; i < col.Len(); i++ {
		if col.IsValid(i) && col.Value(i).Equal(value) {
			return true, nil
		}
	}
	return false, nil
}

func (Driver) ContainsByLabel(native any, column string, label remora.Value) (bool, error) {
	t, err := asTable(native)
	if err != nil {
		return false, err
	}
	if t.data.Schema.FieldIndex(column) == -1 {
		return false, errors.Wrapf(remora.ErrColumnNotFound, "column %q", column)
	}
	return t.index.Has(labelItem{label}), nil
}

func asTable(native any) (*Table, error) {
	t, ok := native.(*Table)
	if !ok {
		return nil, errors.Errorf("expected a slicetable native object, got %T", native)
	}
	return t, nil
}
