package lazytable

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
		Kind:             backend.KindLazyTable,
		Mode:             backend.Lazy,
		Residency:        exchange.Host,
		SupportsExchange: true,
		Version:          Version,
	}
}

func (Driver) Capabilities() backend.Capabilities {
	return backend.NewCapabilities(backend.ContainsByValueConvention, map[remora.OpKind]backend.Support{
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
		remora.OpKindCollect:        backend.SupportNative,
		remora.OpKindExchangeExport: backend.SupportNative,
		remora.OpKindExchangeImport: backend.SupportNative,
	})
}

// NewTable builds an already-collected table: the materialized conversion
// path produces realized data, so wrapping it back into a deferred scan
// would misreport its evaluation state.
func (Driver) NewTable(schema remora.Schema, columns []remora.Column) (any, error) {
	if len(schema.Fields) != len(columns) {
		return nil, errors.Errorf("schema has %d fields but got %d columns", len(schema.Fields), len(columns))
	}
	return &Table{data: engine.Table{Schema: schema, Columns: columns}}, nil
}

func (Driver) Materialize(native any) (remora.Schema, []remora.Column, error) {
	t, ok := native.(*Table)
	if !ok {
		return remora.Schema{}, nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"lazytable can't materialize an uncollected %T; collect first", native)
	}
	return t.data.Schema, t.data.Columns, nil
}

func (Driver) Schema(native any) (remora.Schema, error) {
	switch typed := native.(type) {
	case *Scan:
		return typed.source.Schema, nil
	case *Table:
		return typed.data.Schema, nil
	}
	return remora.Schema{}, errors.Errorf("expected a lazytable native object, got %T", native)
}

func (Driver) Rows(native any) (int, error) {
	switch typed := native.(type) {
	case *Scan:
		return -1, nil
	case *Table:
		return typed.data.Rows(), nil
	}
	return 0, errors.Errorf("expected a lazytable native object, got %T", native)
}

// Collect executes the accumulated plan atomically. This is the only entry
// point that runs deferred computation.
func (Driver) Collect(base any, plan *remora.Plan) (any, error) {
	result, err := run(base, plan)
	if err != nil {
		return nil, err
	}
	return &Table{data: result}, nil
}

// Apply handles eager operations on already-collected tables. Pending
// frames never reach here — the dispatcher appends to their plan instead.
func (Driver) Apply(native any, op remora.Op) (any, error) {
	t, ok := native.(*Table)
	if !ok {
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"lazytable can't eagerly apply %s to an uncollected plan", op.Kind)
	}
	if op.Kind == remora.OpKindJoin {
		if op.JoinRight == nil {
			return nil, errors.Errorf("join op carries no right side")
		}
		right, err := run(op.JoinRight.Native, op.JoinRight.Plan)
		if err != nil {
			return nil, err
		}
		result, err := engine.Join(t.data, right, op.JoinOn, op.JoinHow)
		if err != nil {
			return nil, err
		}
		return &Table{data: result}, nil
	}
	result, err := engine.Apply(t.data, op)
	if err != nil {
		return nil, err
	}
	return &Table{data: result}, nil
}

// ExportExchange only works on collected tables: an unexecuted plan has no
// buffers to borrow.
func (Driver) ExportExchange(native any) ([]exchange.Column, error) {
	t, ok := native.(*Table)
	if !ok {
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"buffer exchange requires materialized data; collect the lazytable frame first")
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
				"lazytable is host-resident but column %q is %s-resident", col.Name, col.Values.Residency)
		}
		c, err := exchange.Decode(col)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't import column %q", col.Name)
		}
		decoded[i] = c
	}
	return &Table{data: engine.Table{Schema: exchange.SchemaOf(columns), Columns: decoded}}, nil
}

func (Driver) ContainsByValue(native any, column string, value remora.Value) (bool, error) {
	t, ok := native.(*Table)
	if !ok {
		return false, errors.Wrapf(remora.ErrOperationUnsupported,
			"contains requires materialized data; collect the lazytable frame first")
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
	return false, errors.Wrapf(remora.ErrOperationUnsupported,
		"contains_by_label on backend %s, which has no row-label index", backend.KindLazyTable)
}
