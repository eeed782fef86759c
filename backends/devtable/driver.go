package devtable

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/exchange"
)

const Version = "0.2.0"

type Driver struct{}

func init() {
	backend.MustRegister(Driver{})
}

func (Driver) Identity() backend.Identity {
	return backend.Identity{
		Kind:             backend.KindDevTable,
		Mode:             backend.Eager,
		Residency:        exchange.Device,
		SupportsExchange: true,
		Version:          Version,
	}
}

// The simulated device has no compute kernels: every operation is fallback,
// which means a download, the reference engine, and an upload of the
// result.
func (Driver) Capabilities() backend.Capabilities {
	return backend.NewCapabilities(backend.ContainsByValueConvention, map[remora.OpKind]backend.Support{
		remora.OpKindSelect:         backend.SupportFallback,
		remora.OpKindFilter:         backend.SupportFallback,
		remora.OpKindGroupAggregate: backend.SupportFallback,
		remora.OpKindJoin:           backend.SupportFallback,
		remora.OpKindSort:           backend.SupportFallback,
		remora.OpKindWithColumn:     backend.SupportFallback,
		remora.OpKindRename:         backend.SupportFallback,
		remora.OpKindHead:           backend.SupportFallback,
		remora.OpKindDrop:           backend.SupportFallback,
		remora.OpKindUnique:         backend.SupportFallback,
		remora.OpKindDropNulls:      backend.SupportFallback,
		remora.OpKindContains:       backend.SupportFallback,
		remora.OpKindExchangeExport: backend.SupportNative,
		remora.OpKindExchangeImport: backend.SupportNative,
	})
}

func (Driver) NewTable(schema remora.Schema, columns []remora.Column) (any, error) {
	return Upload(schema, columns)
}

func (Driver) Materialize(native any) (remora.Schema, []remora.Column, error) {
	t, err := asTable(native)
	if err != nil {
		return remora.Schema{}, nil, err
	}
	columns := make([]remora.Column, len(t.columns))
	for i := range t.columns {
		col, err := t.download(i)
		if err != nil {
			return remora.Schema{}, nil, errors.Wrapf(err, "couldn't download column %q", t.schema.Fields[i].Name)
		}
		columns[i] = col
	}
	return t.schema, columns, nil
}

func (Driver) Schema(native any) (remora.Schema, error) {
	t, err := asTable(native)
	if err != nil {
		return remora.Schema{}, err
	}
	return t.schema, nil
}

func (Driver) Rows(native any) (int, error) {
	t, err := asTable(native)
	if err != nil {
		return 0, err
	}
	return t.rows, nil
}

// ExportExchange hands out device-resident buffer handles. The handles
// borrow the table's arena allocations — they are only meaningful to
// consumers that share the device, and host consumers fail on residency.
func (Driver) ExportExchange(native any) ([]exchange.Column, error) {
	t, err := asTable(native)
	if err != nil {
		return nil, err
	}
	out := make([]exchange.Column, len(t.columns))
	for i, devCol := range t.columns {
		field := t.schema.Fields[i]
		col := exchange.Column{
			Name:     field.Name,
			Type:     field.Type,
			Nullable: field.Nullable,
			Length:   devCol.length,
			Values:   exchange.Buffer{Handle: devCol.values, Residency: exchange.Device},
		}
		if devCol.offsets != 0 {
			col.Offsets = &exchange.Buffer{Handle: devCol.offsets, Residency: exchange.Device}
		}
		if devCol.validity != 0 {
			col.Validity = &exchange.Buffer{Handle: devCol.validity, Residency: exchange.Device}
		}
		out[i] = col
	}
	return out, nil
}

// ImportExchange adopts device-resident buffers in place. Host-resident
// buffers are refused: crossing the boundary requires an explicit copy
// (Upload), never an implicit one.
func (Driver) ImportExchange(columns []exchange.Column) (any, error) {
	t := &Table{schema: exchange.SchemaOf(columns)}
	for _, col := range columns {
		if col.Values.Residency != exchange.Device {
			return nil, errors.Wrapf(remora.ErrResidencyMismatch,
				"devtable is device-resident but column %q is %s-resident and no copy was requested",
				col.Name, col.Values.Residency)
		}
		devCol := deviceColumn{length: col.Length, values: col.Values.Handle}
		if col.Offsets != nil {
			devCol.offsets = col.Offsets.Handle
		}
		if col.Validity != nil {
			devCol.validity = col.Validity.Handle
		}
		t.columns = append(t.columns, devCol)
		t.rows = col.Length
	}
	return t, nil
}

func asTable(native any) (*Table, error) {
	t, ok := native.(*Table)
	if !ok {
		return nil, errors.Errorf("expected a devtable native object, got %T", native)
	}
	return t, nil
}
