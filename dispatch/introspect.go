package dispatch

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/frame"
)

// Schema reports a frame's logical schema. For pending frames this reflects
// the base object, not the plan's output — schema inference over unexecuted
// plans is not part of the common vocabulary.
func Schema(f *frame.Frame) (remora.Schema, error) {
	d, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return remora.Schema{}, errors.Wrap(err, "schema")
	}
	return d.Schema(f.Native())
}

func Columns(f *frame.Frame) ([]string, error) {
	schema, err := Schema(f)
	if err != nil {
		return nil, err
	}
	return schema.Names(), nil
}

// Shape returns (rows, columns). Rows is -1 for pending frames, whose row
// count is unknown without executing the plan.
func Shape(f *frame.Frame) (int, int, error) {
	schema, err := Schema(f)
	if err != nil {
		return 0, 0, err
	}
	if f.Mode() == frame.ModePending {
		return -1, len(schema.Fields), nil
	}
	d, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return 0, 0, err
	}
	rows, err := d.Rows(f.Native())
	if err != nil {
		return 0, 0, err
	}
	return rows, len(schema.Fields), nil
}

// Rows extracts an eager frame's data row-major, for consumption at the API
// boundary.
func Rows(f *frame.Frame) ([][]remora.Value, error) {
	if f.Mode() == frame.ModePending {
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"rows requires materialized data, but the %s frame holds an uncollected plan; call Collect first",
			f.Identity().Kind)
	}
	d, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	_, columns, err := d.Materialize(f.Native())
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't materialize %s frame", f.Identity().Kind)
	}
	if len(columns) == 0 {
		return nil, nil
	}
	out := make([][]remora.Value, columns[0].Len())
	for row := range out {
		out[row] = make([]remora.Value, len(columns))
		for i := range columns {
			out[row][i] = columns[i].Value(row)
		}
	}
	return out, nil
}
