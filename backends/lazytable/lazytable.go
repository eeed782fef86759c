// Package lazytable is a lazy, host-resident backend. Its pending native
// object is a Scan over already-loaded columnar data; operations never touch
// it — they accumulate in the frame's plan, and only an explicit collect
// executes the whole plan atomically through the reference engine. After
// collection the native object is an eager Table that behaves like the
// reference backend.
package lazytable

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/engine"
)

// Scan is the deferred base of a pending frame.
type Scan struct {
	source engine.Table
}

// Table is a collected, materialized result.
type Table struct {
	data engine.Table
}

// NewScan wraps columnar data as a deferred scan.
func NewScan(schema remora.Schema, columns []remora.Column) (*Scan, error) {
	if len(schema.Fields) != len(columns) {
		return nil, errors.Errorf("schema has %d fields but got %d columns", len(schema.Fields), len(columns))
	}
	return &Scan{source: engine.Table{Schema: schema, Columns: columns}}, nil
}

func (t *Table) Schema() remora.Schema {
	return t.data.Schema
}

func (t *Table) Rows() int {
	return t.data.Rows()
}

// run executes a plan against a base object. Join sides are resolved
// recursively: a side carrying its own plan is executed first, so a single
// collect realizes the whole dependency tree.
func run(base any, plan *remora.Plan) (engine.Table, error) {
	var current engine.Table
	switch typed := base.(type) {
	case *Scan:
		current = typed.source
	case *Table:
		current = typed.data
	default:
		return engine.Table{}, errors.Errorf("expected a lazytable native object, got %T", base)
	}

	for _, op := range plan.Ops() {
		if op.Kind == remora.OpKindJoin {
			if op.JoinRight == nil {
				return engine.Table{}, errors.Errorf("join op carries no right side")
			}
			right, err := run(op.JoinRight.Native, op.JoinRight.Plan)
			if err != nil {
				return engine.Table{}, errors.Wrap(err, "couldn't execute join right side")
			}
			current, err = engine.Join(current, right, op.JoinOn, op.JoinHow)
			if err != nil {
				return engine.Table{}, err
			}
			continue
		}
		next, err := engine.Apply(current, op)
		if err != nil {
			return engine.Table{}, errors.Wrapf(err, "couldn't execute %s", op.Kind)
		}
		current = next
	}
	return current, nil
}
