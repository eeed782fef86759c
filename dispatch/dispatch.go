// Package dispatch exposes the common operation vocabulary and maps each
// call onto the native call sequence of whichever backend holds the frame's
// data. Operations a backend only supports via fallback are routed through
// the conversion engine to the reference backend and the result converted
// back; operations with no mapping at all fail with a named error instead of
// guessing.
package dispatch

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/convert"
	"github.com/remora-data/remora/frame"
)

// fallbackKind is the reference backend fallback-supported operations are
// routed through.
const fallbackKind = backend.KindSliceTable

func Select(f *frame.Frame, columns []string) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindSelect, Columns: columns})
}

func Filter(f *frame.Frame, predicate remora.Predicate) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindFilter, Predicate: predicate})
}

func GroupAggregate(f *frame.Frame, keys []string, aggregates []remora.Aggregate) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindGroupAggregate, GroupKeys: keys, Aggregates: aggregates})
}

func Sort(f *frame.Frame, keys []remora.SortKey) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindSort, SortKeys: keys})
}

func WithColumn(f *frame.Frame, name string, expr remora.Expr) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindWithColumn, ColumnName: name, Expr: expr})
}

func Rename(f *frame.Frame, mapping map[string]string) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindRename, Mapping: mapping})
}

func Head(f *frame.Frame, n int) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindHead, Count: n})
}

func Drop(f *frame.Frame, columns []string) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindDrop, Columns: columns})
}

func Unique(f *frame.Frame, subset []string) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindUnique, Columns: subset})
}

func DropNulls(f *frame.Frame) (*frame.Frame, error) {
	return apply(f, remora.Op{Kind: remora.OpKindDropNulls})
}

// Join joins two frames on columns present in both. A right frame of a
// different backend kind is first converted to the left's kind; the join
// itself then runs entirely inside one backend — there is no partial or
// cross-backend join. A pending right frame of the same kind as an eager
// left frame must be collected by the caller first: the dispatcher never
// collects implicitly.
func Join(left, right *frame.Frame, on []string, how remora.JoinType) (*frame.Frame, error) {
	caps, err := backend.Describe(left.Identity().Kind)
	if err != nil {
		return nil, errors.Wrap(err, "join")
	}
	if caps.Level(remora.OpKindJoin) == backend.SupportNone {
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"join on backend %s", left.Identity().Kind)
	}

	if right.Identity().Kind != left.Identity().Kind {
		converted, _, err := convert.Convert(right, left.Identity().Kind, convert.Strict)
		if err != nil {
			return nil, errors.Wrapf(err,
				"couldn't convert right frame from %s to %s for join",
				right.Identity().Kind, left.Identity().Kind)
		}
		right = converted
	}

	op := remora.Op{Kind: remora.OpKindJoin, JoinOn: on, JoinHow: how}
	if left.Mode() == frame.ModePending {
		op.JoinRight = &remora.JoinSide{Native: right.Native(), Plan: right.Plan()}
		return left.WithOp(op)
	}
	if right.Mode() == frame.ModePending {
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"joining an eager %s frame with a pending %s frame requires collecting the right frame first",
			left.Identity().Kind, right.Identity().Kind)
	}
	op.JoinRight = &remora.JoinSide{Native: right.Native()}

	if caps.Level(remora.OpKindJoin) == backend.SupportNative {
		return applyNative(left, op)
	}
	return fallbackJoin(left, right, op)
}

// Collect executes a pending frame's accumulated plan atomically against its
// backend and returns the resulting eager frame. On an already-eager frame
// it returns the frame unchanged — the plan is never re-executed.
func Collect(f *frame.Frame) (*frame.Frame, error) {
	if f.Mode() == frame.ModeEager {
		return f, nil
	}
	d, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return nil, errors.Wrap(err, "collect")
	}
	collector, ok := d.(backend.Collector)
	if !ok {
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"collect on backend %s", f.Identity().Kind)
	}
	native, err := collector.Collect(f.Native(), f.Plan())
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't collect %s frame", f.Identity().Kind)
	}
	return f.AsEager(native), nil
}

func apply(f *frame.Frame, op remora.Op) (*frame.Frame, error) {
	caps, err := backend.Describe(f.Identity().Kind)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", op.Kind)
	}
	switch caps.Level(op.Kind) {
	case backend.SupportNone:
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"%s on backend %s", op.Kind, f.Identity().Kind)
	case backend.SupportNative:
		if f.Mode() == frame.ModePending {
			return f.WithOp(op)
		}
		return applyNative(f, op)
	default:
		if f.Mode() == frame.ModePending {
			return f.WithOp(op)
		}
		return fallbackApply(f, op)
	}
}

func applyNative(f *frame.Frame, op remora.Op) (*frame.Frame, error) {
	d, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return nil, err
	}
	applier, ok := d.(backend.Applier)
	if !ok {
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"%s on backend %s", op.Kind, f.Identity().Kind)
	}
	native, err := applier.Apply(f.Native(), op)
	if err != nil {
		return nil, errors.Wrapf(err, "%s on backend %s", op.Kind, f.Identity().Kind)
	}
	return f.AsEager(native), nil
}

// fallbackApply routes an operation through the reference backend: convert,
// run natively there, convert the result back to the original kind.
func fallbackApply(f *frame.Frame, op remora.Op) (*frame.Frame, error) {
	converted, _, err := convert.Convert(f, fallbackKind, convert.Strict)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't route %s through %s", op.Kind, fallbackKind)
	}
	result, err := applyNative(converted, op)
	if err != nil {
		return nil, err
	}
	back, _, err := convert.Convert(result, f.Identity().Kind, convert.Strict)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't convert %s result back to %s", op.Kind, f.Identity().Kind)
	}
	return back, nil
}

func fallbackJoin(left, right *frame.Frame, op remora.Op) (*frame.Frame, error) {
	leftConverted, _, err := convert.Convert(left, fallbackKind, convert.Strict)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't route join through %s", fallbackKind)
	}
	rightConverted, _, err := convert.Convert(right, fallbackKind, convert.Strict)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't route join through %s", fallbackKind)
	}
	op.JoinRight = &remora.JoinSide{Native: rightConverted.Native()}
	result, err := applyNative(leftConverted, op)
	if err != nil {
		return nil, err
	}
	back, _, err := convert.Convert(result, left.Identity().Kind, convert.Strict)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't convert join result back to %s", left.Identity().Kind)
	}
	return back, nil
}
