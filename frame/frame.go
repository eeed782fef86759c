// Package frame defines the common frame: an immutable wrapper around
// exactly one native backend object, together with its identity and
// evaluation mode. Frames are never mutated — every operation and every
// conversion yields a new frame, so two frames never share mutable state.
package frame

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
)

// Mode is the evaluation state of a frame. Eager frames hold materialized
// data; pending frames hold an unexecuted plan over a lazy backend's base
// object and only transition to eager through an explicit collect.
type Mode int

const (
	ModeEager Mode = iota
	ModePending
)

func (m Mode) String() string {
	if m == ModePending {
		return "pending"
	}
	return "eager"
}

type Frame struct {
	native any
	id     backend.Identity
	mode   Mode
	plan   *remora.Plan
}

// Wrap adopts a native backend object at the API boundary. The initial mode
// follows the backend's evaluation mode: frames of lazy backends start
// pending with an empty plan.
func Wrap(native any, kind backend.Kind) (*Frame, error) {
	d, err := backend.Get(kind)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't wrap native object")
	}
	id := d.Identity()
	f := &Frame{native: native, id: id}
	if id.Mode == backend.Lazy {
		f.mode = ModePending
	}
	return f, nil
}

// WrapEager adopts a native object that already holds realized data,
// whatever the backend's evaluation mode. Conversion results take this path:
// a frame rebuilt on a lazy backend carries a table, not a plan.
func WrapEager(native any, kind backend.Kind) (*Frame, error) {
	d, err := backend.Get(kind)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't wrap native object")
	}
	return &Frame{native: native, id: d.Identity(), mode: ModeEager}, nil
}

// Native returns the wrapped native object. For pending frames this is the
// lazy backend's base object, not a result.
func (f *Frame) Native() any {
	return f.native
}

func (f *Frame) Identity() backend.Identity {
	return f.id
}

func (f *Frame) Mode() Mode {
	return f.mode
}

// Plan returns the accumulated deferred operations of a pending frame, nil
// for eager frames.
func (f *Frame) Plan() *remora.Plan {
	return f.plan
}

// WithOp returns a new pending frame whose plan has op appended. The
// receiver is untouched; chains that share a prefix stay independent.
func (f *Frame) WithOp(op remora.Op) (*Frame, error) {
	if f.mode != ModePending {
		return nil, errors.Errorf("can't defer %s on an eager %s frame", op.Kind, f.id.Kind)
	}
	return &Frame{
		native: f.native,
		id:     f.id,
		mode:   ModePending,
		plan:   f.plan.Append(op),
	}, nil
}

// AsEager wraps an operation result produced by the same backend into a new
// eager frame.
func (f *Frame) AsEager(native any) *Frame {
	return &Frame{native: native, id: f.id, mode: ModeEager}
}
