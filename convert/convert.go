// Package convert is the conversion engine: it moves a frame's data to
// another backend, zero-copy through the buffer exchange protocol when both
// sides support it and residencies match, otherwise through a full
// materialize-then-rebuild, and records which path was actually taken.
package convert

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/exchange"
	"github.com/remora-data/remora/frame"
)

// Mode selects how the engine treats conversion paths known to produce
// incorrect or degraded values. Strict fails fast; lenient proceeds
// best-effort and surfaces that it did so through the logger.
type Mode int

const (
	Strict Mode = iota
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

type options struct {
	logger *zap.Logger
}

type Option func(*options)

// WithLogger sets the logger lenient-mode degradations are surfaced on.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Convert moves f's data into a new frame of the target kind. It is total
// over registered backend pairs: it either returns a fully converted frame
// plus the record of the path taken, or a named error — never a partially
// converted frame. The source frame is untouched either way.
func Convert(f *frame.Frame, target backend.Kind, mode Mode, opts ...Option) (*frame.Frame, *Record, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	sourceDriver, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "convert from %s to %s", f.Identity().Kind, target)
	}
	targetDriver, err := backend.Get(target)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "convert from %s to %s", f.Identity().Kind, target)
	}
	sourceID := f.Identity()
	targetID := targetDriver.Identity()

	schema, schemaErr := sourceDriver.Schema(f.Native())
	if schemaErr != nil {
		if mode == Strict || !errors.Is(schemaErr, remora.ErrUnsupportedDType) {
			return nil, nil, errors.Wrapf(schemaErr, "convert from %s to %s", sourceID.Kind, target)
		}
		o.logger.Warn("converting with out-of-set columns dropped",
			zap.String("source", sourceID.Kind.String()),
			zap.String("target", target.String()),
			zap.String("cause", schemaErr.Error()))
	} else if reason, unreliableType, ok := unreliableReason(sourceID.Kind, target, schema); ok {
		if mode == Strict {
			return nil, nil, errors.Wrapf(remora.ErrSemanticMismatch,
				"converting %s from %s to %s is known to be unreliable: %s",
				unreliableType, sourceID.Kind, target, reason)
		}
		o.logger.Warn("taking a best-effort conversion path",
			zap.String("source", sourceID.Kind.String()),
			zap.String("target", target.String()),
			zap.String("type", unreliableType.String()),
			zap.String("reason", reason))
	}

	start := time.Now()

	// Conversion always yields realized data, so the result is eager even
	// when the target backend is lazy.
	if native, ok := tryZeroCopy(f, sourceDriver, targetDriver); ok {
		out, err := frame.WrapEager(native, target)
		if err != nil {
			return nil, nil, err
		}
		record := newRecord(sourceID, targetID, PathZeroCopy, time.Since(start))
		return out, record, nil
	}

	native, err := materialize(f, sourceDriver, targetDriver, mode, o.logger)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "convert from %s to %s", sourceID.Kind, target)
	}
	out, err := frame.WrapEager(native, target)
	if err != nil {
		return nil, nil, err
	}
	record := newRecord(sourceID, targetID, PathMaterialized, time.Since(start))
	return out, record, nil
}

// tryZeroCopy attempts the exchange path. Any failure simply falls back to
// the materialized path: the export side is allowed to refuse columns it
// can't expose as borrowable buffers.
func tryZeroCopy(f *frame.Frame, sourceDriver, targetDriver backend.Driver) (any, bool) {
	sourceID := f.Identity()
	targetID := targetDriver.Identity()
	if !sourceID.SupportsExchange || !targetID.SupportsExchange {
		return nil, false
	}
	if sourceID.Residency != targetID.Residency {
		return nil, false
	}
	if f.Mode() != frame.ModeEager {
		return nil, false
	}
	exporter, ok := sourceDriver.(backend.Exporter)
	if !ok {
		return nil, false
	}
	importer, ok := targetDriver.(backend.Importer)
	if !ok {
		return nil, false
	}
	columns, err := exporter.ExportExchange(f.Native())
	if err != nil {
		return nil, false
	}
	native, err := importer.ImportExchange(columns)
	if err != nil {
		return nil, false
	}
	return native, true
}

func materialize(f *frame.Frame, sourceDriver, targetDriver backend.Driver, mode Mode, logger *zap.Logger) (any, error) {
	native := f.Native()
	if f.Mode() == frame.ModePending {
		collector, ok := sourceDriver.(backend.Collector)
		if !ok {
			return nil, errors.Wrapf(remora.ErrOperationUnsupported,
				"backend %s holds a pending plan but can't collect", f.Identity().Kind)
		}
		collected, err := collector.Collect(native, f.Plan())
		if err != nil {
			return nil, errors.Wrap(err, "couldn't collect pending frame")
		}
		native = collected
	}

	var schema remora.Schema
	var columns []remora.Column
	var err error
	if mode == Lenient {
		if lenient, ok := sourceDriver.(backend.LenientMaterializer); ok {
			var dropped []string
			schema, columns, dropped, err = lenient.MaterializeLenient(native)
			if err == nil && len(dropped) > 0 {
				logger.Warn("dropped columns outside the common type set",
					zap.Strings("columns", dropped),
					zap.String("source", f.Identity().Kind.String()))
			}
		} else {
			schema, columns, err = sourceDriver.Materialize(native)
		}
	} else {
		schema, columns, err = sourceDriver.Materialize(native)
	}
	if err != nil {
		return nil, errors.Wrap(err, "couldn't materialize source frame")
	}

	// The rebuilt frame must own its data outright: Materialize is allowed
	// to return columns that still view the source's buffers.
	owned := make([]remora.Column, len(columns))
	var g errgroup.Group
	for i := range columns {
		i := i
		g.Go(func() error {
			owned[i] = copyColumn(columns[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return targetDriver.NewTable(schema, owned)
}

func copyColumn(c remora.Column) remora.Column {
	out := remora.Column{Type: c.Type}
	if c.Ints != nil {
		out.Ints = append([]int64(nil), c.Ints...)
	}
	if c.Ints32 != nil {
		out.Ints32 = append([]int32(nil), c.Ints32...)
	}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Flts32 != nil {
		out.Flts32 = append([]float32(nil), c.Flts32...)
	}
	if c.Bools != nil {
		out.Bools = append([]bool(nil), c.Bools...)
	}
	if c.Strs != nil {
		out.Strs = append([]string(nil), c.Strs...)
	}
	if c.Valid != nil {
		out.Valid = append([]bool(nil), c.Valid...)
	}
	return out
}

// ToExchange exposes a frame's columns through the buffer exchange protocol.
// The returned descriptors borrow the frame's buffers: they stay valid only
// while the caller keeps the frame alive, and must not be used after.
func ToExchange(f *frame.Frame) ([]exchange.Column, error) {
	if !f.Identity().SupportsExchange {
		return nil, errors.Wrapf(remora.ErrNotSupported,
			"backend %s doesn't implement the buffer exchange protocol", f.Identity().Kind)
	}
	d, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return nil, err
	}
	exporter, ok := d.(backend.Exporter)
	if !ok {
		return nil, errors.Wrapf(remora.ErrNotSupported,
			"backend %s doesn't implement the buffer exchange protocol", f.Identity().Kind)
	}
	if f.Mode() == frame.ModePending {
		return nil, errors.Wrapf(remora.ErrOperationUnsupported,
			"buffer exchange requires materialized data, but the %s frame holds an uncollected plan", f.Identity().Kind)
	}
	return exporter.ExportExchange(f.Native())
}
