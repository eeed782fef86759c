package dispatch

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/convert"
	"github.com/remora-data/remora/frame"
)

// Contains is the generic membership test. Backend conventions genuinely
// differ here: one family tests against the frame's row-label index, another
// against column values. The dispatcher never converts between the two
// silently — on a backend where the conventions can disagree the caller must
// pick ContainsByLabel or ContainsByValue explicitly.
func Contains(f *frame.Frame, column string, value remora.Value) (bool, error) {
	caps, err := backend.Describe(f.Identity().Kind)
	if err != nil {
		return false, errors.Wrap(err, "contains")
	}
	switch caps.Contains() {
	case backend.ContainsDivergent:
		return false, errors.Wrapf(remora.ErrAmbiguousSemantics,
			"contains on backend %s tests either the row-label index or column values; call ContainsByLabel or ContainsByValue",
			f.Identity().Kind)
	case backend.ContainsByLabelConvention:
		return ContainsByLabel(f, column, value)
	default:
		return ContainsByValue(f, column, value)
	}
}

// ContainsByValue tests whether value occurs among the column's values.
func ContainsByValue(f *frame.Frame, column string, value remora.Value) (bool, error) {
	if err := requireMaterialized(f); err != nil {
		return false, err
	}
	d, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return false, err
	}
	if tester, ok := d.(backend.MembershipTester); ok {
		return tester.ContainsByValue(f.Native(), column, value)
	}

	// No native membership test: route through the reference backend.
	converted, _, err := convert.Convert(f, fallbackKind, convert.Strict)
	if err != nil {
		return false, errors.Wrapf(err, "couldn't route contains through %s", fallbackKind)
	}
	fallbackDriver, err := backend.Get(fallbackKind)
	if err != nil {
		return false, err
	}
	return fallbackDriver.(backend.MembershipTester).ContainsByValue(converted.Native(), column, value)
}

// ContainsByLabel tests whether label occurs in the frame's row-label index.
// Labels are native backend state that doesn't survive conversion, so there
// is no fallback path: backends without a label index fail.
func ContainsByLabel(f *frame.Frame, column string, label remora.Value) (bool, error) {
	if err := requireMaterialized(f); err != nil {
		return false, err
	}
	d, err := backend.Get(f.Identity().Kind)
	if err != nil {
		return false, err
	}
	tester, ok := d.(backend.MembershipTester)
	if !ok {
		return false, errors.Wrapf(remora.ErrOperationUnsupported,
			"contains_by_label on backend %s, which has no row-label index", f.Identity().Kind)
	}
	return tester.ContainsByLabel(f.Native(), column, label)
}

func requireMaterialized(f *frame.Frame) error {
	if f.Mode() == frame.ModePending {
		return errors.Wrapf(remora.ErrOperationUnsupported,
			"contains requires materialized data, but the %s frame holds an uncollected plan; call Collect first",
			f.Identity().Kind)
	}
	return nil
}
