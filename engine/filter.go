package engine

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// FilterMask evaluates the predicate into a keep-mask without gathering,
// for callers that apply the selection through their own kernels.
func FilterMask(t Table, predicate remora.Predicate) ([]bool, error) {
	return evalPredicate(t, predicate)
}

func Filter(t Table, predicate remora.Predicate) (Table, error) {
	mask, err := evalPredicate(t, predicate)
	if err != nil {
		return Table{}, errors.Wrap(err, "couldn't evaluate filter predicate")
	}
	var indices []int
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return t.take(indices), nil
}

// evalPredicate returns a keep-mask over the table's rows. Comparisons
// against null are false, matching SQL-style three-valued logic collapsed to
// the kept/dropped boundary.
func evalPredicate(t Table, predicate remora.Predicate) ([]bool, error) {
	switch p := predicate.(type) {
	case remora.Compare:
		col, err := t.column(p.Column)
		if err != nil {
			return nil, err
		}
		mask := make([]bool, t.Rows())
		for i := range mask {
			if !col.IsValid(i) {
				continue
			}
			cmp := col.Value(i).Compare(p.Value)
			switch p.Op {
			case remora.CompareEq:
				mask[i] = cmp == 0
			case remora.CompareNotEq:
				mask[i] = cmp != 0
			case remora.CompareLess:
				mask[i] = cmp < 0
			case remora.CompareLessEq:
				mask[i] = cmp <= 0
			case remora.CompareGreater:
				mask[i] = cmp > 0
			case remora.CompareGreaterEq:
				mask[i] = cmp >= 0
			}
		}
		return mask, nil

	case remora.And:
		left, err := evalPredicate(t, p.Left)
		if err != nil {
			return nil, err
		}
		right, err := evalPredicate(t, p.Right)
		if err != nil {
			return nil, err
		}
		for i := range left {
			left[i] = left[i] && right[i]
		}
		return left, nil

	case remora.Or:
		left, err := evalPredicate(t, p.Left)
		if err != nil {
			return nil, err
		}
		right, err := evalPredicate(t, p.Right)
		if err != nil {
			return nil, err
		}
		for i := range left {
			left[i] = left[i] || right[i]
		}
		return left, nil

	case remora.Not:
		mask, err := evalPredicate(t, p.Inner)
		if err != nil {
			return nil, err
		}
		for i := range mask {
			mask[i] = !mask[i]
		}
		return mask, nil

	case remora.IsNull:
		col, err := t.column(p.Column)
		if err != nil {
			return nil, err
		}
		mask := make([]bool, t.Rows())
		for i := range mask {
			mask[i] = !col.IsValid(i)
		}
		return mask, nil
	}
	return nil, errors.Errorf("unknown predicate variant %T", predicate)
}
