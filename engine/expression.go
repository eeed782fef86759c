package engine

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// evalExpr evaluates a scalar expression row-wise, producing a fresh column.
// Arithmetic over integers stays Int64 except division, which is Float64;
// anything involving a float is Float64. Nulls propagate.
func evalExpr(t Table, expr remora.Expr) (remora.Column, bool, error) {
	switch e := expr.(type) {
	case remora.ColRef:
		idx := t.Schema.FieldIndex(e.Name)
		if idx == -1 {
			return remora.Column{}, false, errors.Wrapf(remora.ErrColumnNotFound, "column %q", e.Name)
		}
		return t.Columns[idx], t.Schema.Fields[idx].Nullable, nil

	case remora.Literal:
		col := remora.NewColumn(e.Value.Type, t.Rows())
		for i := 0; i < t.Rows(); i++ {
			if err := col.Append(e.Value); err != nil {
				return remora.Column{}, false, err
			}
		}
		return col, e.Value.Null, nil

	case remora.Arith:
		left, leftNullable, err := evalExpr(t, e.Left)
		if err != nil {
			return remora.Column{}, false, err
		}
		right, rightNullable, err := evalExpr(t, e.Right)
		if err != nil {
			return remora.Column{}, false, err
		}
		col, err := evalArith(left, e.Op, right)
		if err != nil {
			return remora.Column{}, false, err
		}
		return col, leftNullable || rightNullable, nil
	}
	return remora.Column{}, false, errors.Errorf("unknown expression variant %T", expr)
}

func isIntegerType(t remora.Type) bool {
	return t.TypeID == remora.TypeIDInt64 || t.TypeID == remora.TypeIDInt32
}

func isFloatType(t remora.Type) bool {
	return t.TypeID == remora.TypeIDFloat64 || t.TypeID == remora.TypeIDFloat32
}

func isNumericType(t remora.Type) bool {
	return isIntegerType(t) || isFloatType(t)
}

func numericValue(v remora.Value) float64 {
	if isIntegerType(v.Type) {
		return float64(v.Int)
	}
	return v.Float
}

func evalArith(left remora.Column, op remora.ArithOp, right remora.Column) (remora.Column, error) {
	if !isNumericType(left.Type) || !isNumericType(right.Type) {
		return remora.Column{}, errors.Wrapf(remora.ErrUnsupportedDType,
			"arithmetic over %s and %s", left.Type, right.Type)
	}
	outType := remora.Int64
	if isFloatType(left.Type) || isFloatType(right.Type) || op == remora.ArithDiv {
		outType = remora.Float64
	}
	out := remora.NewColumn(outType, left.Len())
	for i := 0; i < left.Len(); i++ {
		if !left.IsValid(i) || !right.IsValid(i) {
			if err := out.Append(remora.NewNull(outType)); err != nil {
				return remora.Column{}, err
			}
			continue
		}
		var result remora.Value
		if outType.TypeID == remora.TypeIDInt64 {
			l, r := left.Value(i).Int, right.Value(i).Int
			switch op {
			case remora.ArithAdd:
				result = remora.NewInt64(l + r)
			case remora.ArithSub:
				result = remora.NewInt64(l - r)
			case remora.ArithMul:
				result = remora.NewInt64(l * r)
			}
		} else {
			l, r := numericValue(left.Value(i)), numericValue(right.Value(i))
			switch op {
			case remora.ArithAdd:
				result = remora.NewFloat64(l + r)
			case remora.ArithSub:
				result = remora.NewFloat64(l - r)
			case remora.ArithMul:
				result = remora.NewFloat64(l * r)
			case remora.ArithDiv:
				if r == 0 {
					result = remora.NewNull(outType)
				} else {
					result = remora.NewFloat64(l / r)
				}
			}
		}
		if err := out.Append(result); err != nil {
			return remora.Column{}, err
		}
	}
	return out, nil
}
