package remora

import "fmt"

// Predicate is a filter condition over a single frame's columns. The set of
// variants is closed; every backend mapping enumerates exactly these.
//
//go-sumtype:decl Predicate
type Predicate interface {
	predicate()
	fmt.Stringer
}

type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareNotEq
	CompareLess
	CompareLessEq
	CompareGreater
	CompareGreaterEq
)

func (op CompareOp) String() string {
	switch op {
	case CompareEq:
		return "="
	case CompareNotEq:
		return "!="
	case CompareLess:
		return "<"
	case CompareLessEq:
		return "<="
	case CompareGreater:
		return ">"
	case CompareGreaterEq:
		return ">="
	}
	return "?"
}

type Compare struct {
	Column string
	Op     CompareOp
	Value  Value
}

func (Compare) predicate() {}
func (p Compare) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Column, p.Op, p.Value)
}

type And struct {
	Left, Right Predicate
}

func (And) predicate() {}
func (p And) String() string {
	return fmt.Sprintf("(%s AND %s)", p.Left, p.Right)
}

type Or struct {
	Left, Right Predicate
}

func (Or) predicate() {}
func (p Or) String() string {
	return fmt.Sprintf("(%s OR %s)", p.Left, p.Right)
}

type Not struct {
	Inner Predicate
}

func (Not) predicate() {}
func (p Not) String() string {
	return fmt.Sprintf("(NOT %s)", p.Inner)
}

// IsNull matches rows where the column is null.
type IsNull struct {
	Column string
}

func (IsNull) predicate() {}
func (p IsNull) String() string {
	return fmt.Sprintf("(%s IS NULL)", p.Column)
}

// Expr is a scalar expression for derived columns.
//
//go-sumtype:decl Expr
type Expr interface {
	expr()
	fmt.Stringer
}

type ColRef struct {
	Name string
}

func (ColRef) expr() {}
func (e ColRef) String() string {
	return e.Name
}

type Literal struct {
	Value Value
}

func (Literal) expr() {}
func (e Literal) String() string {
	return e.Value.String()
}

type ArithOp int

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
)

func (op ArithOp) String() string {
	switch op {
	case ArithAdd:
		return "+"
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	case ArithDiv:
		return "/"
	}
	return "?"
}

type Arith struct {
	Left  Expr
	Op    ArithOp
	Right Expr
}

func (Arith) expr() {}
func (e Arith) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}
