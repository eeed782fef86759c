package remora

import "strings"

type OpKind int

const (
	OpKindInvalid OpKind = iota
	OpKindSelect
	OpKindFilter
	OpKindGroupAggregate
	OpKindJoin
	OpKindSort
	OpKindWithColumn
	OpKindRename
	OpKindHead
	OpKindDrop
	OpKindUnique
	OpKindDropNulls
	OpKindContains
	OpKindCollect
	OpKindExchangeExport
	OpKindExchangeImport
)

func (k OpKind) String() string {
	switch k {
	case OpKindSelect:
		return "select"
	case OpKindFilter:
		return "filter"
	case OpKindGroupAggregate:
		return "group_aggregate"
	case OpKindJoin:
		return "join"
	case OpKindSort:
		return "sort"
	case OpKindWithColumn:
		return "with_column"
	case OpKindRename:
		return "rename"
	case OpKindHead:
		return "head"
	case OpKindDrop:
		return "drop"
	case OpKindUnique:
		return "unique"
	case OpKindDropNulls:
		return "drop_nulls"
	case OpKindContains:
		return "contains"
	case OpKindCollect:
		return "collect"
	case OpKindExchangeExport:
		return "exchange_export"
	case OpKindExchangeImport:
		return "exchange_import"
	}
	return "invalid"
}

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
)

func (t JoinType) String() string {
	if t == JoinLeft {
		return "left"
	}
	return "inner"
}

type SortKey struct {
	Column     string
	Descending bool
}

type AggregateKind int

const (
	AggregateSum AggregateKind = iota
	AggregateCount
	AggregateMin
	AggregateMax
	AggregateAvg
)

func (k AggregateKind) String() string {
	switch k {
	case AggregateSum:
		return "sum"
	case AggregateCount:
		return "count"
	case AggregateMin:
		return "min"
	case AggregateMax:
		return "max"
	case AggregateAvg:
		return "avg"
	}
	return "invalid"
}

// Aggregate describes one aggregation of a group-aggregate operation. As
// names the output column; when empty it defaults to "<kind>_<column>".
type Aggregate struct {
	Column string
	Kind   AggregateKind
	As     string
}

func (a Aggregate) OutputName() string {
	if a.As != "" {
		return a.As
	}
	return a.Kind.String() + "_" + a.Column
}

// JoinSide carries the right-hand side of a deferred join. Native is the
// right frame's native object (already of the same backend kind as the left
// frame); Plan is non-nil when the right side is itself still pending.
type JoinSide struct {
	Native any
	Plan   *Plan
}

// Op is one deferred operation node. Only the fields relevant to Kind are
// set.
type Op struct {
	Kind OpKind

	Columns    []string
	Predicate  Predicate
	GroupKeys  []string
	Aggregates []Aggregate
	SortKeys   []SortKey
	JoinOn     []string
	JoinHow    JoinType
	JoinRight  *JoinSide
	ColumnName string
	Expr       Expr
	Mapping    map[string]string
	Count      int
}

// Plan is a persistent chain of deferred operations. Appending returns a new
// node pointing back at the previous one; no node is ever mutated, so plans
// that share a prefix never interfere.
type Plan struct {
	prev *Plan
	op   Op
}

// Append returns a new plan with op at its tail. The receiver may be nil,
// which denotes the empty plan.
func (p *Plan) Append(op Op) *Plan {
	return &Plan{prev: p, op: op}
}

// Ops returns the operations in execution order.
func (p *Plan) Ops() []Op {
	var depth int
	for node := p; node != nil; node = node.prev {
		depth++
	}
	ops := make([]Op, depth)
	for node := p; node != nil; node = node.prev {
		depth--
		ops[depth] = node.op
	}
	return ops
}

func (p *Plan) Len() int {
	var n int
	for node := p; node != nil; node = node.prev {
		n++
	}
	return n
}

func (p *Plan) String() string {
	ops := p.Ops()
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.Kind.String()
	}
	return strings.Join(parts, " -> ")
}
