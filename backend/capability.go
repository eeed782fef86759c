package backend

import "github.com/remora-data/remora"

// Support says how a backend covers an operation: natively, only by routing
// through a conversion to the reference backend, or not at all.
type Support int

const (
	SupportNone Support = iota
	SupportFallback
	SupportNative
)

func (s Support) String() string {
	switch s {
	case SupportNative:
		return "native"
	case SupportFallback:
		return "fallback"
	}
	return "none"
}

// ContainsConvention declares which membership-test convention a backend's
// native contains follows. Divergent backends keep a row-label index separate
// from column values, so the two conventions can disagree and a generic
// contains call is ambiguous.
type ContainsConvention int

const (
	ContainsByValueConvention ContainsConvention = iota
	ContainsByLabelConvention
	ContainsDivergent
)

func (c ContainsConvention) String() string {
	switch c {
	case ContainsByLabelConvention:
		return "by-label"
	case ContainsDivergent:
		return "divergent"
	}
	return "by-value"
}

// Capabilities is a backend's immutable capability descriptor. It is built
// once at registration and only read afterwards.
type Capabilities struct {
	levels   map[remora.OpKind]Support
	contains ContainsConvention
}

func NewCapabilities(contains ContainsConvention, levels map[remora.OpKind]Support) Capabilities {
	copied := make(map[remora.OpKind]Support, len(levels))
	for op, level := range levels {
		copied[op] = level
	}
	return Capabilities{levels: copied, contains: contains}
}

func (c Capabilities) Level(op remora.OpKind) Support {
	return c.levels[op]
}

func (c Capabilities) Contains() ContainsConvention {
	return c.contains
}

// Operations lists the operations with at least fallback support, for
// diagnostics.
func (c Capabilities) Operations() []remora.OpKind {
	ops := make([]remora.OpKind, 0, len(c.levels))
	for op, level := range c.levels {
		if level > SupportNone {
			ops = append(ops, op)
		}
	}
	return ops
}
