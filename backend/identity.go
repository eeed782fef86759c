// Package backend defines backend identities, their capability descriptors,
// the driver surface a backend implements, and the process-wide registry
// they are registered into at startup.
package backend

import "github.com/remora-data/remora/exchange"

// Kind is the closed enumeration of known backend kinds. Adding a backend
// means adding a variant here together with its driver, capabilities, and
// minimum compatible version — the dispatcher's behavior stays fully
// enumerable.
type Kind int

const (
	KindInvalid Kind = iota
	KindSliceTable
	KindArrowTable
	KindDevTable
	KindLazyTable
)

func (k Kind) String() string {
	switch k {
	case KindSliceTable:
		return "slicetable"
	case KindArrowTable:
		return "arrowtable"
	case KindDevTable:
		return "devtable"
	case KindLazyTable:
		return "lazytable"
	}
	return "invalid"
}

// KindFromString maps a configuration name back to a Kind.
func KindFromString(name string) (Kind, bool) {
	switch name {
	case "slicetable":
		return KindSliceTable, true
	case "arrowtable":
		return KindArrowTable, true
	case "devtable":
		return KindDevTable, true
	case "lazytable":
		return KindLazyTable, true
	}
	return KindInvalid, false
}

type EvalMode int

const (
	Eager EvalMode = iota
	Lazy
)

func (m EvalMode) String() string {
	if m == Lazy {
		return "lazy"
	}
	return "eager"
}

// Identity describes a backend kind's fixed traits.
type Identity struct {
	Kind             Kind
	Mode             EvalMode
	Residency        exchange.Residency
	SupportsExchange bool
	Version          string
}
