package convert

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/remora-data/remora/backend"
)

type Path int

const (
	PathZeroCopy Path = iota
	PathMaterialized
)

func (p Path) String() string {
	if p == PathMaterialized {
		return "materialized"
	}
	return "zero-copy"
}

// CostClass buckets a conversion's elapsed time. Diagnostics only — nothing
// branches on it.
type CostClass int

const (
	CostTrivial CostClass = iota
	CostModerate
	CostHeavy
)

func (c CostClass) String() string {
	switch c {
	case CostModerate:
		return "moderate"
	case CostHeavy:
		return "heavy"
	}
	return "trivial"
}

func classifyCost(elapsed time.Duration) CostClass {
	switch {
	case elapsed < time.Millisecond:
		return CostTrivial
	case elapsed < 100*time.Millisecond:
		return CostModerate
	default:
		return CostHeavy
	}
}

// Record documents one performed conversion.
type Record struct {
	ID      ulid.ULID
	Source  backend.Identity
	Target  backend.Identity
	Path    Path
	Cost    CostClass
	Elapsed time.Duration
}

func newRecord(source, target backend.Identity, path Path, elapsed time.Duration) *Record {
	return &Record{
		ID:      ulid.MustNew(ulid.Now(), rand.Reader),
		Source:  source,
		Target:  target,
		Path:    path,
		Cost:    classifyCost(elapsed),
		Elapsed: elapsed,
	}
}

func (r *Record) String() string {
	return fmt.Sprintf("%s: %s -> %s via %s (%s)", r.ID, r.Source.Kind, r.Target.Kind, r.Path, r.Cost)
}
