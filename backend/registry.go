package backend

import (
	"sort"
	"sync"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

// minCompatible pins the oldest driver version of each kind the layer is
// known to work with. Registration of anything older is a configuration
// error.
var minCompatible = map[Kind]string{
	KindSliceTable: "0.1.0",
	KindArrowTable: "13.0.0",
	KindDevTable:   "0.1.0",
	KindLazyTable:  "0.1.0",
}

var registry = struct {
	mu      sync.RWMutex
	drivers map[Kind]Driver
}{
	drivers: map[Kind]Driver{},
}

// Register adds a backend driver to the process-wide registry. It is meant
// to run at startup, before first use; registering an already-known kind is
// a configuration error, never a silent override.
func Register(d Driver) error {
	id := d.Identity()
	if id.Kind == KindInvalid {
		return errors.Wrap(remora.ErrUnsupportedBackend, "driver reports invalid kind")
	}
	if min, ok := minCompatible[id.Kind]; ok {
		version, err := semver.NewVersion(id.Version)
		if err != nil {
			return errors.Wrapf(err, "backend %s reports unparseable version %q", id.Kind, id.Version)
		}
		if version.LessThan(semver.MustParse(min)) {
			return errors.Wrapf(remora.ErrIncompatibleVersion,
				"backend %s version %s is older than minimum compatible %s", id.Kind, id.Version, min)
		}
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, ok := registry.drivers[id.Kind]; ok {
		return errors.Wrapf(remora.ErrDuplicateBackend, "backend %s", id.Kind)
	}
	registry.drivers[id.Kind] = d
	return nil
}

// MustRegister is Register for init-time self-registration, where a
// configuration error leaves nothing sensible to do.
func MustRegister(d Driver) {
	if err := Register(d); err != nil {
		panic(err)
	}
}

// Get looks up the driver for a kind.
func Get(kind Kind) (Driver, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	d, ok := registry.drivers[kind]
	if !ok {
		return nil, errors.Wrapf(remora.ErrUnsupportedBackend, "backend %s is not registered", kind)
	}
	return d, nil
}

// Describe returns the capability descriptor for a kind. Pure lookup, no
// side effects.
func Describe(kind Kind) (Capabilities, error) {
	d, err := Get(kind)
	if err != nil {
		return Capabilities{}, err
	}
	return d.Capabilities(), nil
}

// Kinds lists the registered kinds in a stable order.
func Kinds() []Kind {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	kinds := make([]Kind, 0, len(registry.drivers))
	for kind := range registry.drivers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
