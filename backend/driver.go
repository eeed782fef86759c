package backend

import (
	"github.com/remora-data/remora"
	"github.com/remora-data/remora/exchange"
)

// Driver is the mandatory surface every backend implements. The native
// objects it accepts and returns are opaque to the rest of the layer; only
// the driver that produced a native object ever looks inside it.
type Driver interface {
	Identity() Identity
	Capabilities() Capabilities

	// NewTable builds a native object from generic columns. This is the
	// target half of the materialized conversion path.
	NewTable(schema remora.Schema, columns []remora.Column) (any, error)

	// Materialize extracts a fully realized generic copy of a native
	// object. This is the source half of the materialized conversion path;
	// on lazy backends it requires an already-collected native object.
	Materialize(native any) (remora.Schema, []remora.Column, error)

	// Schema reports the logical schema without realizing data. Columns
	// whose native type falls outside the common type set make it fail with
	// ErrUnsupportedDType.
	Schema(native any) (remora.Schema, error)

	// Rows reports the row count, or -1 when the native object is an
	// unexecuted lazy plan.
	Rows(native any) (int, error)
}

// Applier runs a single eager operation natively. Drivers only receive ops
// their capability descriptor marks SupportNative.
type Applier interface {
	Apply(native any, op remora.Op) (any, error)
}

// Collector executes a full accumulated plan atomically against a lazy
// backend's base object, returning a materialized native object.
type Collector interface {
	Collect(base any, plan *remora.Plan) (any, error)
}

// LenientMaterializer is the lenient variant of Materialize for backends
// whose native objects can hold columns outside the common type set: those
// columns are dropped and reported instead of failing the whole extraction.
type LenientMaterializer interface {
	MaterializeLenient(native any) (remora.Schema, []remora.Column, []string, error)
}

// Exporter exposes a native object's columns through the buffer exchange
// protocol. The returned buffers borrow the native object's memory and stay
// valid only while the caller keeps the producing frame alive.
type Exporter interface {
	ExportExchange(native any) ([]exchange.Column, error)
}

// Importer builds a native object directly over exported buffers, without
// copying, when residencies allow it.
type Importer interface {
	ImportExchange(columns []exchange.Column) (any, error)
}

// MembershipTester answers the two membership-test conventions. Backends
// without a row-label index return ErrOperationUnsupported from
// ContainsByLabel.
type MembershipTester interface {
	ContainsByValue(native any, column string, value remora.Value) (bool, error)
	ContainsByLabel(native any, column string, label remora.Value) (bool, error)
}
