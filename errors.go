package remora

import "github.com/pkg/errors"

// Error conditions reported by the compatibility layer. Call sites wrap these
// with the backend pair and operation involved, so callers can both match
// with errors.Is and read which combination failed.
var (
	// ErrUnsupportedBackend reports an identity that was never registered.
	ErrUnsupportedBackend = errors.New("unsupported backend")

	// ErrUnsupportedDType reports a column type outside the common type set.
	ErrUnsupportedDType = errors.New("unsupported data type")

	// ErrResidencyMismatch reports a host/device conflict between a buffer
	// producer and consumer when no copy was requested.
	ErrResidencyMismatch = errors.New("buffer residency mismatch")

	// ErrOperationUnsupported reports an operation with no native or
	// fallback mapping for the backend involved.
	ErrOperationUnsupported = errors.New("operation unsupported")

	// ErrAmbiguousSemantics reports a divergent-convention operation invoked
	// without an explicit choice of convention.
	ErrAmbiguousSemantics = errors.New("ambiguous semantics")

	// ErrSemanticMismatch reports a strict-mode rejection of a conversion
	// path known to produce incorrect values for the type involved.
	ErrSemanticMismatch = errors.New("semantic mismatch")

	// ErrNotSupported reports a backend that doesn't implement the buffer
	// exchange protocol.
	ErrNotSupported = errors.New("buffer exchange not supported")

	// ErrDuplicateBackend reports a second registration for an
	// already-known identity.
	ErrDuplicateBackend = errors.New("backend already registered")

	// ErrIncompatibleVersion reports a backend older than the minimum
	// version the layer is known to work with.
	ErrIncompatibleVersion = errors.New("incompatible backend version")

	// ErrColumnNotFound reports a reference to a column the frame doesn't
	// have.
	ErrColumnNotFound = errors.New("column not found")
)
