// Package exchange defines the buffer exchange protocol: the minimal
// structural contract a backend implements to expose its columns without a
// copy. Exported buffers are borrowed, never owned — they stay valid only as
// long as the frame that produced them, and the consumer must not use them
// past that point. A consumer that needs a longer lifetime copies
// explicitly.
package exchange

import (
	"github.com/pkg/errors"

	"github.com/remora-data/remora"
)

type Residency int

const (
	Host Residency = iota
	Device
)

func (r Residency) String() string {
	if r == Device {
		return "device"
	}
	return "host"
}

// Buffer locates one contiguous buffer. For Host residency Bytes aliases the
// producer's memory directly. For Device residency Bytes is nil and Handle is
// an opaque reference into the producing backend's device allocator.
type Buffer struct {
	Bytes     []byte
	Handle    uint64
	Residency Residency
}

// Column describes one exported column.
//
// Buffer layout per logical type:
//   - Int64, Float64, Time: 8-byte little-endian values in Values.
//   - Int32, Float32, Categorical (dictionary codes): 4-byte little-endian
//     values in Values; the categorical dictionary travels in Type.
//   - Boolean: bit-per-row in Values, same packing as the validity bitmap.
//   - String: UTF-8 bytes in Values, int32 little-endian offsets (length+1
//     entries) in Offsets.
//
// Validity, when present, is one bit per row with 1 = valid. A nil Validity
// means every row is valid.
type Column struct {
	Name     string
	Type     remora.Type
	Nullable bool
	Length   int
	Values   Buffer
	Offsets  *Buffer
	Validity *Buffer
}

// Validate checks the structural invariants of an exported column.
func (c Column) Validate() error {
	switch c.Type.TypeID {
	case remora.TypeIDInt64, remora.TypeIDInt32, remora.TypeIDFloat64,
		remora.TypeIDFloat32, remora.TypeIDBoolean, remora.TypeIDCategorical,
		remora.TypeIDTime:
		if c.Offsets != nil {
			return errors.Errorf("column %q: fixed-width type %s must not carry offsets", c.Name, c.Type)
		}
	case remora.TypeIDString:
		if c.Offsets == nil {
			return errors.Errorf("column %q: string column must carry offsets", c.Name)
		}
	default:
		return errors.Wrapf(remora.ErrUnsupportedDType, "column %q has type %s", c.Name, c.Type)
	}
	if width := c.Type.FixedWidth(); width > 0 && c.Values.Residency == Host {
		if got, want := len(c.Values.Bytes), c.Length*width; got < want {
			return errors.Errorf("column %q: values buffer holds %d bytes, need %d", c.Name, got, want)
		}
	}
	return nil
}
