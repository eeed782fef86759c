package exchange

import (
	"unsafe"
)

// Byte views over typed slices and back. The views alias the input slice's
// memory — they are what makes host-to-host exchange a true borrow instead
// of a copy. The layout is the platform's native layout, which on every
// platform this library targets is little-endian.

func Int64Bytes(values []int64) []byte {
	if len(values) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*8)
}

func Int32Bytes(values []int32) []byte {
	if len(values) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*4)
}

func Float64Bytes(values []float64) []byte {
	if len(values) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*8)
}

func Float32Bytes(values []float32) []byte {
	if len(values) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*4)
}

func BytesInt64(buf []byte) []int64 {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&buf[0])), len(buf)/8)
}

func BytesInt32(buf []byte) []int32 {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&buf[0])), len(buf)/4)
}

func BytesFloat64(buf []byte) []float64 {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&buf[0])), len(buf)/8)
}

func BytesFloat32(buf []byte) []float32 {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&buf[0])), len(buf)/4)
}
