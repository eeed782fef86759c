package exchange

// Validity bitmaps use the same packing as Arrow: bit i of byte i/8, LSB
// first, 1 = valid.

func BitIsSet(bitmap []byte, i int) bool {
	return bitmap[i/8]&(1<<(i%8)) != 0
}

func SetBit(bitmap []byte, i int) {
	bitmap[i/8] |= 1 << (i % 8)
}

func BitmapFromBools(values []bool) []byte {
	bitmap := make([]byte, (len(values)+7)/8)
	for i, v := range values {
		if v {
			SetBit(bitmap, i)
		}
	}
	return bitmap
}

func BoolsFromBitmap(bitmap []byte, length int) []bool {
	values := make([]bool, length)
	for i := range values {
		values[i] = BitIsSet(bitmap, i)
	}
	return values
}

// AllValidBitmap returns a bitmap with the first length bits set.
func AllValidBitmap(length int) []byte {
	bitmap := make([]byte, (length+7)/8)
	for i := 0; i < length; i++ {
		SetBit(bitmap, i)
	}
	return bitmap
}
