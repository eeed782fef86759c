package exchange

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remora-data/remora"
)

func TestBitmapRoundtrip(t *testing.T) {
	bools := []bool{true, false, true, true, false, false, true, false, true}

	bitmap := BitmapFromBools(bools)
	require.Len(t, bitmap, 2)
	assert.True(t, BitIsSet(bitmap, 0))
	assert.False(t, BitIsSet(bitmap, 1))
	assert.True(t, BitIsSet(bitmap, 8))

	assert.Equal(t, bools, BoolsFromBitmap(bitmap, len(bools)))
}

func TestEncodeFixedWidthBorrows(t *testing.T) {
	col := remora.Column{Type: remora.Int64, Ints: []int64{1, 2, 3}}

	encoded, err := Encode("x", col, false)
	require.NoError(t, err)
	require.NoError(t, encoded.Validate())
	assert.Equal(t, 3, encoded.Length)
	assert.Nil(t, encoded.Validity)

	// The values buffer is a view over the source slice, not a copy.
	col.Ints[1] = 42
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 42, 3}, decoded.Ints)
}

func TestEncodeDecodeStrings(t *testing.T) {
	col := remora.Column{
		Type:  remora.String,
		Strs:  []string{"ab", "", "cde"},
		Valid: []bool{true, false, true},
	}

	encoded, err := Encode("s", col, true)
	require.NoError(t, err)
	require.NotNil(t, encoded.Offsets)
	require.NotNil(t, encoded.Validity)
	require.NoError(t, encoded.Validate())

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.True(t, col.EqualData(decoded))
}

func TestEncodeDecodeBooleans(t *testing.T) {
	col := remora.Column{Type: remora.Boolean, Bools: []bool{true, false, true, true}}

	encoded, err := Encode("b", col, false)
	require.NoError(t, err)
	// Booleans are bit-packed in the protocol layout.
	require.Len(t, encoded.Values.Bytes, 1)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, col.Bools, decoded.Bools)
}

func TestDecodeDeviceBufferFails(t *testing.T) {
	c := Column{
		Name:   "gpu",
		Type:   remora.Int64,
		Length: 2,
		Values: Buffer{Handle: 7, Residency: Device},
	}

	_, err := Decode(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, remora.ErrResidencyMismatch))
}

func TestEncodeTimeColumn(t *testing.T) {
	col := remora.Column{Type: remora.Time, Ints: []int64{1000, 2000}}

	encoded, err := Encode("ts", col, false)
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, col.Ints, decoded.Ints)
}

func TestSchemaOf(t *testing.T) {
	cols := []Column{
		{Name: "a", Type: remora.Int64, Nullable: true},
		{Name: "b", Type: remora.String},
	}
	schema := SchemaOf(cols)
	require.Len(t, schema.Fields, 2)
	assert.Equal(t, "a", schema.Fields[0].Name)
	assert.True(t, schema.Fields[0].Nullable)
	assert.Equal(t, remora.String, schema.Fields[1].Type)
}
