package remora

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnAppendAndValue(t *testing.T) {
	col := NewColumn(Int64, 0)
	require.NoError(t, col.Append(NewInt64(1)))
	require.NoError(t, col.Append(NewInt64(2)))
	assert.Nil(t, col.Valid)

	require.NoError(t, col.Append(NewNull(Int64)))
	require.NoError(t, col.Append(NewInt64(4)))

	require.Equal(t, 4, col.Len())
	assert.Equal(t, NewInt64(1), col.Value(0))
	assert.True(t, col.Value(2).Null)
	assert.Equal(t, NewInt64(4), col.Value(3))

	// The validity slice is materialized lazily and backfills earlier rows.
	require.Len(t, col.Valid, 4)
	assert.True(t, col.IsValid(0))
	assert.False(t, col.IsValid(2))
}

func TestColumnCategorical(t *testing.T) {
	fruit := Categorical([]string{"apple", "banana"})

	col := NewColumn(fruit, 0)
	require.NoError(t, col.Append(NewCategorical(fruit, "banana")))
	require.NoError(t, col.Append(NewCategorical(fruit, "apple")))
	assert.Equal(t, []int32{1, 0}, col.Ints32)

	err := col.Append(NewCategorical(fruit, "cherry"))
	require.Error(t, err)
}

func TestColumnTime(t *testing.T) {
	instant := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	col := NewColumn(Time, 0)
	require.NoError(t, col.Append(NewTime(instant)))
	assert.Equal(t, NewTime(instant), col.Value(0))
	assert.Equal(t, instant.UnixNano(), col.Ints[0])
}

func TestColumnTake(t *testing.T) {
	col := NewColumn(String, 0)
	for _, s := range []string{"a", "b", "c", "d"} {
		require.NoError(t, col.Append(NewString(s)))
	}
	require.NoError(t, col.Append(NewNull(String)))

	out := col.Take([]int{4, 2, 0})
	require.Equal(t, 3, out.Len())
	assert.True(t, out.Value(0).Null)
	assert.Equal(t, NewString("c"), out.Value(1))
	assert.Equal(t, NewString("a"), out.Value(2))
}

func TestColumnEqualData(t *testing.T) {
	a := NewColumn(Float64, 0)
	b := NewColumn(Float64, 0)
	for _, v := range []float64{1.5, 2.5} {
		require.NoError(t, a.Append(NewFloat64(v)))
		require.NoError(t, b.Append(NewFloat64(v)))
	}
	assert.True(t, a.EqualData(b))

	require.NoError(t, a.Append(NewNull(Float64)))
	require.NoError(t, b.Append(NewFloat64(0)))
	assert.False(t, a.EqualData(b))
}
