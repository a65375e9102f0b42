//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrow_Fits(t *testing.T) {
	u, err := Narrow[uint32](123)
	require.NoError(t, err)
	assert.Equal(t, uint32(123), u)

	i, err := Narrow[int](uint32(math.MaxUint32))
	require.NoError(t, err)
	assert.Equal(t, math.MaxUint32, i)

	d, err := Narrow[int](uint32(300))
	require.NoError(t, err)
	assert.Equal(t, 300, d)
}

func TestNarrow_Overflow(t *testing.T) {
	_, err := Narrow[uint64](-1)
	assert.ErrorContains(t, err, "integer overflow")

	_, err = Narrow[uint32](uint64(math.MaxUint32) + 1)
	assert.Error(t, err)

	// A row count read from a corrupt header.
	_, err = Narrow[int](uint64(math.MaxUint64))
	assert.Error(t, err)

	_, err = Narrow[uint8](256)
	assert.Error(t, err)
}

func TestMulInt(t *testing.T) {
	// Projection matrix bytes for d=100.
	got, err := MulInt(100, 100, 4)
	require.NoError(t, err)
	assert.Equal(t, 40000, got)

	got, err = MulInt()
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = MulInt(math.MaxInt, 0)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = MulInt(math.MaxInt/2+1, 2)
	assert.Error(t, err)

	_, err = MulInt(3, -1)
	assert.ErrorContains(t, err, "negative factor")
}

func TestAddInt(t *testing.T) {
	got, err := AddInt(40000, 6400, 400, 1000)
	require.NoError(t, err)
	assert.Equal(t, 47800, got)

	got, err = AddInt()
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = AddInt(math.MaxInt, 1)
	assert.ErrorContains(t, err, "exceeds int")

	_, err = AddInt(1, -2)
	assert.ErrorContains(t, err, "negative term")
}
