package math32

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// naive computes both kernels without unrolling.
func naive(a, b []float32) (dot, l2 float32) {
	for i := range a {
		dot += a[i] * b[i]
		d := a[i] - b[i]
		l2 += d * d
	}
	return dot, l2
}

func TestKernels(t *testing.T) {
	cases := map[string][2][]float32{
		"empty":     {nil, nil},
		"tail only": {{1, -2, 3}, {-4, 5, -6}},
		"one block": {{1, 2, 3, 4}, {4, 3, 2, 1}},
		"block+2":   {{1, 2, 3, 1, 2, 3}, {4, 5, 6, 4, 5, 6}},
		"zeros":     {{0, 0, 0, 0, 0}, {1, 1, 1, 1, 1}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			dot, l2 := naive(c[0], c[1])
			assert.Equal(t, dot, Dot(c[0], c[1]))
			assert.Equal(t, l2, SquaredL2(c[0], c[1]))
		})
	}

	assert.Equal(t, float32(64), Dot([]float32{1, 2, 3, 1, 2, 3}, []float32{4, 5, 6, 4, 5, 6}))
	assert.Equal(t, float32(20), SquaredL2([]float32{1, -2}, []float32{-1, 2}))
}

func TestKernels_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{7, 64, 301} {
		a, b := make([]float32, n), make([]float32, n)
		for i := range a {
			a[i], b[i] = rng.Float32()-0.5, rng.Float32()-0.5
		}
		dot, l2 := naive(a, b)
		assert.InDelta(t, dot, Dot(a, b), 1e-4)
		assert.InDelta(t, l2, SquaredL2(a, b), 1e-4)
	}
}

func TestNormalize(t *testing.T) {
	row := []float32{3, 4}
	n := Norm(row)
	assert.Equal(t, float32(5), n)

	DivInPlace(row, n)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, row, 1e-7)

	ScaleInPlace(row, n)
	assert.InDeltaSlice(t, []float32{3, 4}, row, 1e-6)
}

func BenchmarkSquaredL2(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x, y := make([]float32, 256), make([]float32, 256)
	for i := range x {
		x[i], y[i] = rng.Float32(), rng.Float32()
	}
	b.ResetTimer()
	for range b.N {
		_ = SquaredL2(x, y)
	}
}
