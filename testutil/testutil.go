package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/embedpq/internal/math32"
	"github.com/hupe1980/embedpq/matrix"
)

// RNG is a seeded source shared by test helpers. It is safe for concurrent
// use and can be rewound with Reset.
type RNG struct {
	mu   sync.Mutex
	src  *rand.Rand
	seed int64
}

func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed)), seed: seed}
}

// locked runs fn while holding the lock, so that a whole matrix is drawn
// as one uninterrupted sequence.
func (r *RNG) locked(fn func(*rand.Rand)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.src)
}

// Reset rewinds to the initial seed.
func (r *RNG) Reset() {
	r.locked(func(src *rand.Rand) { src.Seed(r.seed) })
}

func (r *RNG) Seed() int64 { return r.seed }

// Rand derives an independent generator, for APIs that take a *rand.Rand.
func (r *RNG) Rand() (out *rand.Rand) {
	r.locked(func(src *rand.Rand) { out = rand.New(rand.NewSource(src.Int63())) })
	return out
}

func (r *RNG) Float32() (f float32) {
	r.locked(func(src *rand.Rand) { f = src.Float32() })
	return f
}

// UniformMatrix draws every element from [0, 1).
func (r *RNG) UniformMatrix(rows, cols int) *matrix.Dense {
	m := matrix.Zeros(rows, cols)
	r.locked(func(src *rand.Rand) {
		for i := range m.Data() {
			m.Data()[i] = src.Float32()
		}
	})
	return m
}

// GaussianMatrix draws every element from N(0, 1).
func (r *RNG) GaussianMatrix(rows, cols int) *matrix.Dense {
	m := matrix.Zeros(rows, cols)
	r.locked(func(src *rand.Rand) {
		for i := range m.Data() {
			m.Data()[i] = float32(src.NormFloat64())
		}
	})
	return m
}

// ClusteredMatrix scatters rows around clusters random unit vectors with
// per-element standard deviation spread. Row i belongs to cluster
// i % clusters, which gives quantizers an easy, well-separated target.
func (r *RNG) ClusteredMatrix(rows, cols, clusters int, spread float32) *matrix.Dense {
	centers := r.GaussianMatrix(clusters, cols)
	for i := range clusters {
		c := centers.Row(i)
		if n := math32.Norm(c); n > 0 {
			math32.DivInPlace(c, n)
		}
	}

	m := matrix.Zeros(rows, cols)
	r.locked(func(src *rand.Rand) {
		for i := range rows {
			c, row := centers.Row(i%clusters), m.Row(i)
			for j := range row {
				row[j] = c[j] + spread*float32(src.NormFloat64())
			}
		}
	})
	return m
}

// SequentialMatrix fills a rows x cols matrix with 0, 1, 2, ... in row-major
// order.
func SequentialMatrix(rows, cols int) *matrix.Dense {
	m := matrix.Zeros(rows, cols)
	for i := range m.Data() {
		m.Data()[i] = float32(i)
	}
	return m
}
