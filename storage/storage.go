package storage

import "github.com/hupe1980/embedpq/matrix"

// Storage provides access to the rows of an embedding matrix.
type Storage interface {
	// Embedding returns row i as a new slice. It panics if i is out of range.
	Embedding(i int) []float32

	// Shape returns the number of rows and the embedding length.
	Shape() (rows, dims int)
}

// View is a Storage backed by a dense matrix.
type View interface {
	Storage

	// View returns the underlying matrix. The caller must not modify it.
	View() *matrix.Dense
}

// Array is dense, uncompressed embedding storage.
type Array struct {
	m *matrix.Dense
}

var _ View = (*Array)(nil)

// NewArray wraps m. The matrix is not copied.
func NewArray(m *matrix.Dense) *Array {
	return &Array{m: m}
}

// Embedding implements Storage.
func (a *Array) Embedding(i int) []float32 {
	row := a.m.Row(i)
	out := make([]float32, len(row))
	copy(out, row)
	return out
}

// Shape implements Storage.
func (a *Array) Shape() (int, int) { return a.m.Shape() }

// View implements View.
func (a *Array) View() *matrix.Dense { return a.m }
