package matrix

import (
	"math"

	"github.com/hupe1980/embedpq/chunk"
)

// Dense is a row-major float32 matrix.
type Dense struct {
	rows int
	cols int
	data []float32
}

// NewDense wraps data as a rows x cols matrix. If data is nil a zero matrix
// is allocated.
func NewDense(rows, cols int, data []float32) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, chunk.Shapef("negative dimensions %dx%d", rows, cols)
	}
	if data == nil {
		data = make([]float32, rows*cols)
	}
	if len(data) != rows*cols {
		return nil, chunk.Shapef("data length %d does not match %dx%d", len(data), rows, cols)
	}
	return &Dense{rows: rows, cols: cols, data: data}, nil
}

// Zeros allocates a rows x cols zero matrix.
func Zeros(rows, cols int) *Dense {
	return &Dense{rows: rows, cols: cols, data: make([]float32, rows*cols)}
}

// Identity allocates an n x n identity matrix.
func Identity(n int) *Dense {
	m := Zeros(n, n)
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m
}

// FromRows copies equally sized rows into a new matrix.
func FromRows(rows [][]float32) (*Dense, error) {
	if len(rows) == 0 {
		return Zeros(0, 0), nil
	}
	cols := len(rows[0])
	m := Zeros(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, chunk.Shapef("row %d has length %d, expected %d", i, len(row), cols)
		}
		copy(m.Row(i), row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.cols }

// Shape returns (rows, cols).
func (m *Dense) Shape() (int, int) { return m.rows, m.cols }

// Data returns the backing row-major slice.
func (m *Dense) Data() []float32 { return m.data }

// Row returns row i as a slice into the backing array.
func (m *Dense) Row(i int) []float32 {
	if i < 0 || i >= m.rows {
		panic("matrix: row index out of range")
	}
	return m.data[i*m.cols : (i+1)*m.cols : (i+1)*m.cols]
}

// At returns element (i, j).
func (m *Dense) At(i, j int) float32 { return m.data[i*m.cols+j] }

// Set sets element (i, j).
func (m *Dense) Set(i, j int, v float32) { m.data[i*m.cols+j] = v }

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	data := make([]float32, len(m.data))
	copy(data, m.data)
	return &Dense{rows: m.rows, cols: m.cols, data: data}
}

// Equal reports whether both matrices have the same shape and bitwise equal values.
func (m *Dense) Equal(o *Dense) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if math.Float32bits(v) != math.Float32bits(o.data[i]) {
			return false
		}
	}
	return true
}

// T returns the transpose as a new matrix.
func (m *Dense) T() *Dense {
	t := Zeros(m.cols, m.rows)
	for i := range m.rows {
		for j := range m.cols {
			t.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return t
}

// Mul returns m * o.
func (m *Dense) Mul(o *Dense) (*Dense, error) {
	if m.cols != o.rows {
		return nil, chunk.Shapef("cannot multiply %dx%d by %dx%d", m.rows, m.cols, o.rows, o.cols)
	}
	out := Zeros(m.rows, o.cols)
	for i := range m.rows {
		dst := out.Row(i)
		for k, a := range m.Row(i) {
			if a == 0 {
				continue
			}
			for j, b := range o.Row(k) {
				dst[j] += a * b
			}
		}
	}
	return out, nil
}

// VecMul computes the row vector product dst = x * m.
// len(x) must equal Rows and len(dst) must equal Cols.
func (m *Dense) VecMul(x, dst []float32) {
	if len(x) != m.rows || len(dst) != m.cols {
		panic("matrix: vector length mismatch")
	}
	clear(dst)
	for i, a := range x {
		if a == 0 {
			continue
		}
		for j, b := range m.Row(i) {
			dst[j] += a * b
		}
	}
}

// Gather copies the given rows into a new matrix.
func (m *Dense) Gather(rows []int) (*Dense, error) {
	out := Zeros(len(rows), m.cols)
	for i, r := range rows {
		if r < 0 || r >= m.rows {
			return nil, chunk.Shapef("row %d out of range for %d rows", r, m.rows)
		}
		copy(out.Row(i), m.Row(r))
	}
	return out, nil
}
