package matrix

import (
	"bytes"

	"github.com/hupe1980/embedpq/chunk"
)

// Codes is a row-major uint8 matrix holding one quantizer code per
// sub-quantizer for each row.
type Codes struct {
	rows int
	cols int
	data []uint8
}

// NewCodes wraps data as a rows x cols code matrix. If data is nil a zero
// matrix is allocated.
func NewCodes(rows, cols int, data []uint8) (*Codes, error) {
	if rows < 0 || cols < 0 {
		return nil, chunk.Shapef("negative dimensions %dx%d", rows, cols)
	}
	if data == nil {
		data = make([]uint8, rows*cols)
	}
	if len(data) != rows*cols {
		return nil, chunk.Shapef("code length %d does not match %dx%d", len(data), rows, cols)
	}
	return &Codes{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the number of rows.
func (c *Codes) Rows() int { return c.rows }

// Cols returns the number of codes per row.
func (c *Codes) Cols() int { return c.cols }

// Data returns the backing row-major slice.
func (c *Codes) Data() []uint8 { return c.data }

// Row returns row i as a slice into the backing array.
func (c *Codes) Row(i int) []uint8 {
	if i < 0 || i >= c.rows {
		panic("matrix: row index out of range")
	}
	return c.data[i*c.cols : (i+1)*c.cols : (i+1)*c.cols]
}

// Max returns the largest code, or 0 for an empty matrix.
func (c *Codes) Max() uint8 {
	var m uint8
	for _, v := range c.data {
		m = max(m, v)
	}
	return m
}

// Equal reports whether both matrices have the same shape and contents.
func (c *Codes) Equal(o *Codes) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.rows == o.rows && c.cols == o.cols && bytes.Equal(c.data, o.data)
}
