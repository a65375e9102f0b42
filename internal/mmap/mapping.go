package mmap

import (
	"bytes"
	"io"
	"math"
	"os"
	"sync/atomic"
)

// Mapping is a read-only view of a whole file.
type Mapping struct {
	b      []byte
	unmap  func() error
	closed atomic.Bool
}

// Open maps the file at path. Empty files yield an empty mapping without a
// backing view.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	switch size := st.Size(); {
	case size == 0:
		return &Mapping{}, nil
	case size < 0 || size > math.MaxInt:
		return nil, ErrInvalidSize
	default:
		b, unmap, err := mapFile(f, int(size))
		if err != nil {
			return nil, err
		}
		return &Mapping{b: b, unmap: unmap}, nil
	}
}

// Close releases the view. Calling it again is a no-op.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.unmap == nil {
		return nil
	}
	return m.unmap()
}

// Bytes exposes the mapped file. It returns nil once the mapping is closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.b
}

// Size is the file length in bytes.
func (m *Mapping) Size() int { return len(m.b) }

// NewReader returns a reader positioned at the start of the file.
func (m *Mapping) NewReader() *bytes.Reader {
	return bytes.NewReader(m.Bytes())
}

// Advise passes h to the kernel.
func (m *Mapping) Advise(h Hint) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(m.b) == 0 {
		return nil
	}
	return advise(m.b, h)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	switch {
	case m.closed.Load():
		return 0, ErrClosed
	case off < 0:
		return 0, ErrInvalidOffset
	case off >= int64(len(m.b)):
		return 0, io.EOF
	}
	n := copy(p, m.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
