package fs

import (
	"errors"
	"io"
)

// Buffer is an in-memory File. The zero value is an empty buffer.
//
// Unlike bytes.Buffer it supports Seek, which chunk writers need to compute
// alignment padding. Writing past the end grows the buffer; seeking past the
// end and writing fills the gap with zeros.
type Buffer struct {
	data []byte
	pos  int64
}

// NewBuffer returns a Buffer positioned at the start of data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the buffer size.
func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if oldLen := int64(len(b.data)); end > oldLen {
		if end > int64(cap(b.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(b.data))))
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
		if b.pos > oldLen {
			clear(b.data[oldLen:b.pos])
		}
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("fs: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("fs: negative position")
	}
	b.pos = abs
	return abs, nil
}

func (b *Buffer) Close() error { return nil }
func (b *Buffer) Sync() error  { return nil }
func (b *Buffer) Name() string { return "" }
