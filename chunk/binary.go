package chunk

import (
	"encoding/binary"
	"io"
	"math"
)

// floatBatch bounds the scratch buffer used when streaming float arrays.
const floatBatch = 4096

// WriteUint32 writes v in little-endian order.
func WriteUint32(w io.Writer, v uint32, context string) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	if _, err := w.Write(b[:]); err != nil {
		return NewIOError(context, err)
	}
	return nil
}

// WriteUint64 writes v in little-endian order.
func WriteUint64(w io.Writer, v uint64, context string) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	if _, err := w.Write(b[:]); err != nil {
		return NewIOError(context, err)
	}
	return nil
}

// WriteBool writes b as a u32 (1 or 0).
func WriteBool(w io.Writer, b bool, context string) error {
	var v uint32
	if b {
		v = 1
	}
	return WriteUint32(w, v, context)
}

// ReadUint32 reads a little-endian u32.
func ReadUint32(r io.Reader, context string) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, NewIOError(context, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadUint64 reads a little-endian u64.
func ReadUint64(r io.Reader, context string) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, NewIOError(context, err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// ReadBool reads a u32 and reports whether it is nonzero.
func ReadBool(r io.Reader, context string) (bool, error) {
	v, err := ReadUint32(r, context)
	return v != 0, err
}

// WriteFloat32s writes vec as consecutive little-endian f32 values.
func WriteFloat32s(w io.Writer, vec []float32, context string) error {
	buf := make([]byte, 4*min(len(vec), floatBatch))
	for len(vec) > 0 {
		n := min(len(vec), floatBatch)
		for i, f := range vec[:n] {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
		}
		if _, err := w.Write(buf[:4*n]); err != nil {
			return NewIOError(context, err)
		}
		vec = vec[n:]
	}
	return nil
}

// ReadFloat32s fills dst with little-endian f32 values.
func ReadFloat32s(r io.Reader, dst []float32, context string) error {
	buf := make([]byte, 4*min(len(dst), floatBatch))
	for len(dst) > 0 {
		n := min(len(dst), floatBatch)
		if _, err := io.ReadFull(r, buf[:4*n]); err != nil {
			return NewIOError(context, err)
		}
		for i := range dst[:n] {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
		}
		dst = dst[n:]
	}
	return nil
}

// WriteBytes writes b unchanged.
func WriteBytes(w io.Writer, b []byte, context string) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := w.Write(b); err != nil {
		return NewIOError(context, err)
	}
	return nil
}

// ReadBytes fills dst from r.
func ReadBytes(r io.Reader, dst []byte, context string) error {
	if len(dst) == 0 {
		return nil
	}
	if _, err := io.ReadFull(r, dst); err != nil {
		return NewIOError(context, err)
	}
	return nil
}
