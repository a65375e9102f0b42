package chunk

import "io"

// zeros backs padding writes; padding never exceeds the widest element.
var zeros [8]byte

// Padding returns the number of bytes needed after offset to reach a
// multiple of width.
func Padding(width, offset int64) int64 {
	return (width - offset%width) % width
}

// PaddingFloat32 returns the padding needed before an f32 array at offset.
func PaddingFloat32(offset int64) int64 {
	return Padding(Float32.Size(), offset)
}

// Position returns the absolute position of s.
func Position(s io.Seeker) (int64, error) {
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, NewIOError("cannot get stream position for computing padding", err)
	}
	return pos, nil
}

// Remaining returns the number of bytes between the current position of s
// and its end. The position is restored before returning.
func Remaining(s io.Seeker) (int64, error) {
	pos, err := Position(s)
	if err != nil {
		return 0, err
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, NewIOError("cannot seek to end of stream", err)
	}
	if _, err := s.Seek(pos, io.SeekStart); err != nil {
		return 0, NewIOError("cannot restore stream position", err)
	}
	return max(end-pos, 0), nil
}

// WritePadding writes the zero bytes that align the next element of the
// given width and returns how many were written.
func WritePadding(w io.WriteSeeker, width int64) (int64, error) {
	pos, err := Position(w)
	if err != nil {
		return 0, err
	}
	n := Padding(width, pos)
	if n == 0 {
		return 0, nil
	}
	if _, err := w.Write(zeros[:n]); err != nil {
		return 0, NewIOError("cannot write padding", err)
	}
	return n, nil
}

// SkipPadding skips the bytes WritePadding would have written at the
// current position.
func SkipPadding(r io.ReadSeeker, width int64) (int64, error) {
	pos, err := Position(r)
	if err != nil {
		return 0, err
	}
	n := Padding(width, pos)
	if n == 0 {
		return 0, nil
	}
	if _, err := r.Seek(n, io.SeekCurrent); err != nil {
		return 0, NewIOError("cannot skip padding", err)
	}
	return n, nil
}
