package chunk

import (
	"fmt"
	"io"
)

// HeaderSize is the size of the tag and length fields.
const HeaderSize = 4 + 8

// Writer is implemented by values that serialize as a single chunk.
type Writer interface {
	// ChunkIdentifier returns the tag written at the start of the chunk.
	ChunkIdentifier() Identifier

	// WriteChunk writes the complete chunk, header included, at the current
	// stream position. The stream must be 4-byte aligned at that position.
	WriteChunk(w io.WriteSeeker) error
}

// WriteHeader writes the chunk tag followed by the payload length.
//
// payloadLen must equal the number of bytes the caller writes afterwards.
func WriteHeader(w io.Writer, id Identifier, payloadLen uint64) error {
	if err := WriteUint32(w, uint32(id), fmt.Sprintf("cannot write %s chunk identifier", id)); err != nil {
		return err
	}
	return WriteUint64(w, payloadLen, fmt.Sprintf("cannot write %s chunk length", id))
}

// ReadIdentifier reads a chunk tag.
func ReadIdentifier(r io.Reader) (Identifier, error) {
	v, err := ReadUint32(r, "cannot read chunk identifier")
	if err != nil {
		return 0, err
	}
	return Identifier(v), nil
}

// EnsureChunkType reads a chunk tag and checks that it equals want.
func EnsureChunkType(r io.Reader, want Identifier) error {
	got, err := ReadIdentifier(r)
	if err != nil {
		return err
	}
	if got != want {
		return &TypeMismatchError{Kind: TagChunk, Expected: uint32(want), Actual: uint32(got)}
	}
	return nil
}

// ReadLength reads the payload length that follows a chunk tag.
//
// The value is not validated; callers that do not understand a chunk can use
// it to skip over the payload.
func ReadLength(r io.Reader, id Identifier) (uint64, error) {
	return ReadUint64(r, fmt.Sprintf("cannot read %s chunk length", id))
}

// WriteDataType writes an element type tag.
func WriteDataType(w io.Writer, t DataType, context string) error {
	return WriteUint32(w, uint32(t), context)
}

// EnsureDataType reads an element type tag and checks that it equals want.
func EnsureDataType(r io.Reader, want DataType) error {
	v, err := ReadUint32(r, fmt.Sprintf("cannot read %s type identifier", want))
	if err != nil {
		return err
	}
	if DataType(v) != want {
		return &TypeMismatchError{Kind: TagData, Expected: uint32(want), Actual: v}
	}
	return nil
}
