package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is matched by every *TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrShape indicates dimensions that are inconsistent with each other.
	ErrShape = errors.New("shape mismatch")
)

// IOError wraps a failure of the underlying stream.
//
// The original error can be accessed via errors.Unwrap.
type IOError struct {
	// Context describes what was being read or written.
	Context string
	Err     error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps err with a human-readable context.
func NewIOError(context string, err error) error {
	return &IOError{Context: context, Err: err}
}

// TagKind tells which kind of tag a TypeMismatchError refers to.
type TagKind uint8

const (
	// TagChunk is a chunk identifier tag.
	TagChunk TagKind = iota
	// TagData is an element data type tag.
	TagData
)

// TypeMismatchError reports a tag that differs from the single value the
// reader supports.
type TypeMismatchError struct {
	Kind     TagKind
	Expected uint32
	Actual   uint32
}

func (e *TypeMismatchError) Error() string {
	if e.Kind == TagData {
		return fmt.Sprintf("data type mismatch: expected %s, got %s", DataType(e.Expected), DataType(e.Actual))
	}
	return fmt.Sprintf("chunk type mismatch: expected %s, got %s", Identifier(e.Expected), Identifier(e.Actual))
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// Shapef returns an error matching ErrShape.
func Shapef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrShape, fmt.Sprintf(format, args...))
}
