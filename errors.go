package embedpq

import (
	"errors"
	"fmt"

	"github.com/hupe1980/embedpq/blobstore"
)

var (
	// ErrNotFound is returned when a blob does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidEnvelope is returned when a blob is not a saved chunk.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrChecksumMismatch is returned when a loaded chunk fails its CRC check.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// ChecksumError reports the expected and computed CRC32 of a loaded chunk.
//
// It unwraps to ErrChecksumMismatch.
type ChecksumError struct {
	Name     string
	Expected uint32
	Actual   uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s: %v: expected %08x, got %08x", e.Name, ErrChecksumMismatch, e.Expected, e.Actual)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, blobstore.ErrNotFound) && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}
