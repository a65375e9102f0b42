package mmap

import "errors"

var (
	// ErrClosed is returned by accessors of a mapping after Close.
	ErrClosed = errors.New("mmap: mapping is closed")

	// ErrInvalidSize is returned when a file is too large to address.
	ErrInvalidSize = errors.New("mmap: invalid file size")

	// ErrInvalidOffset is returned by ReadAt for negative offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)

// Hint describes how a mapping is about to be read.
type Hint uint8

const (
	// AccessNormal drops any earlier hint.
	AccessNormal Hint = iota
	// AccessSequential announces a front-to-back scan, as done when decoding
	// a whole chunk.
	AccessSequential
	// AccessRandom announces scattered reads of individual rows.
	AccessRandom
)
