package fs

import (
	"io"
	"os"
)

// File is a seekable file handle. Chunk writers seek to compute padding.
type File interface {
	io.ReadWriteSeeker
	io.Closer
	Sync() error
	Name() string
}

// FileSystem is the set of operations behind an atomic chunk file write:
// create a temporary sibling, fill it, sync it, rename it over the target.
type FileSystem interface {
	Open(name string) (File, error)
	CreateTemp(dir, pattern string) (File, error)
	MkdirAll(dir string) error
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// LocalFS is the operating system's file system.
type LocalFS struct{}

var _ FileSystem = LocalFS{}

func (LocalFS) Open(name string) (File, error) {
	return wrap(os.Open(name))
}

func (LocalFS) CreateTemp(dir, pattern string) (File, error) {
	return wrap(os.CreateTemp(dir, pattern))
}

// MkdirAll creates dir and its parents with mode 0755.
func (LocalFS) MkdirAll(dir string) error { return os.MkdirAll(dir, 0o755) }

func (LocalFS) Remove(name string) error { return os.Remove(name) }

func (LocalFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

// wrap keeps a nil *os.File from turning into a non-nil File.
func wrap(f *os.File, err error) (File, error) {
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Default is used unless a caller injects another FileSystem.
var Default FileSystem = LocalFS{}
