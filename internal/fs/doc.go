// Package fs provides file abstractions for chunk I/O and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open, seekable file (chunks compute padding from Seek)
//   - [FileSystem]: the operations needed for atomic chunk file writes
//
// # Implementations
//
//   - [LocalFS]: Production implementation using the os package
//   - [FaultyFS]: Test utility that injects write, seek, sync and close errors
//   - [Buffer]: In-memory seekable file used to serialize chunks to bytes
//
// # Usage
//
//	f, err := fs.Default.CreateTemp(dir, "embeddings.tmp-*")
//	if err != nil { ... }
//	err = arr.WriteChunk(f)
//
// Tests wrap a file system in [FaultyFS] to check that stream failures are
// reported with the field that was being written:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetLimit(64) // fail after 64 bytes
package fs
