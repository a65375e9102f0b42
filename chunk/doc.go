// Package chunk implements the framing shared by all embedding chunks.
//
// A chunk is a tagged, length-prefixed binary section inside a larger
// container. Every chunk starts with the same 12-byte header:
//
//	| tag    | u32 | chunk identifier (see Identifier)                 |
//	| length | u64 | byte count of everything that follows this field |
//
// All integers and floats are little-endian. Chunks that store arrays of
// floats insert 0-3 zero bytes before the first array so that the array
// starts at a multiple of the element width, computed from the absolute
// stream position:
//
//	padding = (width - offset%width) % width
//
// # Stream alignment
//
// Padding is derived from the position reported by Seek, so it only yields
// aligned data if the outer container starts every chunk at a 4-byte aligned
// position. Readers and writers in this module take io.ReadSeeker and
// io.WriteSeeker for exactly this reason; a container that violates the
// precondition produces files that still round-trip but whose float arrays
// are not naturally aligned for memory mapping.
//
// # Errors
//
// Failures fall into three classes that callers can distinguish with
// errors.Is / errors.As:
//
//   - [*IOError]: the underlying stream failed; Context names the field.
//   - [ErrTypeMismatch]: a chunk or element type tag has an unexpected value.
//   - [ErrShape]: dimensions read or computed are mutually inconsistent.
package chunk
