// Package matrix provides the small row-major matrix types used by the
// quantizer and the chunk codecs.
//
// [Dense] holds float32 values, [Codes] holds uint8 quantizer codes. Both
// expose rows as slices into the backing array, so row access never copies.
// [Cow] models a matrix that is either owned (and may be modified before it is
// handed on) or borrowed from the caller (and must not be modified).
package matrix
