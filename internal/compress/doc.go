// Package compress implements the LZ4 and Zstandard block format used for
// persisted chunks.
//
// A block is [uncompressed size u32][compressed size u32][data]. A
// compressed size of 0 means the data is stored as is, which is also used
// when compression does not pay off.
package compress
