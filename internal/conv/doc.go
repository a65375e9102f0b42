// Package conv provides checked integer conversions for chunk header fields.
//
// Header fields are fixed-width (u32/u64) while in-memory shapes use int.
// Every conversion from disk or into a header goes through Narrow so that a
// corrupt or oversized value fails instead of silently wrapping.
package conv
