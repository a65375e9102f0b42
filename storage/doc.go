// Package storage provides row access to embedding matrices and the
// product-quantized matrix chunk.
//
// [Storage] is the read contract shared by all representations: look up the
// embedding of row i and report the matrix shape. [View] is implemented by
// representations that can expose the full dense matrix, such as [Array].
//
// [QuantizedArray] stores a matrix as a trained [quantization.PQ], one code
// row per embedding and optional per-row norms. It is created by [Quantize]
// or read from a chunk with [ReadQuantizedArray], and serialized with
// [QuantizedArray.WriteChunk].
//
// # Chunk layout
//
// All integers and floats are little endian.
//
//	u32  chunk identifier (QuantizedArray = 4)
//	u64  payload length, excluding the identifier and this field
//	u32  has projection (0 or 1)
//	u32  has norms (0 or 1)
//	u32  number of sub-quantizers M
//	u32  reconstructed length d
//	u32  centroids per sub-quantizer k
//	u64  rows n
//	u32  code type (u8 = 1)
//	u32  reconstructed type (f32 = 10)
//	     zero padding to the next 4-byte boundary
//	f32  projection, d×d, if present
//	f32  M codebooks, each k×(d/M)
//	f32  norms, n, if present
//	u8   codes, n×M
//
// The chunk must start at a 4-byte aligned stream position.
package storage
