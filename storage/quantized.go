package storage

import (
	"fmt"
	"io"

	"github.com/hupe1980/embedpq/chunk"
	"github.com/hupe1980/embedpq/internal/conv"
	"github.com/hupe1980/embedpq/matrix"
	"github.com/hupe1980/embedpq/quantization"
)

// quantizedFieldsLen is the size of the fixed fields between the chunk
// length and the padding.
const quantizedFieldsLen = 4 + 4 + 4 + 4 + 4 + 8 + 4 + 4

// QuantizedArray is a product-quantized embedding matrix.
//
// A QuantizedArray is immutable and safe for concurrent use.
type QuantizedArray struct {
	quantizer *quantization.PQ
	codes     *matrix.Codes
	norms     []float32
}

var (
	_ Storage      = (*QuantizedArray)(nil)
	_ chunk.Writer = (*QuantizedArray)(nil)
)

// NewQuantizedArray assembles a quantized matrix. norms may be nil; otherwise
// it holds one norm per code row.
func NewQuantizedArray(quantizer *quantization.PQ, codes *matrix.Codes, norms []float32) (*QuantizedArray, error) {
	if codes.Cols() != quantizer.QuantizedLen() {
		return nil, chunk.Shapef("%d codes per row, quantizer has %d sub-quantizers", codes.Cols(), quantizer.QuantizedLen())
	}
	if norms != nil && len(norms) != codes.Rows() {
		return nil, chunk.Shapef("%d norms for %d rows", len(norms), codes.Rows())
	}
	if codes.Rows() > 0 {
		if c := int(codes.Max()); c >= quantizer.NumCentroids() {
			return nil, chunk.Shapef("code %d out of range for %d centroids", c, quantizer.NumCentroids())
		}
	}
	return &QuantizedArray{
		quantizer: quantizer,
		codes:     codes,
		norms:     norms,
	}, nil
}

// Quantizer returns the product quantizer.
func (q *QuantizedArray) Quantizer() *quantization.PQ { return q.quantizer }

// Codes returns the n×M code matrix. The caller must not modify it.
func (q *QuantizedArray) Codes() *matrix.Codes { return q.codes }

// Norms returns the per-row norms, or nil if the rows were not normalized.
func (q *QuantizedArray) Norms() []float32 { return q.norms }

// Shape implements Storage.
func (q *QuantizedArray) Shape() (int, int) {
	return q.codes.Rows(), q.quantizer.ReconstructedLen()
}

// Embedding implements Storage. The reconstruction is scaled by the row's
// norm if norms are stored.
func (q *QuantizedArray) Embedding(i int) []float32 {
	dst := make([]float32, q.quantizer.ReconstructedLen())
	q.EmbeddingInto(i, dst)
	return dst
}

// EmbeddingInto reconstructs row i into dst without allocating.
// It panics if i is out of range or len(dst) is not the embedding length.
func (q *QuantizedArray) EmbeddingInto(i int, dst []float32) {
	q.quantizer.ReconstructVectorInto(q.codes.Row(i), dst)
	if q.norms != nil {
		norm := q.norms[i]
		for j := range dst {
			dst[j] *= norm
		}
	}
}

// Embeddings reconstructs the given rows into a new matrix.
func (q *QuantizedArray) Embeddings(indices []int) *matrix.Dense {
	out := matrix.Zeros(len(indices), q.quantizer.ReconstructedLen())
	for r, i := range indices {
		q.EmbeddingInto(i, out.Row(r))
	}
	return out
}

// ChunkIdentifier implements chunk.Writer.
func (q *QuantizedArray) ChunkIdentifier() chunk.Identifier {
	return chunk.QuantizedArray
}

// ChunkLen returns the number of bytes WriteChunk produces when the chunk
// starts at stream position offset, header included.
func (q *QuantizedArray) ChunkLen(offset int64) int64 {
	return chunk.HeaderSize + q.payloadLen(offset)
}

func (q *QuantizedArray) payloadLen(offset int64) int64 {
	n := int64(q.codes.Rows())
	m := int64(q.quantizer.QuantizedLen())
	d := int64(q.quantizer.ReconstructedLen())
	k := int64(q.quantizer.NumCentroids())

	size := int64(quantizedFieldsLen)
	size += chunk.PaddingFloat32(offset + chunk.HeaderSize + quantizedFieldsLen)
	if q.quantizer.Projection() != nil {
		size += d * d * chunk.Float32.Size()
	}
	size += m * k * (d / m) * chunk.Float32.Size()
	if q.norms != nil {
		size += n * chunk.Float32.Size()
	}
	size += n * m * chunk.Uint8.Size()
	return size
}

// WriteChunk implements chunk.Writer.
func (q *QuantizedArray) WriteChunk(w io.WriteSeeker) error {
	offset, err := chunk.Position(w)
	if err != nil {
		return err
	}

	m, err := conv.Narrow[uint32](q.quantizer.QuantizedLen())
	if err != nil {
		return chunk.Shapef("number of sub-quantizers: %v", err)
	}
	d, err := conv.Narrow[uint32](q.quantizer.ReconstructedLen())
	if err != nil {
		return chunk.Shapef("reconstructed length: %v", err)
	}
	k, err := conv.Narrow[uint32](q.quantizer.NumCentroids())
	if err != nil {
		return chunk.Shapef("number of centroids: %v", err)
	}

	payload, err := conv.Narrow[uint64](q.payloadLen(offset))
	if err != nil {
		return chunk.Shapef("chunk length: %v", err)
	}

	if err := chunk.WriteHeader(w, chunk.QuantizedArray, payload); err != nil {
		return err
	}
	if err := chunk.WriteBool(w, q.quantizer.Projection() != nil, "cannot write quantized embedding matrix projection flag"); err != nil {
		return err
	}
	if err := chunk.WriteBool(w, q.norms != nil, "cannot write quantized embedding matrix norms flag"); err != nil {
		return err
	}
	if err := chunk.WriteUint32(w, m, "cannot write number of sub-quantizers"); err != nil {
		return err
	}
	if err := chunk.WriteUint32(w, d, "cannot write reconstructed vector length"); err != nil {
		return err
	}
	if err := chunk.WriteUint32(w, k, "cannot write number of centroids"); err != nil {
		return err
	}
	if err := chunk.WriteUint64(w, uint64(q.codes.Rows()), "cannot write number of quantized embeddings"); err != nil {
		return err
	}
	if err := chunk.WriteDataType(w, chunk.Uint8, "cannot write code type"); err != nil {
		return err
	}
	if err := chunk.WriteDataType(w, chunk.Float32, "cannot write reconstructed vector type"); err != nil {
		return err
	}
	if _, err := chunk.WritePadding(w, chunk.Float32.Size()); err != nil {
		return err
	}

	if p := q.quantizer.Projection(); p != nil {
		if err := chunk.WriteFloat32s(w, p.Data(), "cannot write projection matrix"); err != nil {
			return err
		}
	}
	for i, sq := range q.quantizer.Subquantizers() {
		if err := chunk.WriteFloat32s(w, sq.Data(), fmt.Sprintf("cannot write sub-quantizer %d", i)); err != nil {
			return err
		}
	}
	if q.norms != nil {
		if err := chunk.WriteFloat32s(w, q.norms, "cannot write norms"); err != nil {
			return err
		}
	}
	return chunk.WriteBytes(w, q.codes.Data(), "cannot write quantized embeddings")
}

// quantizedHeader holds the fixed fields of a quantized array chunk.
type quantizedHeader struct {
	hasProjection bool
	hasNorms      bool
	m, d, k       int
	n             int
}

// ReadQuantizedArray reads a quantized array chunk starting at the current
// position of r, which must be 4-byte aligned.
func ReadQuantizedArray(r io.ReadSeeker) (*QuantizedArray, error) {
	if err := chunk.EnsureChunkType(r, chunk.QuantizedArray); err != nil {
		return nil, err
	}
	// The length is only needed by readers that skip the chunk.
	if _, err := chunk.ReadLength(r, chunk.QuantizedArray); err != nil {
		return nil, err
	}

	h, err := readQuantizedHeader(r)
	if err != nil {
		return nil, err
	}
	if err := h.ensureAvailable(r); err != nil {
		return nil, err
	}

	if _, err := chunk.SkipPadding(r, chunk.Float32.Size()); err != nil {
		return nil, err
	}

	var projection *matrix.Dense
	if h.hasProjection {
		projection = matrix.Zeros(h.d, h.d)
		if err := chunk.ReadFloat32s(r, projection.Data(), "cannot read projection matrix"); err != nil {
			return nil, err
		}
	}

	ds := h.d / h.m
	subquantizers := make([]*matrix.Dense, h.m)
	for i := range subquantizers {
		sq := matrix.Zeros(h.k, ds)
		if err := chunk.ReadFloat32s(r, sq.Data(), fmt.Sprintf("cannot read sub-quantizer %d", i)); err != nil {
			return nil, err
		}
		subquantizers[i] = sq
	}

	var norms []float32
	if h.hasNorms {
		norms = make([]float32, h.n)
		if err := chunk.ReadFloat32s(r, norms, "cannot read norms"); err != nil {
			return nil, err
		}
	}

	codes, err := matrix.NewCodes(h.n, h.m, nil)
	if err != nil {
		return nil, err
	}
	if err := chunk.ReadBytes(r, codes.Data(), "cannot read quantized embeddings"); err != nil {
		return nil, err
	}

	quantizer, err := quantization.NewPQ(projection, subquantizers)
	if err != nil {
		return nil, err
	}
	return NewQuantizedArray(quantizer, codes, norms)
}

func readQuantizedHeader(r io.Reader) (quantizedHeader, error) {
	var h quantizedHeader

	var err error
	if h.hasProjection, err = chunk.ReadBool(r, "cannot read quantized embedding matrix projection flag"); err != nil {
		return h, err
	}
	if h.hasNorms, err = chunk.ReadBool(r, "cannot read quantized embedding matrix norms flag"); err != nil {
		return h, err
	}

	m, err := chunk.ReadUint32(r, "cannot read number of sub-quantizers")
	if err != nil {
		return h, err
	}
	d, err := chunk.ReadUint32(r, "cannot read reconstructed vector length")
	if err != nil {
		return h, err
	}
	k, err := chunk.ReadUint32(r, "cannot read number of centroids")
	if err != nil {
		return h, err
	}
	n, err := chunk.ReadUint64(r, "cannot read number of quantized embeddings")
	if err != nil {
		return h, err
	}

	if err := chunk.EnsureDataType(r, chunk.Uint8); err != nil {
		return h, err
	}
	if err := chunk.EnsureDataType(r, chunk.Float32); err != nil {
		return h, err
	}

	if m == 0 {
		return h, chunk.Shapef("number of sub-quantizers must be positive")
	}
	if d%m != 0 {
		return h, chunk.Shapef("reconstructed length %d is not divisible by %d sub-quantizers", d, m)
	}
	if k == 0 || k > quantization.MaxCentroids {
		return h, chunk.Shapef("%d centroids, expected 1 to %d", k, quantization.MaxCentroids)
	}

	if h.m, err = conv.Narrow[int](m); err != nil {
		return h, chunk.Shapef("number of sub-quantizers: %v", err)
	}
	if h.d, err = conv.Narrow[int](d); err != nil {
		return h, chunk.Shapef("reconstructed length: %v", err)
	}
	if h.k, err = conv.Narrow[int](k); err != nil {
		return h, chunk.Shapef("number of centroids: %v", err)
	}
	if h.n, err = conv.Narrow[int](n); err != nil {
		return h, chunk.Shapef("number of quantized embeddings: %v", err)
	}

	return h, nil
}

// dataLen returns the number of bytes the header announces after the
// element type tags, padding excluded.
func (h quantizedHeader) dataLen() (int, error) {
	var projection, norms int
	var err error
	if h.hasProjection {
		if projection, err = conv.MulInt(h.d, h.d, 4); err != nil {
			return 0, chunk.Shapef("projection matrix: %v", err)
		}
	}
	codebooks, err := conv.MulInt(h.k, h.d, 4)
	if err != nil {
		return 0, chunk.Shapef("sub-quantizers: %v", err)
	}
	if h.hasNorms {
		if norms, err = conv.MulInt(h.n, 4); err != nil {
			return 0, chunk.Shapef("norms: %v", err)
		}
	}
	codes, err := conv.MulInt(h.n, h.m)
	if err != nil {
		return 0, chunk.Shapef("quantized embeddings: %v", err)
	}
	total, err := conv.AddInt(projection, codebooks, norms, codes)
	if err != nil {
		return 0, chunk.Shapef("chunk data: %v", err)
	}
	return total, nil
}

// ensureAvailable refuses headers announcing more data than r holds, so
// that a corrupt row count or dimension fails before anything is allocated.
func (h quantizedHeader) ensureAvailable(r io.Seeker) error {
	want, err := h.dataLen()
	if err != nil {
		return err
	}
	pos, err := chunk.Position(r)
	if err != nil {
		return err
	}
	left, err := chunk.Remaining(r)
	if err != nil {
		return err
	}
	if need := int64(want) + chunk.PaddingFloat32(pos); need > left {
		return chunk.Shapef("header announces %d data bytes, stream holds %d", need, left)
	}
	return nil
}
