package quantization

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/embedpq/chunk"
	"github.com/hupe1980/embedpq/internal/kmeans"
	"github.com/hupe1980/embedpq/matrix"
)

// MaxCentroids is the largest codebook size representable by a u8 code.
const MaxCentroids = 256

// batchRows is the number of rows one goroutine quantizes at a time.
const batchRows = 1024

// PQ is a trained product quantizer.
//
// A PQ is immutable after construction and safe for concurrent use.
type PQ struct {
	projection    *matrix.Dense   // d×d, nil if absent
	subquantizers []*matrix.Dense // M codebooks, each k×(d/M)
}

// NewPQ creates a quantizer from an optional projection and its codebooks.
//
// All codebooks must have the same non-zero shape k×(d/M) with k ≤ 256, and the
// projection, if not nil, must be d×d.
func NewPQ(projection *matrix.Dense, subquantizers []*matrix.Dense) (*PQ, error) {
	if len(subquantizers) == 0 {
		return nil, chunk.Shapef("quantizer needs at least one sub-quantizer")
	}

	k, ds := subquantizers[0].Shape()
	if k == 0 || ds == 0 {
		return nil, chunk.Shapef("empty sub-quantizer %dx%d", k, ds)
	}
	if k > MaxCentroids {
		return nil, chunk.Shapef("%d centroids exceed the maximum of %d", k, MaxCentroids)
	}
	for i, sq := range subquantizers[1:] {
		if r, c := sq.Shape(); r != k || c != ds {
			return nil, chunk.Shapef("sub-quantizer %d is %dx%d, expected %dx%d", i+1, r, c, k, ds)
		}
	}

	d := ds * len(subquantizers)
	if projection != nil {
		if r, c := projection.Shape(); r != d || c != d {
			return nil, chunk.Shapef("projection is %dx%d, expected %dx%d", r, c, d, d)
		}
	}

	return &PQ{
		projection:    projection,
		subquantizers: subquantizers,
	}, nil
}

// Projection returns the projection matrix, or nil.
func (pq *PQ) Projection() *matrix.Dense { return pq.projection }

// Subquantizers returns the codebooks. The caller must not modify them.
func (pq *PQ) Subquantizers() []*matrix.Dense { return pq.subquantizers }

// QuantizedLen returns M, the number of codes per vector.
func (pq *PQ) QuantizedLen() int { return len(pq.subquantizers) }

// NumCentroids returns k, the number of centroids per codebook.
func (pq *PQ) NumCentroids() int { return pq.subquantizers[0].Rows() }

// SubquantizerLen returns d/M.
func (pq *PQ) SubquantizerLen() int { return pq.subquantizers[0].Cols() }

// ReconstructedLen returns d, the length of reconstructed vectors.
func (pq *PQ) ReconstructedLen() int { return pq.QuantizedLen() * pq.SubquantizerLen() }

// Equal reports whether both quantizers have bitwise equal parameters.
func (pq *PQ) Equal(o *PQ) bool {
	if pq == nil || o == nil {
		return pq == o
	}
	if (pq.projection == nil) != (o.projection == nil) {
		return false
	}
	if pq.projection != nil && !pq.projection.Equal(o.projection) {
		return false
	}
	if len(pq.subquantizers) != len(o.subquantizers) {
		return false
	}
	for i, sq := range pq.subquantizers {
		if !sq.Equal(o.subquantizers[i]) {
			return false
		}
	}
	return true
}

// QuantizeVector returns the M codes of x. It panics if len(x) != d.
func (pq *PQ) QuantizeVector(x []float32) []uint8 {
	codes := make([]uint8, pq.QuantizedLen())
	pq.quantizeInto(x, codes, pq.scratch())
	return codes
}

// QuantizeBatch quantizes every row of m. Rows are processed in parallel.
func (pq *PQ) QuantizeBatch(m *matrix.Dense) (*matrix.Codes, error) {
	if m.Cols() != pq.ReconstructedLen() {
		return nil, chunk.Shapef("matrix has %d columns, quantizer expects %d", m.Cols(), pq.ReconstructedLen())
	}

	codes, err := matrix.NewCodes(m.Rows(), pq.QuantizedLen(), nil)
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for start := 0; start < m.Rows(); start += batchRows {
		end := min(start+batchRows, m.Rows())
		g.Go(func() error {
			scratch := pq.scratch()
			for i := start; i < end; i++ {
				pq.quantizeInto(m.Row(i), codes.Row(i), scratch)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return codes, nil
}

// ReconstructVector returns the concatenation of the centroids selected by codes.
func (pq *PQ) ReconstructVector(codes []uint8) []float32 {
	dst := make([]float32, pq.ReconstructedLen())
	pq.ReconstructVectorInto(codes, dst)
	return dst
}

// ReconstructVectorInto writes the reconstruction of codes to dst.
// It panics if len(codes) != M or len(dst) != d.
func (pq *PQ) ReconstructVectorInto(codes []uint8, dst []float32) {
	if len(codes) != pq.QuantizedLen() {
		panic("quantization: code length mismatch")
	}
	if len(dst) != pq.ReconstructedLen() {
		panic("quantization: destination length mismatch")
	}

	ds := pq.SubquantizerLen()
	for m, c := range codes {
		copy(dst[m*ds:(m+1)*ds], pq.subquantizers[m].Row(int(c)))
	}
}

// ReconstructBatch reconstructs every row of codes.
func (pq *PQ) ReconstructBatch(codes *matrix.Codes) *matrix.Dense {
	out := matrix.Zeros(codes.Rows(), pq.ReconstructedLen())
	for i := range codes.Rows() {
		pq.ReconstructVectorInto(codes.Row(i), out.Row(i))
	}
	return out
}

// scratch returns a buffer for the projected vector, or nil without projection.
func (pq *PQ) scratch() []float32 {
	if pq.projection == nil {
		return nil
	}
	return make([]float32, pq.ReconstructedLen())
}

func (pq *PQ) quantizeInto(x []float32, dst []uint8, scratch []float32) {
	if len(x) != pq.ReconstructedLen() {
		panic("quantization: vector length mismatch")
	}
	if pq.projection != nil {
		pq.projection.VecMul(x, scratch)
		x = scratch
	}

	ds := pq.SubquantizerLen()
	for m, sq := range pq.subquantizers {
		dst[m] = uint8(kmeans.AssignPartition(x[m*ds:(m+1)*ds], sq.Data(), ds))
	}
}

