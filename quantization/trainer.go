package quantization

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/embedpq/chunk"
	"github.com/hupe1980/embedpq/internal/kmeans"
	"github.com/hupe1980/embedpq/matrix"
)

// MaxBits is the largest number of bits per sub-quantizer code.
const MaxBits = 8

// Trainer learns a product quantizer from the rows of a matrix.
type Trainer interface {
	// Train learns nSubquantizers codebooks of 2^nBits centroids each.
	// nIterations bounds the k-means iterations of one attempt and the best of
	// nAttempts attempts is kept. All randomness is drawn from rng.
	Train(nSubquantizers int, nBits uint32, nIterations, nAttempts int, m *matrix.Dense, rng *rand.Rand) (*PQ, error)
}

// ValidateParams checks training parameters against a matrix with dims columns.
func ValidateParams(nSubquantizers int, nBits uint32, nIterations, nAttempts, dims int) error {
	if nSubquantizers <= 0 {
		return chunk.Shapef("number of sub-quantizers must be positive, got %d", nSubquantizers)
	}
	if dims%nSubquantizers != 0 {
		return chunk.Shapef("%d dimensions are not divisible into %d sub-quantizers", dims, nSubquantizers)
	}
	if nBits == 0 || nBits > MaxBits {
		return fmt.Errorf("%w: bits per sub-quantizer must be in [1, %d], got %d", ErrInvalidParameter, MaxBits, nBits)
	}
	if nIterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidParameter, nIterations)
	}
	if nAttempts < 1 {
		return fmt.Errorf("%w: attempts must be at least 1, got %d", ErrInvalidParameter, nAttempts)
	}
	return nil
}

// PQTrainer trains codebooks with k-means and no projection.
//
// Sub-quantizers are trained concurrently. Every sub-quantizer gets its own
// seed drawn from the caller's rng up front, so the result does not depend
// on scheduling.
type PQTrainer struct {
	// Concurrency limits the number of sub-quantizers trained at once.
	// Zero means GOMAXPROCS.
	Concurrency int
}

// Train implements Trainer.
func (t PQTrainer) Train(nSubquantizers int, nBits uint32, nIterations, nAttempts int, m *matrix.Dense, rng *rand.Rand) (*PQ, error) {
	if err := ValidateParams(nSubquantizers, nBits, nIterations, nAttempts, m.Cols()); err != nil {
		return nil, err
	}

	codebooks, err := trainSubquantizers(m, nSubquantizers, 1<<nBits, nIterations, nAttempts, t.Concurrency, rng)
	if err != nil {
		return nil, err
	}
	return NewPQ(nil, codebooks)
}

func trainSubquantizers(m *matrix.Dense, nSubquantizers, k, nIterations, nAttempts, concurrency int, rng *rand.Rand) ([]*matrix.Dense, error) {
	if m.Rows() == 0 {
		return nil, fmt.Errorf("%w: no training rows", ErrInvalidParameter)
	}

	seeds := make([]int64, nSubquantizers)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	ds := m.Cols() / nSubquantizers
	codebooks := make([]*matrix.Dense, nSubquantizers)

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i := range nSubquantizers {
		g.Go(func() error {
			sub := subspace(m, i*ds, ds)
			centroids, _, err := kmeans.TrainBest(sub, ds, k, nIterations, nAttempts, rand.New(rand.NewSource(seeds[i])))
			if err != nil {
				return fmt.Errorf("train sub-quantizer %d: %w", i, err)
			}
			codebook, err := matrix.NewDense(k, ds, centroids)
			if err != nil {
				return err
			}
			codebooks[i] = codebook
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return codebooks, nil
}

// subspace copies columns [offset, offset+width) of every row into a
// contiguous buffer.
func subspace(m *matrix.Dense, offset, width int) []float32 {
	out := make([]float32, m.Rows()*width)
	for i := range m.Rows() {
		copy(out[i*width:(i+1)*width], m.Row(i)[offset:offset+width])
	}
	return out
}
