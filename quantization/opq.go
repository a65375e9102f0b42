package quantization

import (
	"math/rand"

	"github.com/hupe1980/embedpq/matrix"
)

// DefaultOPQRounds is the number of alternating rounds used when
// OPQTrainer.Rounds is zero.
const DefaultOPQRounds = 10

// OPQTrainer trains an optimized product quantizer: a learned orthogonal
// projection followed by k-means codebooks in the projected space.
//
// Starting from the identity, every round trains codebooks on the rotated
// data and then replaces the rotation by the solution of the orthogonal
// Procrustes problem that best maps the data onto its reconstruction.
type OPQTrainer struct {
	// Rounds is the number of rotation updates. Zero means DefaultOPQRounds.
	Rounds int
	// Concurrency limits the number of sub-quantizers trained at once.
	// Zero means GOMAXPROCS.
	Concurrency int
}

// Train implements Trainer.
func (t OPQTrainer) Train(nSubquantizers int, nBits uint32, nIterations, nAttempts int, m *matrix.Dense, rng *rand.Rand) (*PQ, error) {
	if err := ValidateParams(nSubquantizers, nBits, nIterations, nAttempts, m.Cols()); err != nil {
		return nil, err
	}

	rounds := t.Rounds
	if rounds <= 0 {
		rounds = DefaultOPQRounds
	}

	k := 1 << nBits
	xt := m.T()
	rotation := matrix.Identity(m.Cols())

	for range rounds {
		rotated, err := m.Mul(rotation)
		if err != nil {
			return nil, err
		}

		codebooks, err := trainSubquantizers(rotated, nSubquantizers, k, nIterations, nAttempts, t.Concurrency, rng)
		if err != nil {
			return nil, err
		}

		pq := &PQ{subquantizers: codebooks}
		codes, err := pq.QuantizeBatch(rotated)
		if err != nil {
			return nil, err
		}

		// Minimize ||X R - Y||, Y being the reconstruction in rotated space.
		cross, err := xt.Mul(pq.ReconstructBatch(codes))
		if err != nil {
			return nil, err
		}
		rotation = procrustes(cross)
	}

	rotated, err := m.Mul(rotation)
	if err != nil {
		return nil, err
	}
	codebooks, err := trainSubquantizers(rotated, nSubquantizers, k, nIterations, nAttempts, t.Concurrency, rng)
	if err != nil {
		return nil, err
	}
	return NewPQ(rotation, codebooks)
}
