package storage

import (
	"math/rand"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/embedpq/chunk"
	"github.com/hupe1980/embedpq/internal/math32"
	"github.com/hupe1980/embedpq/matrix"
	"github.com/hupe1980/embedpq/quantization"
)

// QuantizeConfig holds the parameters of Quantize.
type QuantizeConfig struct {
	// Subquantizers is the number of sub-quantizers M. It must divide the
	// embedding length.
	Subquantizers int
	// SubquantizerBits is the number of bits per code, 1 to 8.
	SubquantizerBits uint32
	// Iterations bounds the k-means iterations of one training attempt.
	Iterations int
	// Attempts is the number of training attempts per sub-quantizer.
	Attempts int
	// Normalize quantizes unit-length rows and stores the norms separately.
	Normalize bool
	// TrainingRows restricts training to a subset of rows. All rows are
	// quantized regardless. Nil trains on every row.
	TrainingRows *roaring.Bitmap
}

// Quantize trains a quantizer on src and quantizes all of its rows.
//
// If cfg.Normalize is set, every row is divided by its L2 norm before
// training and the norms are kept, so that Embedding restores the original
// scale. Rows with norm zero stay zero. The source matrix is never modified.
func Quantize(src View, trainer quantization.Trainer, cfg QuantizeConfig, rng *rand.Rand) (*QuantizedArray, error) {
	view := src.View()
	if err := quantization.ValidateParams(cfg.Subquantizers, cfg.SubquantizerBits, cfg.Iterations, cfg.Attempts, view.Cols()); err != nil {
		return nil, err
	}

	data, norms := prepare(view, cfg.Normalize)

	training := data.View()
	if cfg.TrainingRows != nil {
		rows, err := trainingRows(cfg.TrainingRows, training.Rows())
		if err != nil {
			return nil, err
		}
		if training, err = training.Gather(rows); err != nil {
			return nil, err
		}
	}

	quantizer, err := trainer.Train(cfg.Subquantizers, cfg.SubquantizerBits, cfg.Iterations, cfg.Attempts, training, rng)
	if err != nil {
		return nil, err
	}
	if quantizer == nil {
		return nil, chunk.Shapef("trainer returned no quantizer")
	}
	if quantizer.QuantizedLen() != cfg.Subquantizers || quantizer.ReconstructedLen() != view.Cols() {
		return nil, chunk.Shapef("trained quantizer has %d sub-quantizers for length %d, expected %d for length %d",
			quantizer.QuantizedLen(), quantizer.ReconstructedLen(), cfg.Subquantizers, view.Cols())
	}

	codes, err := quantizer.QuantizeBatch(data.View())
	if err != nil {
		return nil, err
	}

	return NewQuantizedArray(quantizer, codes, norms)
}

// prepare returns the matrix to quantize and, when normalizing, the row norms.
func prepare(m *matrix.Dense, normalize bool) (matrix.Cow, []float32) {
	if !normalize {
		return matrix.Borrowed(m), nil
	}

	data := matrix.Owned(m.Clone())
	norms := make([]float32, m.Rows())
	for i := range norms {
		row := data.Mut().Row(i)
		norms[i] = math32.Norm(row)
		if norms[i] > 0 {
			math32.DivInPlace(row, norms[i])
		}
	}
	return data, norms
}

func trainingRows(b *roaring.Bitmap, rows int) ([]int, error) {
	out := make([]int, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		r := int(it.Next())
		if r >= rows {
			return nil, chunk.Shapef("training row %d out of range for %d rows", r, rows)
		}
		out = append(out, r)
	}
	return out, nil
}
