package storage

import (
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/embedpq/chunk"
	"github.com/hupe1980/embedpq/matrix"
	"github.com/hupe1980/embedpq/quantization"
	"github.com/hupe1980/embedpq/testutil"
)

// recordingTrainer captures the matrix it is trained on.
type recordingTrainer struct {
	mock.Mock
}

func (r *recordingTrainer) Train(nSubquantizers int, nBits uint32, nIterations, nAttempts int, m *matrix.Dense, rng *rand.Rand) (*quantization.PQ, error) {
	args := r.Called(nSubquantizers, nBits, nIterations, nAttempts, m)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return quantization.PQTrainer{}.Train(nSubquantizers, nBits, nIterations, nAttempts, m, rng)
}

func TestQuantize_InvalidParameters(t *testing.T) {
	src := NewArray(testutil.SequentialMatrix(10, 12))
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name string
		cfg  QuantizeConfig
		want error
	}{
		{"zero sub-quantizers", QuantizeConfig{Subquantizers: 0, SubquantizerBits: 4, Iterations: 1, Attempts: 1}, chunk.ErrShape},
		{"indivisible", QuantizeConfig{Subquantizers: 5, SubquantizerBits: 4, Iterations: 1, Attempts: 1}, chunk.ErrShape},
		{"zero bits", QuantizeConfig{Subquantizers: 3, SubquantizerBits: 0, Iterations: 1, Attempts: 1}, quantization.ErrInvalidParameter},
		{"too many bits", QuantizeConfig{Subquantizers: 3, SubquantizerBits: 9, Iterations: 1, Attempts: 1}, quantization.ErrInvalidParameter},
		{"zero iterations", QuantizeConfig{Subquantizers: 3, SubquantizerBits: 4, Iterations: 0, Attempts: 1}, quantization.ErrInvalidParameter},
		{"zero attempts", QuantizeConfig{Subquantizers: 3, SubquantizerBits: 4, Iterations: 1, Attempts: 0}, quantization.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trainer := &recordingTrainer{}
			_, err := Quantize(src, trainer, tt.cfg, rng)
			assert.ErrorIs(t, err, tt.want)
			trainer.AssertNotCalled(t, "Train", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestQuantize_PassesParametersToTrainer(t *testing.T) {
	m := testutil.SequentialMatrix(20, 8)

	trainer := &recordingTrainer{}
	trainer.On("Train", 2, uint32(3), 4, 2, mock.MatchedBy(func(x *matrix.Dense) bool {
		return x.Rows() == 20 && x.Cols() == 8
	})).Return(nil, nil).Once()

	arr, err := Quantize(NewArray(m), trainer, QuantizeConfig{
		Subquantizers:    2,
		SubquantizerBits: 3,
		Iterations:       4,
		Attempts:         2,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	trainer.AssertExpectations(t)

	rows, dims := arr.Shape()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 8, dims)
}

func TestQuantize_NormalizedTrainingData(t *testing.T) {
	m := testutil.SequentialMatrix(10, 4)

	trainer := &recordingTrainer{}
	trainer.On("Train", 2, uint32(2), 3, 1, mock.MatchedBy(func(x *matrix.Dense) bool {
		for i := range x.Rows() {
			var sum float32
			for _, v := range x.Row(i) {
				sum += v * v
			}
			if i == 0 {
				// Row 0 is (0, 1, 2, 3).
				if sum < 0.999 || sum > 1.001 {
					return false
				}
			}
		}
		return true
	})).Return(nil, nil).Once()

	arr, err := Quantize(NewArray(m), trainer, QuantizeConfig{
		Subquantizers:    2,
		SubquantizerBits: 2,
		Iterations:       3,
		Attempts:         1,
		Normalize:        true,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	trainer.AssertExpectations(t)
	assert.Len(t, arr.Norms(), 10)
}

func TestQuantize_ZeroRow(t *testing.T) {
	m := testutil.SequentialMatrix(8, 4)
	clear(m.Row(0))
	clear(m.Row(1))

	arr, err := Quantize(NewArray(m), quantization.PQTrainer{}, QuantizeConfig{
		Subquantizers:    2,
		SubquantizerBits: 2,
		Iterations:       5,
		Attempts:         1,
		Normalize:        true,
	}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.Zero(t, arr.Norms()[0])
	assert.Equal(t, make([]float32, 4), arr.Embedding(0))
	assert.NotZero(t, arr.Norms()[2])
}

func TestQuantize_TrainingRows(t *testing.T) {
	m := testutil.SequentialMatrix(50, 6)

	trainer := &recordingTrainer{}
	trainer.On("Train", 3, uint32(2), 2, 1, mock.MatchedBy(func(x *matrix.Dense) bool {
		return x.Rows() == 3 && x.At(0, 0) == m.At(4, 0) && x.At(2, 0) == m.At(40, 0)
	})).Return(nil, nil).Once()

	arr, err := Quantize(NewArray(m), trainer, QuantizeConfig{
		Subquantizers:    3,
		SubquantizerBits: 2,
		Iterations:       2,
		Attempts:         1,
		TrainingRows:     roaring.BitmapOf(40, 4, 17),
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	trainer.AssertExpectations(t)

	// Every row is quantized, not only the training rows.
	assert.Equal(t, 50, arr.Codes().Rows())
}

func TestQuantize_TrainingRowsOutOfRange(t *testing.T) {
	m := testutil.SequentialMatrix(5, 6)

	_, err := Quantize(NewArray(m), quantization.PQTrainer{}, QuantizeConfig{
		Subquantizers:    3,
		SubquantizerBits: 2,
		Iterations:       2,
		Attempts:         1,
		TrainingRows:     roaring.BitmapOf(1, 5),
	}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, chunk.ErrShape)
}

func TestQuantize_TrainerError(t *testing.T) {
	m := testutil.SequentialMatrix(5, 6)

	trainer := &recordingTrainer{}
	trainer.On("Train", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, quantization.ErrInvalidParameter)

	_, err := Quantize(NewArray(m), trainer, QuantizeConfig{
		Subquantizers:    3,
		SubquantizerBits: 2,
		Iterations:       2,
		Attempts:         1,
	}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, quantization.ErrInvalidParameter)
}

// fixedTrainer ignores its parameters and returns pq.
type fixedTrainer struct {
	pq *quantization.PQ
}

func (f fixedTrainer) Train(int, uint32, int, int, *matrix.Dense, *rand.Rand) (*quantization.PQ, error) {
	return f.pq, nil
}

func TestQuantize_TrainerResultChecked(t *testing.T) {
	m := testutil.SequentialMatrix(5, 6)
	cfg := QuantizeConfig{Subquantizers: 3, SubquantizerBits: 2, Iterations: 2, Attempts: 1}

	var err error
	require.NotPanics(t, func() {
		_, err = Quantize(NewArray(m), fixedTrainer{}, cfg, rand.New(rand.NewSource(1)))
	})
	assert.ErrorIs(t, err, chunk.ErrShape)

	narrow, err := quantization.PQTrainer{}.Train(2, 2, 2, 1, testutil.SequentialMatrix(5, 4), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = Quantize(NewArray(m), fixedTrainer{narrow}, cfg, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, chunk.ErrShape)

	// Same sub-quantizer count, wrong length.
	wide, err := quantization.PQTrainer{}.Train(3, 2, 2, 1, testutil.SequentialMatrix(5, 9), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = Quantize(NewArray(m), fixedTrainer{wide}, cfg, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, chunk.ErrShape)
}

func TestArray(t *testing.T) {
	m := testutil.SequentialMatrix(3, 4)
	a := NewArray(m)

	rows, dims := a.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 4, dims)
	assert.Same(t, m, a.View())

	e := a.Embedding(1)
	assert.Equal(t, []float32{4, 5, 6, 7}, e)
	e[0] = 100
	assert.Equal(t, float32(4), m.At(1, 0))
}
