package embedpq

import (
	"context"
	"io"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/hupe1980/embedpq/internal/mmap"
	"github.com/hupe1980/embedpq/matrix"
	"github.com/hupe1980/embedpq/storage"
)

// Quantize trains a product quantizer on m and returns the quantized matrix.
//
// m is not modified. Training is deterministic when WithSeed is given.
func Quantize(ctx context.Context, m *matrix.Dense, optFns ...Option) (*storage.QuantizedArray, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := applyOptions(optFns)
	rows, dims := m.Shape()

	subquantizers := o.subquantizers
	if subquantizers == 0 {
		subquantizers = defaultSubquantizers(dims)
	}

	cfg := storage.QuantizeConfig{
		Subquantizers:    subquantizers,
		SubquantizerBits: o.bits,
		Iterations:       o.iterations,
		Attempts:         o.attempts,
		Normalize:        o.normalize,
		TrainingRows:     o.trainingRows,
	}

	start := time.Now()
	arr, err := storage.Quantize(storage.NewArray(m), o.trainer, cfg, rand.New(rand.NewSource(o.seed)))
	elapsed := time.Since(start)

	o.metricsCollector.RecordQuantize(rows, elapsed, err)
	o.logger.LogQuantize(ctx, rows, dims, subquantizers, o.bits, elapsed, err)

	if err != nil {
		return nil, err
	}
	return arr, nil
}

// WriteFile writes arr as a single chunk to path.
//
// The chunk is written to a temporary file in the same directory which is
// synced and renamed over path, so readers never observe a partial chunk.
func WriteFile(ctx context.Context, path string, arr *storage.QuantizedArray, optFns ...Option) error {
	o := applyOptions(optFns)

	start := time.Now()
	err := writeFile(o, path, arr)
	var size int64
	if err == nil {
		size = arr.ChunkLen(0)
	}

	o.metricsCollector.RecordWrite(size, time.Since(start), err)
	o.logger.LogWrite(ctx, path, size, err)
	return err
}

func writeFile(o options, path string, arr *storage.QuantizedArray) (err error) {
	f, err := o.fs.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = o.fs.Remove(tmp)
		}
	}()

	if err = arr.WriteChunk(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return o.fs.Rename(tmp, path)
}

// ReadFile reads a quantized matrix chunk from the start of the file at path.
//
// By default the file is memory-mapped for the duration of the read. The
// returned array owns its data and stays valid after the file is changed or
// removed.
func ReadFile(ctx context.Context, path string, optFns ...Option) (*storage.QuantizedArray, error) {
	o := applyOptions(optFns)

	start := time.Now()
	var (
		arr  *storage.QuantizedArray
		size int64
		err  error
	)
	if o.mmap {
		arr, size, err = readMapped(path)
	} else {
		arr, size, err = readBuffered(o, path)
	}
	err = translateError(err)

	o.metricsCollector.RecordRead(size, time.Since(start), err)
	rows := 0
	if arr != nil {
		rows, _ = arr.Shape()
	}
	o.logger.LogRead(ctx, path, rows, err)

	if err != nil {
		return nil, err
	}
	return arr, nil
}

func readMapped(path string) (*storage.QuantizedArray, int64, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = m.Close() }()

	_ = m.Advise(mmap.AccessSequential)

	r := m.NewReader()
	arr, err := storage.ReadQuantizedArray(r)
	if err != nil {
		return nil, 0, err
	}
	return arr, r.Size() - int64(r.Len()), nil
}

func readBuffered(o options, path string) (*storage.QuantizedArray, int64, error) {
	f, err := o.fs.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	arr, err := storage.ReadQuantizedArray(f)
	if err != nil {
		return nil, 0, err
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, err
	}
	return arr, pos, nil
}
