package embedpq

import (
	"log/slog"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/embedpq/internal/compress"
	"github.com/hupe1980/embedpq/internal/fs"
	"github.com/hupe1980/embedpq/quantization"
)

// Compression selects the block compression of a saved blob.
type Compression = compress.Type

const (
	// CompressionNone stores the chunk as is.
	CompressionNone = compress.None
	// CompressionLZ4 favors speed.
	CompressionLZ4 = compress.LZ4
	// CompressionZstd favors ratio.
	CompressionZstd = compress.Zstd
)

const (
	// DefaultBits is the default number of bits per code (256 centroids).
	DefaultBits uint32 = 8
	// DefaultIterations is the default k-means iteration bound.
	DefaultIterations = 100
	// DefaultAttempts is the default number of k-means restarts.
	DefaultAttempts = 1
)

type options struct {
	subquantizers    int
	bits             uint32
	iterations       int
	attempts         int
	normalize        bool
	seed             int64
	seedSet          bool
	trainer          quantization.Trainer
	trainingRows     *roaring.Bitmap
	logger           *Logger
	metricsCollector MetricsCollector
	compression      Compression
	mmap             bool
	fs               fs.FileSystem
}

// Option configures Quantize, WriteFile, ReadFile, Save and Load.
// Options that do not apply to an operation are ignored.
type Option func(*options)

// WithSubquantizers sets the number of sub-quantizers M. It must divide the
// embedding length. By default the largest divisor not above d/4 is used.
func WithSubquantizers(m int) Option {
	return func(o *options) {
		o.subquantizers = m
	}
}

// WithBits sets the number of bits per code, 1 to 8.
func WithBits(bits uint32) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithIterations bounds the k-means iterations per training attempt.
func WithIterations(n int) Option {
	return func(o *options) {
		o.iterations = n
	}
}

// WithAttempts sets the number of k-means restarts; the best is kept.
func WithAttempts(n int) Option {
	return func(o *options) {
		o.attempts = n
	}
}

// WithNormalize quantizes unit-length rows and stores the row norms.
func WithNormalize(normalize bool) Option {
	return func(o *options) {
		o.normalize = normalize
	}
}

// WithSeed makes training deterministic.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seedSet = true
	}
}

// WithTrainer replaces the default PQ trainer, e.g. with
// quantization.OPQTrainer{}.
//
// If nil is passed, quantization.PQTrainer{} is used.
func WithTrainer(t quantization.Trainer) Option {
	return func(o *options) {
		if t == nil {
			t = quantization.PQTrainer{}
		}
		o.trainer = t
	}
}

// WithTrainingRows restricts training to the given rows.
// All rows are quantized regardless.
func WithTrainingRows(rows *roaring.Bitmap) Option {
	return func(o *options) {
		o.trainingRows = rows
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &embedpq.BasicMetricsCollector{}
//	arr, _ := embedpq.Quantize(ctx, m, embedpq.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Rows: %d, Avg latency: %dns\n", stats.QuantizeRows, stats.QuantizeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := embedpq.NewJSONLogger(slog.LevelInfo)
//	arr, _ := embedpq.Quantize(ctx, m, embedpq.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithCompression sets the compression used by Save. Load reads the
// algorithm from the blob.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMmap controls whether ReadFile memory-maps the file (default) or
// reads it through ordinary file I/O.
func WithMmap(enabled bool) Option {
	return func(o *options) {
		o.mmap = enabled
	}
}

func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		bits:             DefaultBits,
		iterations:       DefaultIterations,
		attempts:         DefaultAttempts,
		trainer:          quantization.PQTrainer{},
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		compression:      CompressionNone,
		mmap:             true,
		fs:               fs.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if !o.seedSet {
		o.seed = time.Now().UnixNano()
	}
	return o
}

// defaultSubquantizers returns the largest divisor of dims not above dims/4.
func defaultSubquantizers(dims int) int {
	for m := max(dims/4, 1); m > 1; m-- {
		if dims%m == 0 {
			return m
		}
	}
	return 1
}
