package embedpq

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with embedpq-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// LogQuantize logs a quantization run.
func (l *Logger) LogQuantize(ctx context.Context, rows, dims, subquantizers int, bits uint32, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "quantize failed",
			"rows", rows,
			"dimension", dims,
			"subquantizers", subquantizers,
			"bits", bits,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "quantize completed",
		"rows", rows,
		"dimension", dims,
		"subquantizers", subquantizers,
		"bits", bits,
		"elapsed", elapsed,
	)
}

// LogWrite logs a chunk write to a file or blob.
func (l *Logger) LogWrite(ctx context.Context, name string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "write completed",
		"name", name,
		"bytes", size,
	)
}

// LogRead logs a chunk read from a file or blob.
func (l *Logger) LogRead(ctx context.Context, name string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "read failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "read completed",
		"name", name,
		"rows", rows,
	)
}
