package embedpq

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    quantizeHistogram prometheus.Histogram
//	    bytesWritten      prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordWrite(bytes int64, duration time.Duration, err error) {
//	    p.bytesWritten.Add(float64(bytes))
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordQuantize is called after each quantization run.
	// rows is the number of quantized rows.
	RecordQuantize(rows int, duration time.Duration, err error)

	// RecordWrite is called after a chunk is written to a file.
	RecordWrite(bytes int64, duration time.Duration, err error)

	// RecordRead is called after a chunk is read from a file.
	RecordRead(bytes int64, duration time.Duration, err error)

	// RecordSave is called after a chunk is saved to a blob store.
	// stored is the envelope size after compression.
	RecordSave(raw, stored int64, duration time.Duration, err error)

	// RecordLoad is called after a chunk is loaded from a blob store.
	RecordLoad(stored int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuantize(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordWrite(int64, time.Duration, error)       {}
func (NoopMetricsCollector) RecordRead(int64, time.Duration, error)        {}
func (NoopMetricsCollector) RecordSave(int64, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QuantizeCount      atomic.Int64
	QuantizeErrors     atomic.Int64
	QuantizeRows       atomic.Int64
	QuantizeTotalNanos atomic.Int64
	WriteCount         atomic.Int64
	WriteErrors        atomic.Int64
	WriteBytes         atomic.Int64
	ReadCount          atomic.Int64
	ReadErrors         atomic.Int64
	ReadBytes          atomic.Int64
	SaveCount          atomic.Int64
	SaveErrors         atomic.Int64
	SaveRawBytes       atomic.Int64
	SaveStoredBytes    atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadBytes          atomic.Int64
}

// RecordQuantize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuantize(rows int, duration time.Duration, err error) {
	b.QuantizeCount.Add(1)
	b.QuantizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QuantizeErrors.Add(1)
		return
	}
	b.QuantizeRows.Add(int64(rows))
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(bytes int64, _ time.Duration, err error) {
	b.WriteCount.Add(1)
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.WriteBytes.Add(bytes)
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(bytes int64, _ time.Duration, err error) {
	b.ReadCount.Add(1)
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	b.ReadBytes.Add(bytes)
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(raw, stored int64, _ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveRawBytes.Add(raw)
	b.SaveStoredBytes.Add(stored)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(stored int64, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(stored)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QuantizeCount:    b.QuantizeCount.Load(),
		QuantizeErrors:   b.QuantizeErrors.Load(),
		QuantizeRows:     b.QuantizeRows.Load(),
		QuantizeAvgNanos: b.getAvgQuantizeNanos(),
		WriteCount:       b.WriteCount.Load(),
		WriteErrors:      b.WriteErrors.Load(),
		WriteBytes:       b.WriteBytes.Load(),
		ReadCount:        b.ReadCount.Load(),
		ReadErrors:       b.ReadErrors.Load(),
		ReadBytes:        b.ReadBytes.Load(),
		SaveCount:        b.SaveCount.Load(),
		SaveErrors:       b.SaveErrors.Load(),
		SaveRawBytes:     b.SaveRawBytes.Load(),
		SaveStoredBytes:  b.SaveStoredBytes.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadBytes:        b.LoadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQuantizeNanos() int64 {
	count := b.QuantizeCount.Load()
	if count == 0 {
		return 0
	}
	return b.QuantizeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QuantizeCount    int64
	QuantizeErrors   int64
	QuantizeRows     int64
	QuantizeAvgNanos int64
	WriteCount       int64
	WriteErrors      int64
	WriteBytes       int64
	ReadCount        int64
	ReadErrors       int64
	ReadBytes        int64
	SaveCount        int64
	SaveErrors       int64
	SaveRawBytes     int64
	SaveStoredBytes  int64
	LoadCount        int64
	LoadErrors       int64
	LoadBytes        int64
}
