package ifcgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems;
// observability.PrometheusCollector is a ready-made Prometheus adapter.
type MetricsCollector interface {
	// RecordParse is called after each parse. size is the source length in
	// bytes and entities the number of indexed records.
	RecordParse(size, entities int, duration time.Duration, err error)

	// RecordPhase is called after each pipeline phase of a successful parse.
	RecordPhase(phase string, duration time.Duration)

	// RecordSkipped is called once per parse with the skipped record counts.
	RecordSkipped(d Diagnostics)

	// RecordCacheWrite is called after each cache write of size bytes.
	RecordCacheWrite(size int64, duration time.Duration, err error)

	// RecordCacheRead is called after each cache lookup. hit is false for
	// misses and for blobs that had to be discarded.
	RecordCacheRead(hit bool, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordParse(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordPhase(string, time.Duration)            {}
func (NoopMetricsCollector) RecordSkipped(Diagnostics)                    {}
func (NoopMetricsCollector) RecordCacheWrite(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordCacheRead(bool, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	ParseCount       atomic.Int64
	ParseErrors      atomic.Int64
	ParseBytes       atomic.Int64
	ParseEntities    atomic.Int64
	ParseTotalNanos  atomic.Int64
	SkippedRecords   atomic.Int64
	CacheWrites      atomic.Int64
	CacheWriteErrors atomic.Int64
	CacheWriteBytes  atomic.Int64
	CacheHits        atomic.Int64
	CacheMisses      atomic.Int64
	CacheReadErrors  atomic.Int64
}

// RecordParse implements MetricsCollector.
func (b *BasicMetricsCollector) RecordParse(size, entities int, duration time.Duration, err error) {
	b.ParseCount.Add(1)
	b.ParseTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ParseErrors.Add(1)
		return
	}
	b.ParseBytes.Add(int64(size))
	b.ParseEntities.Add(int64(entities))
}

// RecordPhase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPhase(string, time.Duration) {}

// RecordSkipped implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSkipped(d Diagnostics) {
	b.SkippedRecords.Add(int64(d.Total()))
}

// RecordCacheWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheWrite(size int64, _ time.Duration, err error) {
	b.CacheWrites.Add(1)
	if err != nil {
		b.CacheWriteErrors.Add(1)
		return
	}
	b.CacheWriteBytes.Add(size)
}

// RecordCacheRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheRead(hit bool, _ time.Duration, err error) {
	switch {
	case err != nil:
		b.CacheReadErrors.Add(1)
	case hit:
		b.CacheHits.Add(1)
	default:
		b.CacheMisses.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ParseCount:       b.ParseCount.Load(),
		ParseErrors:      b.ParseErrors.Load(),
		ParseBytes:       b.ParseBytes.Load(),
		ParseEntities:    b.ParseEntities.Load(),
		ParseAvgNanos:    b.getAvgParseNanos(),
		SkippedRecords:   b.SkippedRecords.Load(),
		CacheWrites:      b.CacheWrites.Load(),
		CacheWriteErrors: b.CacheWriteErrors.Load(),
		CacheWriteBytes:  b.CacheWriteBytes.Load(),
		CacheHits:        b.CacheHits.Load(),
		CacheMisses:      b.CacheMisses.Load(),
		CacheReadErrors:  b.CacheReadErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgParseNanos() int64 {
	count := b.ParseCount.Load()
	if count == 0 {
		return 0
	}
	return b.ParseTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ParseCount       int64
	ParseErrors      int64
	ParseBytes       int64
	ParseEntities    int64
	ParseAvgNanos    int64
	SkippedRecords   int64
	CacheWrites      int64
	CacheWriteErrors int64
	CacheWriteBytes  int64
	CacheHits        int64
	CacheMisses      int64
	CacheReadErrors  int64
}
