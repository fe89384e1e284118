package hmmgo

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
//	    queryCounter   prometheus.Counter
//	    queryHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordQuery(duration time.Duration, hits int, err error) {
//	    p.queryCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordQuery is called after each query completes.
	// duration is the processing time on the worker, hits is the number of
	// reported hits, err is nil if successful.
	RecordQuery(duration time.Duration, hits int, err error)

	// RecordRun is called once per search run after the result stream is
	// fully consumed or abandoned. queries is the number of queries
	// submitted, duration the wall-clock time of the run.
	RecordRun(queries int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuery(time.Duration, int, error) {}
func (NoopMetricsCollector) RecordRun(int, time.Duration)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
	HitCount        atomic.Int64
	RunCount        atomic.Int64
	RunQueries      atomic.Int64
	RunTotalNanos   atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(duration time.Duration, hits int, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	b.HitCount.Add(int64(hits))
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(queries int, duration time.Duration) {
	b.RunCount.Add(1)
	b.RunQueries.Add(int64(queries))
	b.RunTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QueryCount:    b.QueryCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
		QueryAvgNanos: b.getAvgQueryNanos(),
		HitCount:      b.HitCount.Load(),
		RunCount:      b.RunCount.Load(),
		RunQueries:    b.RunQueries.Load(),
		RunTotalNanos: b.RunTotalNanos.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QueryCount    int64
	QueryErrors   int64
	QueryAvgNanos int64
	HitCount      int64
	RunCount      int64
	RunQueries    int64
	RunTotalNanos int64
}
