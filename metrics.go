package orbmatch

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
//	    matches   *prometheus.CounterVec
//	    latencies *prometheus.HistogramVec
//	}
//
//	func (p *PrometheusCollector) RecordMatch(category string, results int, d time.Duration, err error) {
//	    p.matches.WithLabelValues(category).Inc()
//	    p.latencies.WithLabelValues(category).Observe(d.Seconds())
//	}
type MetricsCollector interface {
	// RecordMatch is called after each single-query match.
	// results is the number of templates returned, err is nil if successful.
	RecordMatch(category string, results int, duration time.Duration, err error)

	// RecordLoad is called after each category load attempt.
	RecordLoad(category string, templates int, duration time.Duration, err error)

	// RecordBatch is called after each batch of encoded queries.
	// count is the number of queries, failed is the number that failed.
	RecordBatch(category string, count, failed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMatch(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(string, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordBatch(string, int, int, time.Duration)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MatchCount      atomic.Int64
	MatchErrors     atomic.Int64
	MatchResults    atomic.Int64
	MatchTotalNanos atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadTemplates   atomic.Int64
	LoadTotalNanos  atomic.Int64
	BatchCount      atomic.Int64
	BatchItems      atomic.Int64
	BatchFailed     atomic.Int64
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(_ string, results int, duration time.Duration, err error) {
	b.MatchCount.Add(1)
	b.MatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MatchErrors.Add(1)
		return
	}
	b.MatchResults.Add(int64(results))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ string, templates int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadTemplates.Add(int64(templates))
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(_ string, count, failed int, _ time.Duration) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		MatchCount:    b.MatchCount.Load(),
		MatchErrors:   b.MatchErrors.Load(),
		MatchResults:  b.MatchResults.Load(),
		MatchAvgNanos: avg(b.MatchTotalNanos.Load(), b.MatchCount.Load()),
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadTemplates: b.LoadTemplates.Load(),
		LoadAvgNanos:  avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		BatchCount:    b.BatchCount.Load(),
		BatchItems:    b.BatchItems.Load(),
		BatchFailed:   b.BatchFailed.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	MatchCount    int64
	MatchErrors   int64
	MatchResults  int64
	MatchAvgNanos int64
	LoadCount     int64
	LoadErrors    int64
	LoadTemplates int64
	LoadAvgNanos  int64
	BatchCount    int64
	BatchItems    int64
	BatchFailed   int64
}
