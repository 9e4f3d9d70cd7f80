package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports engine and HTTP metrics to Prometheus. It implements
// orbmatch.MetricsCollector, so the same value is passed to orbmatch.Open
// and to the server.
type Metrics struct {
	gatherer prometheus.Gatherer

	matchesTotal  *prometheus.CounterVec
	matchDuration *prometheus.HistogramVec
	matchResults  *prometheus.HistogramVec
	loadsTotal    *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	loadTemplates *prometheus.GaugeVec
	batchItems    *prometheus.CounterVec
	batchFailed   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewMetrics registers all collectors with reg. A nil reg uses a fresh
// registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		matchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orbmatch_matches_total",
			Help: "Total number of single-query matches",
		}, []string{"category", "outcome"}),
		matchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orbmatch_match_duration_seconds",
			Help:    "Duration of single-query matches in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"category"}),
		matchResults: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orbmatch_match_results",
			Help:    "Number of templates returned per match",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
		}, []string{"category"}),
		loadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orbmatch_category_loads_total",
			Help: "Total number of category load attempts",
		}, []string{"category", "outcome"}),
		loadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orbmatch_category_load_duration_seconds",
			Help:    "Duration of category loads in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"category"}),
		loadTemplates: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orbmatch_category_templates",
			Help: "Number of templates in each loaded category",
		}, []string{"category"}),
		batchItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orbmatch_batch_items_total",
			Help: "Total number of encoded queries received in batches",
		}, []string{"category"}),
		batchFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orbmatch_batch_items_failed_total",
			Help: "Total number of encoded queries that failed",
		}, []string{"category"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orbmatch_http_requests_total",
			Help: "Total number of HTTP requests processed",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orbmatch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordMatch implements orbmatch.MetricsCollector.
func (m *Metrics) RecordMatch(category string, results int, d time.Duration, err error) {
	m.matchesTotal.WithLabelValues(category, outcome(err)).Inc()
	m.matchDuration.WithLabelValues(category).Observe(d.Seconds())
	if err == nil {
		m.matchResults.WithLabelValues(category).Observe(float64(results))
	}
}

// RecordLoad implements orbmatch.MetricsCollector.
func (m *Metrics) RecordLoad(category string, templates int, d time.Duration, err error) {
	m.loadsTotal.WithLabelValues(category, outcome(err)).Inc()
	m.loadDuration.WithLabelValues(category).Observe(d.Seconds())
	if err == nil {
		m.loadTemplates.WithLabelValues(category).Set(float64(templates))
	}
}

// RecordBatch implements orbmatch.MetricsCollector.
func (m *Metrics) RecordBatch(category string, count, failed int, _ time.Duration) {
	m.batchItems.WithLabelValues(category).Add(float64(count))
	m.batchFailed.WithLabelValues(category).Add(float64(failed))
}

func (m *Metrics) observeHTTP(method, path string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
