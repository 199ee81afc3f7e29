// Package metrics holds the Prometheus collectors for the write path.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	Submissions        *prometheus.CounterVec
	SubmitLatency      prometheus.Histogram
	CallbackFailures   *prometheus.CounterVec
	IndexedDocuments   *prometheus.CounterVec
	IndexerCycles      *prometheus.CounterVec
	IndexerLatency     prometheus.Histogram
	OutboxPublished    prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
}

// New creates collectors registered on a fresh registry that also carries
// the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "casedata_event_submissions_total",
			Help: "Event submissions by outcome",
		}, []string{"outcome"}), // outcome: "committed", "rejected", "conflict", "duplicate", "error"

		SubmitLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "casedata_event_submit_duration_seconds",
			Help:    "Duration of event submission including callbacks",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		CallbackFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "casedata_callback_failures_total",
			Help: "Failed callback invocations by kind",
		}, []string{"kind"}),

		IndexedDocuments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "casedata_indexed_documents_total",
			Help: "Documents written to the search index by index kind",
		}, []string{"kind"}), // kind: "case", "global"

		IndexerCycles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "casedata_indexer_cycles_total",
			Help: "Indexer poll cycles by result",
		}, []string{"result"}),

		IndexerLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "casedata_indexer_cycle_duration_seconds",
			Help:    "Duration of indexer cycles that claimed at least one entry",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "casedata_outbox_published_total",
			Help: "Outbox messages relayed to the broker",
		}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "casedata_http_requests_total",
			Help: "HTTP requests by method and status",
		}, []string{"method", "status"}),

		HTTPRequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "casedata_http_request_duration_seconds",
			Help:    "HTTP request latency by method",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) IncSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveSubmit(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncCallbackFailure(kind string) {
	if m != nil {
		m.CallbackFailures.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) AddIndexed(kind string, n int) {
	if m != nil && n > 0 {
		m.IndexedDocuments.WithLabelValues(kind).Add(float64(n))
	}
}

// ObserveIndexerCycle records a cycle result; d is only observed for busy cycles.
func (m *Metrics) ObserveIndexerCycle(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.IndexerCycles.WithLabelValues(result).Inc()
	if result != "idle" {
		m.IndexerLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) AddOutboxPublished(n int) {
	if m != nil && n > 0 {
		m.OutboxPublished.Add(float64(n))
	}
}

func (m *Metrics) ObserveHTTP(method string, status string, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, status).Inc()
		m.HTTPRequestLatency.WithLabelValues(method).Observe(d.Seconds())
	}
}
