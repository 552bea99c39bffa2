// Package metrics exposes ingest and classification counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"fjacquet/upi-ledger/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "upi_ledger"

// Document outcome labels.
const (
	StatusOK     = "ok"
	StatusReject = "rejected"
	StatusError  = "error"
)

// Metrics holds the collectors on a private registry. A nil *Metrics
// records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	documents       *prometheus.CounterVec
	transactions    *prometheus.CounterVec
	classifications *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

// New creates the collectors and registers them, with the Go runtime
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by kind and outcome.",
		}, []string{"kind", "status"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_extracted_total",
			Help:      "Transactions extracted from documents, by document kind.",
		}, []string{"kind"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Transactions classified, by classification method.",
		}, []string{"method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_processing_seconds",
			Help:      "Time spent processing one document.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.documents,
		m.transactions,
		m.classifications,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveDocument records the outcome and duration of one document.
func (m *Metrics) ObserveDocument(kind, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(kind, status).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// AddTransactions counts extracted transactions.
func (m *Metrics) AddTransactions(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.transactions.WithLabelValues(kind).Add(float64(n))
}

// ObserveClassification counts one classification.
func (m *Metrics) ObserveClassification(method models.ClassificationMethod) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(string(method)).Inc()
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
