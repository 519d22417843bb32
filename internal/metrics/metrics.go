// Package metrics holds the Prometheus collectors for csv2json.
//
// All collectors live on a private registry so tests can build as many
// Metrics values as they like without colliding on the default registerer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "csv2json"

// Extraction results used as the "result" label.
const (
	ResultOK = "ok"
)

// Metrics bundles the service's collectors.
type Metrics struct {
	registry *prometheus.Registry

	extractions     *prometheus.CounterVec
	extractedRows   prometheus.Histogram
	extractedBytes  prometheus.Histogram
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	breakerState    prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extractions_total",
				Help:      "CSV extractions by result (ok or the failure kind)",
			},
			[]string{"result"},
		),
		extractedRows: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extracted_rows",
				Help:      "Rows per successful extraction",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		extractedBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extracted_bytes",
				Help:      "Body bytes per successful extraction",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		),
		breakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_circuit_breaker_state",
				Help:      "Document store circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
		),
	}

	registry.MustRegister(
		m.extractions,
		m.extractedRows,
		m.extractedBytes,
		m.requests,
		m.requestDuration,
		m.breakerState,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveExtraction records one extraction. result is ResultOK or a failure
// kind name; rows and bytes are only observed for successes.
func (m *Metrics) ObserveExtraction(result string, rows int, bytes int64) {
	m.extractions.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.extractedRows.Observe(float64(rows))
		m.extractedBytes.Observe(float64(bytes))
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetBreakerState records the store breaker state as a number.
func (m *Metrics) SetBreakerState(state int) {
	m.breakerState.Set(float64(state))
}

// RegisterUploadGauge exposes the number of in-flight uploads as reported by fn.
func (m *Metrics) RegisterUploadGauge(fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uploads_in_flight",
			Help:      "Extractions currently holding an upload slot",
		},
		fn,
	))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
