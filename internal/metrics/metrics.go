// Package metrics exposes Prometheus instrumentation for the API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and collectors for one server instance.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	backendErrors       prometheus.Counter
}

// New creates a metrics set backed by its own registry, so parallel test
// servers never collide on collector registration.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	f := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ranker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ranker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		backendErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ranker",
			Subsystem: "dal",
			Name:      "backend_errors_total",
			Help:      "Storage-backend failures surfaced through the DAL.",
		}),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// BackendError counts one storage-backend failure.
func (m *Metrics) BackendError() {
	m.backendErrors.Inc()
}

// Handler serves the scrape endpoint for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
