// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth rejection reasons
const (
	ReasonMissingToken     = "missing_token"
	ReasonMalformed        = "malformed"
	ReasonSignatureInvalid = "signature_invalid"
	ReasonExpired          = "expired"
	ReasonTooManyAttempts  = "too_many_attempts"
)

// Metrics groups the application collectors around a private registry
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthRejections  *prometheus.CounterVec
	ReviewConflicts prometheus.Counter
}

// New builds a registry with runtime collectors and the application metrics
func New() *Metrics {
	// Private registry keeps tests and parallel servers isolated
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_rejections_total",
				Help: "Requests refused by authentication, by reason",
			},
			[]string{"reason"},
		),
		ReviewConflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "review_conflicts_total",
				Help: "Review submissions rejected because the user already reviewed the book",
			},
		),
	}

	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.AuthRejections, m.ReviewConflicts)
	return m
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// AuthRejected counts a refused authentication attempt
func (m *Metrics) AuthRejected(reason string) {
	m.AuthRejections.WithLabelValues(reason).Inc()
}

// ReviewConflict counts a duplicate review submission
func (m *Metrics) ReviewConflict() {
	m.ReviewConflicts.Inc()
}

// Registry exposes the underlying registry for extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
