// Package metrics exposes Prometheus collectors for the client's calls to
// the Duemate API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Buckets for API round trips, in seconds.
var APIBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// APIMetrics groups the collectors recorded per outgoing request.
type APIMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TransportErrors *prometheus.CounterVec
}

// NewAPIMetrics registers the collectors with registerer. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewAPIMetrics(namespace string, registerer prometheus.Registerer) *APIMetrics {
	factory := promauto.With(registerer)

	return &APIMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Requests sent to the payments API by route template, method and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Round-trip latency of payments API requests by route template",
				Buckets:   APIBuckets,
			},
			[]string{"route", "method"},
		),
		TransportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_transport_errors_total",
				Help:      "Requests that failed before a response arrived",
			},
			[]string{"route", "method"},
		),
	}
}

// Observe records one completed round trip.
func (m *APIMetrics) Observe(route, method string, statusCode int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveTransportError records a request that never got a response.
func (m *APIMetrics) ObserveTransportError(route, method string) {
	if m == nil {
		return
	}
	m.TransportErrors.WithLabelValues(route, method).Inc()
}
