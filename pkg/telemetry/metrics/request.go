package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"parallax-hq/explainer/pkg/config"
)

// RequestMetrics tracks HTTP request processing.
//
// Metrics:
//   - parallax_http_requests_total: requests by endpoint and status code
//   - parallax_http_request_duration_seconds: request duration by endpoint
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by endpoint and status code",
			},
			[]string{"endpoint", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"endpoint"},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration)

	return rm
}

// RecordRequest records a completed HTTP request.
func (rm *RequestMetrics) RecordRequest(endpoint string, status int, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	rm.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
