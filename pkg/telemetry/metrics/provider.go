package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"parallax-hq/explainer/pkg/config"
)

// ProviderMetrics tracks calls to external providers.
//
// Metrics:
//   - parallax_provider_calls_total: calls by provider and outcome
//     (success, transport, auth, status, parse)
//   - parallax_provider_latency_seconds: call latency by provider
type ProviderMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_calls_total",
				Help:      "Total number of provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_latency_seconds",
				Help:      "Provider call latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(pm.calls, pm.latency)

	return pm
}

// RecordCall records one provider call.
func (pm *ProviderMetrics) RecordCall(provider, outcome string, latencySeconds float64) {
	pm.calls.WithLabelValues(provider, outcome).Inc()
	pm.latency.WithLabelValues(provider).Observe(latencySeconds)
}
