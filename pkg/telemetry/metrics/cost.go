package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"parallax-hq/explainer/pkg/config"
)

// CostMetrics tracks estimated and actual usage.
//
// Metrics:
//   - parallax_estimated_cost_usd_total: sum of estimated request costs
//   - parallax_estimated_tokens_total: estimated tokens by direction
//   - parallax_actual_cost_usd_total: actual cost by provider
//   - parallax_actual_output_tokens_total: output tokens produced by provider
//   - parallax_cost_per_request_usd: actual cost distribution per request
type CostMetrics struct {
	estimatedCost   prometheus.Counter
	estimatedTokens *prometheus.CounterVec
	actualCost      *prometheus.CounterVec
	actualOutput    *prometheus.CounterVec
	costPerRequest  prometheus.Histogram
}

// NewCostMetrics creates and registers cost metrics with the provided registry.
func NewCostMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CostMetrics {
	cm := &CostMetrics{
		estimatedCost: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimated_cost_usd_total",
				Help:      "Sum of estimated request costs in USD",
			},
		),

		estimatedTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimated_tokens_total",
				Help:      "Estimated tokens by direction (input, output)",
			},
			[]string{"direction"},
		),

		actualCost: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "actual_cost_usd_total",
				Help:      "Reconciled cost in USD by provider",
			},
			[]string{"provider"},
		),

		actualOutput: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "actual_output_tokens_total",
				Help:      "Output tokens counted from returned explanations by provider",
			},
			[]string{"provider"},
		),

		costPerRequest: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cost_per_request_usd",
				Help:      "Reconciled cost distribution per request in USD",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),
	}

	registry.MustRegister(
		cm.estimatedCost,
		cm.estimatedTokens,
		cm.actualCost,
		cm.actualOutput,
		cm.costPerRequest,
	)

	return cm
}

// RecordEstimate records one usage estimate.
func (cm *CostMetrics) RecordEstimate(inputTokens, outputTokens int, cost float64) {
	cm.estimatedCost.Add(cost)
	cm.estimatedTokens.WithLabelValues("input").Add(float64(inputTokens))
	cm.estimatedTokens.WithLabelValues("output").Add(float64(outputTokens))
}

// RecordActual records the reconciled usage of one provider.
func (cm *CostMetrics) RecordActual(provider string, outputTokens int, cost float64) {
	cm.actualCost.WithLabelValues(provider).Add(cost)
	cm.actualOutput.WithLabelValues(provider).Add(float64(outputTokens))
}

// RecordRequestCost records the reconciled cost of a whole request.
func (cm *CostMetrics) RecordRequestCost(cost float64) {
	cm.costPerRequest.Observe(cost)
}
