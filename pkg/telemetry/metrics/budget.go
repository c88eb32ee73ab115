package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"parallax-hq/explainer/pkg/config"
	"parallax-hq/explainer/pkg/limits/budget"
)

// BudgetMetrics tracks budget decisions and monthly spend.
//
// Metrics:
//   - parallax_budget_rejections_total: rejections by reason
//   - parallax_budget_monthly_spend_usd: spend in the current period
//   - parallax_budget_monthly_limit_usd: configured monthly budget
type BudgetMetrics struct {
	rejections   *prometheus.CounterVec
	monthlySpend prometheus.Gauge
	monthlyLimit prometheus.Gauge
}

// NewBudgetMetrics creates and registers budget metrics with the provided registry.
func NewBudgetMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *BudgetMetrics {
	bm := &BudgetMetrics{
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "budget_rejections_total",
				Help:      "Total number of requests rejected by the budget gate",
			},
			[]string{"reason"},
		),

		monthlySpend: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "budget_monthly_spend_usd",
				Help:      "Actual spend in the current budget period in USD",
			},
		),

		monthlyLimit: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "budget_monthly_limit_usd",
				Help:      "Configured monthly budget in USD",
			},
		),
	}

	registry.MustRegister(bm.rejections, bm.monthlySpend, bm.monthlyLimit)

	return bm
}

// RecordRejection records a rejection.
func (bm *BudgetMetrics) RecordRejection(reason string) {
	bm.rejections.WithLabelValues(reason).Inc()
}

// UpdateStatus sets the monthly gauges.
func (bm *BudgetMetrics) UpdateStatus(status budget.Status) {
	bm.monthlySpend.Set(status.Used)
	bm.monthlyLimit.Set(status.Limit)
}
