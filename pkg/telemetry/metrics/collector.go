package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"parallax-hq/explainer/pkg/config"
	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/limits/budget"
)

// Collector owns the metrics registry and records measurements for every
// component.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	providerMetrics *ProviderMetrics
	budgetMetrics   *BudgetMetrics
	costMetrics     *CostMetrics
}

var _ explain.Recorder = (*Collector)(nil)

// NewCollector creates a new metrics collector. If registry is nil a new
// private registry with the Go runtime and process collectors is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "parallax"
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		// Provider round trips are dominated by generation time.
		cfg.RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		requestMetrics:  NewRequestMetrics(cfg, registry),
		providerMetrics: NewProviderMetrics(cfg, registry),
		budgetMetrics:   NewBudgetMetrics(cfg, registry),
		costMetrics:     NewCostMetrics(cfg, registry),
	}
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordHTTPRequest records a completed HTTP request.
func (c *Collector) RecordHTTPRequest(endpoint string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.RecordRequest(endpoint, status, duration)
}

// RecordEstimate records a computed usage estimate.
func (c *Collector) RecordEstimate(usage explain.UsageEstimate) {
	if !c.config.Enabled {
		return
	}
	c.costMetrics.RecordEstimate(usage.InputTokens, usage.EstimatedOutputTokens, usage.Cost.Total)
}

// RecordRejection records a budget rejection.
func (c *Collector) RecordRejection(reason budget.Reason) {
	if !c.config.Enabled {
		return
	}
	c.budgetMetrics.RecordRejection(string(reason))
}

// RecordProviderCall records the outcome and latency of one provider call.
func (c *Collector) RecordProviderCall(provider, outcome string, latency time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.providerMetrics.RecordCall(provider, outcome, latency.Seconds())
}

// RecordActual records reconciled usage.
func (c *Collector) RecordActual(usage explain.UsageActual) {
	if !c.config.Enabled {
		return
	}
	for provider, cost := range usage.Cost.ByProvider {
		c.costMetrics.RecordActual(provider, usage.OutputByProvider[provider], cost)
	}
	c.costMetrics.RecordRequestCost(usage.Cost.Total)
}

// UpdateBudget records the spend status of the current budget period.
func (c *Collector) UpdateBudget(status budget.Status) {
	if !c.config.Enabled {
		return
	}
	c.budgetMetrics.UpdateStatus(status)
}
