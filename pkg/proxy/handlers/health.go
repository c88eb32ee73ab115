package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"parallax-hq/explainer/pkg/limits/budget"
	"parallax-hq/explainer/pkg/proxy"
	"parallax-hq/explainer/pkg/proxy/types"
)

// HealthHandler handles liveness probes.
type HealthHandler struct {
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, startTime: time.Now()}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"timestamp":      time.Now().Unix(),
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, response); err != nil {
		slog.ErrorContext(r.Context(), "failed to write health response", "error", err)
	}
}

// BudgetHandler serves GET /budget.
type BudgetHandler struct {
	reporter BudgetReporter
}

// NewBudgetHandler creates a budget status handler.
func NewBudgetHandler(reporter BudgetReporter) *BudgetHandler {
	return &BudgetHandler{reporter: reporter}
}

// ServeHTTP implements http.Handler.
func (h *BudgetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := NewBudgetResponse(h.reporter.Status())
	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to write budget response", "error", err)
	}
}

// NewBudgetResponse converts a ledger status to its wire form.
func NewBudgetResponse(s budget.Status) *types.BudgetResponse {
	return &types.BudgetResponse{
		Enforced:    s.Enforced,
		Allowed:     s.Allowed,
		Limit:       s.Limit,
		Used:        s.Used,
		Remaining:   s.Remaining,
		Percentage:  s.Percentage,
		PeriodStart: s.PeriodStart,
		NextReset:   s.NextReset,
	}
}
