package handlers

import (
	"log/slog"
	"net/http"

	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/processing/costs"
	"parallax-hq/explainer/pkg/proxy"
	"parallax-hq/explainer/pkg/proxy/types"
)

// EstimateHandler serves POST /estimate.
type EstimateHandler struct {
	orchestrator Orchestrator
	maxBodyBytes int64
}

// NewEstimateHandler creates an estimate handler.
func NewEstimateHandler(o Orchestrator, maxBodyBytes int64) *EstimateHandler {
	return &EstimateHandler{orchestrator: o, maxBodyBytes: maxBodyBytes}
}

// ServeHTTP implements http.Handler.
func (h *EstimateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.EstimateRequest
	if err := proxy.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}

	est, err := h.orchestrator.Estimate(ctx, explain.Request{
		Code:            req.Code,
		MaxOutputTokens: req.MaxOutputTokens(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := NewEstimateResponse(est)
	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

// NewEstimateResponse converts an estimation to its wire form.
func NewEstimateResponse(est *explain.Estimation) *types.EstimateResponse {
	u := est.Usage
	return &types.EstimateResponse{
		InputTokens:           u.InputTokens,
		EstimatedOutputTokens: u.EstimatedOutputTokens,
		EstimatedCost: types.CostEstimate{
			GPT4Cost:   u.Cost.Provider(costs.ProviderOpenAI),
			ClaudeCost: u.Cost.Provider(costs.ProviderAnthropic),
			TotalCost:  u.Cost.Total,
		},
		TokenScheme: est.TokenScheme,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := proxy.HandleError(err)

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request rejected",
		"path", r.URL.Path,
		"status", status,
		"reason", resp.Reason,
		"error", err,
	)

	if werr := proxy.WriteErrorResponse(w, status, resp); werr != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", "error", werr)
	}
}
