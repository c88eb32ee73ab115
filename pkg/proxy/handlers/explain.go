package handlers

import (
	"log/slog"
	"net/http"

	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/processing/costs"
	"parallax-hq/explainer/pkg/providers"
	"parallax-hq/explainer/pkg/proxy"
	"parallax-hq/explainer/pkg/proxy/types"
)

// Display names used in the embedded failure strings.
var displayNames = map[string]string{
	costs.ProviderOpenAI:    "GPT-4",
	costs.ProviderAnthropic: "Claude",
}

// ExplainHandler serves POST /explain.
type ExplainHandler struct {
	orchestrator Orchestrator
	maxBodyBytes int64
}

// NewExplainHandler creates an explain handler.
func NewExplainHandler(o Orchestrator, maxBodyBytes int64) *ExplainHandler {
	return &ExplainHandler{orchestrator: o, maxBodyBytes: maxBodyBytes}
}

// ServeHTTP implements http.Handler.
func (h *ExplainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.ExplainRequest
	if err := proxy.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.orchestrator.Explain(ctx, explain.Request{
		Code:            req.Code,
		MaxOutputTokens: req.MaxOutputTokens(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(ctx, "explain request completed",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"estimated_cost", resp.Estimate.Cost.Total,
		"actual_cost", resp.Usage.Cost.Total,
	)

	if err := proxy.WriteJSONResponse(w, http.StatusOK, NewExplainResponse(resp)); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

// NewExplainResponse converts an orchestrator response to its wire form.
func NewExplainResponse(resp *explain.Response) *types.ExplainResponse {
	out := &types.ExplainResponse{
		Usage: types.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			Cost:         resp.Usage.Cost.Total,
		},
		Results: make(map[string]types.ProviderResult, len(resp.Results)),
	}

	for _, r := range resp.Results {
		out.Results[r.Provider] = providerResult(r, resp.Usage)

		text := r.Explanation
		if !r.OK() {
			text = FailureText(r.Provider, r.Err)
		}

		switch r.Provider {
		case costs.ProviderOpenAI:
			out.GPTExplanation = text
		case costs.ProviderAnthropic:
			out.ClaudeExplanation = text
		}
	}

	return out
}

// FailureText is the string placed in a provider's explanation slot when
// its call failed. The response body is left to results.*.error.
func FailureText(provider string, err *providers.Failure) string {
	name, ok := displayNames[provider]
	if !ok {
		name = provider
	}
	return "Error getting " + name + " explanation: " + err.Summary()
}

func providerResult(r providers.Result, usage explain.UsageActual) types.ProviderResult {
	pr := types.ProviderResult{
		OutputTokens: usage.OutputByProvider[r.Provider],
		Cost:         usage.Cost.Provider(r.Provider),
	}

	if r.OK() {
		pr.Status = types.StatusOK
		pr.Explanation = r.Explanation
		return pr
	}

	pr.Status = types.StatusError
	pr.Error = &types.ProviderError{
		Kind:       string(r.Err.Kind),
		Message:    r.Err.Error(),
		StatusCode: r.Err.StatusCode,
		Timeout:    r.Err.Timeout,
	}
	return pr
}
