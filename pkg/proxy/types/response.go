package types

import "time"

// EstimateResponse is the body of a successful POST /estimate.
type EstimateResponse struct {
	InputTokens           int          `json:"input_tokens"`
	EstimatedOutputTokens int          `json:"estimated_output_tokens"`
	EstimatedCost         CostEstimate `json:"estimated_cost"`
	TokenScheme           string       `json:"token_scheme,omitempty"`
}

// CostEstimate holds per-provider and total cost in USD.
type CostEstimate struct {
	GPT4Cost   float64 `json:"gpt4_cost"`
	ClaudeCost float64 `json:"claude_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// ExplainResponse is the body of a completed POST /explain.
type ExplainResponse struct {
	GPTExplanation    string                    `json:"gpt_explanation"`
	ClaudeExplanation string                    `json:"claude_explanation"`
	Usage             Usage                     `json:"usage"`
	Results           map[string]ProviderResult `json:"results"`
}

// Usage is the reconciled usage of an explain request.
type Usage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// Result status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ProviderResult is the tagged outcome of one provider call.
type ProviderResult struct {
	// Status is "ok" or "error".
	Status string `json:"status"`

	Explanation  string         `json:"explanation,omitempty"`
	OutputTokens int            `json:"output_tokens"`
	Cost         float64        `json:"cost"`
	Error        *ProviderError `json:"error,omitempty"`
}

// ProviderError describes a failed provider call.
type ProviderError struct {
	// Kind is transport, auth, status, or parse.
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Timeout    bool   `json:"timeout,omitempty"`
}

// BudgetResponse is the body of GET /budget.
type BudgetResponse struct {
	Enforced    bool      `json:"enforced"`
	Allowed     bool      `json:"allowed"`
	Limit       float64   `json:"limit"`
	Used        float64   `json:"used"`
	Remaining   float64   `json:"remaining"`
	Percentage  float64   `json:"percentage"`
	PeriodStart time.Time `json:"period_start"`
	NextReset   time.Time `json:"next_reset,omitzero"`
}
