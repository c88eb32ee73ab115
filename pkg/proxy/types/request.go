package types

// EstimateRequest is the body of POST /estimate.
type EstimateRequest struct {
	// Code is the source text to estimate. Required.
	Code string `json:"code"`

	// MaxTokens optionally lowers the output token bound.
	MaxTokens *int `json:"max_tokens,omitempty"`
}

// ExplainRequest is the body of POST /explain.
type ExplainRequest struct {
	// Code is the source text to explain. Required.
	Code string `json:"code"`

	// MaxTokens optionally lowers the output token bound.
	MaxTokens *int `json:"max_tokens,omitempty"`
}

// MaxOutputTokens returns the hint, or zero when unset.
func (r *ExplainRequest) MaxOutputTokens() int {
	return maxTokens(r.MaxTokens)
}

// MaxOutputTokens returns the hint, or zero when unset.
func (r *EstimateRequest) MaxOutputTokens() int {
	return maxTokens(r.MaxTokens)
}

func maxTokens(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
