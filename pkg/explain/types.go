package explain

import (
	"parallax-hq/explainer/pkg/limits/budget"
	"parallax-hq/explainer/pkg/processing/costs"
	"parallax-hq/explainer/pkg/providers"
)

// State is a step in the request lifecycle.
type State string

const (
	StateReceived   State = "received"
	StateEstimated  State = "estimated"
	StateRejected   State = "rejected"
	StateAdmitted   State = "admitted"
	StateDispatched State = "dispatched"
	StateReconciled State = "reconciled"
)

// Request is a single explanation request.
type Request struct {
	// Code is the source text to explain. Must not be empty.
	Code string

	// MaxOutputTokens optionally lowers the output token bound. Zero means unset.
	MaxOutputTokens int
}

// UsageEstimate is the pre-dispatch estimate of a request.
type UsageEstimate struct {
	InputTokens           int
	EstimatedOutputTokens int
	Cost                  costs.Breakdown
}

// budgetEstimate returns the part of the estimate the budget gate evaluates.
func (u UsageEstimate) budgetEstimate() budget.Estimate {
	return budget.Estimate{
		InputTokens:           u.InputTokens,
		EstimatedOutputTokens: u.EstimatedOutputTokens,
		TotalCost:             u.Cost.Total,
	}
}

// UsageActual is the usage reconciled after the providers returned.
type UsageActual struct {
	// InputTokens is copied from the estimate; it is never re-estimated.
	InputTokens int

	// OutputTokens is the sum of OutputByProvider.
	OutputTokens int

	// OutputByProvider is the output token count per provider. Failed
	// providers count zero.
	OutputByProvider map[string]int

	Cost costs.Breakdown
}

// Estimation is the result of estimating and gating a request.
type Estimation struct {
	Usage    UsageEstimate
	Decision budget.Decision

	// TokenScheme names the tokenization used for the estimate.
	TokenScheme string
}

// Response is the assembled result of an admitted request.
type Response struct {
	// Results holds one entry per provider, in dispatch order.
	Results []providers.Result

	Estimate UsageEstimate
	Usage    UsageActual
}

// Result returns the result of a provider by name.
func (r *Response) Result(provider string) (providers.Result, bool) {
	for _, res := range r.Results {
		if res.Provider == provider {
			return res, true
		}
	}
	return providers.Result{}, false
}

// Credentials holds the provider API keys, resolved once at startup.
type Credentials struct {
	OpenAIKey    string
	AnthropicKey string
}

// Missing returns the providers whose key is empty.
func (c Credentials) Missing() []string {
	var missing []string
	if c.OpenAIKey == "" {
		missing = append(missing, "openai")
	}
	if c.AnthropicKey == "" {
		missing = append(missing, "anthropic")
	}
	return missing
}

// String never prints the keys.
func (c Credentials) String() string {
	return "Credentials{OpenAIKey:" + mask(c.OpenAIKey) + " AnthropicKey:" + mask(c.AnthropicKey) + "}"
}

func mask(key string) string {
	if key == "" {
		return `""`
	}
	return "***"
}
