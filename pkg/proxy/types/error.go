package types

// ErrorResponse is returned for every rejected or failed request.
type ErrorResponse struct {
	// Error is a human-readable message.
	Error string `json:"error"`

	// Reason is a machine-readable code.
	Reason string `json:"reason"`

	// Limit and Actual are set for budget rejections.
	Limit  *float64 `json:"limit,omitempty"`
	Actual *float64 `json:"actual,omitempty"`

	// InputTokens and EstimatedCost are set when an estimate was computed.
	InputTokens   *int     `json:"input_tokens,omitempty"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
}

// Reason codes produced at the HTTP layer. Budget and validation reasons
// come from the budget and explain packages.
const (
	ReasonInvalidJSON      = "invalid-json"
	ReasonRequestTooLarge  = "request-too-large"
	ReasonMethodNotAllowed = "method-not-allowed"
	ReasonRateLimited      = "rate-limited"
	ReasonInternal         = "internal-error"
)

// NewErrorResponse creates an ErrorResponse with only a message and reason.
func NewErrorResponse(message, reason string) *ErrorResponse {
	return &ErrorResponse{Error: message, Reason: reason}
}
