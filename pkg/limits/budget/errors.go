package budget

import "fmt"

// RejectionError is returned when a request is refused before any spend.
// It is client-correctable: a smaller input passes the gate.
type RejectionError struct {
	// Reason identifies the breached ceiling.
	Reason Reason

	// Limit is the configured ceiling.
	Limit float64

	// Actual is the value that breached the ceiling.
	Actual float64

	// Estimate is the estimate that was rejected.
	Estimate Estimate
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonCostExceeded:
		return fmt.Sprintf("estimated cost $%.4f exceeds maximum allowed cost of $%.2f per request", e.Actual, e.Limit)
	case ReasonInputTooLong:
		return fmt.Sprintf("input too long: %d tokens exceeds maximum of %d tokens", int(e.Actual), int(e.Limit))
	case ReasonMonthlyBudgetExceeded:
		return fmt.Sprintf("monthly budget exhausted: $%.4f would exceed the budget of $%.2f", e.Actual, e.Limit)
	default:
		return fmt.Sprintf("request rejected: %s", e.Reason)
	}
}
