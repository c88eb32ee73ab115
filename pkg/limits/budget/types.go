package budget

import "time"

// Reason identifies which ceiling rejected a request.
type Reason string

const (
	// ReasonCostExceeded means the estimated cost is above the per-request ceiling.
	ReasonCostExceeded Reason = "cost-exceeded"

	// ReasonInputTooLong means the input token count is above the ceiling.
	ReasonInputTooLong Reason = "input-too-long"

	// ReasonMonthlyBudgetExceeded means the request would overrun the monthly budget.
	ReasonMonthlyBudgetExceeded Reason = "monthly-budget-exceeded"
)

// Default policy values.
const (
	DefaultMaxCostPerRequest = 0.5
	DefaultMaxInputTokens    = 4000
	DefaultMaxOutputTokens   = 4000
	DefaultMonthlyBudget     = 10.0
)

// Policy holds the process-wide spending ceilings.
// It is built once at startup and passed by value.
type Policy struct {
	// MaxCostPerRequest is the ceiling on the combined estimated cost in USD.
	MaxCostPerRequest float64

	// MaxInputTokens is the ceiling on input tokens.
	MaxInputTokens int

	// MaxOutputTokens caps the estimated and requested output tokens.
	MaxOutputTokens int

	// MonthlyBudget is the spend ceiling for one budget period in USD.
	MonthlyBudget float64
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxCostPerRequest: DefaultMaxCostPerRequest,
		MaxInputTokens:    DefaultMaxInputTokens,
		MaxOutputTokens:   DefaultMaxOutputTokens,
		MonthlyBudget:     DefaultMonthlyBudget,
	}
}

// OutputCap returns the output token bound for a request. A positive hint
// lowers the bound; it can never raise it above MaxOutputTokens.
func (p Policy) OutputCap(hint int) int {
	if hint > 0 && hint < p.MaxOutputTokens {
		return hint
	}
	return p.MaxOutputTokens
}

// Estimate is the part of a usage estimate the gate looks at.
type Estimate struct {
	InputTokens           int
	EstimatedOutputTokens int
	TotalCost             float64
}

// Decision is the outcome of evaluating an estimate against a policy.
type Decision struct {
	// Admitted is true when no ceiling was breached.
	Admitted bool

	// Reason is set when Admitted is false.
	Reason Reason

	// Limit is the breached ceiling (USD or tokens, depending on Reason).
	Limit float64

	// Actual is the estimated value that breached Limit.
	Actual float64

	// Estimate is the evaluated estimate.
	Estimate Estimate
}

// Status reports spend for the current budget period.
type Status struct {
	// Allowed indicates spend is within the budget.
	Allowed bool

	// Enforced indicates the budget rejects requests once exhausted.
	Enforced bool

	// Limit is the configured budget in USD.
	Limit float64

	// Used is the amount spent in the current period in USD.
	Used float64

	// Remaining is the budget left in USD, never negative.
	Remaining float64

	// Percentage is Used/Limit (0 when no limit is configured).
	Percentage float64

	// PeriodStart is when the current period began.
	PeriodStart time.Time

	// NextReset is when the period resets, or zero when no schedule runs.
	NextReset time.Time
}
