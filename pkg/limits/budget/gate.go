package budget

// Evaluate decides whether an estimate is admitted under a policy.
//
// Cost is checked before input length, so an estimate breaching both ceilings
// is reported as ReasonCostExceeded. Evaluate has no side effects.
func Evaluate(est Estimate, policy Policy) Decision {
	if est.TotalCost > policy.MaxCostPerRequest {
		return Decision{
			Reason:   ReasonCostExceeded,
			Limit:    policy.MaxCostPerRequest,
			Actual:   est.TotalCost,
			Estimate: est,
		}
	}

	if est.InputTokens > policy.MaxInputTokens {
		return Decision{
			Reason:   ReasonInputTooLong,
			Limit:    float64(policy.MaxInputTokens),
			Actual:   float64(est.InputTokens),
			Estimate: est,
		}
	}

	return Decision{Admitted: true, Estimate: est}
}

// Err returns a *RejectionError for a rejected decision and nil otherwise.
func (d Decision) Err() error {
	if d.Admitted {
		return nil
	}
	return &RejectionError{
		Reason:   d.Reason,
		Limit:    d.Limit,
		Actual:   d.Actual,
		Estimate: d.Estimate,
	}
}
