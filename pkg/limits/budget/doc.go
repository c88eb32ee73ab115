// Package budget decides whether an explanation request may spend money.
//
// # Per-request gate
//
// Evaluate applies a Policy to a request estimate before any provider call
// is made. It is a pure function: the same estimate and policy always yield
// the same Decision. Ceilings are checked in a fixed order so the reported
// reason is deterministic:
//
//  1. estimated total cost above MaxCostPerRequest -> "cost-exceeded"
//  2. input tokens above MaxInputTokens            -> "input-too-long"
//
// # Monthly spend
//
// Tracker accumulates the reconciled cost of every completed request for the
// current budget period. Enforcement of the monthly budget is opt-in; when it
// is disabled the tracker still reports spend so the gap is visible.
//
//	decision := budget.Evaluate(estimate, policy)
//	if !decision.Admitted {
//	    return decision.Err()
//	}
package budget
