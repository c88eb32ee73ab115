package handlers

import (
	"context"

	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/limits/budget"
)

// Orchestrator runs estimate and explain requests.
type Orchestrator interface {
	Estimate(ctx context.Context, req explain.Request) (*explain.Estimation, error)
	Explain(ctx context.Context, req explain.Request) (*explain.Response, error)
}

// BudgetReporter reports spend ledger status.
type BudgetReporter interface {
	Status() budget.Status
}
