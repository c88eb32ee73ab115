// Package explain orchestrates a budgeted explanation request across
// several providers.
//
// # Lifecycle
//
// Every request moves through a fixed sequence of states:
//
//	Received -> Estimated -> Rejected
//	                      -> Admitted -> Dispatched -> Reconciled
//
// The estimate is computed once from the raw input. The budget gate then
// admits or rejects it; a rejected request never reaches a provider. Admitted
// requests are sent to every provider concurrently and the orchestrator waits
// for all of them. One provider failing never cancels or delays another.
// Finally the actual usage is reconciled from the explanations that came back.
//
// # Usage
//
//	orch, err := explain.New(estimator, calculator, policy,
//	    []providers.Client{gpt, claude},
//	    explain.WithProviderTimeout(10*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := orch.Explain(ctx, explain.Request{Code: code})
//	var rejection *budget.RejectionError
//	if errors.As(err, &rejection) {
//	    // client-correctable; nothing was spent
//	}
//
// The orchestrator keeps no state between requests apart from the optional
// spend ledger.
package explain
