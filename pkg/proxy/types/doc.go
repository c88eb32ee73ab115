// Package types defines the JSON request and response bodies of the
// explanation API.
//
// Request types:
//   - EstimateRequest: body of POST /estimate
//   - ExplainRequest: body of POST /explain
//
// Response types:
//   - EstimateResponse: token and cost estimate
//   - ExplainResponse: both explanations, usage, and a tagged result per provider
//   - BudgetResponse: spend ledger status
//   - ErrorResponse: every 4xx/5xx body
//
// Provider failures do not produce an ErrorResponse. The explain response is
// still 200; the failure text is placed in that provider's explanation field
// and its ProviderResult carries status "error".
package types
