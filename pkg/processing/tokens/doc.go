// Package tokens provides token estimation for explanation requests.
//
// Token counts drive both the per-request cost estimate and the input length
// ceiling, so the same counting scheme is applied to every provider: the
// cl100k_base byte-pair encoding. The count is an approximation shared across
// providers, not a provider-exact number.
//
// # Usage
//
//	estimator := tokens.NewTiktokenEstimator()
//	n := estimator.CountTokens(code)
//	out := tokens.EstimateOutput(n, 4000)
//
// The BPE ranks are loaded from an embedded copy, so counting never performs
// network I/O. If the encoding cannot be loaded, the estimator falls back to a
// character heuristic for the lifetime of the process.
package tokens
