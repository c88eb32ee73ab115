// Package server runs the parallax HTTP API.
//
// Routes:
//
//	POST /estimate   token and cost estimate, no provider call
//	POST /explain    estimate, gate, then both providers concurrently
//	GET  /health     liveness
//	GET  /ready      readiness checks (when a checker is configured)
//	GET  /budget     monthly spend ledger status (when a reporter is configured)
//	GET  /version    build information
//	GET  /metrics    Prometheus metrics (path configurable, when enabled)
//
// Other methods on the API routes receive a JSON 405. Every request passes
// through the middleware chain
//
//	RequestID → Recovery → Tracing → Logging → mux
//
// and the two API routes are additionally rate limited when
// limits.rate_limit.enabled is set.
//
// # Lifecycle
//
// Start listens, serves and blocks until the context is cancelled, SIGINT or
// SIGTERM arrives, or Shutdown is called, then drains in-flight requests for
// at most server.shutdown_timeout. With server.tls.enabled the listener
// terminates TLS and the certificate pair is reloaded when it changes on disk.
package server
