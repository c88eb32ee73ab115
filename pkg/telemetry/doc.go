// Package telemetry groups the observability packages of parallax.
//
//   - logging: slog construction, request-scoped attributes and secret redaction
//   - metrics: Prometheus collectors for requests, estimates, provider calls and spend
//   - tracing: OpenTelemetry tracer provider and HTTP propagation
//   - health: readiness checks and the version endpoint
//
// Each package is configured from config.TelemetryConfig and wired together
// in cmd/parallax.
package telemetry
