// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// Middleware is chained outermost first:
//
//	handler = RequestID(Recovery(Logging(RateLimit(mux))))
//
// LoggingMiddleware must hand its own *http.Request to the mux so that it can
// read the matched route pattern afterwards. Middleware that derives a new
// request with WithContext therefore sits outside it.
//
// # Request ID
//
// RequestIDMiddleware assigns every request a UUID v4, or reuses the
// caller's X-Request-ID header, and stores it in the context through the
// logging package so that every log line for the request carries it.
//
// # Logging
//
// LoggingMiddleware records method, path, status and latency once the
// handler returns. When a Recorder is supplied the same observation is
// reported to the metrics collector.
//
// # Recovery
//
// RecoveryMiddleware converts a handler panic into a JSON 500 response
// with reason internal-error. The stack trace is logged, never returned.
//
// # Rate limiting
//
// RateLimitMiddleware applies a process-wide token bucket. Requests over the
// limit receive 429 with reason rate-limited and a Retry-After header.
package middleware
