package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"parallax-hq/explainer/pkg/telemetry/logging"
)

// Recorder receives one observation per completed request.
type Recorder interface {
	RecordHTTPRequest(endpoint string, status int, duration time.Duration)
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code before writing.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called if not already done.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// LoggingMiddleware logs each request with structured logging and, when
// recorder is non-nil, reports it to the metrics collector. The endpoint
// label is the matched route pattern when the mux set one, otherwise the
// raw path.
//
// Example usage:
//
//	handler = LoggingMiddleware(collector)(handler)
func LoggingMiddleware(recorder Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()
			rw := newResponseWriter(w)

			slog.DebugContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			next.ServeHTTP(rw, r)

			latency := time.Since(start)

			logLevel := slog.LevelInfo
			if rw.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if rw.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			slog.Log(ctx, logLevel, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", latency.Milliseconds(),
				"request_id", logging.GetRequestID(ctx),
				"user_agent", r.UserAgent(),
			)

			if recorder != nil {
				recorder.RecordHTTPRequest(endpoint(r), rw.statusCode, latency)
			}
		})
	}
}

// endpoint keeps metric label cardinality bounded.
func endpoint(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}
