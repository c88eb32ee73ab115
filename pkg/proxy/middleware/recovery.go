package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"parallax-hq/explainer/pkg/proxy"
	"parallax-hq/explainer/pkg/proxy/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// response. The panic is logged with its stack trace; clients only see a
// generic message.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				_ = proxy.WriteErrorResponse(w, http.StatusInternalServerError, types.NewErrorResponse(
					"An internal error occurred. Please try again later.",
					types.ReasonInternal,
				))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
