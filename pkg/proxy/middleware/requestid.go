package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"parallax-hq/explainer/pkg/proxy"
	"parallax-hq/explainer/pkg/telemetry/logging"
)

// maxRequestIDLength bounds caller-supplied request IDs.
const maxRequestIDLength = 128

// RequestIDMiddleware generates a unique request ID for each request and adds
// it to the context and response headers. A caller-supplied X-Request-ID is
// reused when present.
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(proxy.RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(proxy.RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
