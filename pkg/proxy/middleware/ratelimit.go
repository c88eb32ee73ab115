package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"parallax-hq/explainer/pkg/proxy"
	"parallax-hq/explainer/pkg/proxy/types"
)

// RateLimitMiddleware admits at most rps requests per second with the given
// burst, shared by all callers. A non-positive rps disables the limit.
//
// Rejected requests receive 429 with a Retry-After header in whole seconds.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := limiter.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				w.Header().Set("Retry-After", retryAfter(delay))
				_ = proxy.WriteErrorResponse(w, http.StatusTooManyRequests, types.NewErrorResponse(
					"rate limit exceeded, retry later",
					types.ReasonRateLimited,
				))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(d time.Duration) string {
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
