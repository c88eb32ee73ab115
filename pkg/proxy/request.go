package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"parallax-hq/explainer/pkg/proxy/types"
)

const (
	// DefaultMaxBodyBytes is the body limit used when none is configured (1MB).
	DefaultMaxBodyBytes = 1 << 20

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// RequestError represents a request parsing error.
type RequestError struct {
	Status  int
	Reason  string
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts a RequestError to an error response body.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewErrorResponse(e.Message, e.Reason)
}

// DecodeJSON reads at most maxBytes of the request body and decodes it into
// v. Unknown fields are ignored. A body that is empty, malformed, or not a
// JSON object yields a *RequestError with reason invalid-json.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &RequestError{
				Status:  http.StatusRequestEntityTooLarge,
				Reason:  types.ReasonRequestTooLarge,
				Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
			}
		}
		if errors.Is(err, io.EOF) {
			return &RequestError{
				Status:  http.StatusBadRequest,
				Reason:  types.ReasonInvalidJSON,
				Message: "request body is empty",
			}
		}
		return &RequestError{
			Status:  http.StatusBadRequest,
			Reason:  types.ReasonInvalidJSON,
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}
	}

	return nil
}
