package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind classifies a provider failure.
type Kind string

const (
	// KindTransport is a timeout or connection failure.
	KindTransport Kind = "transport"

	// KindAuth is an HTTP 401 or 403 response.
	KindAuth Kind = "auth"

	// KindStatus is any other non-2xx response.
	KindStatus Kind = "status"

	// KindParse is a 2xx response that does not match the success schema.
	KindParse Kind = "parse"
)

// Failure describes why a provider call did not produce an explanation.
type Failure struct {
	// Provider is the provider id.
	Provider string

	// Kind classifies the failure.
	Kind Kind

	// StatusCode is the HTTP status code (0 for transport failures).
	StatusCode int

	// Body is the raw response body for status and parse failures.
	Body string

	// Timeout is set when a transport failure was caused by the deadline.
	Timeout bool

	// After is the configured timeout, set when Timeout is true.
	After time.Duration

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface. Auth and status failures include the
// raw response body.
func (f *Failure) Error() string {
	switch f.Kind {
	case KindAuth, KindStatus:
		return f.Summary() + ": " + f.Body
	default:
		return f.Summary()
	}
}

// Summary describes the failure without the response body.
func (f *Failure) Summary() string {
	switch f.Kind {
	case KindTransport:
		if f.Timeout && f.After > 0 {
			return fmt.Sprintf("provider %q request timeout after %s", f.Provider, f.After)
		}
		if f.Timeout {
			return fmt.Sprintf("provider %q request timeout: %v", f.Provider, f.Cause)
		}
		return fmt.Sprintf("provider %q transport error: %v", f.Provider, f.Cause)
	case KindAuth:
		return fmt.Sprintf("provider %q authentication failed (status %d)", f.Provider, f.StatusCode)
	case KindStatus:
		return fmt.Sprintf("provider %q error (status %d)", f.Provider, f.StatusCode)
	case KindParse:
		return fmt.Sprintf("provider %q response parse error: %v", f.Provider, f.Cause)
	default:
		return fmt.Sprintf("provider %q error: %v", f.Provider, f.Cause)
	}
}

// Unwrap returns the underlying error for error chain support.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// Retryable reports whether the failure may succeed on another attempt.
func (f *Failure) Retryable() bool {
	return f.Kind == KindTransport
}

// AsFailure returns err as a *Failure, classifying unknown errors as transport
// failures of provider. An expired deadline is reported as a timeout.
func AsFailure(provider string, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{
		Provider: provider,
		Kind:     KindTransport,
		Timeout:  errors.Is(err, context.DeadlineExceeded),
		Cause:    err,
	}
}

// ConfigError represents a provider configuration error.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
