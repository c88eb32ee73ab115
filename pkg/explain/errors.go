package explain

import "fmt"

// ReasonMissingInput is reported when the request has no code.
const ReasonMissingInput = "missing-input"

// ValidationError is returned when a request is malformed.
// It is detected before any token estimation.
type ValidationError struct {
	// Reason is a stable machine-readable reason.
	Reason string

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request (%s): %s", e.Reason, e.Message)
}
