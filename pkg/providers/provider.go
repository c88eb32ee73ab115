package providers

import (
	"context"
	"fmt"
)

// Prompts sent to every provider.
const (
	SystemPrompt     = "You are a helpful assistant that explains code in plain English."
	userPromptPrefix = "Please explain this code in simple terms:\n\n"
)

// UserPrompt returns the user message asking for an explanation of code.
func UserPrompt(code string) string {
	return userPromptPrefix + code
}

// Client asks one external provider to explain code.
//
// Explain never returns an error: every call ends in a Result holding either
// the explanation or a *Failure. Implementations must be safe for concurrent
// use and must bound every call with their configured timeout.
type Client interface {
	// Name returns the provider id (e.g. "openai", "anthropic").
	Name() string

	// Explain requests an explanation of code, limited to maxOutputTokens.
	Explain(ctx context.Context, code string, maxOutputTokens int) Result
}

// Result is the outcome of a single provider call.
// Exactly one of Explanation and Err is set; use Success and Failed to build it.
type Result struct {
	// Provider is the provider id.
	Provider string

	// Explanation is the text returned by the provider on success.
	Explanation string

	// Err describes the failure, or is nil on success.
	Err *Failure
}

// Success builds a successful Result.
func Success(provider, explanation string) Result {
	return Result{Provider: provider, Explanation: explanation}
}

// Failed builds a failed Result. Errors that are not already a *Failure are
// classified as transport failures.
func Failed(provider string, err error) Result {
	if err == nil {
		err = fmt.Errorf("unknown error")
	}
	return Result{Provider: provider, Err: AsFailure(provider, err)}
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}
