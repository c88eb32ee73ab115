package providers_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"parallax-hq/explainer/pkg/providers"
)

func TestResult_ExactlyOneSet(t *testing.T) {
	ok := providers.Success("openai", "it prints hello")
	assert.True(t, ok.OK())
	assert.Nil(t, ok.Err)
	assert.Equal(t, "it prints hello", ok.Explanation)

	failed := providers.Failed("anthropic", &providers.Failure{Provider: "anthropic", Kind: providers.KindAuth, StatusCode: 401})
	assert.False(t, failed.OK())
	assert.Empty(t, failed.Explanation)
	assert.Equal(t, providers.KindAuth, failed.Err.Kind)

	nilErr := providers.Failed("openai", nil)
	assert.False(t, nilErr.OK())
	assert.NotNil(t, nilErr.Err)
}

func TestAsFailure(t *testing.T) {
	original := &providers.Failure{Provider: "openai", Kind: providers.KindStatus, StatusCode: 500}
	wrapped := fmt.Errorf("call failed: %w", original)
	assert.Same(t, original, providers.AsFailure("openai", wrapped))

	cause := errors.New("connection refused")
	f := providers.AsFailure("anthropic", cause)
	assert.Equal(t, providers.KindTransport, f.Kind)
	assert.Equal(t, "anthropic", f.Provider)
	assert.ErrorIs(t, f, cause)
	assert.False(t, f.Timeout)

	expired := providers.AsFailure("openai", fmt.Errorf("call: %w", context.DeadlineExceeded))
	assert.Equal(t, providers.KindTransport, expired.Kind)
	assert.True(t, expired.Timeout)
	assert.Equal(t, `provider "openai" request timeout: call: context deadline exceeded`, expired.Error())
}

func TestFailure_Error(t *testing.T) {
	tests := []struct {
		failure *providers.Failure
		want    string
	}{
		{
			failure: &providers.Failure{Provider: "openai", Kind: providers.KindTransport, Cause: errors.New("refused")},
			want:    `provider "openai" transport error: refused`,
		},
		{
			failure: &providers.Failure{Provider: "openai", Kind: providers.KindAuth, StatusCode: 401, Body: "bad key"},
			want:    `provider "openai" authentication failed (status 401): bad key`,
		},
		{
			failure: &providers.Failure{Provider: "anthropic", Kind: providers.KindStatus, StatusCode: 529, Body: "overloaded"},
			want:    `provider "anthropic" error (status 529): overloaded`,
		},
		{
			failure: &providers.Failure{Provider: "anthropic", Kind: providers.KindParse, Cause: errors.New("no text")},
			want:    `provider "anthropic" response parse error: no text`,
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.failure.Error())
	}
}

func TestFailure_SummaryOmitsBody(t *testing.T) {
	auth := &providers.Failure{Provider: "openai", Kind: providers.KindAuth, StatusCode: 401, Body: "bad key"}
	assert.Equal(t, `provider "openai" authentication failed (status 401)`, auth.Summary())

	status := &providers.Failure{Provider: "anthropic", Kind: providers.KindStatus, StatusCode: 529, Body: "overloaded"}
	assert.Equal(t, `provider "anthropic" error (status 529)`, status.Summary())

	parse := &providers.Failure{Provider: "anthropic", Kind: providers.KindParse, Body: "<html>", Cause: errors.New("no text")}
	assert.Equal(t, parse.Error(), parse.Summary())
	assert.NotContains(t, parse.Summary(), "<html>")
}

func TestUserPrompt(t *testing.T) {
	assert.Equal(t, "Please explain this code in simple terms:\n\nx = 1", providers.UserPrompt("x = 1"))
}
