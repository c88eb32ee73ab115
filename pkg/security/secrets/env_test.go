package secrets

import (
	"context"
	"errors"
	"testing"
)

func TestEnvProvider_GetSecret(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env-value")

	p := NewEnvProvider("")
	value, err := p.GetSecret(context.Background(), "openai_api_key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "sk-env-value" {
		t.Errorf("expected sk-env-value, got %q", value)
	}
}

func TestEnvProvider_Prefix(t *testing.T) {
	t.Setenv("PARALLAX_SECRET_ANTHROPIC_API_KEY", "prefixed")

	p := NewEnvProvider("PARALLAX_SECRET_")
	if got := p.EnvVar("anthropic-api-key"); got != "PARALLAX_SECRET_ANTHROPIC_API_KEY" {
		t.Errorf("unexpected env var name %q", got)
	}

	value, err := p.GetSecret(context.Background(), "anthropic-api-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "prefixed" {
		t.Errorf("expected prefixed, got %q", value)
	}
}

func TestEnvProvider_NotFound(t *testing.T) {
	t.Setenv("PARALLAX_TEST_BLANK", "   ")

	p := NewEnvProvider("PARALLAX_TEST_")
	for _, name := range []string{"missing", "blank"} {
		_, err := p.GetSecret(context.Background(), name)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}
