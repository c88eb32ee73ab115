package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider loads secrets from environment variables.
//
// Secret names are converted to uppercase environment variable names
// with hyphens replaced by underscores, then prefixed.
//
// Example:
//   - Secret name: "openai_api_key"
//   - Env var name: "OPENAI_API_KEY" (no prefix)
type EnvProvider struct {
	Prefix string
}

// NewEnvProvider creates a new environment variable secret provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{
		Prefix: prefix,
	}
}

// GetSecret retrieves a secret from an environment variable.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	envVar := p.EnvVar(name)

	value := strings.TrimSpace(os.Getenv(envVar))
	if value == "" {
		return "", fmt.Errorf("%w in environment: %s (env var: %s)", ErrNotFound, name, envVar)
	}

	return value, nil
}

// Provider returns the provider name.
func (p *EnvProvider) Provider() string {
	return "env"
}

// EnvVar returns the environment variable a secret is read from.
func (p *EnvProvider) EnvVar(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
