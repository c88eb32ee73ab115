package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"parallax-hq/explainer/pkg/config"
	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/telemetry/logging"
)

// Manager tries secret providers in priority order.
type Manager struct {
	providers []SecretProvider
}

// NewManager creates a manager. Providers are tried in the order given.
func NewManager(providers ...SecretProvider) *Manager {
	return &Manager{providers: providers}
}

// NewManagerFromConfig builds the environment provider and, when a
// directory is configured, a file provider behind it.
func NewManagerFromConfig(cfg *config.SecretsConfig) (*Manager, error) {
	providers := []SecretProvider{NewEnvProvider(cfg.EnvPrefix)}

	if cfg.Dir != "" {
		fp, err := NewFileProvider(cfg.Dir, cfg.Watch)
		if err != nil {
			return nil, fmt.Errorf("secrets directory %q: %w", cfg.Dir, err)
		}
		providers = append(providers, fp)
	}

	return NewManager(providers...), nil
}

// GetSecret returns the value from the first provider that has it.
// Errors other than ErrNotFound stop the search.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	for _, provider := range m.providers {
		value, err := provider.GetSecret(ctx, name)
		if err == nil {
			slog.Debug("secret resolved", "provider", provider.Provider(), "name", name)
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("failed to get secret %q from %s: %w", name, provider.Provider(), err)
		}
	}

	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// ResolveCredentials materializes both provider keys. A literal api_key in
// the configuration wins over the named secret.
//
// Missing keys are left empty and reported in an error wrapping
// ErrNotFound; the partially filled Credentials are still returned.
func (m *Manager) ResolveCredentials(ctx context.Context, cfg *config.ProvidersConfig) (explain.Credentials, error) {
	var creds explain.Credentials
	var err error

	if creds.OpenAIKey, err = m.resolveKey(ctx, cfg.OpenAI); err != nil {
		return creds, err
	}
	if creds.AnthropicKey, err = m.resolveKey(ctx, cfg.Anthropic); err != nil {
		return creds, err
	}

	slog.Debug("provider credentials resolved",
		"openai_key", logging.RedactKey(creds.OpenAIKey),
		"anthropic_key", logging.RedactKey(creds.AnthropicKey),
	)

	if missing := creds.Missing(); len(missing) > 0 {
		return creds, fmt.Errorf("%w: no API key for %s", ErrNotFound, strings.Join(missing, ", "))
	}
	return creds, nil
}

func (m *Manager) resolveKey(ctx context.Context, p config.ProviderConfig) (string, error) {
	if p.APIKey != "" {
		return p.APIKey, nil
	}
	if p.APIKeySecret == "" {
		return "", nil
	}

	value, err := m.GetSecret(ctx, p.APIKeySecret)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}

// Refresh invalidates the caches of refreshable providers.
func (m *Manager) Refresh(ctx context.Context) error {
	var errs []error
	for _, provider := range m.providers {
		if r, ok := provider.(RefreshableProvider); ok {
			if err := r.Refresh(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", provider.Provider(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases provider resources such as file watchers.
func (m *Manager) Close() error {
	var errs []error
	for _, provider := range m.providers {
		if c, ok := provider.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
