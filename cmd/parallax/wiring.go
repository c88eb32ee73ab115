package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"parallax-hq/explainer/pkg/cli"
	"parallax-hq/explainer/pkg/config"
	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/limits/budget"
	"parallax-hq/explainer/pkg/limits/storage"
	"parallax-hq/explainer/pkg/processing/costs"
	"parallax-hq/explainer/pkg/processing/tokens"
	"parallax-hq/explainer/pkg/providers"
	"parallax-hq/explainer/pkg/providers/anthropic"
	"parallax-hq/explainer/pkg/providers/openai"
	"parallax-hq/explainer/pkg/security/secrets"
)

// newCalculator prices both providers from the configured rates.
func newCalculator(cfg *config.Config) *costs.Calculator {
	return costs.NewCalculator(map[string]costs.Rate{
		costs.ProviderOpenAI:    costs.RatePer1K(cfg.Pricing.OpenAI.InputPer1K, cfg.Pricing.OpenAI.OutputPer1K),
		costs.ProviderAnthropic: costs.RatePer1K(cfg.Pricing.Anthropic.InputPer1K, cfg.Pricing.Anthropic.OutputPer1K),
	})
}

func newPolicy(cfg *config.Config) budget.Policy {
	return budget.Policy{
		MaxCostPerRequest: cfg.Limits.MaxCostPerRequest,
		MaxInputTokens:    cfg.Limits.MaxInputTokens,
		MaxOutputTokens:   cfg.Limits.MaxOutputTokens,
		MonthlyBudget:     cfg.Limits.Monthly.Budget,
	}
}

func providerConfig(name string, shared *config.ProvidersConfig, p config.ProviderConfig, apiKey string) providers.Config {
	return providers.Config{
		Name:       name,
		BaseURL:    p.BaseURL,
		APIKey:     apiKey,
		Model:      p.Model,
		Timeout:    shared.Timeout,
		MaxRetries: shared.MaxRetries,
	}
}

// newClients creates the GPT-4 and Claude clients in dispatch order.
func newClients(cfg *config.Config, creds explain.Credentials) ([]providers.Client, error) {
	p := &cfg.Providers

	gpt, err := openai.NewClient(providerConfig(costs.ProviderOpenAI, p, p.OpenAI, creds.OpenAIKey))
	if err != nil {
		return nil, cli.NewConfigError("providers.openai", err.Error())
	}
	claude, err := anthropic.NewClient(providerConfig(costs.ProviderAnthropic, p, p.Anthropic, creds.AnthropicKey))
	if err != nil {
		gpt.Close()
		return nil, cli.NewConfigError("providers.anthropic", err.Error())
	}

	return []providers.Client{gpt, claude}, nil
}

// newBackend opens the spend ledger storage.
func newBackend(cfg *config.LimitsStorageConfig) (storage.Backend, error) {
	switch cfg.Backend {
	case "memory":
		return storage.NewMemoryBackend(), nil
	case "sqlite":
		if cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o750); err != nil {
				return nil, fmt.Errorf("failed to create ledger directory: %w", err)
			}
		}
		backend, err := storage.NewSQLiteBackendWithConfig(storage.SQLiteBackendConfig{
			DBPath:      cfg.SQLitePath,
			BusyTimeout: cfg.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger %s: %w", cfg.SQLitePath, err)
		}
		return backend, nil
	default:
		return nil, cli.NewConfigError("limits.monthly.storage.backend", fmt.Sprintf("unsupported backend %q", cfg.Backend))
	}
}

func newTracker(ctx context.Context, cfg *config.Config, backend storage.Backend) (*budget.Tracker, error) {
	monthly := cfg.Limits.Monthly
	tracker, err := budget.NewTracker(ctx, budget.TrackerConfig{
		Budget:        monthly.Budget,
		Enforce:       monthly.Enforce,
		ResetSchedule: monthly.ResetSchedule,
	}, backend, budget.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to create budget tracker: %w", err)
	}
	return tracker, nil
}

// ledger is an open spend ledger and its storage.
type ledger struct {
	backend storage.Backend
	tracker *budget.Tracker
}

func openLedger(ctx context.Context, cfg *config.Config) (*ledger, error) {
	backend, err := newBackend(&cfg.Limits.Monthly.Storage)
	if err != nil {
		return nil, err
	}
	tracker, err := newTracker(ctx, cfg, backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return &ledger{backend: backend, tracker: tracker}, nil
}

func (l *ledger) Close() error {
	l.tracker.Stop()
	return l.backend.Close()
}

// stack is every long-lived component needed to explain code.
type stack struct {
	*ledger
	orchestrator *explain.Orchestrator
	clients      []providers.Client
	secrets      *secrets.Manager
}

// buildStack resolves credentials, opens the ledger and creates the
// orchestrator. Both provider keys are required.
func buildStack(ctx context.Context, cfg *config.Config, opts ...explain.Option) (*stack, error) {
	manager, err := secrets.NewManagerFromConfig(&cfg.Secrets)
	if err != nil {
		return nil, cli.NewConfigError("secrets", err.Error())
	}

	creds, err := manager.ResolveCredentials(ctx, &cfg.Providers)
	if err != nil {
		manager.Close()
		if errors.Is(err, secrets.ErrNotFound) {
			return nil, cli.NewConfigError("providers", err.Error())
		}
		return nil, err
	}

	clients, err := newClients(cfg, creds)
	if err != nil {
		manager.Close()
		return nil, err
	}

	l, err := openLedger(ctx, cfg)
	if err != nil {
		manager.Close()
		closeClients(clients)
		return nil, err
	}

	opts = append([]explain.Option{
		explain.WithLedger(l.tracker),
		explain.WithLogger(slog.Default()),
		explain.WithProviderTimeout(cfg.Providers.CallTimeout()),
	}, opts...)

	s := &stack{ledger: l, clients: clients, secrets: manager}
	s.orchestrator, err = explain.New(tokens.NewTiktokenEstimator(), newCalculator(cfg), newPolicy(cfg), clients, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *stack) Close() error {
	return errors.Join(s.ledger.Close(), s.secrets.Close(), closeClients(s.clients))
}

func closeClients(clients []providers.Client) error {
	var errs []error
	for _, c := range clients {
		if closer, ok := c.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}
