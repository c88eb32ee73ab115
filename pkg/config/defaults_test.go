package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Providers.Timeout != 10*time.Second {
		t.Errorf("expected provider timeout 10s, got %v", cfg.Providers.Timeout)
	}
	if cfg.Providers.MaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", cfg.Providers.MaxRetries)
	}
	if cfg.Providers.OpenAI.Model != "gpt-4" {
		t.Errorf("expected openai model gpt-4, got %q", cfg.Providers.OpenAI.Model)
	}
	if cfg.Providers.Anthropic.Model != "claude-3-sonnet-20240229" {
		t.Errorf("expected anthropic model, got %q", cfg.Providers.Anthropic.Model)
	}
	if cfg.Providers.OpenAI.APIKeySecret != "openai_api_key" {
		t.Errorf("expected openai key secret, got %q", cfg.Providers.OpenAI.APIKeySecret)
	}
	if cfg.Limits.MaxCostPerRequest != 0.5 {
		t.Errorf("expected max cost 0.5, got %v", cfg.Limits.MaxCostPerRequest)
	}
	if cfg.Limits.MaxInputTokens != 4000 || cfg.Limits.MaxOutputTokens != 4000 {
		t.Errorf("expected 4000/4000 token ceilings, got %d/%d", cfg.Limits.MaxInputTokens, cfg.Limits.MaxOutputTokens)
	}
	if cfg.Limits.Monthly.Budget != 10 {
		t.Errorf("expected monthly budget 10, got %v", cfg.Limits.Monthly.Budget)
	}
	if cfg.Limits.Monthly.Enforce {
		t.Error("expected monthly budget enforcement off by default")
	}
	if cfg.Limits.Monthly.Storage.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", cfg.Limits.Monthly.Storage.Backend)
	}
	if cfg.Pricing.OpenAI.InputPer1K != 0.03 || cfg.Pricing.OpenAI.OutputPer1K != 0.06 {
		t.Errorf("unexpected openai pricing %+v", cfg.Pricing.OpenAI)
	}
	if cfg.Pricing.Anthropic.InputPer1K != 0.003 || cfg.Pricing.Anthropic.OutputPer1K != 0.015 {
		t.Errorf("unexpected anthropic pricing %+v", cfg.Pricing.Anthropic)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if !cfg.Telemetry.Logging.RedactSecrets {
		t.Error("expected secret redaction enabled by default")
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing disabled by default")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{ListenAddress: "0.0.0.0:9000"},
		Providers: ProvidersConfig{Timeout: 3 * time.Second, OpenAI: ProviderConfig{Model: "gpt-4-turbo"}},
		Limits:    LimitsConfig{MaxCostPerRequest: 1.25},
		Pricing:   PricingConfig{Anthropic: ModelPricingConfig{InputPer1K: 0.001}},
	}

	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("listen address overwritten: %q", cfg.Server.ListenAddress)
	}
	if cfg.Providers.Timeout != 3*time.Second {
		t.Errorf("timeout overwritten: %v", cfg.Providers.Timeout)
	}
	if cfg.Providers.OpenAI.Model != "gpt-4-turbo" {
		t.Errorf("model overwritten: %q", cfg.Providers.OpenAI.Model)
	}
	if cfg.Limits.MaxCostPerRequest != 1.25 {
		t.Errorf("max cost overwritten: %v", cfg.Limits.MaxCostPerRequest)
	}
	if cfg.Pricing.Anthropic.InputPer1K != 0.001 || cfg.Pricing.Anthropic.OutputPer1K != 0 {
		t.Errorf("partial pricing should be kept as given, got %+v", cfg.Pricing.Anthropic)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Default()
	before := *cfg

	ApplyDefaults(cfg)

	if cfg.Server != before.Server || cfg.Limits != before.Limits || cfg.Providers != before.Providers {
		t.Error("applying defaults twice changed the configuration")
	}
}
