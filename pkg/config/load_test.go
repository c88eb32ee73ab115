package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:8080"
providers:
  timeout: 15s
  max_retries: 2
  openai:
    base_url: "http://localhost:9001"
limits:
  max_cost_per_request: 0.25
  monthly:
    budget: 50
    enforce: true
    storage:
      backend: sqlite
      sqlite_path: /tmp/spend.db
telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:8080", cfg.Server.ListenAddress)
	}
	if cfg.Providers.Timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.Providers.Timeout)
	}
	if cfg.Providers.MaxRetries != 2 {
		t.Errorf("expected 2 retries, got %d", cfg.Providers.MaxRetries)
	}
	if cfg.Providers.OpenAI.BaseURL != "http://localhost:9001" {
		t.Errorf("unexpected base URL %q", cfg.Providers.OpenAI.BaseURL)
	}
	if cfg.Providers.OpenAI.Model != DefaultOpenAIModel {
		t.Errorf("expected default model, got %q", cfg.Providers.OpenAI.Model)
	}
	if cfg.Limits.MaxCostPerRequest != 0.25 {
		t.Errorf("expected max cost 0.25, got %v", cfg.Limits.MaxCostPerRequest)
	}
	if !cfg.Limits.Monthly.Enforce || cfg.Limits.Monthly.Budget != 50 {
		t.Errorf("unexpected monthly config %+v", cfg.Limits.Monthly)
	}
	if cfg.Limits.Monthly.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", cfg.Limits.Monthly.Storage.Backend)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("unexpected logging config %+v", cfg.Telemetry.Logging)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled by file")
	}
	if !cfg.Telemetry.Logging.RedactSecrets {
		t.Error("omitted redact_secrets should keep its default")
	}
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Limits.MaxCostPerRequest != DefaultMaxCostPerRequest {
		t.Errorf("expected default max cost, got %v", cfg.Limits.MaxCostPerRequest)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
limits:
  monthly:
    reset_schedule: "not a cron"
    storage:
      backend: redis
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !verr.HasField("limits.monthly.reset_schedule") {
		t.Errorf("expected reset_schedule error, got %v", verr)
	}
	if !verr.HasField("limits.monthly.storage.backend") {
		t.Errorf("expected storage backend error, got %v", verr)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8080"
limits:
  max_cost_per_request: 0.5
`)

	t.Setenv("PARALLAX_SERVER_LISTEN_ADDRESS", "0.0.0.0:9090")
	t.Setenv("PARALLAX_PROVIDERS_TIMEOUT", "20s")
	t.Setenv("PARALLAX_PROVIDERS_ANTHROPIC_MODEL", "claude-3-opus-20240229")
	t.Setenv("PARALLAX_LIMITS_MONTHLY_ENFORCE", "true")
	t.Setenv("PARALLAX_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("MONTHLY_BUDGET", "25")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected env listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Providers.Timeout != 20*time.Second {
		t.Errorf("expected env timeout, got %v", cfg.Providers.Timeout)
	}
	if cfg.Providers.Anthropic.Model != "claude-3-opus-20240229" {
		t.Errorf("expected env model, got %q", cfg.Providers.Anthropic.Model)
	}
	if !cfg.Limits.Monthly.Enforce {
		t.Error("expected enforcement enabled by env")
	}
	if cfg.Limits.Monthly.Budget != 25 {
		t.Errorf("expected MONTHLY_BUDGET to apply, got %v", cfg.Limits.Monthly.Budget)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected env log level, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_PrefixedWins(t *testing.T) {
	t.Setenv("MAX_COST_PER_REQUEST", "0.75")
	t.Setenv("PARALLAX_LIMITS_MAX_COST_PER_REQUEST", "0.9")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Limits.MaxCostPerRequest != 0.9 {
		t.Errorf("expected prefixed variable to win, got %v", cfg.Limits.MaxCostPerRequest)
	}
}

func TestLoadConfigWithEnvOverrides_MalformedIgnored(t *testing.T) {
	t.Setenv("MAX_COST_PER_REQUEST", "lots")
	t.Setenv("PARALLAX_PROVIDERS_MAX_RETRIES", "three")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Limits.MaxCostPerRequest != DefaultMaxCostPerRequest {
		t.Errorf("malformed value should be ignored, got %v", cfg.Limits.MaxCostPerRequest)
	}
	if cfg.Providers.MaxRetries != 0 {
		t.Errorf("malformed value should be ignored, got %d", cfg.Providers.MaxRetries)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidAfterOverride(t *testing.T) {
	t.Setenv("MAX_COST_PER_REQUEST", "0")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("expected validation error for zero cost ceiling")
	}
}
