package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "PARALLAX_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the defaults. Environment variables are not consulted;
// use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file over the defaults
// 2. Apply environment variable overrides
// 3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Unmarshal over the defaults so omitted fields keep them.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	envBool("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	envString("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	envString("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)

	// Provider overrides
	envDuration("PROVIDERS_TIMEOUT", &cfg.Providers.Timeout)
	envInt("PROVIDERS_MAX_RETRIES", &cfg.Providers.MaxRetries)
	applyProviderEnvOverrides(&cfg.Providers.OpenAI, "OPENAI")
	applyProviderEnvOverrides(&cfg.Providers.Anthropic, "ANTHROPIC")

	// Limits overrides; the unprefixed names are read first so the
	// prefixed ones win.
	if val := os.Getenv("MAX_COST_PER_REQUEST"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Limits.MaxCostPerRequest = f
		}
	}
	if val := os.Getenv("MONTHLY_BUDGET"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Limits.Monthly.Budget = f
		}
	}
	envFloat("LIMITS_MAX_COST_PER_REQUEST", &cfg.Limits.MaxCostPerRequest)
	envInt("LIMITS_MAX_INPUT_TOKENS", &cfg.Limits.MaxInputTokens)
	envInt("LIMITS_MAX_OUTPUT_TOKENS", &cfg.Limits.MaxOutputTokens)
	envFloat("LIMITS_MONTHLY_BUDGET", &cfg.Limits.Monthly.Budget)
	envBool("LIMITS_MONTHLY_ENFORCE", &cfg.Limits.Monthly.Enforce)
	envString("LIMITS_MONTHLY_RESET_SCHEDULE", &cfg.Limits.Monthly.ResetSchedule)
	envString("LIMITS_MONTHLY_STORAGE_BACKEND", &cfg.Limits.Monthly.Storage.Backend)
	envString("LIMITS_MONTHLY_STORAGE_SQLITE_PATH", &cfg.Limits.Monthly.Storage.SQLitePath)
	envBool("LIMITS_RATE_LIMIT_ENABLED", &cfg.Limits.RateLimit.Enabled)
	envFloat("LIMITS_RATE_LIMIT_REQUESTS_PER_SECOND", &cfg.Limits.RateLimit.RequestsPerSecond)
	envInt("LIMITS_RATE_LIMIT_BURST", &cfg.Limits.RateLimit.Burst)

	// Secrets overrides
	envString("SECRETS_ENV_PREFIX", &cfg.Secrets.EnvPrefix)
	envString("SECRETS_DIR", &cfg.Secrets.Dir)
	envBool("SECRETS_WATCH", &cfg.Secrets.Watch)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envBool("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	envFloat("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
}

// applyProviderEnvOverrides applies PARALLAX_PROVIDERS_<NAME>_<FIELD> overrides.
func applyProviderEnvOverrides(p *ProviderConfig, name string) {
	prefix := "PROVIDERS_" + name + "_"
	envString(prefix+"BASE_URL", &p.BaseURL)
	envString(prefix+"API_KEY", &p.APIKey)
	envString(prefix+"API_KEY_SECRET", &p.APIKeySecret)
	envString(prefix+"MODEL", &p.Model)
}

// Malformed values are ignored and the previous value is kept.

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envFloat(key string, dst *float64) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
