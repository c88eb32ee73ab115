package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// HasField reports whether any error concerns the named field.
func (e ValidationError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateProviders(&cfg.Providers)...)
	errs = append(errs, validateLimits(&cfg.Limits)...)
	errs = append(errs, validatePricing(&cfg.Pricing)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if cfg.Server.WriteTimeout > 0 && cfg.Providers.Timeout > 0 && cfg.Providers.MaxRetries >= 0 {
		if call := cfg.Providers.CallTimeout(); cfg.Server.WriteTimeout <= call {
			errs = append(errs, FieldError{
				Field: "server.write_timeout",
				Message: fmt.Sprintf("write timeout (%s) must exceed the provider call timeout (%s for %d retries of %s)",
					cfg.Server.WriteTimeout, call, cfg.Providers.MaxRetries, cfg.Providers.Timeout),
			})
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}
	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{
				Field:   "server.tls.cert_file",
				Message: "cert file is required when TLS is enabled",
			})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{
				Field:   "server.tls.key_file",
				Message: "key file is required when TLS is enabled",
			})
		}
	}
	if cfg.TLS.MinVersion != "1.2" && cfg.TLS.MinVersion != "1.3" {
		errs = append(errs, FieldError{
			Field:   "server.tls.min_version",
			Message: fmt.Sprintf("unsupported TLS version %q (valid: 1.2, 1.3)", cfg.TLS.MinVersion),
		})
	}

	return errs
}

func validateProviders(cfg *ProvidersConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "providers.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "providers.max_retries",
			Message: "max retries must be non-negative",
		})
	}

	errs = append(errs, validateProvider("providers.openai", &cfg.OpenAI)...)
	errs = append(errs, validateProvider("providers.anthropic", &cfg.Anthropic)...)

	return errs
}

func validateProvider(prefix string, p *ProviderConfig) []FieldError {
	var errs []FieldError

	if p.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".base_url",
			Message: fmt.Sprintf("invalid base URL %q", p.BaseURL),
		})
	}
	if p.Model == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".model",
			Message: "model is required",
		})
	}
	if p.APIKey == "" && p.APIKeySecret == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".api_key_secret",
			Message: "either api_key or api_key_secret is required",
		})
	}

	return errs
}

func validateLimits(cfg *LimitsConfig) []FieldError {
	var errs []FieldError

	if !(cfg.MaxCostPerRequest > 0) || math.IsInf(cfg.MaxCostPerRequest, 0) {
		errs = append(errs, FieldError{
			Field:   "limits.max_cost_per_request",
			Message: "max cost per request must be a positive number",
		})
	}
	if cfg.MaxInputTokens <= 0 {
		errs = append(errs, FieldError{
			Field:   "limits.max_input_tokens",
			Message: "max input tokens must be positive",
		})
	}
	if cfg.MaxOutputTokens <= 0 {
		errs = append(errs, FieldError{
			Field:   "limits.max_output_tokens",
			Message: "max output tokens must be positive",
		})
	}

	monthly := &cfg.Monthly
	if monthly.Budget < 0 || math.IsNaN(monthly.Budget) {
		errs = append(errs, FieldError{
			Field:   "limits.monthly.budget",
			Message: "budget must be non-negative",
		})
	}
	if _, err := cron.ParseStandard(monthly.ResetSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "limits.monthly.reset_schedule",
			Message: fmt.Sprintf("invalid cron expression %q: %v", monthly.ResetSchedule, err),
		})
	}

	switch monthly.Storage.Backend {
	case "memory":
	case "sqlite":
		if monthly.Storage.SQLitePath == "" {
			errs = append(errs, FieldError{
				Field:   "limits.monthly.storage.sqlite_path",
				Message: "sqlite path is required for the sqlite backend",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "limits.monthly.storage.backend",
			Message: fmt.Sprintf("invalid storage backend %q: must be 'memory' or 'sqlite'", monthly.Storage.Backend),
		})
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, FieldError{
				Field:   "limits.rate_limit.requests_per_second",
				Message: "requests per second must be positive when rate limiting is enabled",
			})
		}
		if cfg.RateLimit.Burst <= 0 {
			errs = append(errs, FieldError{
				Field:   "limits.rate_limit.burst",
				Message: "burst must be positive when rate limiting is enabled",
			})
		}
	}

	return errs
}

func validatePricing(cfg *PricingConfig) []FieldError {
	var errs []FieldError

	for name, p := range map[string]ModelPricingConfig{
		"openai":    cfg.OpenAI,
		"anthropic": cfg.Anthropic,
	} {
		if p.InputPer1K < 0 || p.OutputPer1K < 0 {
			errs = append(errs, FieldError{
				Field:   "pricing." + name,
				Message: "rates must be non-negative",
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}
