package config

import (
	"time"

	"parallax-hq/explainer/pkg/providers"
)

// Config is the root configuration structure for the Parallax service.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Providers contains the settings for both upstream model providers.
	Providers ProvidersConfig `yaml:"providers"`

	// Limits contains the per-request ceilings, the monthly budget and the
	// inbound rate limit.
	Limits LimitsConfig `yaml:"limits"`

	// Pricing contains the per-provider token rates.
	Pricing PricingConfig `yaml:"pricing"`

	// Secrets configures where provider credentials are looked up.
	Secrets SecretsConfig `yaml:"secrets"`

	// Telemetry contains logging, metrics, and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the provider timeout.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits request body size.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// TLS configures optional TLS termination.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig configures TLS termination for the HTTP server.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	Enabled bool `yaml:"enabled"`

	// CertFile and KeyFile are PEM files. Both are watched and reloaded
	// on change.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// MinVersion is "1.2" or "1.3".
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`
}

// ProvidersConfig contains settings shared by both providers and the
// per-provider sections.
type ProvidersConfig struct {
	// Timeout bounds each HTTP attempt. The same value applies to both
	// providers.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of extra attempts after a transport failure.
	// Default: 0
	MaxRetries int `yaml:"max_retries"`

	// OpenAI configures the GPT-4 client.
	OpenAI ProviderConfig `yaml:"openai"`

	// Anthropic configures the Claude client.
	Anthropic ProviderConfig `yaml:"anthropic"`
}

// CallTimeout is the deadline for one provider call including its retries.
func (p *ProvidersConfig) CallTimeout() time.Duration {
	return providers.Config{Timeout: p.Timeout, MaxRetries: p.MaxRetries}.CallTimeout()
}

// ProviderConfig contains configuration for a single provider.
type ProviderConfig struct {
	// BaseURL is the API base URL, without a path.
	// Example: "https://api.openai.com"
	BaseURL string `yaml:"base_url"`

	// APIKey is a literal key. Prefer APIKeySecret.
	APIKey string `yaml:"api_key"`

	// APIKeySecret is the secret name looked up through the secrets manager
	// when APIKey is empty.
	// Default: "openai_api_key" / "anthropic_api_key"
	APIKeySecret string `yaml:"api_key_secret"`

	// Model is the model identifier sent upstream.
	// Default: "gpt-4" / "claude-3-sonnet-20240229"
	Model string `yaml:"model"`
}

// LimitsConfig contains spending ceilings and rate limiting.
type LimitsConfig struct {
	// MaxCostPerRequest is the ceiling on the combined estimated cost in USD.
	// Default: 0.5
	MaxCostPerRequest float64 `yaml:"max_cost_per_request"`

	// MaxInputTokens is the ceiling on input tokens.
	// Default: 4000
	MaxInputTokens int `yaml:"max_input_tokens"`

	// MaxOutputTokens bounds estimated and requested output tokens.
	// Default: 4000
	MaxOutputTokens int `yaml:"max_output_tokens"`

	// Monthly configures the spend ledger.
	Monthly MonthlyBudgetConfig `yaml:"monthly"`

	// RateLimit configures the inbound request rate limit.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// MonthlyBudgetConfig configures the spend ledger.
type MonthlyBudgetConfig struct {
	// Budget is the spend ceiling per period in USD.
	// Default: 10
	Budget float64 `yaml:"budget"`

	// Enforce rejects requests once the budget is exhausted. When false the
	// ledger only reports.
	// Default: false
	Enforce bool `yaml:"enforce"`

	// ResetSchedule is a standard 5-field cron expression.
	// Default: "0 0 1 * *" (midnight on the 1st)
	ResetSchedule string `yaml:"reset_schedule"`

	// Storage selects where the running total is kept.
	Storage LimitsStorageConfig `yaml:"storage"`
}

// LimitsStorageConfig configures the spend ledger backend.
type LimitsStorageConfig struct {
	// Backend is "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file for the sqlite backend.
	// Default: "data/spend.db"
	SQLitePath string `yaml:"sqlite_path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RateLimitConfig configures the inbound token bucket.
type RateLimitConfig struct {
	// Enabled turns the limiter on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained request rate.
	// Default: 5
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the bucket size.
	// Default: 10
	Burst int `yaml:"burst"`
}

// PricingConfig contains per-provider rates.
type PricingConfig struct {
	OpenAI    ModelPricingConfig `yaml:"openai"`
	Anthropic ModelPricingConfig `yaml:"anthropic"`
}

// ModelPricingConfig holds the published per-1K-token prices in USD.
type ModelPricingConfig struct {
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// SecretsConfig configures credential lookup.
type SecretsConfig struct {
	// EnvPrefix is prepended to the upper-cased secret name.
	// Default: "" (OPENAI_API_KEY, ANTHROPIC_API_KEY)
	EnvPrefix string `yaml:"env_prefix"`

	// Dir is a directory holding one file per secret, such as a container
	// secrets mount. Empty disables file lookup.
	Dir string `yaml:"dir"`

	// Watch logs a warning when a secret file changes.
	// Default: false
	Watch bool `yaml:"watch"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys in log output.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "parallax"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for durations (seconds).
	// Default: [0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "parallax"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
