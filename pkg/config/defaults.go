package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = 1048576 // 1MB
	DefaultTLSMinVersion   = "1.3"

	// Provider defaults
	DefaultProviderTimeout    = 10 * time.Second
	DefaultProviderMaxRetries = 0
	DefaultOpenAIBaseURL      = "https://api.openai.com"
	DefaultOpenAIModel        = "gpt-4"
	DefaultOpenAIKeySecret    = "openai_api_key"
	DefaultAnthropicBaseURL   = "https://api.anthropic.com"
	DefaultAnthropicModel     = "claude-3-sonnet-20240229"
	DefaultAnthropicKeySecret = "anthropic_api_key"

	// Limits defaults
	DefaultMaxCostPerRequest = 0.5
	DefaultMaxInputTokens    = 4000
	DefaultMaxOutputTokens   = 4000
	DefaultMonthlyBudget     = 10.0
	DefaultResetSchedule     = "0 0 1 * *"
	DefaultStorageBackend    = "memory"
	DefaultSQLitePath        = "data/spend.db"
	DefaultSQLiteBusyTimeout = 5 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultRateLimitBurst    = 10
	DefaultOpenAIInputPer1K  = 0.03
	DefaultOpenAIOutputPer1K = 0.06
	DefaultClaudeInputPer1K  = 0.003
	DefaultClaudeOutputPer1K = 0.015

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "parallax"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingServiceName = "parallax"
	DefaultTracingTimeout     = 10 * time.Second
)

// DefaultRequestDurationBuckets are the histogram buckets for durations.
var DefaultRequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Default returns a configuration with every default applied, including the
// boolean fields whose default is true.
func Default() *Config {
	cfg := &Config{}
	cfg.Telemetry.Logging.RedactSecrets = true
	cfg.Telemetry.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}

	// Provider defaults
	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = DefaultProviderTimeout
	}
	applyProviderDefaults(&cfg.Providers.OpenAI, DefaultOpenAIBaseURL, DefaultOpenAIModel, DefaultOpenAIKeySecret)
	applyProviderDefaults(&cfg.Providers.Anthropic, DefaultAnthropicBaseURL, DefaultAnthropicModel, DefaultAnthropicKeySecret)

	// Limits defaults
	if cfg.Limits.MaxCostPerRequest == 0 {
		cfg.Limits.MaxCostPerRequest = DefaultMaxCostPerRequest
	}
	if cfg.Limits.MaxInputTokens == 0 {
		cfg.Limits.MaxInputTokens = DefaultMaxInputTokens
	}
	if cfg.Limits.MaxOutputTokens == 0 {
		cfg.Limits.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Limits.Monthly.Budget == 0 {
		cfg.Limits.Monthly.Budget = DefaultMonthlyBudget
	}
	if cfg.Limits.Monthly.ResetSchedule == "" {
		cfg.Limits.Monthly.ResetSchedule = DefaultResetSchedule
	}
	if cfg.Limits.Monthly.Storage.Backend == "" {
		cfg.Limits.Monthly.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Limits.Monthly.Storage.SQLitePath == "" {
		cfg.Limits.Monthly.Storage.SQLitePath = DefaultSQLitePath
	}
	if cfg.Limits.Monthly.Storage.BusyTimeout == 0 {
		cfg.Limits.Monthly.Storage.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Limits.RateLimit.RequestsPerSecond == 0 {
		cfg.Limits.RateLimit.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Limits.RateLimit.Burst == 0 {
		cfg.Limits.RateLimit.Burst = DefaultRateLimitBurst
	}

	// Pricing defaults
	applyPricingDefaults(&cfg.Pricing.OpenAI, DefaultOpenAIInputPer1K, DefaultOpenAIOutputPer1K)
	applyPricingDefaults(&cfg.Pricing.Anthropic, DefaultClaudeInputPer1K, DefaultClaudeOutputPer1K)

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 && cfg.Telemetry.Tracing.Sampler == DefaultTracingSampler {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}

func applyProviderDefaults(p *ProviderConfig, baseURL, model, secret string) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Model == "" {
		p.Model = model
	}
	if p.APIKeySecret == "" {
		p.APIKeySecret = secret
	}
}

// applyPricingDefaults fills a pricing entry only when both rates are unset,
// so an explicit zero output rate is kept.
func applyPricingDefaults(p *ModelPricingConfig, input, output float64) {
	if p.InputPer1K == 0 && p.OutputPer1K == 0 {
		p.InputPer1K = input
		p.OutputPer1K = output
	}
}
