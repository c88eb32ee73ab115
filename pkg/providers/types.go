package providers

import (
	"math"
	"time"
)

// Default values applied by Config.WithDefaults.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultMaxIdleConns    = 100
	DefaultIdleConnTimeout = 90 * time.Second

	// maxResponseBytes bounds how much of a provider response is read.
	maxResponseBytes = 4 << 20
)

// Backoff between retried attempts.
const (
	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 5 * time.Second
	retryMultiplier      = 1.5
	retryJitter          = 0.5
)

// Config contains the configuration for a single provider client.
type Config struct {
	// Name is the provider id used in logs, metrics, and results (e.g. "openai").
	Name string

	// BaseURL is the provider API base URL without a trailing slash.
	BaseURL string

	// APIKey is the credential sent with every request.
	APIKey string

	// Model is the model identifier sent to the provider.
	Model string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after a transport failure.
	// Zero disables retries.
	MaxRetries int

	// MaxIdleConns bounds the idle connection pool.
	MaxIdleConns int

	// IdleConnTimeout is how long idle connections are kept open.
	IdleConnTimeout time.Duration
}

// CallTimeout returns the longest a call can take when every attempt runs to
// Timeout and every backoff wait draws its maximum. A deadline shorter than
// this cuts retries off.
func (c Config) CallTimeout() time.Duration {
	c = c.WithDefaults()

	total := c.Timeout * time.Duration(c.MaxRetries+1)
	interval := float64(retryInitialInterval)
	for range c.MaxRetries {
		total += time.Duration(math.Ceil(interval*(1+retryJitter))) + time.Millisecond
		interval = math.Min(interval*retryMultiplier, float64(retryMaxInterval))
	}
	return total
}

// WithDefaults returns a copy of the config with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = DefaultIdleConnTimeout
	}
	return c
}
