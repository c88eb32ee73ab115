package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It provides connection pooling, a per-attempt timeout, retry of transport
// failures, and classification of responses into Failure kinds.
//
// Concrete adapters embed this struct and implement Client.
type HTTPProvider struct {
	config Config
	client *http.Client
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(config Config) *HTTPProvider {
	config = config.WithDefaults()

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConns,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPProvider{
		config: config,
		client: &http.Client{Transport: transport},
	}
}

// Name returns the provider's configured name.
func (p *HTTPProvider) Name() string {
	return p.config.Name
}

// Config returns the provider's configuration.
func (p *HTTPProvider) Config() Config {
	return p.config
}

// PostJSON sends reqBody as JSON to url and returns the raw 2xx response body.
//
// Each attempt is bounded by the configured timeout. Transport failures are
// retried with jittered exponential backoff up to MaxRetries times; auth and
// status failures are returned immediately. Callers that set a deadline on
// ctx should allow Config.CallTimeout for the retries to run. The returned
// error is always a *Failure.
func (p *HTTPProvider) PostJSON(ctx context.Context, url string, reqBody any, headers map[string]string) ([]byte, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &Failure{Provider: p.config.Name, Kind: KindTransport, Cause: fmt.Errorf("failed to marshal request: %w", err)}
	}

	attempt := 0
	var last *Failure
	operation := func() ([]byte, error) {
		attempt++
		body, f := p.do(ctx, url, payload, headers)
		if f == nil {
			return body, nil
		}
		last = f
		if !f.Retryable() {
			return nil, backoff.Permanent(f)
		}
		return nil, f
	}

	if p.config.MaxRetries == 0 {
		body, err := operation()
		return body, unwrapPermanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxInterval = retryMaxInterval
	policy.Multiplier = retryMultiplier
	policy.RandomizationFactor = retryJitter

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(p.config.MaxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			slog.Warn("provider request failed, will retry",
				"provider", p.config.Name,
				"attempt", attempt,
				"max_retries", p.config.MaxRetries,
				"backoff", wait,
				"error", err,
			)
		}),
	)
	if err != nil {
		// Retry reports the context error when the deadline lands during a
		// backoff wait; the last attempt's failure says more.
		if last != nil && ctx.Err() != nil {
			return nil, last
		}
		return nil, AsFailure(p.config.Name, unwrapPermanent(err))
	}
	return body, nil
}

// do performs a single HTTP exchange.
func (p *HTTPProvider) do(ctx context.Context, url string, payload []byte, headers map[string]string) ([]byte, *Failure) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &Failure{Provider: p.config.Name, Kind: KindTransport, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.transportFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, p.transportFailure(err)
	}

	slog.Debug("provider responded",
		"provider", p.config.Name,
		"status", resp.StatusCode,
		"latency", time.Since(start),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Failure{Provider: p.config.Name, Kind: KindAuth, StatusCode: resp.StatusCode, Body: string(body)}
	default:
		return nil, &Failure{Provider: p.config.Name, Kind: KindStatus, StatusCode: resp.StatusCode, Body: string(body)}
	}
}

func (p *HTTPProvider) transportFailure(err error) *Failure {
	f := &Failure{Provider: p.config.Name, Kind: KindTransport, Cause: err}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		f.Timeout = true
		f.After = p.config.Timeout
	}
	return f
}

// DecodeJSON decodes a success body into v, reporting a KindParse failure
// carrying the raw body when it does not match.
func (p *HTTPProvider) DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &Failure{
			Provider: p.config.Name,
			Kind:     KindParse,
			Body:     string(body),
			Cause:    fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}
	return nil
}

// ParseFailure builds a KindParse failure for a body that decoded but has no
// usable content.
func (p *HTTPProvider) ParseFailure(body []byte, format string, args ...any) *Failure {
	return &Failure{
		Provider: p.config.Name,
		Kind:     KindParse,
		Body:     string(body),
		Cause:    fmt.Errorf(format, args...),
	}
}

// Close releases idle connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func unwrapPermanent(err error) error {
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}
