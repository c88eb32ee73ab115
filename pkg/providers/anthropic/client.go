package anthropic

import (
	"context"
	"log/slog"

	"parallax-hq/explainer/pkg/providers"
)

// Defaults for the Anthropic adapter.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-sonnet-20240229"

	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultMaxTokens is sent when the caller gives no output bound.
	DefaultMaxTokens = 4000
)

// Client is the Anthropic provider adapter.
type Client struct {
	*providers.HTTPProvider
}

var _ providers.Client = (*Client)(nil)

// NewClient creates a new Anthropic client.
func NewClient(config providers.Config) (*Client, error) {
	if config.Name == "" {
		config.Name = "anthropic"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Anthropic",
		}
	}

	c := &Client{HTTPProvider: providers.NewHTTPProvider(config)}

	slog.Info("Anthropic client initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return c, nil
}

// Explain asks the Messages API to explain code.
func (c *Client) Explain(ctx context.Context, code string, maxOutputTokens int) providers.Result {
	cfg := c.Config()

	url := cfg.BaseURL + "/v1/messages"
	headers := map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",
	}

	body, err := c.PostJSON(ctx, url, buildRequest(cfg.Model, code, maxOutputTokens), headers)
	if err != nil {
		return providers.Failed(c.Name(), err)
	}

	var resp MessagesResponse
	if err := c.DecodeJSON(body, &resp); err != nil {
		return providers.Failed(c.Name(), err)
	}

	text, ok := explanation(&resp)
	if !ok {
		return providers.Failed(c.Name(), c.ParseFailure(body, "response has no text content"))
	}

	slog.Debug("explanation received",
		"provider", c.Name(),
		"model", resp.Model,
		"output_tokens", resp.Usage.OutputTokens,
	)

	return providers.Success(c.Name(), text)
}
