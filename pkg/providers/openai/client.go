package openai

import (
	"context"
	"log/slog"

	"parallax-hq/explainer/pkg/providers"
)

// Defaults for the OpenAI adapter.
const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4"
)

// Client is the OpenAI provider adapter.
type Client struct {
	*providers.HTTPProvider
}

var _ providers.Client = (*Client)(nil)

// NewClient creates a new OpenAI client.
func NewClient(config providers.Config) (*Client, error) {
	if config.Name == "" {
		config.Name = "openai"
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
			Message:  "API key is required for OpenAI",
		}
	}

	c := &Client{HTTPProvider: providers.NewHTTPProvider(config)}

	slog.Info("OpenAI client initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return c, nil
}

// Explain asks the chat completions API to explain code.
func (c *Client) Explain(ctx context.Context, code string, maxOutputTokens int) providers.Result {
	cfg := c.Config()

	url := cfg.BaseURL + "/v1/chat/completions"
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"Content-Type":  "application/json",
	}

	body, err := c.PostJSON(ctx, url, buildRequest(cfg.Model, code, maxOutputTokens), headers)
	if err != nil {
		return providers.Failed(c.Name(), err)
	}

	var resp ChatResponse
	if err := c.DecodeJSON(body, &resp); err != nil {
		return providers.Failed(c.Name(), err)
	}

	text, ok := explanation(&resp)
	if !ok {
		return providers.Failed(c.Name(), c.ParseFailure(body, "response has no choices"))
	}

	slog.Debug("explanation received",
		"provider", c.Name(),
		"model", resp.Model,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return providers.Success(c.Name(), text)
}
