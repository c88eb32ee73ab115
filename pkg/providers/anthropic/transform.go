package anthropic

import (
	"strings"

	"parallax-hq/explainer/pkg/providers"
)

// MessagesRequest represents an Anthropic messages request.
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

// Message represents a message in Anthropic format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentBlock represents a content block in an Anthropic response.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessagesResponse represents an Anthropic messages response.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// Usage represents token usage in Anthropic format.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// buildRequest builds the messages request for an explanation.
// The Messages API requires max_tokens, so a non-positive value falls back
// to DefaultMaxTokens.
func buildRequest(model, code string, maxTokens int) *MessagesRequest {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &MessagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    providers.SystemPrompt,
		Messages: []Message{
			{Role: "user", Content: providers.UserPrompt(code)},
		},
	}
}

// explanation joins the text blocks of a response, reporting false when
// there are none.
func explanation(resp *MessagesResponse) (string, bool) {
	var b strings.Builder
	found := false
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		b.WriteString(block.Text)
		found = true
	}
	return b.String(), found
}
