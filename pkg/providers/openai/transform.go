package openai

import (
	"parallax-hq/explainer/pkg/providers"
)

// ChatRequest represents an OpenAI chat completion request.
type ChatRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// ChatMessage represents a message in OpenAI format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents an OpenAI chat completion response.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

// ChatChoice represents a completion choice in OpenAI format.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatUsage represents token usage in OpenAI format.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// buildRequest builds the chat request for an explanation.
func buildRequest(model, code string, maxTokens int) *ChatRequest {
	return &ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: providers.SystemPrompt},
			{Role: "user", Content: providers.UserPrompt(code)},
		},
		MaxTokens: maxTokens,
	}
}

// explanation extracts the explanation text, reporting false when the
// response carries no choice.
func explanation(resp *ChatResponse) (string, bool) {
	if len(resp.Choices) == 0 {
		return "", false
	}
	return resp.Choices[0].Message.Content, true
}
