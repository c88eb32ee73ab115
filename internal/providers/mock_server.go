// Package providers contains test helpers for provider adapters.
package providers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"parallax-hq/explainer/pkg/providers"
)

// MockServer is a mock HTTP server for testing provider adapters.
// It replays configured responses per path and records every request.
type MockServer struct {
	server    *httptest.Server
	responses map[string][]MockResponse
	requests  []RecordedRequest
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string

	// Hijack drops the connection without writing a response.
	Hijack bool
}

// RecordedRequest is a request received by the mock server.
type RecordedRequest struct {
	Path    string
	Headers http.Header
	Body    []byte
}

// Decode unmarshals the recorded body into v.
func (r RecordedRequest) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string][]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.CloseClientConnections()
	ms.server.Close()
}

// SetResponse sets the response for a path, replacing any queued responses.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.SetResponses(path, response)
}

// SetResponses queues responses for a path. They are served in order and the
// last one is repeated once the queue is drained.
func (ms *MockServer) SetResponses(path string, responses ...MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[path] = responses
}

// GetRequestCount returns the number of requests received.
func (ms *MockServer) GetRequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// LastRequest returns the most recent request, or false if none was received.
func (ms *MockServer) LastRequest() (RecordedRequest, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(ms.requests) == 0 {
		return RecordedRequest{}, false
	}
	return ms.requests[len(ms.requests)-1], true
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
		Body:    body,
	})
	queue, ok := ms.responses[r.URL.Path]
	var response MockResponse
	if ok && len(queue) > 0 {
		response = queue[0]
		if len(queue) > 1 {
			ms.responses[r.URL.Path] = queue[1:]
		}
	}
	ms.mu.Unlock()

	if !ok || len(queue) == 0 {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if response.Hijack {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				conn.Close()
			}
		}
		return
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(response.StatusCode)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v)) // Write to response, ignore error
		case []byte:
			_, _ = w.Write(v) // Write to response, ignore error
		default:
			_ = json.NewEncoder(w).Encode(response.Body) // Write to response, ignore error
		}
	}
}

// MockOpenAIResponse creates a mock OpenAI chat completion response.
func MockOpenAIResponse(content string, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// MockAnthropicResponse creates a mock Anthropic messages response.
func MockAnthropicResponse(content string, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":   "msg_123",
		"type": "message",
		"role": "assistant",
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": content,
			},
		},
		"model":       model,
		"stop_reason": "end_turn",
		"usage": map[string]interface{}{
			"input_tokens":  10,
			"output_tokens": 20,
		},
	}
}

// TestConfig returns a provider configuration pointing at baseURL.
func TestConfig(name, baseURL string) providers.Config {
	return providers.Config{
		Name:    name,
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}
}
