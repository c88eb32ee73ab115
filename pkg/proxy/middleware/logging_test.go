package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recordedRequest struct {
	endpoint string
	status   int
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(endpoint string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recordedRequest{endpoint: endpoint, status: status})
}

func TestLoggingMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /explain", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rec := &fakeRecorder{}
	handler := LoggingMiddleware(rec)(mux)

	tests := []struct {
		method       string
		path         string
		wantEndpoint string
		wantStatus   int
	}{
		{http.MethodPost, "/explain", "POST /explain", http.StatusBadRequest},
		{http.MethodGet, "/health", "GET /health", http.StatusOK},
		{http.MethodGet, "/nope", "unmatched", http.StatusNotFound},
		{http.MethodGet, "/explain", "unmatched", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		if w.Code != tt.wantStatus {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.wantStatus)
		}
	}

	if len(rec.seen) != len(tests) {
		t.Fatalf("recorded %d requests, want %d", len(rec.seen), len(tests))
	}
	for i, tt := range tests {
		got := rec.seen[i]
		if got.endpoint != tt.wantEndpoint || got.status != tt.wantStatus {
			t.Errorf("request %d recorded (%q, %d), want (%q, %d)", i, got.endpoint, got.status, tt.wantEndpoint, tt.wantStatus)
		}
	}
}

func TestLoggingMiddleware_NilRecorder(t *testing.T) {
	handler := LoggingMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
