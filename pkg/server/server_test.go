package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parallax-hq/explainer/pkg/config"
	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/limits/budget"
	"parallax-hq/explainer/pkg/processing/costs"
	"parallax-hq/explainer/pkg/providers"
	"parallax-hq/explainer/pkg/proxy/types"
	"parallax-hq/explainer/pkg/telemetry/health"
	"parallax-hq/explainer/pkg/telemetry/metrics"
)

type fakeOrchestrator struct {
	panicOnExplain bool
}

func (f *fakeOrchestrator) Estimate(_ context.Context, req explain.Request) (*explain.Estimation, error) {
	if req.Code == "" {
		return nil, &explain.ValidationError{Reason: explain.ReasonMissingInput, Message: "No code provided"}
	}
	return &explain.Estimation{
		Usage: explain.UsageEstimate{
			InputTokens:           len(req.Code),
			EstimatedOutputTokens: 2 * len(req.Code),
			Cost: costs.Breakdown{
				ByProvider: map[string]float64{costs.ProviderOpenAI: 0.01, costs.ProviderAnthropic: 0.002},
				Total:      0.012,
			},
		},
	}, nil
}

func (f *fakeOrchestrator) Explain(_ context.Context, req explain.Request) (*explain.Response, error) {
	if f.panicOnExplain {
		panic("orchestrator exploded")
	}
	return &explain.Response{
		Results: []providers.Result{
			providers.Success(costs.ProviderOpenAI, "gpt says"),
			providers.Success(costs.ProviderAnthropic, "claude says"),
		},
		Usage: explain.UsageActual{
			InputTokens:      len(req.Code),
			OutputTokens:     4,
			OutputByProvider: map[string]int{costs.ProviderOpenAI: 2, costs.ProviderAnthropic: 2},
		},
	}, nil
}

type staticBudget struct{}

func (staticBudget) Status() budget.Status {
	return budget.Status{Allowed: true, Limit: 10, Remaining: 10}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func TestHandler_Routes(t *testing.T) {
	collector := metrics.NewCollector(&config.Default().Telemetry.Metrics, nil)
	checker := health.New(time.Second)
	checker.RegisterCheck("storage", func(context.Context) error { return nil })

	srv := NewServer(testConfig(), &fakeOrchestrator{},
		WithBudgetReporter(staticBudget{}),
		WithMetrics(collector),
		WithReadiness(checker),
		WithVersion("1.0.0", "abc123"),
	)
	h := srv.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"estimate", http.MethodPost, "/estimate", `{"code":"x = 1"}`, http.StatusOK},
		{"estimate missing code", http.MethodPost, "/estimate", `{}`, http.StatusBadRequest},
		{"explain", http.MethodPost, "/explain", `{"code":"x = 1"}`, http.StatusOK},
		{"explain wrong method", http.MethodGet, "/explain", "", http.StatusMethodNotAllowed},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"ready", http.MethodGet, "/ready", "", http.StatusOK},
		{"budget", http.MethodGet, "/budget", "", http.StatusOK},
		{"version", http.MethodGet, "/version", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"unknown", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}

	scrape := do(t, h, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, scrape, `parallax_http_requests_total{endpoint="POST /explain",status="200"} 1`)
	assert.Contains(t, scrape, `parallax_http_requests_total{endpoint="/explain",status="405"} 1`)
	assert.Contains(t, scrape, `parallax_http_requests_total{endpoint="unmatched",status="404"} 1`)

	n, err := testutil.GatherAndCount(collector.Registry(), "parallax_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, len(tests), n)
}

func TestHandler_MethodNotAllowedBody(t *testing.T) {
	h := NewServer(testConfig(), &fakeOrchestrator{}).Handler()

	rec := do(t, h, http.MethodPut, "/estimate", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.ReasonMethodNotAllowed, resp.Reason)
}

func TestHandler_OptionalRoutesAbsent(t *testing.T) {
	h := NewServer(testConfig(), &fakeOrchestrator{}).Handler()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/budget", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/metrics", "").Code)
}

func TestHandler_RecoversPanics(t *testing.T) {
	h := NewServer(testConfig(), &fakeOrchestrator{panicOnExplain: true}).Handler()

	rec := do(t, h, http.MethodPost, "/explain", `{"code":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "exploded")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandler_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.01, Burst: 1}
	h := NewServer(cfg, &fakeOrchestrator{}).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/estimate", `{"code":"x"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodPost, "/estimate", `{"code":"x"}`).Code)

	// Probes are not rate limited.
	for range 3 {
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	}
}

func TestServer_Lifecycle(t *testing.T) {
	srv := NewServer(testConfig(), &fakeOrchestrator{})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(context.Background()) }()

	select {
	case <-srv.Ready():
	case err := <-errCh:
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	assert.True(t, srv.IsRunning())

	resp, err := http.Get("http://" + srv.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv.Stop()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.False(t, srv.IsRunning())

	err = srv.Start(context.Background())
	require.Error(t, err)
}

func TestServer_ContextCancel(t *testing.T) {
	srv := NewServer(testConfig(), &fakeOrchestrator{})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()
	<-srv.Ready()

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ListenError(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ListenAddress = "256.0.0.1:99999"

	srv := NewServer(cfg, &fakeOrchestrator{})
	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
	assert.False(t, srv.IsRunning())
}
