package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"parallax-hq/explainer/pkg/config"
)

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	assert.False(t, tracer.Enabled())

	ctx, span := tracer.Start(context.Background(), "noop")
	span.End()
	assert.Empty(t, TraceID(ctx))
	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, "test")
	assert.Error(t, err)
}

func TestTracer_ExportsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := newWithExporter(&config.TracingConfig{
		Enabled:     true,
		ServiceName: "parallax-test",
		Sampler:     SamplerAlways,
	}, "test", exporter)
	require.NoError(t, err)
	assert.True(t, tracer.Enabled())

	ctx, span := tracer.Start(context.Background(), "explain.Explain")
	assert.NotEmpty(t, TraceID(ctx))
	span.AddEvent("admitted")
	span.End()

	require.NoError(t, tracer.Shutdown(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "explain.Explain", spans[0].Name)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "admitted", spans[0].Events[0].Name)
}

func TestTracer_MiddlewareContinuesTrace(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := newWithExporter(&config.TracingConfig{Enabled: true, Sampler: SamplerAlways}, "test", exporter)
	require.NoError(t, err)

	var innerTraceID string
	handler := tracer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		innerTraceID = TraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/explain", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", innerTraceID)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rec.Header().Get("X-Trace-ID"))

	require.NoError(t, tracer.Shutdown(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /explain", spans[0].Name)
}

func TestCreateSampler(t *testing.T) {
	for _, strategy := range []string{"", SamplerAlways, SamplerNever} {
		_, err := createSampler(strategy, 0)
		assert.NoError(t, err, strategy)
	}

	_, err := createSampler(SamplerRatio, 0.25)
	assert.NoError(t, err)

	_, err = createSampler(SamplerRatio, 1.5)
	assert.Error(t, err)

	_, err = createSampler("sometimes", 0)
	assert.Error(t, err)
}
