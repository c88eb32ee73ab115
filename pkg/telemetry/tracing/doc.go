// Package tracing provides OpenTelemetry tracing for the explanation service.
//
// # Overview
//
// When enabled, spans are exported over OTLP gRPC. Each HTTP request gets a
// server span, the orchestrator adds spans for estimation and for each
// provider call, and lifecycle states are recorded as span events. Incoming
// W3C traceparent headers are honoured.
//
// When disabled, a noop tracer is used.
//
// # Sampling Strategies
//
//   - always: sample every trace
//   - never: sample no traces
//   - ratio: sample a fraction of traces (sample_ratio)
//
// All samplers respect the parent span's decision.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	orch, _ := explain.New(..., explain.WithTracer(tracer.Tracer()))
//	handler = tracer.Middleware(handler)
package tracing
