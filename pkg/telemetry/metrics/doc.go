// Package metrics provides Prometheus metrics for the explanation service.
//
// # Metrics Categories
//
//   - Request metrics: HTTP requests by endpoint and status, request duration
//   - Provider metrics: calls by provider and outcome, call latency
//   - Budget metrics: gate rejections by reason, monthly spend
//   - Cost metrics: estimated and actual cost, tokens estimated and produced
//
// All metrics live on a private registry exposed by Collector.Handler.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	orch, _ := explain.New(..., explain.WithRecorder(collector))
//	mux.Handle("/metrics", collector.Handler())
//
// Collector implements explain.Recorder, so the orchestrator reports its
// lifecycle directly.
package metrics
