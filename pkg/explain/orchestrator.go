package explain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"parallax-hq/explainer/pkg/limits/budget"
	"parallax-hq/explainer/pkg/processing/costs"
	"parallax-hq/explainer/pkg/processing/tokens"
	"parallax-hq/explainer/pkg/providers"
)

// DefaultProviderTimeout bounds each provider call when no timeout is configured.
const DefaultProviderTimeout = 10 * time.Second

// Recorder receives request lifecycle measurements.
type Recorder interface {
	RecordEstimate(usage UsageEstimate)
	RecordRejection(reason budget.Reason)
	RecordProviderCall(provider string, outcome string, latency time.Duration)
	RecordActual(usage UsageActual)
}

// SpendLedger accumulates actual spend across requests.
type SpendLedger interface {
	// Reserve holds amount for an admitted request. It returns a
	// *budget.RejectionError when amount cannot be afforded.
	Reserve(amount float64) error

	// Settle releases a reservation and charges the actual amount.
	Settle(ctx context.Context, reserved, actual float64) error
}

// Orchestrator estimates, gates, dispatches, and reconciles explanation requests.
type Orchestrator struct {
	estimator  tokens.Estimator
	calculator *costs.Calculator
	policy     budget.Policy
	clients    []providers.Client

	ledger   SpendLedger
	recorder Recorder
	tracer   trace.Tracer
	logger   *slog.Logger
	timeout  time.Duration
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLedger enables spend accounting. The estimated cost is reserved before
// dispatch and settled with the actual cost once the request is reconciled.
func WithLedger(ledger SpendLedger) Option {
	return func(o *Orchestrator) {
		o.ledger = ledger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = recorder
	}
}

// WithTracer sets the tracer used for request and provider spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithProviderTimeout sets the deadline applied to every provider call.
func WithProviderTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// New creates an Orchestrator. At least one client is required and client
// names must be unique.
func New(estimator tokens.Estimator, calculator *costs.Calculator, policy budget.Policy, clients []providers.Client, opts ...Option) (*Orchestrator, error) {
	if estimator == nil {
		return nil, fmt.Errorf("estimator is required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("calculator is required")
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("at least one provider client is required")
	}

	seen := make(map[string]bool, len(clients))
	for _, c := range clients {
		if c == nil {
			return nil, fmt.Errorf("provider client cannot be nil")
		}
		if seen[c.Name()] {
			return nil, fmt.Errorf("duplicate provider client %q", c.Name())
		}
		seen[c.Name()] = true
	}

	o := &Orchestrator{
		estimator:  estimator,
		calculator: calculator,
		policy:     policy,
		clients:    append([]providers.Client(nil), clients...),
		recorder:   nopRecorder{},
		tracer:     noop.NewTracerProvider().Tracer("parallax/explain"),
		logger:     slog.Default(),
		timeout:    DefaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultProviderTimeout
	}

	return o, nil
}

// Policy returns the budget policy in force.
func (o *Orchestrator) Policy() budget.Policy {
	return o.policy
}

// Providers returns the provider names in dispatch order.
func (o *Orchestrator) Providers() []string {
	names := make([]string, len(o.clients))
	for i, c := range o.clients {
		names[i] = c.Name()
	}
	return names
}

// Estimate computes the usage estimate for req and gates it. No provider is
// called. When the gate rejects the request the estimation is returned
// together with a *budget.RejectionError.
func (o *Orchestrator) Estimate(ctx context.Context, req Request) (*Estimation, error) {
	ctx, span := o.tracer.Start(ctx, "explain.Estimate")
	defer span.End()

	est, err := o.estimate(ctx, span, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return est, err
}

// Explain runs the full lifecycle for req.
//
// A *ValidationError or *budget.RejectionError means no provider was called.
// Provider failures are not errors: they are reported in the Response.
func (o *Orchestrator) Explain(ctx context.Context, req Request) (*Response, error) {
	ctx, span := o.tracer.Start(ctx, "explain.Explain")
	defer span.End()

	est, err := o.estimate(ctx, span, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if o.ledger != nil {
		if err := o.ledger.Reserve(est.Usage.Cost.Total); err != nil {
			var rejection *budget.RejectionError
			if errors.As(err, &rejection) {
				rejection.Estimate = est.Usage.budgetEstimate()
				o.recorder.RecordRejection(rejection.Reason)
			}
			o.transition(ctx, span, StateRejected, "reason", string(budget.ReasonMonthlyBudgetExceeded))
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	o.transition(ctx, span, StateAdmitted)

	maxOutput := o.policy.OutputCap(req.MaxOutputTokens)
	results := o.dispatch(ctx, req.Code, maxOutput)
	o.transition(ctx, span, StateDispatched)

	usage := o.reconcile(est.Usage, results)
	o.recorder.RecordActual(usage)

	if o.ledger != nil {
		if err := o.ledger.Settle(ctx, est.Usage.Cost.Total, usage.Cost.Total); err != nil {
			o.logger.ErrorContext(ctx, "failed to record spend", "amount", usage.Cost.Total, "error", err)
		}
	}

	o.transition(ctx, span, StateReconciled,
		"output_tokens", usage.OutputTokens,
		"actual_cost", usage.Cost.Total,
	)

	return &Response{
		Results:  results,
		Estimate: est.Usage,
		Usage:    usage,
	}, nil
}

func (o *Orchestrator) estimate(ctx context.Context, span trace.Span, req Request) (*Estimation, error) {
	o.transition(ctx, span, StateReceived)

	est, err := Assess(o.estimator, o.calculator, o.policy, req)
	if est == nil {
		return nil, err
	}

	usage := est.Usage
	o.recorder.RecordEstimate(usage)

	span.SetAttributes(
		attribute.Int("explain.input_tokens", usage.InputTokens),
		attribute.Int("explain.estimated_output_tokens", usage.EstimatedOutputTokens),
		attribute.Float64("explain.estimated_cost", usage.Cost.Total),
	)
	o.transition(ctx, span, StateEstimated,
		"input_tokens", usage.InputTokens,
		"estimated_output_tokens", usage.EstimatedOutputTokens,
		"estimated_cost", usage.Cost.Total,
	)

	if decision := est.Decision; !decision.Admitted {
		o.recorder.RecordRejection(decision.Reason)
		o.transition(ctx, span, StateRejected,
			"reason", string(decision.Reason),
			"limit", decision.Limit,
			"actual", decision.Actual,
		)
		return est, err
	}

	return est, nil
}

// Assess estimates req and evaluates it against policy. It has no side
// effects and needs no provider clients.
//
// A missing input yields a nil Estimation and a *ValidationError. A gate
// rejection yields the Estimation together with a *budget.RejectionError.
func Assess(estimator tokens.Estimator, calculator *costs.Calculator, policy budget.Policy, req Request) (*Estimation, error) {
	if req.Code == "" {
		return nil, &ValidationError{Reason: ReasonMissingInput, Message: "No code provided"}
	}

	inputTokens := estimator.CountTokens(req.Code)
	outputTokens := tokens.EstimateOutput(inputTokens, policy.OutputCap(req.MaxOutputTokens))

	usage := UsageEstimate{
		InputTokens:           inputTokens,
		EstimatedOutputTokens: outputTokens,
		Cost:                  calculator.Estimate(inputTokens, outputTokens),
	}

	decision := budget.Evaluate(usage.budgetEstimate(), policy)
	est := &Estimation{
		Usage:       usage,
		Decision:    decision,
		TokenScheme: scheme(estimator),
	}
	if !decision.Admitted {
		return est, decision.Err()
	}
	return est, nil
}

// dispatch calls every client concurrently and waits for all of them.
// The calls are detached from the caller's cancellation and bounded only by
// the provider timeout.
func (o *Orchestrator) dispatch(ctx context.Context, code string, maxOutput int) []providers.Result {
	detached := context.WithoutCancel(ctx)
	results := make([]providers.Result, len(o.clients))

	var wg sync.WaitGroup
	for i, client := range o.clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = o.call(detached, client, code, maxOutput)
		}()
	}
	wg.Wait()

	return results
}

func (o *Orchestrator) call(ctx context.Context, client providers.Client, code string, maxOutput int) (result providers.Result) {
	name := client.Name()

	ctx, span := o.tracer.Start(ctx, "provider.Explain", trace.WithAttributes(
		attribute.String("provider.name", name),
		attribute.Int("provider.max_output_tokens", maxOutput),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.ErrorContext(ctx, "provider client panicked", "provider", name, "panic", r)
			result = providers.Failed(name, fmt.Errorf("provider client panicked: %v", r))
		}

		latency := time.Since(start)
		outcome := "success"
		if result.Err != nil {
			outcome = string(result.Err.Kind)
			span.RecordError(result.Err)
			span.SetStatus(codes.Error, result.Err.Summary())
			o.logger.WarnContext(ctx, "provider call failed",
				"provider", name,
				"kind", result.Err.Kind,
				"status_code", result.Err.StatusCode,
				"latency", latency,
				"error", result.Err,
			)
		} else {
			o.logger.DebugContext(ctx, "provider call succeeded", "provider", name, "latency", latency)
		}
		span.SetAttributes(attribute.String("provider.outcome", outcome))
		o.recorder.RecordProviderCall(name, outcome, latency)
	}()

	result = client.Explain(ctx, code, maxOutput)
	result.Provider = name
	return result
}

// reconcile recomputes usage from the explanations that came back.
func (o *Orchestrator) reconcile(est UsageEstimate, results []providers.Result) UsageActual {
	usage := UsageActual{
		InputTokens:      est.InputTokens,
		OutputByProvider: make(map[string]int, len(results)),
	}

	for _, r := range results {
		n := 0
		if r.OK() {
			n = o.estimator.CountTokens(r.Explanation)
		}
		usage.OutputByProvider[r.Provider] = n
		usage.OutputTokens += n
	}

	usage.Cost = o.calculator.Actual(usage.InputTokens, usage.OutputByProvider)
	return usage
}

func (o *Orchestrator) transition(ctx context.Context, span trace.Span, state State, args ...any) {
	span.AddEvent(string(state))
	o.logger.DebugContext(ctx, "explain request "+string(state), args...)
}

func scheme(e tokens.Estimator) string {
	if s, ok := e.(interface{ Scheme() string }); ok {
		return s.Scheme()
	}
	return ""
}

type nopRecorder struct{}

func (nopRecorder) RecordEstimate(UsageEstimate)                     {}
func (nopRecorder) RecordRejection(budget.Reason)                    {}
func (nopRecorder) RecordProviderCall(string, string, time.Duration) {}
func (nopRecorder) RecordActual(UsageActual)                         {}
