package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"parallax-hq/explainer/pkg/cli"
	"parallax-hq/explainer/pkg/config"
	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/limits/budget"
	"parallax-hq/explainer/pkg/limits/storage"
	"parallax-hq/explainer/pkg/server"
	"parallax-hq/explainer/pkg/telemetry/health"
	"parallax-hq/explainer/pkg/telemetry/metrics"
	"parallax-hq/explainer/pkg/telemetry/tracing"
)

// budgetPublishInterval is how often ledger gauges are refreshed.
const budgetPublishInterval = 15 * time.Second

var serveFlags struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the explanation HTTP API",
	Long: `Start the HTTP API serving POST /estimate and POST /explain.

Both provider API keys must be resolvable at startup, from the configuration,
the environment (OPENAI_API_KEY, ANTHROPIC_API_KEY) or the secrets directory.
The server refuses to start without them.

Examples:
  # Start with defaults and environment overrides
  parallax serve

  # Start with a configuration file
  parallax serve --config /etc/parallax/config.yaml

  # Override the listen address
  parallax serve --listen 0.0.0.0:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	s, err := buildStack(ctx, cfg,
		explain.WithRecorder(collector),
		explain.WithTracer(tracer.Tracer()),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	s.tracker.Start()
	if !s.tracker.Enforced() {
		slog.Warn("monthly budget is not enforced, spend is only recorded",
			"budget", cfg.Limits.Monthly.Budget,
		)
	}
	go publishBudget(ctx, s.tracker, collector, budgetPublishInterval)

	srv := server.NewServer(cfg, s.orchestrator,
		server.WithBudgetReporter(s.tracker),
		server.WithMetrics(collector),
		server.WithTracer(tracer),
		server.WithReadiness(newReadiness(s.backend, s.tracker)),
		server.WithVersion(Version, GitCommit),
	)

	printBanner(cmd, cfg, s.tracker.Status())

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// newReadiness reports the service not ready when the ledger storage is
// unreachable or an enforced budget is exhausted.
func newReadiness(backend storage.Backend, tracker *budget.Tracker) *health.Checker {
	checker := health.New(health.DefaultCheckTimeout)
	checker.RegisterCheck("storage", func(ctx context.Context) error {
		_, err := backend.Load(ctx, budget.DefaultLedger)
		return err
	})
	checker.RegisterCheck("budget", func(context.Context) error {
		if st := tracker.Status(); st.Enforced && !st.Allowed {
			return fmt.Errorf("monthly budget exhausted: $%.2f of $%.2f used", st.Used, st.Limit)
		}
		return nil
	})
	return checker
}

// publishBudget refreshes the ledger gauges until ctx is done.
func publishBudget(ctx context.Context, tracker *budget.Tracker, collector *metrics.Collector, every time.Duration) {
	collector.UpdateBudget(tracker.Status())

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			collector.UpdateBudget(tracker.Status())
		}
	}
}

func printBanner(cmd *cobra.Command, cfg *config.Config, status budget.Status) {
	scheme := "http"
	if cfg.Server.TLS.Enabled {
		scheme = "https"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Parallax %s\n", Version)
	fmt.Fprintf(out, "  Listening:        %s://%s\n", scheme, cfg.Server.ListenAddress)
	fmt.Fprintf(out, "  Max request cost: $%.2f\n", cfg.Limits.MaxCostPerRequest)
	fmt.Fprintf(out, "  Max input tokens: %d\n", cfg.Limits.MaxInputTokens)
	fmt.Fprintf(out, "  Monthly budget:   $%.2f used of $%.2f (enforced: %t)\n", status.Used, status.Limit, status.Enforced)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "  Metrics:          %s\n", cfg.Telemetry.Metrics.Path)
	}
}
