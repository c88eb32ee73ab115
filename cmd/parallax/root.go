package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"parallax-hq/explainer/pkg/cli"
	"parallax-hq/explainer/pkg/config"
	"parallax-hq/explainer/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "parallax",
	Short: "Parallax - budgeted code explanations from GPT-4 and Claude",
	Long: `Parallax sends a piece of source code to GPT-4 and Claude and returns both
explanations side by side.

Before any provider is called the request is estimated:
  - Input tokens are counted with the cl100k_base encoding
  - Output tokens are estimated at twice the input, capped by max_output_tokens
  - Cost is priced per provider and checked against max_cost_per_request
  - Input length is checked against max_input_tokens

Rejected requests cost nothing. Admitted requests are charged to a monthly
ledger that can be enforced as a hard budget.

Exit codes:
  0  success
  1  failure
  2  configuration error
  3  request rejected by a budget limit`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// loadConfig loads the configuration with environment overrides, applies the
// --log-level flag and installs the default logger writing to w.
func loadConfig(w io.Writer) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}

	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
		if err := config.Validate(cfg); err != nil {
			return nil, cli.NewConfigError("telemetry.logging.level", err.Error())
		}
	}

	if w == nil {
		w = os.Stderr
	}
	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        cfg.Telemetry.Logging.Format,
		AddSource:     cfg.Telemetry.Logging.AddSource,
		RedactSecrets: cfg.Telemetry.Logging.RedactSecrets,
		Writer:        w,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	return cfg, nil
}
