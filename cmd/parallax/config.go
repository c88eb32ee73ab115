package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"parallax-hq/explainer/pkg/telemetry/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file, apply environment overrides and validate the
result. Exits with status 2 when the configuration is invalid.

Examples:
  parallax config validate --config config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd.ErrOrStderr()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults and environment overrides as YAML.
Literal API keys are redacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		cfg.Providers.OpenAI.APIKey = logging.RedactKey(cfg.Providers.OpenAI.APIKey)
		cfg.Providers.Anthropic.APIKey = logging.RedactKey(cfg.Providers.Anthropic.APIKey)

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
