package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"parallax-hq/explainer/pkg/cli"
	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/proxy/handlers"
	"parallax-hq/explainer/pkg/proxy/types"
)

var explainFlags struct {
	maxTokens int
	output    string
}

var explainCmd = &cobra.Command{
	Use:   "explain [file|-]",
	Short: "Explain code with both providers",
	Long: `Explain a file with GPT-4 and Claude and print both explanations.

The request goes through the same estimate and budget checks as the HTTP
API and its actual cost is charged to the monthly ledger. Both provider API
keys must be available.

Examples:
  # Explain a file
  parallax explain main.go

  # Explain stdin and print JSON
  cat main.go | parallax explain - --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)

	explainCmd.Flags().IntVar(&explainFlags.maxTokens, "max-tokens", 0, "lower the output token bound")
	explainCmd.Flags().StringVarP(&explainFlags.output, "output", "o", "text", "output format: text, json")
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	formatter, err := cli.NewFormatter(cli.OutputFormat(explainFlags.output))
	if err != nil {
		return err
	}

	code, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	s, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	resp, err := s.orchestrator.Explain(ctx, explain.Request{
		Code:            code,
		MaxOutputTokens: explainFlags.maxTokens,
	})
	if err != nil {
		return err
	}

	return formatter.FormatTo(cmd.OutOrStdout(), explainReport{handlers.NewExplainResponse(resp)})
}

type explainReport struct {
	*types.ExplainResponse
}

func (r explainReport) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "== GPT-4 ==\n%s\n\n== Claude ==\n%s\n\n", r.GPTExplanation, r.ClaudeExplanation); err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(r.Results)) {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", name+":", r.Results[name].Status); err != nil {
			return err
		}
	}

	u := r.Usage
	_, err := fmt.Fprintf(w, "Tokens: %d in, %d out. Cost: $%.6f\n", u.InputTokens, u.OutputTokens, u.Cost)
	return err
}
