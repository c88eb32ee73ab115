package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"parallax-hq/explainer/pkg/cli"
	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/processing/tokens"
	"parallax-hq/explainer/pkg/proxy/handlers"
	"parallax-hq/explainer/pkg/proxy/types"
)

var estimateFlags struct {
	maxTokens int
	output    string
}

var estimateCmd = &cobra.Command{
	Use:   "estimate [file|-]",
	Short: "Estimate tokens and cost without calling any provider",
	Long: `Estimate the tokens and cost of explaining a file and check the estimate
against the per-request limits.

No provider is called and no API key is needed. The command exits with
status 3 when the estimate would be rejected.

Examples:
  # Estimate a file
  parallax estimate main.go

  # Estimate stdin with a lower output bound
  cat main.go | parallax estimate --max-tokens 500

  # Machine-readable output
  parallax estimate main.go --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().IntVar(&estimateFlags.maxTokens, "max-tokens", 0, "lower the output token bound")
	estimateCmd.Flags().StringVarP(&estimateFlags.output, "output", "o", "text", "output format: text, json")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	formatter, err := cli.NewFormatter(cli.OutputFormat(estimateFlags.output))
	if err != nil {
		return err
	}

	code, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	est, err := explain.Assess(tokens.NewTiktokenEstimator(), newCalculator(cfg), newPolicy(cfg), explain.Request{
		Code:            code,
		MaxOutputTokens: estimateFlags.maxTokens,
	})
	if est == nil {
		return err
	}

	report := estimateReport{
		EstimateResponse: handlers.NewEstimateResponse(est),
		Admitted:         est.Decision.Admitted,
		Reason:           string(est.Decision.Reason),
	}
	if ferr := formatter.FormatTo(cmd.OutOrStdout(), report); ferr != nil {
		return ferr
	}
	return err
}

// estimateReport is an estimate together with the gate decision.
type estimateReport struct {
	*types.EstimateResponse
	Admitted bool   `json:"admitted"`
	Reason   string `json:"reason,omitempty"`
}

func (r estimateReport) RenderText(w io.Writer) error {
	c := r.EstimatedCost
	verdict := "admitted"
	if !r.Admitted {
		verdict = "rejected (" + r.Reason + ")"
	}

	_, err := fmt.Fprintf(w,
		"Input tokens:       %d\n"+
			"Output tokens:      %d (estimated)\n"+
			"GPT-4 cost:         $%.6f\n"+
			"Claude cost:        $%.6f\n"+
			"Total cost:         $%.6f\n"+
			"Decision:           %s\n",
		r.InputTokens, r.EstimatedOutputTokens, c.GPT4Cost, c.ClaudeCost, c.TotalCost, verdict)
	return err
}
