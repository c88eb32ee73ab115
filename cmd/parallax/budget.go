package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"parallax-hq/explainer/pkg/cli"
	"parallax-hq/explainer/pkg/proxy/handlers"
	"parallax-hq/explainer/pkg/proxy/types"
)

var budgetFlags struct {
	output string
	yes    bool
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Inspect or reset the monthly spend ledger",
	Long: `Inspect or reset the monthly spend ledger.

The ledger is read from the configured storage backend. With the memory
backend it is always empty; use the sqlite backend to share the ledger with
a running server.`,
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show spend for the current period",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		formatter, err := cli.NewFormatter(cli.OutputFormat(budgetFlags.output))
		if err != nil {
			return err
		}

		l, err := openLedger(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer l.Close()

		return formatter.FormatTo(cmd.OutOrStdout(), budgetReport{handlers.NewBudgetResponse(l.tracker.Status())})
	},
}

var budgetResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset spend for the current period to zero",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !budgetFlags.yes {
			return fmt.Errorf("refusing to reset the ledger without --yes")
		}

		cfg, err := loadConfig(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		l, err := openLedger(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer l.Close()

		before := l.tracker.Status().Used
		if err := l.tracker.Reset(cmd.Context()); err != nil {
			return cli.NewCommandError("budget reset", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Ledger reset ($%.6f cleared)\n", before)
		return nil
	},
}

func init() {
	budgetStatusCmd.Flags().StringVarP(&budgetFlags.output, "output", "o", "text", "output format: text, json")
	budgetResetCmd.Flags().BoolVar(&budgetFlags.yes, "yes", false, "confirm the reset")

	budgetCmd.AddCommand(budgetStatusCmd, budgetResetCmd)
	rootCmd.AddCommand(budgetCmd)
}

type budgetReport struct {
	*types.BudgetResponse
}

func (r budgetReport) RenderText(w io.Writer) error {
	next := "none"
	if !r.NextReset.IsZero() {
		next = r.NextReset.Format(time.RFC3339)
	}
	_, err := fmt.Fprintf(w,
		"Used:         $%.6f of $%.2f (%.1f%%)\n"+
			"Remaining:    $%.6f\n"+
			"Enforced:     %t\n"+
			"Allowed:      %t\n"+
			"Period start: %s\n"+
			"Next reset:   %s\n",
		r.Used, r.Limit, r.Percentage*100, r.Remaining, r.Enforced, r.Allowed,
		r.PeriodStart.Format(time.RFC3339), next)
	return err
}
