/*
Package cli provides helpers shared by the parallax commands.

Output Formatting:

Command results are printed as text for people or JSON for scripts:

	formatter, err := cli.NewFormatter(cli.OutputFormat(flags.output))
	if err != nil {
		return err
	}
	return formatter.FormatTo(cmd.OutOrStdout(), result)

A value that implements TextRenderer controls its own text layout; anything
else is printed with %v.

Errors:

ConfigError and CommandError carry enough context for the root command to
pick an exit code with ExitCode.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
