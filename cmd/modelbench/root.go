package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modelbench",
		Short: "modelbench - benchmark and rank AI language models",
		Long: `modelbench runs a suite of test cases against several AI language models,
then scores, ranks and analyzes them by accuracy, cost, latency and domain
expertise.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newRunsCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newCategoriesCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
