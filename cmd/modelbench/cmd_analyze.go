package main

import (
	"fmt"
	"io"

	"github.com/microsoft/modelbench/internal/analysis"
	"github.com/microsoft/modelbench/internal/config"
	"github.com/microsoft/modelbench/internal/reporting"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	store  storeFlags
	format string
	output string
	save   bool
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <run-id>",
		Short: "Recompute rankings and domain insights of a completed run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.NewRunSettings(append(opts.store.options(),
				config.WithFormat(opts.format),
				config.WithOutputPath(opts.output),
			)...)

			st, err := openStore(settings)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			a, err := analysis.NewService(st, analysis.WithSaveRankings(opts.save)).Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return withOutput(settings.OutputPath(), cmd.OutOrStdout(), func(w io.Writer) error {
				return writeAnalysis(w, a, settings.Format())
			})
		},
	}

	opts.store.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, markdown, html, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the analysis to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Replace the stored rankings with the recomputed ones")

	return cmd
}

type reportOptions struct {
	store  storeFlags
	format string
	output string
}

func newReportCommand() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Summarize a run, or export its cells as JUnit XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.NewRunSettings(append(opts.store.options(), config.WithOutputPath(opts.output))...)

			st, err := openStore(settings)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("loading run %s: %w", args[0], err)
			}

			return withOutput(settings.OutputPath(), cmd.OutOrStdout(), func(w io.Writer) error {
				switch opts.format {
				case "text":
					_, err := io.WriteString(w, reporting.FormatRunSummary(run))
					return err
				case "junit":
					results, err := st.ListTestCaseResults(cmd.Context(), run.ID)
					if err != nil {
						return fmt.Errorf("loading results of run %s: %w", run.ID, err)
					}
					data, err := reporting.MarshalJUnit(run, results)
					if err != nil {
						return err
					}
					_, err = w.Write(data)
					return err
				default:
					return fmt.Errorf("unknown format %q (want text or junit)", opts.format)
				}
			})
		},
	}

	opts.store.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, junit")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}
