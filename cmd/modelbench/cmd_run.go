package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/microsoft/modelbench/internal/analysis"
	"github.com/microsoft/modelbench/internal/config"
	"github.com/microsoft/modelbench/internal/graders"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/orchestration"
	"github.com/spf13/cobra"
)

type runOptions struct {
	store       storeFlags
	mock        bool
	rps         float64
	capacity    int
	output      string
	format      string
	tests       []string
	models      []string
	verbose     bool
	concurrency int
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <benchmark.yaml>...",
		Short: "Run benchmarks and print their analysis",
		Long: `Run one or more benchmark files against their enabled models.

Every run is persisted in the store, analyzed once it completes, and its
rankings are saved. Several files run concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmarks(cmd, opts, args)
		},
	}

	opts.store.register(cmd)
	cmd.Flags().BoolVar(&opts.mock, "mock", false, "Use a deterministic mock client instead of the Anthropic API")
	cmd.Flags().Float64Var(&opts.rps, "rps", 0, "Maximum inference requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&opts.capacity, "capacity", 0, "Report this token budget to the capacity guard (0 = unlimited)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the analysis to a file instead of stdout")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, markdown, html, json")
	cmd.Flags().StringArrayVar(&opts.tests, "test", nil, "Filter test cases by name/ID glob pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&opts.models, "model", nil, "Only run models matching this glob pattern (can be repeated)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print one line per cell")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Benchmark files run at once (default: GOMAXPROCS)")

	return cmd
}

func loadBenchmarks(paths []string, tests, modelPatterns []string) ([]*models.BenchmarkConfig, error) {
	cfgs := make([]*models.BenchmarkConfig, 0, len(paths))
	for _, p := range paths {
		cfg, err := config.Load(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load benchmark: %w", err)
		}
		if cfg.TestCases, err = orchestration.FilterTestCases(cfg.TestCases, tests); err != nil {
			return nil, err
		}
		if cfg.Models, err = orchestration.SelectModels(cfg.Models, modelPatterns); err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

func runBenchmarks(cmd *cobra.Command, opts *runOptions, paths []string) error {
	settings := config.NewRunSettings(append(opts.store.options(),
		config.WithOutputPath(opts.output),
		config.WithFormat(opts.format),
		config.WithVerbose(opts.verbose),
		config.WithConcurrency(opts.concurrency),
	)...)

	cfgs, err := loadBenchmarks(paths, opts.tests, opts.models)
	if err != nil {
		return err
	}

	client, err := newClient(opts.mock, cfgs, opts.rps)
	if err != nil {
		return err
	}

	st, err := openStore(settings)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	progress := newProgressPrinter(cmd.ErrOrStderr(), settings.Verbose())
	runner := orchestration.NewRunner(st, client,
		orchestration.WithGraderFactory(func(cfg *models.BenchmarkConfig) (graders.Grader, error) {
			return newGrader(cfg.Grader, client)
		}),
		orchestration.WithProgressListener(progress.listen),
		orchestration.WithCapacityChecker(capacityChecker(opts.capacity)),
	)

	runs, runErr := runner.RunAll(ctx, cfgs, settings.Concurrency())

	svc := analysis.NewService(st, analysis.WithSaveRankings(true))
	failedCells := 0
	err = withOutput(settings.OutputPath(), cmd.OutOrStdout(), func(w io.Writer) error {
		for _, run := range runs {
			if run == nil || run.State != models.RunStateCompleted {
				continue
			}
			a, err := svc.Analyze(ctx, run.ID)
			if err != nil {
				return err
			}
			if err := writeAnalysis(w, a, settings.Format()); err != nil {
				return err
			}
			if run.Summary != nil {
				failedCells += run.Summary.Failed
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if settings.OutputPath() != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Analysis saved to: %s\n", settings.OutputPath()) //nolint:errcheck
	}
	if failedCells > 0 {
		return &TestFailureError{Message: fmt.Sprintf("%d cell(s) failed", failedCells)}
	}
	return nil
}
