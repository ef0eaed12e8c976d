package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/microsoft/modelbench/internal/config"
	"github.com/microsoft/modelbench/internal/graders"
	"github.com/microsoft/modelbench/internal/inference"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/reporting"
	"github.com/microsoft/modelbench/internal/store"
	"github.com/spf13/cobra"
)

// apiKeyEnv names the variable holding the Anthropic API key.
const apiKeyEnv = "ANTHROPIC_API_KEY"

// storeFlags are shared by every command that reads or writes runs.
type storeFlags struct {
	dir      string
	inMemory bool
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "store", config.DefaultStoreDir, "Directory of the run store")
	cmd.Flags().BoolVar(&f.inMemory, "in-memory", false, "Keep runs in memory only")
}

func (f *storeFlags) options() []config.Option {
	return []config.Option{config.WithStorePath(f.dir), config.WithInMemoryStore(f.inMemory)}
}

func openStore(s *config.RunSettings) (store.Store, error) {
	if s.InMemory() {
		return store.NewMemoryStore(), nil
	}
	st, err := store.OpenBadger(store.BadgerOptions{Dir: s.StorePath()})
	if err != nil {
		return nil, fmt.Errorf("opening run store %s: %w", s.StorePath(), err)
	}
	return st, nil
}

// newClient returns the inference client of a run: a deterministic mock
// answering from the benchmark's expected outputs, or the Anthropic API.
func newClient(mock bool, cfgs []*models.BenchmarkConfig, rps float64) (inference.Client, error) {
	var client inference.Client
	if mock {
		client = inference.NewMockClient().WithResponder(expectedOutputResponder(cfgs))
	} else {
		key := os.Getenv(apiKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%s is not set (use --mock for a dry run)", apiKeyEnv)
		}
		client = inference.NewAnthropicClient(key)
	}
	if rps > 0 {
		slog.Debug("Rate limiting inference", "rps", rps)
		client = inference.NewRateLimitedClient(client, rps, 1)
	}
	return client, nil
}

// capacityChecker reports a fixed budget, or never clamps when budget <= 0.
func capacityChecker(budget int) inference.CapacityChecker {
	if budget <= 0 {
		return inference.Unlimited
	}
	return inference.StaticCapacity(budget)
}

// expectedOutputResponder answers a known prompt with its expected output,
// so mock runs exercise grading end to end.
func expectedOutputResponder(cfgs []*models.BenchmarkConfig) inference.ResponderFunc {
	answers := make(map[string]string)
	for _, cfg := range cfgs {
		for _, tc := range cfg.TestCases {
			if tc.ExpectedOutput != "" {
				answers[tc.Prompt] = tc.ExpectedOutput
			}
		}
	}
	return func(modelID string, messages []inference.Message, params inference.Parameters) (*inference.Response, error) {
		prompt := ""
		if len(messages) > 0 {
			prompt = messages[len(messages)-1].Content
		}
		text, ok := answers[prompt]
		if !ok {
			text = "Mock response for: " + prompt
		}
		in, out := len(strings.Fields(prompt)), len(strings.Fields(text))
		return &inference.Response{
			Text:  text,
			Usage: models.TokenCounts{Input: in, Output: out, Total: in + out},
		}, nil
	}
}

func newGrader(cfg models.GraderConfig, client inference.Client) (graders.Grader, error) {
	g, err := graders.Create(graders.Type(cfg.Type), cfg.Name, cfg.Params, client)
	if err != nil {
		return nil, fmt.Errorf("creating grader: %w", err)
	}
	return g, nil
}

// writeAnalysis renders a in the requested format.
func writeAnalysis(w io.Writer, a *models.Analysis, format string) error {
	switch format {
	case "", "text":
		return reporting.Text(w, a)
	case "markdown", "md":
		_, err := io.WriteString(w, reporting.Markdown(a))
		return err
	case "html":
		out, err := reporting.HTML(a)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	default:
		return fmt.Errorf("unknown format %q (want text, markdown, html or json)", format)
	}
}

// withOutput calls fn with the file at path, or with fallback when path is empty.
func withOutput(path string, fallback io.Writer, fn func(io.Writer) error) error {
	if path == "" {
		return fn(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}
