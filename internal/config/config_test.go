package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/microsoft/modelbench/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunSettings_DefaultValues(t *testing.T) {
	s := NewRunSettings()

	if s.StorePath() != DefaultStoreDir {
		t.Fatalf("StorePath() = %q, want %q", s.StorePath(), DefaultStoreDir)
	}
	if s.InMemory() {
		t.Fatalf("InMemory() = true, want false")
	}
	if s.OutputPath() != "" {
		t.Fatalf("OutputPath() = %q, want empty", s.OutputPath())
	}
	if s.Format() != "text" {
		t.Fatalf("Format() = %q, want %q", s.Format(), "text")
	}
	if s.Verbose() {
		t.Fatalf("Verbose() = true, want false")
	}
	if s.Concurrency() != runtime.GOMAXPROCS(0) {
		t.Fatalf("Concurrency() = %d, want %d", s.Concurrency(), runtime.GOMAXPROCS(0))
	}
}

func TestNewRunSettings_AppliesFunctionalOptions(t *testing.T) {
	s := NewRunSettings(
		WithStorePath("/tmp/runs"),
		WithInMemoryStore(true),
		WithOutputPath("report.md"),
		WithFormat("markdown"),
		WithVerbose(true),
		WithConcurrency(3),
	)

	if s.StorePath() != "/tmp/runs" {
		t.Fatalf("StorePath() = %q, want %q", s.StorePath(), "/tmp/runs")
	}
	if !s.InMemory() {
		t.Fatalf("InMemory() = false, want true")
	}
	if s.OutputPath() != "report.md" {
		t.Fatalf("OutputPath() = %q, want %q", s.OutputPath(), "report.md")
	}
	if s.Format() != "markdown" {
		t.Fatalf("Format() = %q, want %q", s.Format(), "markdown")
	}
	if !s.Verbose() {
		t.Fatalf("Verbose() = false, want true")
	}
	if s.Concurrency() != 3 {
		t.Fatalf("Concurrency() = %d, want 3", s.Concurrency())
	}
}

func TestOptionOrder_LastOptionWins(t *testing.T) {
	s := NewRunSettings(
		WithVerbose(true),
		WithVerbose(false),
		WithConcurrency(2),
		WithConcurrency(0),
	)

	if s.Verbose() {
		t.Fatalf("Verbose() = true, want false")
	}
	if s.Concurrency() != 2 {
		t.Fatalf("Concurrency() = %d, want 2", s.Concurrency())
	}
}

const benchmarkYAML = `name: geography
description: Capitals
credential: team-a
test_cases:
  - id: cap-fr
    name: France
    category: factual-knowledge
    prompt: "What is the capital of France?"
    expected_output: Paris
models:
  - model_id: claude-3-opus
    parameters:
      temperature: 0.2
      max_tokens: 800
      top_k: 5
  - model_id: claude-3-haiku
    enabled: false
    parameters:
      temperature: 1
guard:
  buffer: 25
  fallback_model: claude-3-haiku
grader:
  type: keyword
  params:
    must_contain: [paris]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bench.yaml", benchmarkYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "geography", cfg.Name)
	assert.Equal(t, "team-a", cfg.Credential)
	require.Len(t, cfg.TestCases, 1)
	assert.Equal(t, models.CategoryFactualKnowledge, cfg.TestCases[0].Category)
	assert.Equal(t, "Paris", cfg.TestCases[0].ExpectedOutput)

	require.Len(t, cfg.Models, 2)
	opus := cfg.Models[0]
	assert.True(t, opus.Enabled, "enabled defaults to true")
	assert.Equal(t, 0.2, opus.Parameters.Temperature)
	assert.Equal(t, 800, opus.Parameters.MaxTokens)
	assert.Equal(t, map[string]any{"top_k": 5}, opus.Parameters.Extra)

	haiku := cfg.Models[1]
	assert.False(t, haiku.Enabled)
	assert.Equal(t, 1.0, haiku.Parameters.Temperature)
	assert.Equal(t, models.DefaultMaxTokens, haiku.Parameters.EffectiveMaxTokens())

	assert.Equal(t, 25, cfg.Guard.Buffer)
	assert.Equal(t, "claude-3-haiku", cfg.Guard.FallbackModel)
	assert.Equal(t, "keyword", cfg.Grader.Type)
	assert.Equal(t, []any{"paris"}, cfg.Grader.Params["must_contain"])
}

func TestLoad_Dataset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "capitals.csv",
		"id,prompt,expected_output,country,capital\n"+
			"de,What is the capital of {{.Vars.country}}?,{{.Vars.capital}},Germany,Berlin\n"+
			"it,What is the capital of {{.Vars.country}}?,{{.Vars.capital}},Italy,Rome\n"+
			"es,What is the capital of {{.Vars.country}}?,{{.Vars.capital}},Spain,Madrid\n")
	path := writeFile(t, dir, "bench.yaml", `name: geography
test_cases:
  - id: fr
    prompt: "What is the capital of France?"
test_cases_from:
  path: capitals.csv
  start: 2
models:
  - model_id: m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.TestCases, 3)
	assert.Equal(t, "fr", cfg.TestCases[0].ID)
	assert.Equal(t, "it", cfg.TestCases[1].ID)
	assert.Equal(t, "What is the capital of Italy?", cfg.TestCases[1].Prompt)
	assert.Equal(t, "Madrid", cfg.TestCases[2].ExpectedOutput)
}

func TestLoad_DatasetPathShorthand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cases.csv", "id,prompt\na,Say hi\n")
	path := writeFile(t, dir, "bench.yaml", "name: g\ntest_cases_from: cases.csv\nmodels:\n  - model_id: m\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.TestCases, 1)
	assert.Equal(t, "Say hi", cfg.TestCases[0].Prompt)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "schema violation",
			doc:     "name: g\ntest_cases:\n  - id: a\n    prompt: hi\n    colour: red\nmodels:\n  - model_id: m\n",
			wantErr: "schema validation failed",
		},
		{
			name:    "duplicate ids",
			doc:     "name: g\ntest_cases:\n  - {id: a, prompt: hi}\n  - {id: a, prompt: yo}\nmodels:\n  - model_id: m\n",
			wantErr: `duplicate test case id "a"`,
		},
		{
			name:    "no enabled models",
			doc:     "name: g\ntest_cases:\n  - {id: a, prompt: hi}\nmodels:\n  - {model_id: m, enabled: false}\n",
			wantErr: "no enabled models",
		},
		{
			name:    "missing dataset",
			doc:     "name: g\ntest_cases_from: nope.csv\nmodels:\n  - model_id: m\n",
			wantErr: "csv: open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bench.yaml", tt.doc)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading benchmark file")
}
