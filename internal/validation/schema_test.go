package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const validBenchmarkYAML = `name: geography
description: Capitals quiz
credential: default
test_cases:
  - id: cap-fr
    category: factual-knowledge
    prompt: "What is the capital of France?"
    expected_output: Paris
models:
  - model_id: claude-3-opus
    enabled: true
    parameters:
      temperature: 0.2
      max_tokens: 500
guard:
  buffer: 50
  fallback_model: claude-3-haiku
`

const invalidBenchmarkYAML = `name: geography
test_cases:
  - id: cap-fr
    category: geography
    prompt: "What is the capital of France?"
models:
  - model_id: claude-3-opus
    parameters:
      temperature: 5
`

const datasetBenchmarkYAML = `name: geography
test_cases_from: cases.csv
models:
  - model_id: claude-3-haiku
    enabled: true
`

func TestValidateBenchmarkBytes_Valid(t *testing.T) {
	errs := ValidateBenchmarkBytes([]byte(validBenchmarkYAML))
	require.Empty(t, errs, "valid benchmark should have no errors")
}

func TestValidateBenchmarkBytes_Invalid(t *testing.T) {
	errs := ValidateBenchmarkBytes([]byte(invalidBenchmarkYAML))
	require.NotEmpty(t, errs, "invalid benchmark should have errors")

	joined := strings.Join(errs, "\n")
	require.Contains(t, joined, "category")
	require.Contains(t, joined, "temperature")
}

func TestValidateBenchmarkBytes_RequiresTestCases(t *testing.T) {
	errs := ValidateBenchmarkBytes([]byte("name: empty\nmodels:\n  - model_id: m\n"))
	require.NotEmpty(t, errs)
}

func TestValidateBenchmarkBytes_DatasetObject(t *testing.T) {
	doc := "name: g\ntest_cases_from:\n  path: cases.csv\n  start: 2\nmodels:\n  - model_id: m\n"
	require.Empty(t, ValidateBenchmarkBytes([]byte(doc)))
}

func TestValidateBenchmarkBytes_BadYAML(t *testing.T) {
	errs := ValidateBenchmarkBytes([]byte("name: [unterminated"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "YAML parse error")
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check([]byte(validBenchmarkYAML)))

	err := Check([]byte(invalidBenchmarkYAML))
	require.Error(t, err)
	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.NotEmpty(t, errs)
}

func TestValidateBenchmarkFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validBenchmarkYAML), 0644))

	benchErrs, datasetErrs, err := ValidateBenchmarkFile(path)
	require.NoError(t, err)
	require.Empty(t, benchErrs)
	require.Empty(t, datasetErrs)
}

func TestValidateBenchmarkFile_Dataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(datasetBenchmarkYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cases.csv"),
		[]byte("id,category,prompt\na,factual-knowledge,Capital of Peru?\nb,nonsense,\n"), 0644))

	benchErrs, datasetErrs, err := ValidateBenchmarkFile(path)
	require.NoError(t, err)
	require.Empty(t, benchErrs)
	require.Len(t, datasetErrs, 2)
	require.Contains(t, datasetErrs[0], "row 2: missing prompt")
	require.Contains(t, datasetErrs[1], `unknown category "nonsense"`)
}

func TestValidateBenchmarkFile_DatasetTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(datasetBenchmarkYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cases.csv"), []byte(
		"id,country,prompt,expected_output\n"+
			"a,Peru,Capital of {{.Vars.country}}?,Lima\n"+
			"b,Chile,Capital of {{.Vars.nation}}?,Santiago\n"+
			"c,Cuba,Capital of Cuba?,{{.Vars.country\n"), 0644))

	_, datasetErrs, err := ValidateBenchmarkFile(path)
	require.NoError(t, err)
	require.Len(t, datasetErrs, 2)
	require.Equal(t, `row 2: prompt references unknown column "nation"`, datasetErrs[0])
	require.Contains(t, datasetErrs[1], "row 3: expected_output: template: parse")
}

func TestValidateBenchmarkFile_MissingDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(datasetBenchmarkYAML), 0644))

	_, datasetErrs, err := ValidateBenchmarkFile(path)
	require.NoError(t, err)
	require.Len(t, datasetErrs, 1)
	require.Contains(t, datasetErrs[0], "csv: open")
}

func TestValidateBenchmarkFile_NotFound(t *testing.T) {
	_, _, err := ValidateBenchmarkFile("/nonexistent/bench.yaml")
	require.Error(t, err)
}
