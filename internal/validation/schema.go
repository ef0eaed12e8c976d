// Package validation checks benchmark files against the embedded JSON schema.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/microsoft/modelbench/internal/dataset"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/template"
	"github.com/microsoft/modelbench/schemas"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// benchmarkSchema is the compiled JSON Schema for benchmark YAML files.
var benchmarkSchema *jsonschema.Schema

func init() {
	benchmarkSchema = mustCompileSchema(schemas.BenchmarkSchemaJSON, "benchmark.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// Errors is a list of validation messages returned as a single error.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

// ValidateBenchmarkFile validates a benchmark file at the given path against
// the JSON schema. Returns errors for the benchmark itself AND its
// referenced CSV dataset, if any.
func ValidateBenchmarkFile(path string) (benchErrs []string, datasetErrs []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading benchmark file: %w", err)
	}

	benchErrs = ValidateBenchmarkBytes(data)

	var ref struct {
		From yaml.Node `yaml:"test_cases_from"`
	}
	if yamlErr := yaml.Unmarshal(data, &ref); yamlErr != nil {
		return benchErrs, nil, nil
	}
	csvPath := datasetPath(&ref.From)
	if csvPath == "" {
		return benchErrs, nil, nil
	}
	if !filepath.IsAbs(csvPath) {
		csvPath = filepath.Join(filepath.Dir(path), csvPath)
	}

	return benchErrs, ValidateDataset(csvPath), nil
}

func datasetPath(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.MappingNode:
		var d struct {
			Path string `yaml:"path"`
		}
		if n.Decode(&d) == nil {
			return d.Path
		}
	}
	return ""
}

// ValidateDataset checks that a CSV dataset can be read and has a prompt column.
func ValidateDataset(path string) []string {
	rows, err := dataset.LoadCSV(path)
	if err != nil {
		return []string{err.Error()}
	}
	var errs []string
	for i, row := range rows {
		if strings.TrimSpace(row[dataset.ColumnPrompt]) == "" {
			errs = append(errs, fmt.Sprintf("row %d: missing %s", i+1, dataset.ColumnPrompt))
		}
		if c := row[dataset.ColumnCategory]; c != "" && !models.Category(c).Valid() {
			errs = append(errs, fmt.Sprintf("row %d: unknown category %q", i+1, c))
		}
		for _, field := range []string{dataset.ColumnPrompt, dataset.ColumnExpectedOutput} {
			vars, err := template.Vars(row[field])
			if err != nil {
				errs = append(errs, fmt.Sprintf("row %d: %s: %v", i+1, field, err))
				continue
			}
			for _, name := range vars {
				if _, ok := row[name]; !ok {
					errs = append(errs, fmt.Sprintf("row %d: %s references unknown column %q", i+1, field, name))
				}
			}
		}
	}
	return errs
}

// ValidateBenchmarkBytes validates raw YAML bytes against the benchmark schema.
func ValidateBenchmarkBytes(data []byte) []string {
	return validateYAMLBytes(benchmarkSchema, data)
}

// Check is ValidateBenchmarkBytes returning the messages as an Errors value.
func Check(data []byte) error {
	if errs := ValidateBenchmarkBytes(data); len(errs) > 0 {
		return Errors(errs)
	}
	return nil
}

func validateYAMLBytes(schema *jsonschema.Schema, data []byte) []string {
	var yamlDoc any
	if err := yaml.Unmarshal(data, &yamlDoc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}

	return validateAgainstSchema(schema, convertToJSONCompatible(yamlDoc))
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// convertToJSONCompatible normalizes YAML-decoded values for the validator.
// Non-string map keys, which JSON cannot represent, are stringified.
func convertToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = convertToJSONCompatible(v2)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[fmt.Sprint(k)] = convertToJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = convertToJSONCompatible(v2)
		}
		return result
	default:
		return val
	}
}
