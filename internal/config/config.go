// Package config loads benchmark definition files and holds CLI run settings.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/microsoft/modelbench/internal/dataset"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/validation"
	"gopkg.in/yaml.v3"
)

// DatasetRef points at a CSV file of test cases, optionally restricted to
// a row range. It decodes from either a bare path or a mapping.
type DatasetRef struct {
	Path  string `yaml:"path"`
	Start int    `yaml:"start,omitempty"`
	End   int    `yaml:"end,omitempty"`
}

func (d *DatasetRef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		d.Path = n.Value
		return nil
	}
	type plain DatasetRef
	return n.Decode((*plain)(d))
}

type modelFile struct {
	ModelID    string         `yaml:"model_id"`
	Enabled    *bool          `yaml:"enabled"`
	Parameters map[string]any `yaml:"parameters"`
}

type benchmarkFile struct {
	Name          string              `yaml:"name"`
	Description   string              `yaml:"description"`
	Credential    string              `yaml:"credential"`
	TestCases     []models.TestCase   `yaml:"test_cases"`
	TestCasesFrom *DatasetRef         `yaml:"test_cases_from"`
	Models        []modelFile         `yaml:"models"`
	Guard         models.GuardConfig  `yaml:"guard"`
	Grader        models.GraderConfig `yaml:"grader"`
}

// Load reads, validates and decodes the benchmark file at path. Dataset
// paths are resolved relative to the file.
func Load(path string) (*models.BenchmarkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading benchmark file: %w", err)
	}
	cfg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("Loaded benchmark", "path", path, "name", cfg.Name, "tests", len(cfg.TestCases), "models", len(cfg.Models))
	return cfg, nil
}

// Parse decodes a benchmark document. baseDir anchors relative dataset paths.
func Parse(data []byte, baseDir string) (*models.BenchmarkConfig, error) {
	if err := validation.Check(data); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var f benchmarkFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding benchmark: %w", err)
	}

	cfg := &models.BenchmarkConfig{
		Name:        f.Name,
		Description: f.Description,
		Credential:  f.Credential,
		TestCases:   f.TestCases,
		Guard:       f.Guard,
		Grader:      f.Grader,
	}

	for _, m := range f.Models {
		mc, err := decodeModel(m)
		if err != nil {
			return nil, err
		}
		cfg.Models = append(cfg.Models, mc)
	}

	if f.TestCasesFrom != nil {
		cases, err := loadDataset(cfg.Name, *f.TestCasesFrom, baseDir)
		if err != nil {
			return nil, err
		}
		cfg.TestCases = append(cfg.TestCases, cases...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeModel(m modelFile) (models.ModelConfig, error) {
	mc := models.ModelConfig{
		ModelID: m.ModelID,
		Enabled: m.Enabled == nil || *m.Enabled,
	}
	if err := mapstructure.Decode(m.Parameters, &mc.Parameters); err != nil {
		return mc, fmt.Errorf("model %s parameters: %w", m.ModelID, err)
	}
	return mc, nil
}

func loadDataset(benchmark string, ref DatasetRef, baseDir string) ([]models.TestCase, error) {
	path := ref.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	rows, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	rows, err = dataset.Range(rows, ref.Start, ref.End)
	if err != nil {
		return nil, err
	}
	cases, err := dataset.TestCases(benchmark, rows)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ref.Path, err)
	}
	return cases, nil
}
