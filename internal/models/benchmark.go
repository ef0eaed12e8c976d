package models

import (
	"fmt"
	"strings"
)

// DefaultMaxTokens is used when a model configuration does not set max_tokens.
const DefaultMaxTokens = 1000

// TestCase is a single prompt in a benchmark suite.
type TestCase struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name,omitempty" json:"name,omitempty"`
	Category       Category `yaml:"category,omitempty" json:"category,omitempty"`
	Prompt         string   `yaml:"prompt" json:"prompt"`
	ExpectedOutput string   `yaml:"expected_output,omitempty" json:"expected_output,omitempty"`
}

// DisplayName returns Name, falling back to ID.
func (tc TestCase) DisplayName() string {
	if tc.Name != "" {
		return tc.Name
	}
	return tc.ID
}

// InferenceParameters are the per-model generation settings sent with every call.
type InferenceParameters struct {
	Temperature float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens,omitempty"`

	// Extra holds provider-specific keys that have no dedicated field.
	Extra map[string]any `mapstructure:",remain" json:"extra,omitempty"`
}

// EffectiveMaxTokens returns MaxTokens or DefaultMaxTokens when unset.
func (p InferenceParameters) EffectiveMaxTokens() int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return DefaultMaxTokens
}

// ModelConfig selects a model for a run.
type ModelConfig struct {
	ModelID    string              `json:"model_id"`
	Enabled    bool                `json:"enabled"`
	Parameters InferenceParameters `json:"parameters"`
}

// GuardConfig tunes the capacity guard. Zero values fall back to the guard defaults.
type GuardConfig struct {
	Buffer               int    `yaml:"buffer,omitempty" json:"buffer,omitempty"`
	LowCapacityThreshold int    `yaml:"low_capacity_threshold,omitempty" json:"low_capacity_threshold,omitempty"`
	FallbackModel        string `yaml:"fallback_model,omitempty" json:"fallback_model,omitempty"`
	PromptCap            int    `yaml:"prompt_cap,omitempty" json:"prompt_cap,omitempty"`
}

// GraderConfig selects the grader that scores each successful cell.
type GraderConfig struct {
	Type   string         `yaml:"type,omitempty" json:"type,omitempty"`
	Name   string         `yaml:"name,omitempty" json:"name,omitempty"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// BenchmarkConfig is the immutable input of a run.
type BenchmarkConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Credential  string        `json:"credential,omitempty"`
	TestCases   []TestCase    `json:"test_cases"`
	Models      []ModelConfig `json:"models"`
	Guard       GuardConfig   `json:"guard"`
	Grader      GraderConfig  `json:"grader"`
}

// EnabledModels returns the enabled model configurations in config order.
func (c *BenchmarkConfig) EnabledModels() []ModelConfig {
	var enabled []ModelConfig
	for _, m := range c.Models {
		if m.Enabled {
			enabled = append(enabled, m)
		}
	}
	return enabled
}

// TotalTests is the size of the model x test case matrix.
func (c *BenchmarkConfig) TotalTests() int {
	return len(c.EnabledModels()) * len(c.TestCases)
}

// TestCase looks up a test case by ID.
func (c *BenchmarkConfig) TestCase(id string) (TestCase, bool) {
	for _, tc := range c.TestCases {
		if tc.ID == id {
			return tc, true
		}
	}
	return TestCase{}, false
}

// Validate checks the config can be turned into a benchmark matrix.
func (c *BenchmarkConfig) Validate() error {
	if len(c.TestCases) == 0 {
		return fmt.Errorf("benchmark %q has no test cases", c.Name)
	}
	if len(c.EnabledModels()) == 0 {
		return fmt.Errorf("benchmark %q has no enabled models", c.Name)
	}

	seen := make(map[string]bool, len(c.TestCases))
	for i, tc := range c.TestCases {
		if strings.TrimSpace(tc.ID) == "" {
			return fmt.Errorf("test case %d has no id", i+1)
		}
		if seen[tc.ID] {
			return fmt.Errorf("duplicate test case id %q", tc.ID)
		}
		seen[tc.ID] = true
		if tc.Category != "" && !tc.Category.Valid() {
			return fmt.Errorf("test case %q has unknown category %q", tc.ID, tc.Category)
		}
	}

	models := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m.ModelID == "" {
			return fmt.Errorf("model entry has no model_id")
		}
		if models[m.ModelID] {
			return fmt.Errorf("duplicate model %q", m.ModelID)
		}
		models[m.ModelID] = true
	}
	return nil
}
