package orchestration

import (
	"fmt"
	"path/filepath"

	"github.com/microsoft/modelbench/internal/models"
)

// FilterTestCases returns the subset of testCases whose name or ID matches at
// least one of the given glob patterns. An empty patterns slice returns all
// test cases unchanged.
func FilterTestCases(testCases []models.TestCase, patterns []string) ([]models.TestCase, error) {
	if len(patterns) == 0 {
		return testCases, nil
	}

	var matched []models.TestCase
	for _, tc := range testCases {
		ok, err := matchesAny(patterns, tc.DisplayName(), tc.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, tc)
		}
	}
	return matched, nil
}

// SelectModels keeps only the models whose ID matches a pattern enabled and
// disables the rest. An empty patterns slice leaves the models unchanged.
func SelectModels(configs []models.ModelConfig, patterns []string) ([]models.ModelConfig, error) {
	if len(patterns) == 0 {
		return configs, nil
	}

	out := make([]models.ModelConfig, len(configs))
	for i, m := range configs {
		ok, err := matchesAny(patterns, m.ModelID)
		if err != nil {
			return nil, err
		}
		out[i] = m
		out[i].Enabled = m.Enabled && ok
	}
	return out, nil
}

// matchesAny reports whether any candidate matches any pattern.
func matchesAny(patterns []string, candidates ...string) (bool, error) {
	for _, p := range patterns {
		for _, c := range candidates {
			ok, err := filepath.Match(p, c)
			if err != nil {
				return false, fmt.Errorf("invalid filter pattern %q: %w", p, err)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}
