package orchestration

import (
	"fmt"
	"iter"

	"github.com/microsoft/modelbench/internal/models"
)

// Cell is one (model, test case) pair of the matrix.
type Cell struct {
	// Index is the 0-based position in execution order.
	Index    int
	Model    models.ModelConfig
	TestCase models.TestCase
}

// Matrix is the ordered cross product of enabled models and test cases.
type Matrix struct {
	models    []models.ModelConfig
	testCases []models.TestCase
}

// BuildMatrix validates cfg and returns its matrix.
func BuildMatrix(cfg *models.BenchmarkConfig) (*Matrix, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid benchmark: %w", err)
	}
	return &Matrix{models: cfg.EnabledModels(), testCases: cfg.TestCases}, nil
}

// Len is the number of cells.
func (m *Matrix) Len() int {
	return len(m.models) * len(m.testCases)
}

// All yields the cells model by model, each model's test cases in config order.
func (m *Matrix) All() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		i := 0
		for _, model := range m.models {
			for _, tc := range m.testCases {
				if !yield(Cell{Index: i, Model: model, TestCase: tc}) {
					return
				}
				i++
			}
		}
	}
}
