package graders

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/microsoft/modelbench/internal/inference"
	"github.com/microsoft/modelbench/internal/models"
)

type Type string

const (
	// TypeOverlap compares output to the expected answer and the category vocabulary.
	TypeOverlap Type = "overlap"
	TypeKeyword Type = "keyword"

	// TypeJudge asks another model to score the output.
	TypeJudge Type = "judge"
)

// Grader scores one cell's output.
type Grader interface {
	// Name returns the grader name
	Name() string

	// Type returns the grader type
	Type() Type

	// Grade scores the output. A nil score in the result means the grader
	// could not measure that dimension.
	Grade(ctx context.Context, gradingContext *Context) (*models.GradeResult, error)
}

// Context is what a grader sees of a cell.
type Context struct {
	TestCase *models.TestCase
	// Category is the resolved category, which may differ from
	// TestCase.Category when the case was untagged.
	Category models.Category
	ModelID  string
	Output   string
}

// Create builds a grader from its type and free-form parameters, as found in
// the grader section of a benchmark file. client is only used by judges.
func Create(graderType Type, name string, params map[string]any, client inference.Client) (Grader, error) {
	switch graderType {
	case TypeOverlap, "":
		var v struct {
			Vocabulary map[string][]string `mapstructure:"vocabulary"`
		}
		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}
		vocab := make(map[models.Category][]string, len(v.Vocabulary))
		for k, terms := range v.Vocabulary {
			vocab[models.Category(k)] = terms
		}
		return NewOverlapGrader(OverlapGraderArgs{Name: name, Vocabulary: vocab}), nil
	case TypeKeyword:
		var v KeywordGraderArgs
		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}
		v.Name = name
		return NewKeywordGrader(v)
	case TypeJudge:
		if client == nil {
			return nil, errors.New("judge grader requires an inference client")
		}
		var v JudgeGraderArgs
		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}
		return NewJudgeGrader(name, client, v)
	default:
		return nil, fmt.Errorf("'%s' is not a valid grader type", graderType)
	}
}
