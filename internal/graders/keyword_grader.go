package graders

import (
	"context"
	"fmt"
	"strings"

	"github.com/microsoft/modelbench/internal/models"
)

// KeywordGraderArgs holds the arguments for creating a keyword grader.
type KeywordGraderArgs struct {
	// Name is the identifier for this grader, used in results and error messages.
	Name string
	// MustContain lists keywords that must appear in the output (case-insensitive).
	MustContain []string `mapstructure:"must_contain"`
	// MustNotContain lists keywords that must NOT appear in the output (case-insensitive).
	MustNotContain []string `mapstructure:"must_not_contain"`
}

// keywordGrader scores accuracy by checking for keyword presence or absence.
// When no keywords are configured it falls back to the words of the test
// case's expected output.
type keywordGrader struct {
	name           string
	mustContain    []string
	mustNotContain []string
}

// NewKeywordGrader creates a [keywordGrader] that checks for keyword presence/absence
// in the model output using case-insensitive matching.
func NewKeywordGrader(args KeywordGraderArgs) (*keywordGrader, error) {
	return &keywordGrader{
		name:           args.Name,
		mustContain:    args.MustContain,
		mustNotContain: args.MustNotContain,
	}, nil
}

func (kg *keywordGrader) Name() string { return kg.name }
func (kg *keywordGrader) Type() Type   { return TypeKeyword }

func (kg *keywordGrader) Grade(ctx context.Context, gradingContext *Context) (*models.GradeResult, error) {
	mustContain := kg.mustContain
	if len(mustContain) == 0 && len(kg.mustNotContain) == 0 && gradingContext.TestCase != nil {
		mustContain = significantTokens(gradingContext.TestCase.ExpectedOutput)
	}

	totalChecks := len(mustContain) + len(kg.mustNotContain)
	if totalChecks == 0 {
		return &models.GradeResult{Feedback: "No keywords to check"}, nil
	}

	var failures []string
	outputLower := strings.ToLower(gradingContext.Output)

	for _, keyword := range mustContain {
		if !strings.Contains(outputLower, strings.ToLower(keyword)) {
			failures = append(failures, fmt.Sprintf("Missing expected keyword: %s", keyword))
		}
	}

	for _, keyword := range kg.mustNotContain {
		if strings.Contains(outputLower, strings.ToLower(keyword)) {
			failures = append(failures, fmt.Sprintf("Found forbidden keyword: %s", keyword))
		}
	}

	passedChecks := totalChecks - len(failures)
	score := float64(passedChecks) / float64(totalChecks)

	feedback := "All keyword checks passed"
	if len(failures) > 0 {
		feedback = strings.Join(failures, "; ")
	}

	return &models.GradeResult{
		Accuracy: models.Float(score),
		Feedback: feedback,
	}, nil
}
