package graders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microsoft/modelbench/internal/inference"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/textparse"
)

const (
	CriterionAccuracy        = "accuracy"
	CriterionDomainExpertise = "domain_expertise"
)

type JudgeGraderArgs struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	// Instructions are appended to the built-in judging prompt.
	Instructions string `mapstructure:"instructions"`
}

// judgeGrader asks a judge model to score an answer. The judge replies with
// a JSON array of {"criterion", "score"} objects; "name: score" lines are
// accepted when no array is present.
type judgeGrader struct {
	name   string
	client inference.Client
	args   JudgeGraderArgs
}

func NewJudgeGrader(name string, client inference.Client, args JudgeGraderArgs) (*judgeGrader, error) {
	if name == "" {
		name = string(TypeJudge)
	}
	if args.Model == "" {
		return nil, errors.New("required field 'model' is missing")
	}
	if args.MaxTokens <= 0 {
		args.MaxTokens = 300
	}
	return &judgeGrader{name: name, client: client, args: args}, nil
}

func (j *judgeGrader) Name() string { return j.name }
func (j *judgeGrader) Type() Type   { return TypeJudge }

func (j *judgeGrader) Grade(ctx context.Context, gradingContext *Context) (*models.GradeResult, error) {
	resp, err := j.client.Invoke(ctx, j.args.Model,
		[]inference.Message{
			{Role: inference.RoleSystem, Content: judgeSystemPrompt},
			inference.UserMessage(j.prompt(gradingContext)),
		},
		inference.Parameters{Temperature: j.args.Temperature, MaxTokens: j.args.MaxTokens})
	if err != nil {
		return nil, fmt.Errorf("judge %s: %w", j.args.Model, err)
	}

	scores, err := parseJudgeScores(resp.Text)
	if err != nil {
		return nil, err
	}

	result := &models.GradeResult{Feedback: fmt.Sprintf("judged by %s", j.args.Model)}
	if v, ok := scores[CriterionAccuracy]; ok {
		result.Accuracy = models.Float(textparse.Clamp01(v))
	}
	if v, ok := scores[CriterionDomainExpertise]; ok {
		result.DomainExpertise = models.Float(textparse.Clamp01(v))
	}
	if result.Accuracy == nil && result.DomainExpertise == nil {
		return nil, &textparse.ParseError{What: "judge scores", Input: resp.Text}
	}
	return result, nil
}

func (j *judgeGrader) prompt(gc *Context) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Category: %s\n", gc.Category)
	if gc.TestCase != nil {
		fmt.Fprintf(&sb, "Question:\n%s\n\n", gc.TestCase.Prompt)
		if gc.TestCase.ExpectedOutput != "" {
			fmt.Fprintf(&sb, "Reference answer:\n%s\n\n", gc.TestCase.ExpectedOutput)
		}
	}
	fmt.Fprintf(&sb, "Answer to grade:\n%s\n", gc.Output)
	if j.args.Instructions != "" {
		fmt.Fprintf(&sb, "\n%s\n", j.args.Instructions)
	}
	return sb.String()
}

const judgeSystemPrompt = `You grade answers to benchmark questions.
Reply with a JSON array only, one object per criterion, scores between 0 and 1:
[{"criterion": "accuracy", "score": 0.0}, {"criterion": "domain_expertise", "score": 0.0}]`

// parseJudgeScores reads criterion scores from a judge reply.
func parseJudgeScores(text string) (map[string]float64, error) {
	scores := map[string]float64{}
	for _, item := range textparse.ExtractJSONArray(text) {
		criterion, _ := item["criterion"].(string)
		score, ok := item["score"].(float64)
		if criterion == "" || !ok {
			continue
		}
		scores[strings.ReplaceAll(strings.ToLower(criterion), " ", "_")] = score
	}
	if len(scores) > 0 {
		return scores, nil
	}
	return textparse.ExtractScores(text)
}
