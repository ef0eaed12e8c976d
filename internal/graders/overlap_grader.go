package graders

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/microsoft/modelbench/internal/models"
)

// vocabularyTarget is the number of category terms that earns a full
// vocabulary score.
const vocabularyTarget = 3

// OverlapGraderArgs configures an overlap grader. Vocabulary entries replace
// the built-in terms of the categories they name.
type OverlapGraderArgs struct {
	Name       string
	Vocabulary map[models.Category][]string
}

// OverlapGrader scores accuracy as the share of the expected answer's
// significant words found in the output, and domain expertise as a blend of
// accuracy and use of the category's vocabulary.
type OverlapGrader struct {
	name       string
	vocabulary map[models.Category][]string
}

// NewOverlapGrader creates an [OverlapGrader].
func NewOverlapGrader(args OverlapGraderArgs) *OverlapGrader {
	vocab := make(map[models.Category][]string, len(defaultVocabulary))
	for c, terms := range defaultVocabulary {
		vocab[c] = terms
	}
	for c, terms := range args.Vocabulary {
		vocab[c] = terms
	}
	name := args.Name
	if name == "" {
		name = string(TypeOverlap)
	}
	return &OverlapGrader{name: name, vocabulary: vocab}
}

func (g *OverlapGrader) Name() string { return g.name }
func (g *OverlapGrader) Type() Type   { return TypeOverlap }

func (g *OverlapGrader) Grade(ctx context.Context, gradingContext *Context) (*models.GradeResult, error) {
	output := tokenSet(gradingContext.Output)
	var feedback []string

	var accuracy *float64
	if gradingContext.TestCase != nil && strings.TrimSpace(gradingContext.TestCase.ExpectedOutput) != "" {
		expected := significantTokens(gradingContext.TestCase.ExpectedOutput)
		found := 0
		for _, tok := range expected {
			if output[tok] {
				found++
			}
		}
		score := 0.0
		if normalize(gradingContext.Output) == normalize(gradingContext.TestCase.ExpectedOutput) {
			score = 1
		} else if len(expected) > 0 {
			score = float64(found) / float64(len(expected))
		}
		accuracy = models.Float(score)
		feedback = append(feedback, fmt.Sprintf("matched %d/%d expected terms", found, len(expected)))
	}

	hits := 0
	for _, term := range g.vocabulary[gradingContext.Category] {
		if containsTerm(gradingContext.Output, output, term) {
			hits++
		}
	}
	vocabScore := min(1, float64(hits)/vocabularyTarget)
	domain := vocabScore
	if accuracy != nil {
		domain = (*accuracy + vocabScore) / 2
	}
	feedback = append(feedback, fmt.Sprintf("%d %s terms", hits, gradingContext.Category))

	return &models.GradeResult{
		Accuracy:        accuracy,
		DomainExpertise: models.Float(domain),
		Feedback:        strings.Join(feedback, "; "),
	}, nil
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "of": true,
	"to": true, "in": true, "and": true, "or": true, "it": true, "be": true,
	"that": true, "this": true, "for": true, "on": true, "with": true, "as": true,
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(s string) string {
	return strings.Join(tokenize(s), " ")
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range tokenize(s) {
		set[tok] = true
	}
	return set
}

// significantTokens returns the distinct non-stopword tokens of s in order.
// If every token is a stopword they are all kept.
func significantTokens(s string) []string {
	all := tokenize(s)
	seen := map[string]bool{}
	var out []string
	for _, tok := range all {
		if stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	if len(out) == 0 {
		for _, tok := range all {
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out
}

// containsTerm matches single words against the token set and phrases
// against the normalized text.
func containsTerm(text string, tokens map[string]bool, term string) bool {
	words := tokenize(term)
	switch len(words) {
	case 0:
		return false
	case 1:
		return tokens[words[0]]
	default:
		return strings.Contains(" "+normalize(text)+" ", " "+strings.Join(words, " ")+" ")
	}
}
