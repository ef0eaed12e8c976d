package domain

import (
	"strings"
	"testing"

	"github.com/microsoft/modelbench/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(model, tc string, score float64, output string) *models.TestCaseResult {
	return &models.TestCaseResult{
		ModelID:       model,
		TestCaseID:    tc,
		Output:        output,
		AccuracyScore: models.Float(score),
	}
}

func failed(model, tc string) *models.TestCaseResult {
	return &models.TestCaseResult{ModelID: model, TestCaseID: tc, Error: "boom"}
}

var twoCategories = map[string]models.Category{
	"fact":  models.CategoryFactualKnowledge,
	"fact2": models.CategoryFactualKnowledge,
	"math":  models.CategoryProblemSolving,
}

func TestAnalyzeModel_Breakdown(t *testing.T) {
	results := []*models.TestCaseResult{
		scored("m", "fact", 1.0, "Paris"),
		failed("m", "fact2"),
		scored("m", "math", 0.8, "84"),
	}

	in := AnalyzeModel("m", results, twoCategories)

	require.Len(t, in.CategoryBreakdown, 2)
	fact := in.CategoryBreakdown[0]
	assert.Equal(t, models.CategoryFactualKnowledge, fact.Category)
	assert.InDelta(t, 0.5, fact.Score, 1e-9)
	assert.Equal(t, 2, fact.Tests)
	assert.Equal(t, []string{"Paris"}, fact.Samples)

	math := in.CategoryBreakdown[1]
	assert.InDelta(t, 0.8, math.Score, 1e-9)

	assert.InDelta(t, 0.65, in.DomainExpertiseScore, 1e-9)
	assert.InDelta(t, 0.85, in.ConsistencyScore, 1e-9)

	require.Len(t, in.Strengths, 2)
	assert.Equal(t, models.CategoryProblemSolving, in.Strengths[0].Category)
	require.Len(t, in.Weaknesses, 2)
	assert.Equal(t, models.CategoryFactualKnowledge, in.Weaknesses[0].Category)
}

func TestAnalyzeModel_UnscoredCategoryIsNeutral(t *testing.T) {
	results := []*models.TestCaseResult{
		{ModelID: "m", TestCaseID: "fact", Output: "Paris"},
	}

	in := AnalyzeModel("m", results, twoCategories)

	require.Len(t, in.CategoryBreakdown, 1)
	assert.Equal(t, models.NeutralScore, in.CategoryBreakdown[0].Score)
	assert.Equal(t, models.NeutralScore, in.DomainExpertiseScore)
	assert.Equal(t, 1.0, in.ConsistencyScore)
}

func TestAnalyzeModel_SamplesAreBounded(t *testing.T) {
	categories := map[string]models.Category{}
	var results []*models.TestCaseResult
	for _, id := range []string{"a", "b", "c"} {
		categories[id] = models.CategoryCreativeWriting
		results = append(results, scored("m", id, 0.5, strings.Repeat("x", 400)))
	}

	in := AnalyzeModel("m", results, categories)

	samples := in.CategoryBreakdown[0].Samples
	require.Len(t, samples, MaxSamples)
	for _, s := range samples {
		assert.LessOrEqual(t, len([]rune(s)), SampleLength+3)
	}
}

func TestAnalyzeModel_HighlightsAreCapped(t *testing.T) {
	categories := map[string]models.Category{}
	var results []*models.TestCaseResult
	for i, c := range models.Categories() {
		id := string(c)
		categories[id] = c
		results = append(results, scored("m", id, float64(i)/10, "ok"))
	}

	in := AnalyzeModel("m", results, categories)

	require.Len(t, in.Strengths, MaxHighlights)
	require.Len(t, in.Weaknesses, MaxHighlights)
	assert.Equal(t, models.CategoryEthicalReasoning, in.Strengths[0].Category)
	assert.Equal(t, models.CategoryFactualKnowledge, in.Weaknesses[0].Category)
}

func TestConsistency(t *testing.T) {
	even := Consistency([]float64{0.9, 0.9})
	uneven := Consistency([]float64{0.9, 0.1})

	assert.Greater(t, even, uneven)
	assert.InDelta(t, 1.0, even, 1e-9)
	assert.InDelta(t, 0.6, uneven, 1e-9)
	assert.Equal(t, 1.0, Consistency(nil))
	assert.Equal(t, 0.0, Consistency([]float64{0, 1, 0, 1, 0, 1, -2, 3}))
}

func TestBucket(t *testing.T) {
	assert.Equal(t, "excellent", Bucket(0.8))
	assert.Equal(t, "good", Bucket(0.79))
	assert.Equal(t, "average", Bucket(0.4))
	assert.Equal(t, "below average", Bucket(0.2))
	assert.Equal(t, "poor", Bucket(0.19))
}

func TestSummary(t *testing.T) {
	in := AnalyzeModel("m", []*models.TestCaseResult{
		scored("m", "fact", 0.9, "Paris"),
		scored("m", "math", 0.9, "84"),
	}, twoCategories)

	assert.Equal(t,
		"m shows excellent performance across 2 categories (domain expertise 0.90) with excellent consistency (1.00). "+
			"Strengths: factual-knowledge (0.90), problem-solving (0.90). Weaknesses: problem-solving (0.90), factual-knowledge (0.90).",
		in.Summary)
}

func TestAnalyze_CrossModel(t *testing.T) {
	cases := []models.TestCase{
		{ID: "fact", Prompt: "What is the capital of France?"},
		{ID: "math", Prompt: "What is 6 * 7?"},
	}
	results := []*models.TestCaseResult{
		scored("a", "fact", 0.9, "Paris"),
		scored("a", "math", 0.3, "41"),
		scored("b", "fact", 0.6, "Paris, France"),
		scored("b", "math", 0.9, "42"),
	}

	got := Analyze(cases, results)

	require.Len(t, got.Insights, 2)
	assert.Equal(t, "a", got.Insights[0].ModelID)
	assert.Equal(t, "b", got.Insights[1].ModelID)

	require.Len(t, got.Report.Categories, 2)
	fact := got.Report.Categories[0]
	assert.Equal(t, models.CategoryFactualKnowledge, fact.Category)
	assert.Equal(t, "a", fact.BestModel)
	assert.InDelta(t, 0.75, fact.AverageScore, 1e-9)
	assert.Equal(t, 2, fact.Models)
	assert.Equal(t, "b", got.Report.Categories[1].BestModel)

	recs := got.Report.Recommendations
	require.Len(t, recs, 4)
	assert.Equal(t, models.RecommendBestOverall, recs[0].Kind)
	assert.Equal(t, "b", recs[0].ModelID)
	assert.Equal(t, models.RecommendMostConsistent, recs[1].Kind)
	assert.Equal(t, "b", recs[1].ModelID)

	assert.Equal(t, models.RecommendSpecialist, recs[2].Kind)
	assert.Equal(t, "a", recs[2].ModelID)
	assert.Equal(t, models.CategoryFactualKnowledge, recs[2].Category)
	assert.Equal(t, "Use a for factual-knowledge tasks (0.90).", recs[2].Text)
	assert.Equal(t, "b", recs[3].ModelID)
	assert.Equal(t, models.CategoryProblemSolving, recs[3].Category)
}

func TestAnalyze_SpecialistClaimsCategoryOnce(t *testing.T) {
	results := []*models.TestCaseResult{
		scored("a", "fact", 0.8, "Paris"),
		scored("b", "fact", 0.95, "Paris"),
	}

	got := Analyze([]models.TestCase{{ID: "fact", Prompt: "Who wrote Hamlet?"}}, results)

	var specialists []models.Recommendation
	for _, r := range got.Report.Recommendations {
		if r.Kind == models.RecommendSpecialist {
			specialists = append(specialists, r)
		}
	}
	require.Len(t, specialists, 1)
	assert.Equal(t, "b", specialists[0].ModelID)
}

func TestAnalyze_Empty(t *testing.T) {
	got := Analyze(nil, nil)
	assert.Empty(t, got.Insights)
	assert.Empty(t, got.Report.Recommendations)
}
