// Package domain analyzes model results per semantic category of test case.
package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/microsoft/modelbench/internal/metrics"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/textparse"
)

const (
	// MaxHighlights bounds the strengths and weaknesses lists.
	MaxHighlights = 3
	// MaxSamples outputs are kept per category, each cut to SampleLength runes.
	MaxSamples   = 2
	SampleLength = 150
	// SpecialistThreshold is the category score that earns a recommendation.
	SpecialistThreshold = 0.7
)

// Result is the domain analysis of one run.
type Result struct {
	Categories map[string]models.Category
	Insights   []models.DomainInsight
	Report     models.DomainReport
}

// Analyze resolves categories and computes every model's insight plus the
// cross-model report. Models appear in the order of their first result.
func Analyze(testCases []models.TestCase, results []*models.TestCaseResult) Result {
	categories := ResolveCategories(testCases)

	var order []string
	byModel := make(map[string][]*models.TestCaseResult)
	for _, r := range results {
		if _, ok := byModel[r.ModelID]; !ok {
			order = append(order, r.ModelID)
		}
		byModel[r.ModelID] = append(byModel[r.ModelID], r)
	}

	insights := make([]models.DomainInsight, 0, len(order))
	for _, id := range order {
		insights = append(insights, AnalyzeModel(id, byModel[id], categories))
	}

	return Result{
		Categories: categories,
		Insights:   insights,
		Report:     CrossModel(insights),
	}
}

type bucket struct {
	scores  []float64
	tests   int
	samples []string
}

// AnalyzeModel computes a model's per-category insight. A failed cell
// scores 0 in its category; a successful cell without an accuracy score is
// not counted. Categories without any score are neutral.
func AnalyzeModel(modelID string, results []*models.TestCaseResult, categories map[string]models.Category) models.DomainInsight {
	buckets := make(map[models.Category]*bucket)
	for _, r := range results {
		c, ok := categories[r.TestCaseID]
		if !ok {
			continue
		}
		b := buckets[c]
		if b == nil {
			b = &bucket{}
			buckets[c] = b
		}
		b.tests++
		switch {
		case !r.Succeeded():
			b.scores = append(b.scores, 0)
		case r.AccuracyScore != nil:
			b.scores = append(b.scores, *r.AccuracyScore)
		}
		if r.Succeeded() && r.Output != "" && len(b.samples) < MaxSamples {
			b.samples = append(b.samples, textparse.Truncate(r.Output, SampleLength))
		}
	}

	var breakdown []models.CategoryBreakdown
	for _, c := range models.Categories() {
		b, ok := buckets[c]
		if !ok {
			continue
		}
		breakdown = append(breakdown, models.CategoryBreakdown{
			Category: c,
			Score:    metrics.MeanOr(b.scores, models.NeutralScore),
			Tests:    b.tests,
			Samples:  b.samples,
		})
	}

	scores := make([]float64, len(breakdown))
	ranked := make([]models.CategoryScore, len(breakdown))
	for i, b := range breakdown {
		scores[i] = b.Score
		ranked[i] = models.CategoryScore{Category: b.Category, Score: b.Score}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	strengths := ranked[:min(MaxHighlights, len(ranked))]
	var weaknesses []models.CategoryScore
	for i := len(ranked) - 1; i >= 0 && len(weaknesses) < MaxHighlights; i-- {
		weaknesses = append(weaknesses, ranked[i])
	}

	insight := models.DomainInsight{
		ModelID:              modelID,
		DomainExpertiseScore: metrics.MeanOr(scores, models.NeutralScore),
		ConsistencyScore:     Consistency(scores),
		Strengths:            append([]models.CategoryScore(nil), strengths...),
		Weaknesses:           weaknesses,
		CategoryBreakdown:    breakdown,
	}
	insight.Summary = Summary(insight)
	return insight
}

// Consistency is 1 minus the population standard deviation of the
// category scores, floored at 0. No scores is perfectly consistent.
func Consistency(categoryScores []float64) float64 {
	return max(0, 1-metrics.StdDev(categoryScores))
}

// Bucket names the qualitative band of a 0-1 score.
func Bucket(score float64) string {
	switch {
	case score >= 0.8:
		return "excellent"
	case score >= 0.6:
		return "good"
	case score >= 0.4:
		return "average"
	case score >= 0.2:
		return "below average"
	default:
		return "poor"
	}
}

func formatScores(list []models.CategoryScore) string {
	if len(list) == 0 {
		return "none"
	}
	parts := make([]string, len(list))
	for i, cs := range list {
		parts[i] = fmt.Sprintf("%s (%.2f)", cs.Category, cs.Score)
	}
	return strings.Join(parts, ", ")
}

// Summary renders the fixed natural-language summary of an insight.
func Summary(in models.DomainInsight) string {
	return fmt.Sprintf(
		"%s shows %s performance across %d categories (domain expertise %.2f) with %s consistency (%.2f). Strengths: %s. Weaknesses: %s.",
		in.ModelID,
		Bucket(in.DomainExpertiseScore),
		len(in.CategoryBreakdown),
		in.DomainExpertiseScore,
		Bucket(in.ConsistencyScore),
		in.ConsistencyScore,
		formatScores(in.Strengths),
		formatScores(in.Weaknesses),
	)
}

// CrossModel compares all insights per category and derives the textual
// recommendations.
func CrossModel(insights []models.DomainInsight) models.DomainReport {
	report := models.DomainReport{}

	for _, c := range models.Categories() {
		var (
			sum   float64
			n     int
			best  string
			bestS float64
		)
		for _, in := range insights {
			for _, b := range in.CategoryBreakdown {
				if b.Category != c {
					continue
				}
				sum += b.Score
				n++
				if best == "" || b.Score > bestS {
					best, bestS = in.ModelID, b.Score
				}
			}
		}
		if n == 0 {
			continue
		}
		report.Categories = append(report.Categories, models.CategoryAnalysis{
			Category:     c,
			AverageScore: sum / float64(n),
			BestModel:    best,
			BestScore:    bestS,
			Models:       n,
		})
	}

	report.Recommendations = recommendations(insights)
	return report
}

func recommendations(insights []models.DomainInsight) []models.Recommendation {
	if len(insights) == 0 {
		return nil
	}

	bestOverall, mostConsistent := insights[0], insights[0]
	for _, in := range insights[1:] {
		if in.DomainExpertiseScore > bestOverall.DomainExpertiseScore {
			bestOverall = in
		}
		if in.ConsistencyScore > mostConsistent.ConsistencyScore {
			mostConsistent = in
		}
	}

	recs := []models.Recommendation{
		{
			Kind:    models.RecommendBestOverall,
			ModelID: bestOverall.ModelID,
			Score:   bestOverall.DomainExpertiseScore,
			Text: fmt.Sprintf("%s has the strongest overall domain performance (%.2f, %s).",
				bestOverall.ModelID, bestOverall.DomainExpertiseScore, Bucket(bestOverall.DomainExpertiseScore)),
		},
		{
			Kind:    models.RecommendMostConsistent,
			ModelID: mostConsistent.ModelID,
			Score:   mostConsistent.ConsistencyScore,
			Text: fmt.Sprintf("%s is the most consistent across categories (%.2f).",
				mostConsistent.ModelID, mostConsistent.ConsistencyScore),
		},
	}

	var candidates []models.Recommendation
	for _, in := range insights {
		for _, b := range in.CategoryBreakdown {
			if b.Score >= SpecialistThreshold {
				candidates = append(candidates, models.Recommendation{
					Kind:     models.RecommendSpecialist,
					ModelID:  in.ModelID,
					Category: b.Category,
					Score:    b.Score,
				})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	claimed := make(map[models.Category]bool)
	for _, c := range candidates {
		if claimed[c.Category] {
			continue
		}
		claimed[c.Category] = true
		c.Text = fmt.Sprintf("Use %s for %s tasks (%.2f).", c.ModelID, c.Category, c.Score)
		recs = append(recs, c)
	}
	return recs
}
