// Package ranking orders models along the independent ranking dimensions.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/microsoft/modelbench/internal/models"
)

// Rank assigns ranks 1..N on every dimension, 1 best. Ties keep input order,
// so the first-seen model wins. The result is sorted by overall rank.
func Rank(runID string, ms []models.ModelMetrics) []models.ModelRanking {
	overall := ranks(ms, func(m models.ModelMetrics) float64 { return m.OverallScore })
	performance := ranks(ms, func(m models.ModelMetrics) float64 { return m.AccuracyScore })
	efficiency := ranks(ms, func(m models.ModelMetrics) float64 { return m.CostEfficiency })
	domain := ranks(ms, func(m models.ModelMetrics) float64 { return m.DomainExpertiseScore })

	out := make([]models.ModelRanking, len(ms))
	for i, m := range ms {
		out[i] = models.ModelRanking{
			RunID:               runID,
			ModelID:             m.ModelID,
			OverallRank:         overall[i],
			PerformanceRank:     performance[i],
			CostEfficiencyRank:  efficiency[i],
			DomainExpertiseRank: domain[i],
			Score:               m.OverallScore,
			SpeedLevel:          m.SpeedLevel,
			CostLevel:           m.CostLevel,
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].OverallRank < out[b].OverallRank })
	return out
}

// ranks returns the 1-based rank of every element by key descending.
func ranks(ms []models.ModelMetrics, key func(models.ModelMetrics) float64) []int {
	idx := make([]int, len(ms))
	for i := range idx {
		idx[i] = i
	}
	// stable sort preserves input order for ties
	sort.SliceStable(idx, func(a, b int) bool {
		return key(ms[idx[a]]) > key(ms[idx[b]])
	})
	out := make([]int, len(ms))
	for rank, i := range idx {
		out[i] = rank + 1
	}
	return out
}

// best returns the first model with the highest key, or "" for no models.
func best[T int | float64](ms []models.ModelMetrics, key func(models.ModelMetrics) T) string {
	if len(ms) == 0 {
		return ""
	}
	winner := 0
	for i := 1; i < len(ms); i++ {
		if key(ms[i]) > key(ms[winner]) {
			winner = i
		}
	}
	return ms[winner].ModelID
}

// BestOverall returns the model with the highest overall score.
func BestOverall(ms []models.ModelMetrics) string {
	return best(ms, func(m models.ModelMetrics) float64 { return m.OverallScore })
}

// Fastest returns the model with the highest speed level.
func Fastest(ms []models.ModelMetrics) string {
	return best(ms, func(m models.ModelMetrics) int { return m.SpeedLevel })
}

// MostCostEfficient returns the model with the highest cost efficiency.
func MostCostEfficient(ms []models.ModelMetrics) string {
	return best(ms, func(m models.ModelMetrics) float64 { return m.CostEfficiency })
}

// Explain describes why the top-ranked model beat the runner-up.
func Explain(ms []models.ModelMetrics, rankings []models.ModelRanking) string {
	if len(rankings) == 0 {
		return "No models were ranked"
	}
	byID := make(map[string]models.ModelMetrics, len(ms))
	for _, m := range ms {
		byID[m.ModelID] = m
	}
	winner := byID[rankings[0].ModelID]
	if len(rankings) == 1 {
		return fmt.Sprintf("%s was the only model ranked (overall score: %.2f)", winner.ModelID, winner.OverallScore)
	}
	runnerUp := byID[rankings[1].ModelID]

	if winner.OverallScore == runnerUp.OverallScore {
		return fmt.Sprintf("Tied with %s; first in evaluation order selected", runnerUp.ModelID)
	}

	var parts []string
	if winner.AccuracyScore > runnerUp.AccuracyScore {
		parts = append(parts, fmt.Sprintf("Highest accuracy: %.2f", winner.AccuracyScore))
	}
	if winner.DomainExpertiseScore > runnerUp.DomainExpertiseScore {
		parts = append(parts, fmt.Sprintf("Domain expertise: %.2f", winner.DomainExpertiseScore))
	}
	if winner.CostScore > runnerUp.CostScore {
		parts = append(parts, fmt.Sprintf("Lower cost: $%.4f", winner.TotalCost))
	}
	if len(parts) == 0 {
		parts = append(parts, "Highest weighted score across all components")
	}

	return fmt.Sprintf("%s (overall score: %.2f vs %s: %.2f)",
		strings.Join(parts, "; "), winner.OverallScore, runnerUp.ModelID, runnerUp.OverallScore)
}
