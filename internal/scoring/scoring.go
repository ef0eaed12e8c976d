// Package scoring turns the raw cell results of a run into per-model
// aggregate metrics and a weighted overall score.
package scoring

import (
	"github.com/microsoft/modelbench/internal/metrics"
	"github.com/microsoft/modelbench/internal/models"
)

// Overall score weights.
const (
	AccuracyWeight        = 0.4
	DomainExpertiseWeight = 0.3
	LatencyWeight         = 0.1
	CostWeight            = 0.2
)

const (
	// LatencyCeilingMs is the average latency at which the latency score reaches 0.
	LatencyCeilingMs = 10000.0
	// CostCeiling is the total cost at which the cost score reaches 0.
	CostCeiling = 0.1
	// CostFloor keeps cost efficiency finite for free runs.
	CostFloor = 0.001
)

// Compute aggregates results per model. Models appear in the order of their
// first result; models without results are absent. A model whose every
// cell failed gets neutral metrics.
func Compute(results []*models.TestCaseResult) []models.ModelMetrics {
	var order []string
	byModel := make(map[string][]*models.TestCaseResult)
	for _, r := range results {
		if _, ok := byModel[r.ModelID]; !ok {
			order = append(order, r.ModelID)
		}
		byModel[r.ModelID] = append(byModel[r.ModelID], r)
	}

	out := make([]models.ModelMetrics, 0, len(order))
	for _, id := range order {
		out = append(out, computeModel(id, byModel[id]))
	}
	return out
}

func computeModel(modelID string, results []*models.TestCaseResult) models.ModelMetrics {
	var (
		latencies []float64
		accuracy  []float64
		domain    []float64
		tokens    int
		cost      float64
	)
	for _, r := range results {
		tokens += r.Tokens.Total
		cost += r.Cost
		if !r.Succeeded() {
			continue
		}
		latencies = append(latencies, float64(r.LatencyMs))
		if r.AccuracyScore != nil {
			accuracy = append(accuracy, *r.AccuracyScore)
		}
		if r.DomainExpertiseScore != nil {
			domain = append(domain, *r.DomainExpertiseScore)
		}
	}

	if len(latencies) == 0 {
		m := models.NeutralMetrics(modelID, len(results))
		m.TotalTokens = tokens
		m.TotalCost = cost
		return m
	}

	m := models.ModelMetrics{
		ModelID:              modelID,
		Results:              len(results),
		Successes:            len(latencies),
		Measured:             true,
		AvgLatencyMs:         metrics.Mean(latencies),
		TotalTokens:          tokens,
		TotalCost:            cost,
		AccuracyScore:        metrics.Mean(accuracy),
		DomainExpertiseScore: metrics.Mean(domain),
	}
	m.LatencyScore = LatencyScore(m.AvgLatencyMs)
	m.CostScore = CostScore(m.TotalCost)
	m.OverallScore = Overall(m)
	m.CostEfficiency = CostEfficiency(m.AccuracyScore, m.TotalCost)
	m.SpeedLevel = SpeedLevel(m.AvgLatencyMs)
	m.CostLevel = CostLevel(m.TotalCost)
	return m
}

// LatencyScore is 1 at zero latency falling linearly to 0 at the ceiling.
func LatencyScore(avgLatencyMs float64) float64 {
	return max(0, 1-avgLatencyMs/LatencyCeilingMs)
}

// CostScore is 1 when free falling linearly to 0 at the ceiling.
func CostScore(totalCost float64) float64 {
	return max(0, 1-totalCost/CostCeiling)
}

// Overall is the weighted sum of the four component scores.
func Overall(m models.ModelMetrics) float64 {
	return m.AccuracyScore*AccuracyWeight +
		m.DomainExpertiseScore*DomainExpertiseWeight +
		m.LatencyScore*LatencyWeight +
		m.CostScore*CostWeight
}

func CostEfficiency(accuracy, totalCost float64) float64 {
	return accuracy / max(totalCost, CostFloor)
}

// SpeedLevel buckets latency into 1-5, 5 fastest: one level per 2s.
func SpeedLevel(avgLatencyMs float64) int {
	return metrics.Level(6-avgLatencyMs/2000, 1, 5)
}

// CostLevel buckets total cost into 1-5, 5 cheapest: one level per cent.
func CostLevel(totalCost float64) int {
	return metrics.Level(6-totalCost*100, 1, 5)
}

// ApplyDomainScores replaces each measured model's domain expertise score
// with the refined one and recomputes its overall score. Neutral models
// keep their neutral values.
func ApplyDomainScores(ms []models.ModelMetrics, domainScores map[string]float64) []models.ModelMetrics {
	out := make([]models.ModelMetrics, len(ms))
	copy(out, ms)
	for i := range out {
		if !out[i].Measured {
			continue
		}
		score, ok := domainScores[out[i].ModelID]
		if !ok {
			continue
		}
		out[i].DomainExpertiseScore = score
		out[i].OverallScore = Overall(out[i])
	}
	return out
}
