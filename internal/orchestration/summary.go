package orchestration

import (
	"time"

	"github.com/microsoft/modelbench/internal/models"
)

// Summarize aggregates a run's results per enabled model, in config order.
// Average latency covers successful cells only.
func Summarize(cfg *models.BenchmarkConfig, results []*models.TestCaseResult, elapsed time.Duration) *models.RunSummary {
	byModel := make(map[string]*models.ModelSummary)
	latency := make(map[string]int64)

	summary := &models.RunSummary{DurationMs: elapsed.Milliseconds()}
	for _, m := range cfg.EnabledModels() {
		byModel[m.ModelID] = &models.ModelSummary{ModelID: m.ModelID}
	}

	for _, r := range results {
		ms, ok := byModel[r.ModelID]
		if !ok {
			continue
		}
		ms.Tests++
		ms.TotalTokens += r.Tokens.Total
		ms.TotalCost += r.Cost
		if r.Succeeded() {
			ms.Succeeded++
			latency[r.ModelID] += r.LatencyMs
		} else {
			ms.Failed++
		}
	}

	for _, m := range cfg.EnabledModels() {
		ms := byModel[m.ModelID]
		if ms.Succeeded > 0 {
			ms.AvgLatencyMs = float64(latency[m.ModelID]) / float64(ms.Succeeded)
		}
		if ms.Tests > 0 {
			ms.SuccessRate = float64(ms.Succeeded) / float64(ms.Tests)
		}
		summary.TotalTests += ms.Tests
		summary.Succeeded += ms.Succeeded
		summary.Failed += ms.Failed
		summary.TotalCost += ms.TotalCost
		summary.Models = append(summary.Models, *ms)
	}
	return summary
}
