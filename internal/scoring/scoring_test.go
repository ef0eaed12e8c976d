package scoring

import (
	"testing"

	"github.com/microsoft/modelbench/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cell(model string, latency int64, cost float64, accuracy, domain *float64) *models.TestCaseResult {
	return &models.TestCaseResult{
		ModelID:              model,
		LatencyMs:            latency,
		Cost:                 cost,
		Tokens:               models.TokenCounts{Total: 10},
		AccuracyScore:        accuracy,
		DomainExpertiseScore: domain,
	}
}

func failed(model string) *models.TestCaseResult {
	return &models.TestCaseResult{ModelID: model, LatencyMs: 5000, Error: "transport invoke: timeout"}
}

func TestCompute(t *testing.T) {
	results := []*models.TestCaseResult{
		cell("fast", 1000, 0.001, models.Float(1), models.Float(0.8)),
		cell("fast", 3000, 0.002, models.Float(0.5), models.Float(0.6)),
		failed("fast"),
		cell("slow", 12000, 0.2, models.Float(0.9), nil),
	}

	ms := Compute(results)
	require.Len(t, ms, 2)

	fast := ms[0]
	assert.Equal(t, "fast", fast.ModelID)
	assert.True(t, fast.Measured)
	assert.Equal(t, 3, fast.Results)
	assert.Equal(t, 2, fast.Successes)
	assert.Equal(t, 2000.0, fast.AvgLatencyMs)
	assert.Equal(t, 20, fast.TotalTokens)
	assert.InDelta(t, 0.003, fast.TotalCost, 1e-12)
	assert.InDelta(t, 0.75, fast.AccuracyScore, 1e-12)
	assert.InDelta(t, 0.7, fast.DomainExpertiseScore, 1e-12)
	assert.InDelta(t, 0.8, fast.LatencyScore, 1e-12)
	assert.InDelta(t, 0.97, fast.CostScore, 1e-12)
	assert.InDelta(t, 0.75*0.4+0.7*0.3+0.8*0.1+0.97*0.2, fast.OverallScore, 1e-12)
	assert.InDelta(t, 0.75/0.003, fast.CostEfficiency, 1e-9)
	assert.Equal(t, 5, fast.SpeedLevel)
	assert.Equal(t, 5, fast.CostLevel)

	slow := ms[1]
	assert.Equal(t, 0.0, slow.LatencyScore, "latency beyond the ceiling clamps at 0")
	assert.Equal(t, 0.0, slow.CostScore, "cost beyond the ceiling clamps at 0")
	assert.Equal(t, 0.0, slow.DomainExpertiseScore, "no domain scores means 0")
	assert.Equal(t, 1, slow.SpeedLevel)
	assert.Equal(t, 1, slow.CostLevel)
}

func TestCompute_AllFailedIsNeutral(t *testing.T) {
	ms := Compute([]*models.TestCaseResult{failed("broken"), failed("broken")})
	require.Len(t, ms, 1)

	m := ms[0]
	assert.False(t, m.Measured)
	assert.Equal(t, 2, m.Results)
	assert.Equal(t, 0, m.Successes)
	assert.Equal(t, models.NeutralScore, m.AccuracyScore)
	assert.Equal(t, models.NeutralScore, m.DomainExpertiseScore)
	assert.Equal(t, models.NeutralScore, m.OverallScore)
	assert.Equal(t, models.NeutralScore, m.CostEfficiency)
	assert.Equal(t, models.NeutralLevel, m.SpeedLevel)
	assert.Equal(t, models.NeutralLevel, m.CostLevel)
}

func TestCompute_Empty(t *testing.T) {
	assert.Empty(t, Compute(nil))
}

func TestLevels(t *testing.T) {
	tests := []struct {
		latency float64
		speed   int
		cost    float64
		level   int
	}{
		{0, 5, 0, 5},
		{1999, 5, 0.009, 5},
		{2000, 5, 0.01, 5},
		{2001, 4, 0.011, 4},
		{6500, 2, 0.035, 2},
		{50000, 1, 3, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.speed, SpeedLevel(tt.latency), "latency %v", tt.latency)
		assert.Equal(t, tt.level, CostLevel(tt.cost), "cost %v", tt.cost)
	}
}

func TestCostEfficiency_Floor(t *testing.T) {
	assert.Equal(t, 800.0, CostEfficiency(0.8, 0))
	assert.Equal(t, 8.0, CostEfficiency(0.8, 0.1))
}

func TestApplyDomainScores(t *testing.T) {
	ms := Compute([]*models.TestCaseResult{
		cell("a", 0, 0, models.Float(1), models.Float(0)),
		failed("b"),
	})
	refined := ApplyDomainScores(ms, map[string]float64{"a": 1, "b": 0.9})

	assert.Equal(t, 1.0, refined[0].DomainExpertiseScore)
	assert.InDelta(t, 1.0, refined[0].OverallScore, 1e-12)
	assert.Equal(t, models.NeutralScore, refined[1].DomainExpertiseScore)
	assert.Equal(t, 0.0, ms[0].DomainExpertiseScore, "input is not modified")
}
