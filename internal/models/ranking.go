package models

// NeutralScore is substituted for any score that cannot be measured, so an
// unevaluated model is neither favoured nor ranked last by a hard zero.
const NeutralScore = 0.5

// NeutralLevel is the mid bucket of the 1-5 speed and cost levels.
const NeutralLevel = 3

// ModelMetrics are the aggregate scores of one model over a completed run.
type ModelMetrics struct {
	ModelID   string `json:"model_id"`
	Results   int    `json:"results"`
	Successes int    `json:"successes"`
	Measured  bool   `json:"measured"`

	AvgLatencyMs float64 `json:"avg_latency_ms"`
	TotalTokens  int     `json:"total_tokens"`
	TotalCost    float64 `json:"total_cost"`

	AccuracyScore        float64 `json:"accuracy_score"`
	DomainExpertiseScore float64 `json:"domain_expertise_score"`
	LatencyScore         float64 `json:"latency_score"`
	CostScore            float64 `json:"cost_score"`
	OverallScore         float64 `json:"overall_score"`
	CostEfficiency       float64 `json:"cost_efficiency"`

	SpeedLevel int `json:"speed_level"`
	CostLevel  int `json:"cost_level"`
}

// NeutralMetrics returns the metrics recorded for a model that has results
// but none that succeeded.
func NeutralMetrics(modelID string, results int) ModelMetrics {
	return ModelMetrics{
		ModelID:              modelID,
		Results:              results,
		AccuracyScore:        NeutralScore,
		DomainExpertiseScore: NeutralScore,
		LatencyScore:         NeutralScore,
		CostScore:            NeutralScore,
		OverallScore:         NeutralScore,
		CostEfficiency:       NeutralScore,
		SpeedLevel:           NeutralLevel,
		CostLevel:            NeutralLevel,
	}
}

// ModelRanking is the persisted ranking row of one model in one run.
type ModelRanking struct {
	RunID               string  `json:"run_id"`
	ModelID             string  `json:"model_id"`
	OverallRank         int     `json:"overall_rank"`
	PerformanceRank     int     `json:"performance_rank"`
	CostEfficiencyRank  int     `json:"cost_efficiency_rank"`
	DomainExpertiseRank int     `json:"domain_expertise_rank"`
	Score               float64 `json:"score"`
	SpeedLevel          int     `json:"speed_level"`
	CostLevel           int     `json:"cost_level"`
}
