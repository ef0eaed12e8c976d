package models

// CategoryScore pairs a category with a model's mean score in it.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// CategoryBreakdown is a model's result in a single category.
type CategoryBreakdown struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
	Tests    int      `json:"tests"`
	Samples  []string `json:"samples,omitempty"`
}

// DomainInsight is the derived per-model domain analysis.
type DomainInsight struct {
	ModelID              string              `json:"model_id"`
	DomainExpertiseScore float64             `json:"domain_expertise_score"`
	ConsistencyScore     float64             `json:"consistency_score"`
	Strengths            []CategoryScore     `json:"strengths"`
	Weaknesses           []CategoryScore     `json:"weaknesses"`
	CategoryBreakdown    []CategoryBreakdown `json:"category_breakdown"`
	Summary              string              `json:"summary"`
}

// CategoryAnalysis compares all models within one category.
type CategoryAnalysis struct {
	Category     Category `json:"category"`
	AverageScore float64  `json:"average_score"`
	BestModel    string   `json:"best_model"`
	BestScore    float64  `json:"best_score"`
	Models       int      `json:"models"`
}

// RecommendationKind classifies a textual recommendation.
type RecommendationKind string

const (
	RecommendBestOverall    RecommendationKind = "best-overall"
	RecommendMostConsistent RecommendationKind = "most-consistent"
	RecommendSpecialist     RecommendationKind = "category-specialist"
)

// Recommendation is one line of the cross-model report.
type Recommendation struct {
	Kind     RecommendationKind `json:"kind"`
	ModelID  string             `json:"model_id"`
	Category Category           `json:"category,omitempty"`
	Score    float64            `json:"score"`
	Text     string             `json:"text"`
}

// DomainReport is the cross-model part of the domain analysis.
type DomainReport struct {
	Categories      []CategoryAnalysis `json:"category_analysis"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Analysis is the complete, recomputable analysis of a completed run.
type Analysis struct {
	RunID             string          `json:"run_id"`
	BenchName         string          `json:"benchmark"`
	Metrics           []ModelMetrics  `json:"metrics"`
	Rankings          []ModelRanking  `json:"rankings"`
	Insights          []DomainInsight `json:"insights"`
	Report            DomainReport    `json:"report"`
	BestOverall       string          `json:"best_overall,omitempty"`
	Fastest           string          `json:"fastest,omitempty"`
	MostCostEfficient string          `json:"most_cost_efficient,omitempty"`
}

// Insight returns the domain insight of a model.
func (a *Analysis) Insight(modelID string) (DomainInsight, bool) {
	for _, in := range a.Insights {
		if in.ModelID == modelID {
			return in, true
		}
	}
	return DomainInsight{}, false
}

// Ranking returns the ranking row of a model.
func (a *Analysis) Ranking(modelID string) (ModelRanking, bool) {
	for _, r := range a.Rankings {
		if r.ModelID == modelID {
			return r, true
		}
	}
	return ModelRanking{}, false
}
