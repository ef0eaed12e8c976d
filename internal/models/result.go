package models

import "time"

// TokenCounts is the token usage reported for a single inference call.
type TokenCounts struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// TestCaseResult is the immutable record of one (model, test case) cell.
type TestCaseResult struct {
	ID         string `json:"id"`
	RunID      string `json:"run_id"`
	Sequence   int    `json:"sequence"`
	ModelID    string `json:"model_id"`
	TestCaseID string `json:"test_case_id"`

	// ServedBy is the model that actually answered, which differs from
	// ModelID when the capacity guard substituted a fallback.
	ServedBy string `json:"served_by,omitempty"`

	Output    string      `json:"output,omitempty"`
	Error     string      `json:"error,omitempty"`
	LatencyMs int64       `json:"latency_ms"`
	Tokens    TokenCounts `json:"tokens"`
	Cost      float64     `json:"cost"`

	AccuracyScore        *float64 `json:"accuracy_score,omitempty"`
	DomainExpertiseScore *float64 `json:"domain_expertise_score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Succeeded reports whether the cell produced output.
func (r *TestCaseResult) Succeeded() bool {
	return r.Error == ""
}

// ResultID is the row identity of a cell within a run.
func ResultID(runID, modelID, testCaseID string) string {
	return runID + "/" + modelID + "/" + testCaseID
}

// GradeResult holds the optional per-cell scores produced by a grader.
type GradeResult struct {
	Accuracy        *float64 `json:"accuracy,omitempty"`
	DomainExpertise *float64 `json:"domain_expertise,omitempty"`
	Feedback        string   `json:"feedback,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
