package models

import "time"

// RunState is the lifecycle state of a benchmark run.
type RunState string

const (
	RunStateCreated   RunState = "created"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s RunState) IsTerminal() bool {
	return s == RunStateCompleted || s == RunStateFailed
}

// CanTransition reports whether moving from s to next is allowed.
func (s RunState) CanTransition(next RunState) bool {
	switch s {
	case RunStateCreated:
		return next == RunStateRunning || next == RunStateFailed
	case RunStateRunning:
		return next == RunStateRunning || next == RunStateCompleted || next == RunStateFailed
	default:
		return false
	}
}

// StatusDetails is the progress snapshot published while a run executes.
type StatusDetails struct {
	CurrentModel string `json:"current_model,omitempty"`
	CurrentTest  string `json:"current_test,omitempty"`
	Progress     int    `json:"progress"`
	TotalTests   int    `json:"total_tests"`
	Error        string `json:"error,omitempty"`
}

// ModelSummary aggregates one model's cells once a run finishes.
type ModelSummary struct {
	ModelID      string  `json:"model_id"`
	Tests        int     `json:"tests"`
	Succeeded    int     `json:"succeeded"`
	Failed       int     `json:"failed"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	TotalTokens  int     `json:"total_tokens"`
	TotalCost    float64 `json:"total_cost"`
	SuccessRate  float64 `json:"success_rate"`
}

// RunSummary is written when a run completes.
type RunSummary struct {
	TotalTests int            `json:"total_tests"`
	Succeeded  int            `json:"succeeded"`
	Failed     int            `json:"failed"`
	TotalCost  float64        `json:"total_cost"`
	DurationMs int64          `json:"duration_ms"`
	Models     []ModelSummary `json:"models"`
}

// ModelResults indexes the per-model summaries by model ID.
func (s *RunSummary) ModelResults() map[string]ModelSummary {
	out := make(map[string]ModelSummary, len(s.Models))
	for _, m := range s.Models {
		out[m.ModelID] = m
	}
	return out
}

// BenchmarkRun is one execution of a BenchmarkConfig.
type BenchmarkRun struct {
	ID          string          `json:"id"`
	Config      BenchmarkConfig `json:"config"`
	State       RunState        `json:"state"`
	Status      StatusDetails   `json:"status_details"`
	Summary     *RunSummary     `json:"summary,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ModelResults returns the per-model summary map of a terminal run, or nil.
func (r *BenchmarkRun) ModelResults() map[string]ModelSummary {
	if r.Summary == nil {
		return nil
	}
	return r.Summary.ModelResults()
}
