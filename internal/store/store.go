// Package store persists benchmark runs, their cell results and rankings.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microsoft/modelbench/internal/models"
)

// ErrRunNotFound is returned when a run ID does not match any stored run.
var ErrRunNotFound = errors.New("run not found")

// Store is the persistence contract of the benchmark core. Writes are
// upserts keyed by row identity, so repeating a call is harmless.
type Store interface {
	// CreateRun stores a new run in the created state and returns it.
	CreateRun(ctx context.Context, cfg *models.BenchmarkConfig) (*models.BenchmarkRun, error)
	GetRun(ctx context.Context, runID string) (*models.BenchmarkRun, error)
	// ListRuns returns every run, newest first.
	ListRuns(ctx context.Context) ([]*models.BenchmarkRun, error)

	UpdateRunStatus(ctx context.Context, runID string, state models.RunState, details models.StatusDetails) error
	UpdateRunSummary(ctx context.Context, runID string, summary *models.RunSummary) error

	AppendTestCaseResult(ctx context.Context, runID string, result *models.TestCaseResult) error
	// ListTestCaseResults returns a run's results in the order they were produced.
	ListTestCaseResults(ctx context.Context, runID string) ([]*models.TestCaseResult, error)

	// SaveRankings replaces the rankings of a run.
	SaveRankings(ctx context.Context, runID string, rankings []*models.ModelRanking) error
	ListRankings(ctx context.Context, runID string) ([]*models.ModelRanking, error)

	Close() error
}

// InvalidTransitionError is returned when a status update would leave a
// terminal state or skip one.
type InvalidTransitionError struct {
	RunID string
	From  models.RunState
	To    models.RunState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("run %s: invalid transition %s -> %s", e.RunID, e.From, e.To)
}

func newRun(cfg *models.BenchmarkConfig, now time.Time) *models.BenchmarkRun {
	return &models.BenchmarkRun{
		ID:        uuid.NewString(),
		Config:    *cfg,
		State:     models.RunStateCreated,
		Status:    models.StatusDetails{TotalTests: cfg.TotalTests()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// applyStatus mutates run in place for a status update.
func applyStatus(run *models.BenchmarkRun, state models.RunState, details models.StatusDetails, now time.Time) error {
	if !run.State.CanTransition(state) {
		return &InvalidTransitionError{RunID: run.ID, From: run.State, To: state}
	}
	run.State = state
	run.Status = details
	run.UpdatedAt = now
	if details.Error != "" {
		run.Error = details.Error
	}
	if state.IsTerminal() {
		run.CompletedAt = &now
	}
	return nil
}

func prepareResult(runID string, result *models.TestCaseResult, now time.Time) *models.TestCaseResult {
	r := *result
	r.RunID = runID
	if r.ID == "" {
		r.ID = models.ResultID(runID, r.ModelID, r.TestCaseID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	return &r
}

func prepareRankings(runID string, rankings []*models.ModelRanking) []*models.ModelRanking {
	out := make([]*models.ModelRanking, len(rankings))
	for i, r := range rankings {
		c := *r
		c.RunID = runID
		out[i] = &c
	}
	return out
}
