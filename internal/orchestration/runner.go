// Package orchestration drives benchmark runs across the model x test case
// matrix.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/microsoft/modelbench/internal/capacity"
	"github.com/microsoft/modelbench/internal/domain"
	"github.com/microsoft/modelbench/internal/graders"
	"github.com/microsoft/modelbench/internal/inference"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/pricing"
	"github.com/microsoft/modelbench/internal/store"
)

// Runner executes benchmark runs. One Runner may execute many runs,
// concurrently or not; all per-run state lives in a RunContext.
type Runner struct {
	store   store.Store
	client  inference.Client
	checker inference.CapacityChecker
	pricing *pricing.Table
	grader  graders.Grader
	graders GraderFactory
	policy  capacity.Policy
	now     func() time.Time

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventRunStart     EventType = "run_start"
	EventRunComplete  EventType = "run_complete"
	EventRunFailed    EventType = "run_failed"
	EventCellStart    EventType = "cell_start"
	EventCellComplete EventType = "cell_complete"
	EventGraderResult EventType = "grader_result"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType  EventType
	RunID      string
	ModelID    string
	TestCaseID string
	TestName   string
	TestNum    int
	TotalTests int
	ServedBy   string
	Error      string
	DurationMs int64
	Details    map[string]any
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithPricing sets the rate table used for cell costs.
func WithPricing(t *pricing.Table) RunnerOption {
	return func(r *Runner) {
		r.pricing = t
	}
}

// WithGrader scores every successful cell. Without a grader cells carry no
// accuracy or domain scores.
func WithGrader(g graders.Grader) RunnerOption {
	return func(r *Runner) {
		r.grader = g
	}
}

// GraderFactory builds the grader of one benchmark, typically from its
// grader settings.
type GraderFactory func(cfg *models.BenchmarkConfig) (graders.Grader, error)

// WithGraderFactory builds a grader per run. It takes precedence over WithGrader.
func WithGraderFactory(f GraderFactory) RunnerOption {
	return func(r *Runner) {
		r.graders = f
	}
}

// WithCapacityChecker sets the budget source of the capacity guard.
func WithCapacityChecker(c inference.CapacityChecker) RunnerOption {
	return func(r *Runner) {
		r.checker = c
	}
}

// WithPolicy sets the base guard policy. Benchmark files may override parts of it.
func WithPolicy(p capacity.Policy) RunnerOption {
	return func(r *Runner) {
		r.policy = p
	}
}

func WithProgressListener(l ProgressListener) RunnerOption {
	return func(r *Runner) {
		r.listeners = append(r.listeners, l)
	}
}

// NewRunner creates a runner persisting into st and calling models through client.
func NewRunner(st store.Store, client inference.Client, opts ...RunnerOption) *Runner {
	r := &Runner{
		store:     st,
		client:    client,
		checker:   inference.Unlimited,
		pricing:   pricing.Default(),
		policy:    capacity.DefaultPolicy(),
		now:       time.Now,
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Start executes cfg to completion and returns the terminal run. The error
// is non-nil only when the run ended in the failed state or could not be
// created at all; failing cells are recorded and do not surface here.
func (r *Runner) Start(ctx context.Context, cfg *models.BenchmarkConfig) (*models.BenchmarkRun, error) {
	run, err := r.store.CreateRun(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	rc := r.newRunContext(run)

	slog.Info("Starting benchmark run", "run_id", run.ID, "benchmark", cfg.Name, "total_tests", rc.status.TotalTests)
	r.notifyProgress(ProgressEvent{EventType: EventRunStart, RunID: run.ID, TotalTests: rc.status.TotalTests})

	if runErr := r.execute(ctx, rc); runErr != nil {
		r.fail(ctx, rc, runErr)
		final, err := r.store.GetRun(ctx, run.ID)
		if err != nil {
			final = rc.Run
		}
		return final, fmt.Errorf("run %s failed: %w", run.ID, runErr)
	}

	final, err := r.store.GetRun(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload run %s: %w", run.ID, err)
	}
	return final, nil
}

func (r *Runner) execute(ctx context.Context, rc *RunContext) error {
	if err := r.store.UpdateRunStatus(ctx, rc.Run.ID, models.RunStateRunning, rc.status); err != nil {
		return fmt.Errorf("failed to mark run running: %w", err)
	}

	cells, err := BuildMatrix(rc.Config)
	if err != nil {
		return err
	}
	rc.categories = domain.ResolveCategories(rc.Config.TestCases)
	if r.graders != nil {
		if rc.grader, err = r.graders(rc.Config); err != nil {
			return fmt.Errorf("creating grader: %w", err)
		}
	}

	for cell := range cells.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runCell(ctx, rc, cell); err != nil {
			return err
		}
	}

	summary := Summarize(rc.Config, rc.results, r.now().Sub(rc.started))
	if err := r.store.UpdateRunSummary(ctx, rc.Run.ID, summary); err != nil {
		return fmt.Errorf("failed to save run summary: %w", err)
	}

	done := models.StatusDetails{Progress: rc.status.Progress, TotalTests: rc.status.TotalTests}
	if err := r.store.UpdateRunStatus(ctx, rc.Run.ID, models.RunStateCompleted, done); err != nil {
		return fmt.Errorf("failed to mark run completed: %w", err)
	}

	slog.Info("Benchmark run completed",
		"run_id", rc.Run.ID,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"total_cost", summary.TotalCost)
	r.notifyProgress(ProgressEvent{
		EventType:  EventRunComplete,
		RunID:      rc.Run.ID,
		TestNum:    rc.status.Progress,
		TotalTests: rc.status.TotalTests,
		DurationMs: summary.DurationMs,
		Details: map[string]any{
			"succeeded":  summary.Succeeded,
			"failed":     summary.Failed,
			"total_cost": summary.TotalCost,
		},
	})
	return nil
}

// runCell executes one cell. Inference and grading failures are recorded in
// the result; only persistence failures are returned.
func (r *Runner) runCell(ctx context.Context, rc *RunContext, cell Cell) error {
	tc := cell.TestCase
	modelID := cell.Model.ModelID

	rc.status.CurrentModel = modelID
	rc.status.CurrentTest = tc.ID
	if err := r.store.UpdateRunStatus(ctx, rc.Run.ID, models.RunStateRunning, rc.status); err != nil {
		slog.Warn("failed to publish run status", "run_id", rc.Run.ID, "error", err)
	}

	r.notifyProgress(ProgressEvent{
		EventType:  EventCellStart,
		RunID:      rc.Run.ID,
		ModelID:    modelID,
		TestCaseID: tc.ID,
		TestName:   tc.DisplayName(),
		TestNum:    cell.Index + 1,
		TotalTests: rc.status.TotalTests,
	})
	slog.Debug("cell start", "run_id", rc.Run.ID, "model", modelID, "test", tc.ID)

	rc.sequence++
	result := &models.TestCaseResult{
		ID:         models.ResultID(rc.Run.ID, modelID, tc.ID),
		RunID:      rc.Run.ID,
		Sequence:   rc.sequence,
		ModelID:    modelID,
		TestCaseID: tc.ID,
	}

	params := inference.ParametersFrom(cell.Model.Parameters)
	params.MaxTokens = cell.Model.Parameters.EffectiveMaxTokens()

	start := r.now()
	res, err := rc.Guard.Invoke(ctx, capacity.Request{
		ModelID:  modelID,
		Messages: []inference.Message{inference.UserMessage(tc.Prompt)},
		Params:   params,
	})
	result.LatencyMs = r.now().Sub(start).Milliseconds()

	if err != nil {
		result.Error = err.Error()
		slog.Warn("cell failed", "run_id", rc.Run.ID, "model", modelID, "test", tc.ID, "error", err)
	} else {
		result.ServedBy = res.ModelID
		result.Output = res.Response.Text
		result.Tokens = res.Response.Usage
		result.Cost = r.pricing.Cost(res.ModelID, &res.Response.Usage)
		r.grade(ctx, rc, cell, result)
	}
	result.CreatedAt = r.now()

	if err := r.store.AppendTestCaseResult(ctx, rc.Run.ID, result); err != nil {
		return fmt.Errorf("failed to save result for %s/%s: %w", modelID, tc.ID, err)
	}
	rc.results = append(rc.results, result)
	rc.status.Progress++

	r.notifyProgress(ProgressEvent{
		EventType:  EventCellComplete,
		RunID:      rc.Run.ID,
		ModelID:    modelID,
		TestCaseID: tc.ID,
		TestName:   tc.DisplayName(),
		TestNum:    cell.Index + 1,
		TotalTests: rc.status.TotalTests,
		ServedBy:   result.ServedBy,
		Error:      result.Error,
		DurationMs: result.LatencyMs,
		Details: map[string]any{
			"cost":   result.Cost,
			"tokens": result.Tokens.Total,
		},
	})
	return nil
}

func (r *Runner) grade(ctx context.Context, rc *RunContext, cell Cell, result *models.TestCaseResult) {
	if rc.grader == nil {
		return
	}
	grade, err := rc.grader.Grade(ctx, &graders.Context{
		TestCase: &cell.TestCase,
		Category: rc.categories[cell.TestCase.ID],
		ModelID:  cell.Model.ModelID,
		Output:   result.Output,
	})
	if err != nil {
		slog.Warn("grading failed", "run_id", rc.Run.ID, "model", cell.Model.ModelID, "test", cell.TestCase.ID, "grader", rc.grader.Name(), "error", err)
		return
	}
	result.AccuracyScore = grade.Accuracy
	result.DomainExpertiseScore = grade.DomainExpertise

	r.notifyProgress(ProgressEvent{
		EventType:  EventGraderResult,
		RunID:      rc.Run.ID,
		ModelID:    cell.Model.ModelID,
		TestCaseID: cell.TestCase.ID,
		Details: map[string]any{
			"grader":   rc.grader.Name(),
			"feedback": grade.Feedback,
		},
	})
}

func (r *Runner) fail(ctx context.Context, rc *RunContext, runErr error) {
	slog.Error("Benchmark run failed", "run_id", rc.Run.ID, "error", runErr)

	details := rc.status
	details.Error = runErr.Error()
	// A cancelled ctx must not keep the failure from being recorded.
	if err := r.store.UpdateRunStatus(context.WithoutCancel(ctx), rc.Run.ID, models.RunStateFailed, details); err != nil {
		var terr *store.InvalidTransitionError
		if !errors.As(err, &terr) {
			slog.Error("failed to record run failure", "run_id", rc.Run.ID, "error", err)
		}
	}

	r.notifyProgress(ProgressEvent{
		EventType:  EventRunFailed,
		RunID:      rc.Run.ID,
		TestNum:    rc.status.Progress,
		TotalTests: rc.status.TotalTests,
		Error:      runErr.Error(),
	})
}
