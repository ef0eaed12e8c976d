package orchestration

import (
	"time"

	"github.com/microsoft/modelbench/internal/capacity"
	"github.com/microsoft/modelbench/internal/graders"
	"github.com/microsoft/modelbench/internal/models"
)

// RunContext is everything a single run owns while it executes. It is
// created by the Runner and never shared between runs.
type RunContext struct {
	Run    *models.BenchmarkRun
	Config *models.BenchmarkConfig
	Guard  *capacity.Guard

	grader     graders.Grader
	categories map[string]models.Category
	status     models.StatusDetails
	sequence   int
	results    []*models.TestCaseResult
	started    time.Time
}

func (r *Runner) newRunContext(run *models.BenchmarkRun) *RunContext {
	cfg := &run.Config
	return &RunContext{
		Run:     run,
		Config:  cfg,
		Guard:   capacity.NewGuard(r.client, r.checker, r.policy.WithOverrides(cfg.Guard), cfg.Credential),
		grader:  r.grader,
		status:  models.StatusDetails{TotalTests: cfg.TotalTests()},
		started: r.now(),
	}
}

// Status returns the latest published status snapshot.
func (rc *RunContext) Status() models.StatusDetails {
	return rc.status
}

// Results returns the cells recorded so far, in execution order.
func (rc *RunContext) Results() []*models.TestCaseResult {
	return rc.results
}
