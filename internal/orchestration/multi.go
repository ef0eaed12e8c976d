package orchestration

import (
	"context"
	"errors"

	"github.com/microsoft/modelbench/internal/models"
	"golang.org/x/sync/errgroup"
)

// RunAll executes independent benchmarks concurrently, at most limit at a
// time (unbounded when limit <= 0). Runs are returned in input order; a
// failed run does not stop the others and its error is joined into the
// returned error.
func (r *Runner) RunAll(ctx context.Context, cfgs []*models.BenchmarkConfig, limit int) ([]*models.BenchmarkRun, error) {
	runs := make([]*models.BenchmarkRun, len(cfgs))
	errs := make([]error, len(cfgs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, cfg := range cfgs {
		g.Go(func() error {
			runs[i], errs[i] = r.Start(ctx, cfg)
			return nil
		})
	}
	_ = g.Wait()

	return runs, errors.Join(errs...)
}
