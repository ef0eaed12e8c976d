// Package analysis turns the results of a completed run into rankings and
// domain insights.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/microsoft/modelbench/internal/domain"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/ranking"
	"github.com/microsoft/modelbench/internal/scoring"
	"github.com/microsoft/modelbench/internal/store"
)

// ErrRunNotCompleted is returned when analysis is requested for a run that
// has not completed.
var ErrRunNotCompleted = errors.New("run has not completed")

// Compute derives the full analysis of a run from its results. It is pure:
// the same results always produce the same analysis.
func Compute(run *models.BenchmarkRun, results []*models.TestCaseResult) *models.Analysis {
	ms := scoring.Compute(results)

	dr := domain.Analyze(run.Config.TestCases, results)
	domainScores := make(map[string]float64, len(dr.Insights))
	for _, in := range dr.Insights {
		domainScores[in.ModelID] = in.DomainExpertiseScore
	}
	ms = scoring.ApplyDomainScores(ms, domainScores)

	return &models.Analysis{
		RunID:             run.ID,
		BenchName:         run.Config.Name,
		Metrics:           ms,
		Rankings:          ranking.Rank(run.ID, ms),
		Insights:          dr.Insights,
		Report:            dr.Report,
		BestOverall:       ranking.BestOverall(ms),
		Fastest:           ranking.Fastest(ms),
		MostCostEfficient: ranking.MostCostEfficient(ms),
	}
}

// Service loads runs from a store and analyzes them.
type Service struct {
	store store.Store
	save  bool
}

// Option configures a Service.
type Option func(*Service)

// WithSaveRankings persists the recomputed rankings after every analysis.
func WithSaveRankings(save bool) Option {
	return func(s *Service) {
		s.save = save
	}
}

// NewService creates a Service reading from st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{store: st}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze recomputes the analysis of a completed run.
func (s *Service) Analyze(ctx context.Context, runID string) (*models.Analysis, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	if run.State != models.RunStateCompleted {
		return nil, fmt.Errorf("run %s is %s: %w", runID, run.State, ErrRunNotCompleted)
	}

	results, err := s.store.ListTestCaseResults(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("loading results of run %s: %w", runID, err)
	}

	a := Compute(run, results)
	slog.Debug("Analyzed run", "run", runID, "models", len(a.Metrics), "results", len(results))

	if s.save {
		rows := make([]*models.ModelRanking, len(a.Rankings))
		for i := range a.Rankings {
			rows[i] = &a.Rankings[i]
		}
		if err := s.store.SaveRankings(ctx, runID, rows); err != nil {
			return nil, fmt.Errorf("saving rankings of run %s: %w", runID, err)
		}
	}
	return a, nil
}
