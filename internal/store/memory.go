package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/microsoft/modelbench/internal/models"
)

// MemoryStore keeps everything in process memory. Values are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	runs     map[string]*models.BenchmarkRun
	results  map[string][]*models.TestCaseResult
	rankings map[string][]*models.ModelRanking
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:     make(map[string]*models.BenchmarkRun),
		results:  make(map[string][]*models.TestCaseResult),
		rankings: make(map[string][]*models.ModelRanking),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateRun(ctx context.Context, cfg *models.BenchmarkConfig) (*models.BenchmarkRun, error) {
	run := newRun(cfg, s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = copyRun(run)
	return run, nil
}

func (s *MemoryStore) GetRun(ctx context.Context, runID string) (*models.BenchmarkRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, ErrRunNotFound
	}
	return copyRun(run), nil
}

func (s *MemoryStore) ListRuns(ctx context.Context) ([]*models.BenchmarkRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.BenchmarkRun, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, copyRun(run))
	}
	sortRunsNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) UpdateRunStatus(ctx context.Context, runID string, state models.RunState, details models.StatusDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return ErrRunNotFound
	}
	return applyStatus(run, state, details, s.now())
}

func (s *MemoryStore) UpdateRunSummary(ctx context.Context, runID string, summary *models.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return ErrRunNotFound
	}
	c := *summary
	c.Models = slices.Clone(summary.Models)
	run.Summary = &c
	run.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) AppendTestCaseResult(ctx context.Context, runID string, result *models.TestCaseResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return ErrRunNotFound
	}
	r := prepareResult(runID, result, s.now())
	for i, existing := range s.results[runID] {
		if existing.ID == r.ID {
			s.results[runID][i] = r
			return nil
		}
	}
	s.results[runID] = append(s.results[runID], r)
	return nil
}

func (s *MemoryStore) ListTestCaseResults(ctx context.Context, runID string) ([]*models.TestCaseResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.runs[runID]; !ok {
		return nil, ErrRunNotFound
	}
	out := make([]*models.TestCaseResult, len(s.results[runID]))
	for i, r := range s.results[runID] {
		c := *r
		out[i] = &c
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (s *MemoryStore) SaveRankings(ctx context.Context, runID string, rankings []*models.ModelRanking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return ErrRunNotFound
	}
	s.rankings[runID] = prepareRankings(runID, rankings)
	return nil
}

func (s *MemoryStore) ListRankings(ctx context.Context, runID string) ([]*models.ModelRanking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.runs[runID]; !ok {
		return nil, ErrRunNotFound
	}
	out := prepareRankings(runID, s.rankings[runID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].OverallRank < out[j].OverallRank })
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func copyRun(run *models.BenchmarkRun) *models.BenchmarkRun {
	c := *run
	c.Config.TestCases = slices.Clone(run.Config.TestCases)
	c.Config.Models = slices.Clone(run.Config.Models)
	if run.Summary != nil {
		summary := *run.Summary
		summary.Models = slices.Clone(run.Summary.Models)
		c.Summary = &summary
	}
	if run.CompletedAt != nil {
		t := *run.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func sortRunsNewestFirst(runs []*models.BenchmarkRun) {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
}

var _ Store = (*MemoryStore)(nil)
