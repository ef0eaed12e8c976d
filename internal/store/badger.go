package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Dir is the database directory. Ignored when InMemory is set.
	Dir      string
	InMemory bool
}

// BadgerStore is a Store on an embedded badgerhold database.
type BadgerStore struct {
	store *badgerhold.Store
	now   func() time.Time
}

// OpenBadger opens (creating if needed) a BadgerStore.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	options := badgerhold.DefaultOptions
	// JSON keeps free-form model parameters decodable without gob registration.
	options.Encoder = json.Marshal
	options.Decoder = json.Unmarshal
	options.Logger = nil

	if opts.InMemory {
		options.InMemory = true
		options.Dir = ""
		options.ValueDir = ""
	} else {
		if opts.Dir == "" {
			return nil, errors.New("store directory is required")
		}
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		options.Dir = opts.Dir
		options.ValueDir = opts.Dir
	}

	slog.Debug("Opening run store", "dir", opts.Dir, "in_memory", opts.InMemory)
	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return &BadgerStore{store: store, now: time.Now}, nil
}

func (s *BadgerStore) CreateRun(ctx context.Context, cfg *models.BenchmarkConfig) (*models.BenchmarkRun, error) {
	run := newRun(cfg, s.now())
	if err := s.store.Insert(run.ID, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

func (s *BadgerStore) GetRun(ctx context.Context, runID string) (*models.BenchmarkRun, error) {
	var run models.BenchmarkRun
	if err := s.store.Get(runID, &run); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

func (s *BadgerStore) ListRuns(ctx context.Context) ([]*models.BenchmarkRun, error) {
	var runs []models.BenchmarkRun
	if err := s.store.Find(&runs, badgerhold.Where("ID").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	out := make([]*models.BenchmarkRun, len(runs))
	for i := range runs {
		out[i] = &runs[i]
	}
	sortRunsNewestFirst(out)
	return out, nil
}

// updateRun applies fn to a run inside one read-write transaction.
func (s *BadgerStore) updateRun(runID string, fn func(run *models.BenchmarkRun) error) error {
	return s.store.Badger().Update(func(tx *badger.Txn) error {
		var run models.BenchmarkRun
		if err := s.store.TxGet(tx, runID, &run); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return ErrRunNotFound
			}
			return err
		}
		if err := fn(&run); err != nil {
			return err
		}
		return s.store.TxUpdate(tx, runID, &run)
	})
}

func (s *BadgerStore) UpdateRunStatus(ctx context.Context, runID string, state models.RunState, details models.StatusDetails) error {
	return s.updateRun(runID, func(run *models.BenchmarkRun) error {
		return applyStatus(run, state, details, s.now())
	})
}

func (s *BadgerStore) UpdateRunSummary(ctx context.Context, runID string, summary *models.RunSummary) error {
	return s.updateRun(runID, func(run *models.BenchmarkRun) error {
		run.Summary = summary
		run.UpdatedAt = s.now()
		return nil
	})
}

func (s *BadgerStore) exists(runID string) error {
	var run models.BenchmarkRun
	if err := s.store.Get(runID, &run); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ErrRunNotFound
		}
		return fmt.Errorf("failed to get run: %w", err)
	}
	return nil
}

func (s *BadgerStore) AppendTestCaseResult(ctx context.Context, runID string, result *models.TestCaseResult) error {
	if err := s.exists(runID); err != nil {
		return err
	}
	r := prepareResult(runID, result, s.now())
	if err := s.store.Upsert(r.ID, r); err != nil {
		return fmt.Errorf("failed to save result %s: %w", r.ID, err)
	}
	return nil
}

func (s *BadgerStore) ListTestCaseResults(ctx context.Context, runID string) ([]*models.TestCaseResult, error) {
	if err := s.exists(runID); err != nil {
		return nil, err
	}
	var results []models.TestCaseResult
	if err := s.store.Find(&results, badgerhold.Where("RunID").Eq(runID).SortBy("Sequence")); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	out := make([]*models.TestCaseResult, len(results))
	for i := range results {
		out[i] = &results[i]
	}
	return out, nil
}

func rankingKey(runID, modelID string) string {
	return runID + "/" + modelID
}

func (s *BadgerStore) SaveRankings(ctx context.Context, runID string, rankings []*models.ModelRanking) error {
	if err := s.exists(runID); err != nil {
		return err
	}
	prepared := prepareRankings(runID, rankings)
	return s.store.Badger().Update(func(tx *badger.Txn) error {
		if err := s.store.TxDeleteMatching(tx, &models.ModelRanking{}, badgerhold.Where("RunID").Eq(runID)); err != nil {
			return fmt.Errorf("failed to clear rankings: %w", err)
		}
		for _, r := range prepared {
			if err := s.store.TxUpsert(tx, rankingKey(runID, r.ModelID), r); err != nil {
				return fmt.Errorf("failed to save ranking for %s: %w", r.ModelID, err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) ListRankings(ctx context.Context, runID string) ([]*models.ModelRanking, error) {
	if err := s.exists(runID); err != nil {
		return nil, err
	}
	var rankings []models.ModelRanking
	if err := s.store.Find(&rankings, badgerhold.Where("RunID").Eq(runID).SortBy("OverallRank")); err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}
	out := make([]*models.ModelRanking, len(rankings))
	for i := range rankings {
		out[i] = &rankings[i]
	}
	return out, nil
}

func (s *BadgerStore) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

var _ Store = (*BadgerStore)(nil)
