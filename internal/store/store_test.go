package store

import (
	"context"
	"errors"
	"testing"

	"github.com/microsoft/modelbench/internal/models"
	"github.com/stretchr/testify/require"
)

func sampleConfig() *models.BenchmarkConfig {
	return &models.BenchmarkConfig{
		Name: "sample",
		TestCases: []models.TestCase{
			{ID: "t1", Prompt: "2+2?", ExpectedOutput: "4"},
			{ID: "t2", Prompt: "Capital of France?", ExpectedOutput: "Paris"},
		},
		Models: []models.ModelConfig{
			{ModelID: "m1", Enabled: true, Parameters: models.InferenceParameters{Extra: map[string]any{"top_p": 0.9}}},
			{ModelID: "m2", Enabled: true},
			{ModelID: "m3", Enabled: false},
		},
	}
}

// storeFactories lets every contract test run against each implementation.
func storeFactories(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"badger": func() Store {
			s, err := OpenBadger(BadgerOptions{InMemory: true})
			require.NoError(t, err)
			return s
		},
		"badger-dir": func() Store {
			s, err := OpenBadger(BadgerOptions{Dir: t.TempDir()})
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_RunLifecycle(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			defer s.Close()
			ctx := context.Background()

			run, err := s.CreateRun(ctx, sampleConfig())
			require.NoError(t, err)
			require.NotEmpty(t, run.ID)
			require.Equal(t, models.RunStateCreated, run.State)
			require.Equal(t, 4, run.Status.TotalTests)

			require.NoError(t, s.UpdateRunStatus(ctx, run.ID, models.RunStateRunning, models.StatusDetails{TotalTests: 4}))
			require.NoError(t, s.UpdateRunStatus(ctx, run.ID, models.RunStateRunning, models.StatusDetails{
				CurrentModel: "m1", CurrentTest: "t1", Progress: 0, TotalTests: 4,
			}))

			got, err := s.GetRun(ctx, run.ID)
			require.NoError(t, err)
			require.Equal(t, models.RunStateRunning, got.State)
			require.Equal(t, "m1", got.Status.CurrentModel)
			require.Equal(t, 0.9, got.Config.Models[0].Parameters.Extra["top_p"])
			require.Nil(t, got.CompletedAt)

			summary := &models.RunSummary{TotalTests: 4, Succeeded: 4, Models: []models.ModelSummary{{ModelID: "m1", Tests: 2}}}
			require.NoError(t, s.UpdateRunSummary(ctx, run.ID, summary))
			require.NoError(t, s.UpdateRunStatus(ctx, run.ID, models.RunStateCompleted, models.StatusDetails{Progress: 4, TotalTests: 4}))

			got, err = s.GetRun(ctx, run.ID)
			require.NoError(t, err)
			require.Equal(t, models.RunStateCompleted, got.State)
			require.NotNil(t, got.CompletedAt)
			require.Equal(t, 2, got.ModelResults()["m1"].Tests)

			err = s.UpdateRunStatus(ctx, run.ID, models.RunStateRunning, models.StatusDetails{})
			var terr *InvalidTransitionError
			require.True(t, errors.As(err, &terr))
			require.Equal(t, models.RunStateCompleted, terr.From)
		})
	}
}

func TestStore_FailedRunRecordsError(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			defer s.Close()
			ctx := context.Background()

			run, err := s.CreateRun(ctx, sampleConfig())
			require.NoError(t, err)
			require.NoError(t, s.UpdateRunStatus(ctx, run.ID, models.RunStateFailed, models.StatusDetails{Error: "store outage"}))

			got, err := s.GetRun(ctx, run.ID)
			require.NoError(t, err)
			require.Equal(t, models.RunStateFailed, got.State)
			require.Equal(t, "store outage", got.Error)
		})
	}
}

func TestStore_Results(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			defer s.Close()
			ctx := context.Background()

			run, err := s.CreateRun(ctx, sampleConfig())
			require.NoError(t, err)
			other, err := s.CreateRun(ctx, sampleConfig())
			require.NoError(t, err)

			require.NoError(t, s.AppendTestCaseResult(ctx, run.ID, &models.TestCaseResult{Sequence: 2, ModelID: "m1", TestCaseID: "t2", Error: "auth: bad key"}))
			require.NoError(t, s.AppendTestCaseResult(ctx, run.ID, &models.TestCaseResult{Sequence: 1, ModelID: "m1", TestCaseID: "t1", Output: "4", AccuracyScore: models.Float(1)}))
			require.NoError(t, s.AppendTestCaseResult(ctx, other.ID, &models.TestCaseResult{Sequence: 1, ModelID: "m2", TestCaseID: "t1"}))
			// same row again is an upsert
			require.NoError(t, s.AppendTestCaseResult(ctx, run.ID, &models.TestCaseResult{Sequence: 1, ModelID: "m1", TestCaseID: "t1", Output: "four"}))

			results, err := s.ListTestCaseResults(ctx, run.ID)
			require.NoError(t, err)
			require.Len(t, results, 2)
			require.Equal(t, "t1", results[0].TestCaseID)
			require.Equal(t, "four", results[0].Output)
			require.Equal(t, run.ID, results[0].RunID)
			require.Equal(t, models.ResultID(run.ID, "m1", "t1"), results[0].ID)
			require.False(t, results[1].Succeeded())
			require.False(t, results[0].CreatedAt.IsZero())

			err = s.AppendTestCaseResult(ctx, "missing", &models.TestCaseResult{ModelID: "m1", TestCaseID: "t1"})
			require.ErrorIs(t, err, ErrRunNotFound)
		})
	}
}

func TestStore_Rankings(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			defer s.Close()
			ctx := context.Background()

			run, err := s.CreateRun(ctx, sampleConfig())
			require.NoError(t, err)

			rankings, err := s.ListRankings(ctx, run.ID)
			require.NoError(t, err)
			require.Empty(t, rankings)

			require.NoError(t, s.SaveRankings(ctx, run.ID, []*models.ModelRanking{
				{ModelID: "m2", OverallRank: 2},
				{ModelID: "m1", OverallRank: 1},
			}))
			require.NoError(t, s.SaveRankings(ctx, run.ID, []*models.ModelRanking{
				{ModelID: "m1", OverallRank: 2, Score: 0.4},
				{ModelID: "m2", OverallRank: 1, Score: 0.6},
			}))

			rankings, err = s.ListRankings(ctx, run.ID)
			require.NoError(t, err)
			require.Len(t, rankings, 2)
			require.Equal(t, "m2", rankings[0].ModelID)
			require.Equal(t, run.ID, rankings[0].RunID)
			require.Equal(t, 0.4, rankings[1].Score)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			defer s.Close()
			ctx := context.Background()

			_, err := s.GetRun(ctx, "nope")
			require.ErrorIs(t, err, ErrRunNotFound)
			require.ErrorIs(t, s.UpdateRunStatus(ctx, "nope", models.RunStateRunning, models.StatusDetails{}), ErrRunNotFound)
			require.ErrorIs(t, s.UpdateRunSummary(ctx, "nope", &models.RunSummary{}), ErrRunNotFound)
			_, err = s.ListTestCaseResults(ctx, "nope")
			require.ErrorIs(t, err, ErrRunNotFound)
			_, err = s.ListRankings(ctx, "nope")
			require.ErrorIs(t, err, ErrRunNotFound)
		})
	}
}

func TestStore_ListRuns(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			defer s.Close()
			ctx := context.Background()

			a, err := s.CreateRun(ctx, sampleConfig())
			require.NoError(t, err)
			b, err := s.CreateRun(ctx, sampleConfig())
			require.NoError(t, err)

			runs, err := s.ListRuns(ctx)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			ids := []string{runs[0].ID, runs[1].ID}
			require.ElementsMatch(t, []string{a.ID, b.ID}, ids)
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	run, err := s.CreateRun(ctx, sampleConfig())
	require.NoError(t, err)
	run.Config.TestCases[0].Prompt = "mutated"

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, "2+2?", got.Config.TestCases[0].Prompt)
}
