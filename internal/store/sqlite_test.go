package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eval-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "eval.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleResult(testName string, startedAt time.Time) *model.TestExecutionResult {
	return &model.TestExecutionResult{
		ID:          uuid.New().String(),
		TestName:    testName,
		SubjectName: "Mux",
		BackendResults: []model.BackendTestResult{
			{
				BackendName:  "claude-haiku",
				ProviderID:   "anthropic",
				Succeeded:    true,
				OverallScore: 0.85,
				FieldResults: map[string]model.FieldMatchResult{
					"name": {FieldName: "name", Matched: true, Confidence: 1.0, Strategy: model.StrategyExact},
				},
			},
			{
				BackendName:  "sonar",
				ProviderID:   "perplexity",
				Succeeded:    true,
				OverallScore: 0.7,
			},
		},
		BestBackend:      "claude-haiku",
		MeanOverallScore: 0.775,
		StartedAt:        startedAt,
	}
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	res := sampleResult("mux_video", time.Now().UTC())
	require.NoError(t, s.SaveRun(ctx, res))

	got, err := s.GetRun(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, "mux_video", got.TestName)
	assert.Equal(t, "claude-haiku", got.BestBackend)
	require.Len(t, got.BackendResults, 2)
	assert.Equal(t, 1.0, got.BackendResults[0].FieldResults["name"].Confidence)
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLiteStore_SaveRun_RequiresID(t *testing.T) {
	s := newTestSQLiteStore(t)

	err := s.SaveRun(context.Background(), &model.TestExecutionResult{TestName: "x"})
	require.Error(t, err)

	err = s.SaveRun(context.Background(), nil)
	require.Error(t, err)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := sampleResult("mux_video", base)
	newer := sampleResult("mux_video", base.Add(time.Hour))
	other := sampleResult("acme_robotics", base.Add(30*time.Minute))

	for _, r := range []*model.TestExecutionResult{older, newer, other} {
		require.NoError(t, s.SaveRun(ctx, r))
	}

	runs, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Newest first.
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, other.ID, runs[1].ID)
	assert.Equal(t, older.ID, runs[2].ID)

	filtered, err := s.ListRuns(ctx, RunFilter{TestName: "acme_robotics"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, other.ID, filtered[0].ID)
	assert.Equal(t, "Mux", filtered[0].SubjectName)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, other.ID, limited[0].ID)
}

func TestSQLiteStore_SaveRun_DuplicateID(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	res := sampleResult("mux_video", time.Now().UTC())
	require.NoError(t, s.SaveRun(ctx, res))
	require.Error(t, s.SaveRun(ctx, res))
}
