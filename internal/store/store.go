// Package store persists evaluation runs. Two drivers are provided:
// SQLite for local single-user use and Postgres for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/sells-group/eval-cli/internal/model"
)

// RunFilter specifies criteria for listing stored runs.
type RunFilter struct {
	TestName string `json:"test_name,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// RunSummary is the listing projection of a stored run: enough to rank
// and locate runs without deserializing full backend results.
type RunSummary struct {
	ID               string    `json:"id"`
	TestName         string    `json:"test_name"`
	SubjectName      string    `json:"subject_name"`
	BestBackend      string    `json:"best_backend"`
	MeanOverallScore float64   `json:"mean_overall_score"`
	StartedAt        time.Time `json:"started_at"`
}

// Store defines the persistence interface for evaluation results.
type Store interface {
	SaveRun(ctx context.Context, res *model.TestExecutionResult) error
	GetRun(ctx context.Context, runID string) (*model.TestExecutionResult, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]RunSummary, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
