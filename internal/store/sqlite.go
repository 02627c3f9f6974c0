package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/eval-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS eval_runs (
	id         TEXT PRIMARY KEY,
	test_name  TEXT NOT NULL,
	subject    TEXT NOT NULL,
	best       TEXT NOT NULL DEFAULT '',
	mean_score REAL NOT NULL DEFAULT 0,
	result     TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_eval_runs_test_name ON eval_runs(test_name);
CREATE INDEX IF NOT EXISTS idx_eval_runs_started_at ON eval_runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, res *model.TestExecutionResult) error {
	if res == nil || res.ID == "" {
		return eris.New("sqlite: result must have an id")
	}

	resultJSON, err := json.Marshal(res)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO eval_runs (id, test_name, subject, best, mean_score, result, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.TestName, res.SubjectName, res.BestBackend, res.MeanOverallScore,
		string(resultJSON), res.StartedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert run %s", res.ID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.TestExecutionResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT result FROM eval_runs WHERE id = ?`, runID)

	var resultJSON string
	if err := row.Scan(&resultJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Errorf("sqlite: run not found: %s", runID)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}

	var res model.TestExecutionResult
	if err := json.Unmarshal([]byte(resultJSON), &res); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal run %s", runID)
	}
	return &res, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]RunSummary, error) {
	query := `SELECT id, test_name, subject, best, mean_score, started_at FROM eval_runs WHERE 1=1`
	var args []any

	if filter.TestName != "" {
		query += ` AND test_name = ?`
		args = append(args, filter.TestName)
	}
	query += ` ORDER BY started_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.TestName, &r.SubjectName, &r.BestBackend, &r.MeanOverallScore, &r.StartedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}
