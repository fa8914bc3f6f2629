package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
	"github.com/ericfisherdev/reviewregistry/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RunStore = (*RunRepo)(nil)

// RunRepo is the SQLite implementation of the RunStore port interface.
type RunRepo struct {
	db *DB
}

// NewRunRepo creates a new RunRepo backed by the given DB.
func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// RecordRun stores the registry header and one row per entry in a single
// transaction and returns the new run ID.
func (r *RunRepo) RecordRun(ctx context.Context, registry *model.Registry, staleCount int) (int64, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin record run: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	res, err := tx.ExecContext(ctx, `
		INSERT INTO registry_runs (repo, generated_at, review_count, stale_count)
		VALUES (?, ?, ?, ?)
	`, registry.Source.Repo, registry.GeneratedAt, registry.Reviews.Len(), staleCount)
	if err != nil {
		return 0, fmt.Errorf("insert run for %s: %w", registry.Source.Repo, err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id for %s: %w", registry.Source.Repo, err)
	}

	const entryQuery = `
		INSERT INTO registry_run_entries (run_id, position, review_id, state, review_issue_url, stale_reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for i, id := range registry.Reviews.Keys() {
		entry, _ := registry.Reviews.Get(id)
		if _, err := tx.ExecContext(ctx, entryQuery,
			runID, i, id, string(entry.State), entry.ReviewIssueURL, entry.StaleReason,
		); err != nil {
			return 0, fmt.Errorf("insert run entry %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run for %s: %w", registry.Source.Repo, err)
	}

	return runID, nil
}

// LatestStates returns review_id -> state from the newest run of repoFullName.
func (r *RunRepo) LatestStates(ctx context.Context, repoFullName string) (map[string]model.ReviewState, error) {
	states := make(map[string]model.ReviewState)

	var runID int64
	err := r.db.Reader.QueryRowContext(ctx, `
		SELECT id FROM registry_runs
		WHERE repo = ?
		ORDER BY id DESC
		LIMIT 1
	`, repoFullName).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return states, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run for %s: %w", repoFullName, err)
	}

	rows, err := r.db.Reader.QueryContext(ctx, `
		SELECT review_id, state
		FROM registry_run_entries
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run entries for run %d: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, state string
		if err := rows.Scan(&id, &state); err != nil {
			return nil, fmt.Errorf("scan run entry: %w", err)
		}
		states[id] = model.ReviewState(state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run entries: %w", err)
	}

	return states, nil
}

// CountRuns returns how many runs have been recorded for repoFullName.
func (r *RunRepo) CountRuns(ctx context.Context, repoFullName string) (int, error) {
	var n int
	err := r.db.Reader.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registry_runs WHERE repo = ?`, repoFullName,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count runs for %s: %w", repoFullName, err)
	}
	return n, nil
}
