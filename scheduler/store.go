package scheduler

import (
	"context"
	"database/sql"
	"time"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// RunStateStore persists per-job scheduling state across restarts.
type RunStateStore interface {
	Load(ctx context.Context) (map[JobName]RunState, error)
	Save(ctx context.Context, state RunState) error
}

// SQLiteRunStateStore keeps run state in the run_state table, one row per
// job.
type SQLiteRunStateStore struct {
	db *sql.DB
}

func NewSQLiteRunStateStore(db *sql.DB) *SQLiteRunStateStore {
	return &SQLiteRunStateStore{db: db}
}

func (s *SQLiteRunStateStore) Load(ctx context.Context) (map[JobName]RunState, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_name, last_run_at, last_status, updated_at FROM run_state`)
	if err != nil {
		return nil, errors.Wrap(err, "query run state")
	}
	defer rows.Close()

	states := make(map[JobName]RunState)
	for rows.Next() {
		var (
			state     RunState
			lastRunAt sql.NullString
			updatedAt string
		)
		if err := rows.Scan(&state.JobName, &lastRunAt, &state.LastStatus, &updatedAt); err != nil {
			return nil, errors.Wrap(err, "scan run state")
		}
		if lastRunAt.Valid {
			ts, err := time.Parse(time.RFC3339, lastRunAt.String)
			if err != nil {
				return nil, errors.Wrapf(err, "parse last_run_at for %s", state.JobName)
			}
			state.LastRunAt = &ts
		}
		state.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		states[state.JobName] = state
	}
	return states, rows.Err()
}

func (s *SQLiteRunStateStore) Save(ctx context.Context, state RunState) error {
	var lastRunAt interface{}
	if state.LastRunAt != nil {
		lastRunAt = state.LastRunAt.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_state (job_name, last_run_at, last_status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(job_name) DO UPDATE SET
			last_run_at = excluded.last_run_at,
			last_status = excluded.last_status,
			updated_at  = excluded.updated_at`,
		state.JobName, lastRunAt, state.LastStatus,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrapf(err, "save run state for %s", state.JobName)
	}
	return nil
}
