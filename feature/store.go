package feature

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// Store persists engineered feature rows in SQLite. Rows are keyed by their
// observation timestamp, so re-engineering an overlapping window is
// idempotent.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts rows, silently skipping timestamps already present. It
// returns the number of newly inserted rows.
func (s *Store) Save(ctx context.Context, rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin feature insert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO features
			(ts, price, indicators, future_price, target_direction, target_return, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "prepare feature insert")
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, row := range rows {
		indicators, err := json.Marshal(row.Values)
		if err != nil {
			return 0, errors.Wrap(err, "marshal indicators")
		}
		res, err := stmt.ExecContext(ctx,
			row.Timestamp.UTC().UnixMilli(), row.Price, string(indicators),
			row.FuturePrice, row.TargetDirection, row.TargetReturn, now)
		if err != nil {
			return 0, errors.Wrapf(err, "insert feature row at %s", row.Timestamp)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit feature insert")
	}
	return inserted, nil
}

// Latest returns up to limit rows, most recent last (chronological order).
func (s *Store) Latest(ctx context.Context, limit int) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, price, indicators, future_price, target_direction, target_return
		FROM (
			SELECT * FROM features ORDER BY ts DESC LIMIT ?
		) ORDER BY ts ASC`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query features")
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			ts         int64
			indicators string
			row        Row
		)
		if err := rows.Scan(&ts, &row.Price, &indicators,
			&row.FuturePrice, &row.TargetDirection, &row.TargetReturn); err != nil {
			return nil, errors.Wrap(err, "scan feature row")
		}
		row.Timestamp = time.UnixMilli(ts).UTC()
		if err := json.Unmarshal([]byte(indicators), &row.Values); err != nil {
			return nil, errors.Wrap(err, "unmarshal indicators")
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the total number of stored feature rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM features`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count features")
	}
	return n, nil
}
