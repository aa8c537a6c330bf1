package model

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// Registry versions trained bundles in SQLite. Exactly one version is
// active at a time; registering a new bundle promotes it.
type Registry struct {
	db *sql.DB
}

func NewRegistry(db *sql.DB) *Registry {
	return &Registry{db: db}
}

// VersionInfo is a registry listing entry without the bundle payload.
type VersionInfo struct {
	ID        string                       `json:"id"`
	Version   string                       `json:"version"`
	BestModel string                       `json:"best_model"`
	Metrics   map[string]RegressionMetrics `json:"metrics"`
	Active    bool                         `json:"active"`
	CreatedAt time.Time                    `json:"created_at"`
}

// Register stores a bundle and makes it the active version.
func (r *Registry) Register(ctx context.Context, bundle *Bundle) (string, error) {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return "", errors.Wrap(err, "marshal bundle")
	}
	metrics, err := json.Marshal(bundle.Metrics)
	if err != nil {
		return "", errors.Wrap(err, "marshal metrics")
	}
	names, err := json.Marshal(bundle.FeatureNames)
	if err != nil {
		return "", errors.Wrap(err, "marshal feature names")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "begin register")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE model_versions SET active = 0 WHERE active = 1`); err != nil {
		return "", errors.Wrap(err, "deactivate previous versions")
	}

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO model_versions
			(id, version, best_model, bundle, metrics, feature_names, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)`,
		id, bundle.Version, bundle.BestModel, string(payload), string(metrics),
		string(names), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", errors.Wrap(err, "insert model version")
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "commit register")
	}
	return id, nil
}

// Active loads the currently active bundle. Returns ErrNoModel when no
// version has been registered yet.
func (r *Registry) Active(ctx context.Context) (*Bundle, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT bundle FROM model_versions WHERE active = 1 ORDER BY created_at DESC LIMIT 1`).
		Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.WithStack(errors.ErrNoModel)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query active model")
	}

	var bundle Bundle
	if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
		return nil, errors.Wrap(err, "unmarshal bundle")
	}
	return &bundle, nil
}

// Versions lists registered versions, newest first.
func (r *Registry) Versions(ctx context.Context, limit int) ([]VersionInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, best_model, metrics, active, created_at
		FROM model_versions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query model versions")
	}
	defer rows.Close()

	var out []VersionInfo
	for rows.Next() {
		var (
			info      VersionInfo
			metrics   string
			active    int
			createdAt string
		)
		if err := rows.Scan(&info.ID, &info.Version, &info.BestModel, &metrics, &active, &createdAt); err != nil {
			return nil, errors.Wrap(err, "scan model version")
		}
		if err := json.Unmarshal([]byte(metrics), &info.Metrics); err != nil {
			return nil, errors.Wrap(err, "unmarshal metrics")
		}
		info.Active = active == 1
		info.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, info)
	}
	return out, rows.Err()
}
