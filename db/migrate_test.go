package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer database.Close()

	// All expected tables exist after migration
	for _, table := range []string{"schema_migrations", "run_state", "features", "model_versions", "predictions"} {
		var count int
		err := database.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist after migrations", table)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer database.Close()

	// Running migrations again is a no-op
	require.NoError(t, Migrate(database, nil))

	var versions int
	err = database.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions)
	require.NoError(t, err)
	assert.Equal(t, 5, versions)
}
