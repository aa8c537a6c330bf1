package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

func TestRunStateStoreLoadQueryFailure(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectQuery("SELECT job_name").WillReturnError(errors.New("disk I/O error"))

	store := NewSQLiteRunStateStore(database)
	_, err = store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query run state")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStateStoreLoadCorruptTimestamp(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	rows := sqlmock.NewRows([]string{"job_name", "last_run_at", "last_status", "updated_at"}).
		AddRow("feature", "not-a-timestamp", "success", "2025-06-01T12:00:00Z")
	mock.ExpectQuery("SELECT job_name").WillReturnRows(rows)

	store := NewSQLiteRunStateStore(database)
	_, err = store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse last_run_at")
}

func TestRunStateStoreSaveFailure(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectExec("INSERT INTO run_state").WillReturnError(errors.New("database is locked"))

	store := NewSQLiteRunStateStore(database)
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err = store.Save(context.Background(), RunState{
		JobName:    JobFeature,
		LastRunAt:  &ts,
		LastStatus: StatusSuccess,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save run state")
	require.NoError(t, mock.ExpectationsWereMet())
}
