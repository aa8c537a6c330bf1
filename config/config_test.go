package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Scheduler.TickSeconds)
	assert.Equal(t, 5, cfg.Scheduler.FeatureIntervalMinutes)
	assert.Equal(t, 30, cfg.Scheduler.TrainingIntervalMinutes)
	assert.Equal(t, 5, cfg.Scheduler.InferenceIntervalMinutes)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.Market.BaseURL)
	assert.Equal(t, 30, cfg.Predict.HorizonMinutes)
	assert.InDelta(t, 5.0, cfg.Alerts.PriceChangePct, 1e-9)
	assert.InDelta(t, 0.5, cfg.Alerts.Volatility, 1e-9)
	assert.InDelta(t, 3.0, cfg.Alerts.DeviationPct, 1e-9)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scheduler]
tick_seconds = 10
feature_interval_minutes = 2

[database]
path = "/tmp/test.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Scheduler.TickSeconds)
	assert.Equal(t, 2, cfg.Scheduler.FeatureIntervalMinutes)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	// Unset values keep defaults
	assert.Equal(t, 30, cfg.Scheduler.TrainingIntervalMinutes)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, WriteDefault(path))

	// Written file round-trips through the loader
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Scheduler.TickSeconds)
	assert.Equal(t, "cryptosentinel.db", cfg.Database.Path)

	// Refuses to overwrite
	assert.Error(t, WriteDefault(path))
}
