package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// defaultFileConfig mirrors Config with toml tags for writing a starter file.
// Viper reads it back through the same mapstructure keys.
type defaultFileConfig struct {
	Database  map[string]any `toml:"database"`
	Scheduler map[string]any `toml:"scheduler"`
	Market    map[string]any `toml:"market"`
	Model     map[string]any `toml:"model"`
	Predict   map[string]any `toml:"predict"`
	Alerts    map[string]any `toml:"alerts"`
	Server    map[string]any `toml:"server"`
}

// WriteDefault writes a config.toml populated with the built-in defaults.
// Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path)
	}

	cfg := defaultFileConfig{
		Database: map[string]any{
			"path": "cryptosentinel.db",
		},
		Scheduler: map[string]any{
			"tick_seconds":               30,
			"feature_interval_minutes":   5,
			"training_interval_minutes":  30,
			"inference_interval_minutes": 5,
		},
		Market: map[string]any{
			"base_url":            "https://api.coingecko.com/api/v3",
			"timeout_seconds":     10,
			"requests_per_minute": 10.0,
			"history_hours":       24,
		},
		Model: map[string]any{
			"min_training_rows": 50,
			"ridge_alpha":       1.0,
			"drift_threshold":   0.3,
		},
		Predict: map[string]any{
			"horizon_minutes":         30,
			"direction_tolerance_pct": 0.1,
		},
		Alerts: map[string]any{
			"price_change_pct": 5.0,
			"volatility":       0.5,
			"deviation_pct":    3.0,
		},
		Server: map[string]any{
			"port": DefaultServerPort,
		},
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal default config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return nil
}
