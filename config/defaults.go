package config

import (
	"github.com/spf13/viper"
)

// Default server port for the dashboard API
const DefaultServerPort = 8000

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "cryptosentinel.db")

	// Scheduler defaults. The tick is deliberately much shorter than the
	// shortest job interval so scheduling jitter stays bounded by one tick.
	v.SetDefault("scheduler.tick_seconds", 30)
	v.SetDefault("scheduler.feature_interval_minutes", 5)
	v.SetDefault("scheduler.training_interval_minutes", 30)
	v.SetDefault("scheduler.inference_interval_minutes", 5)

	// Market data defaults
	v.SetDefault("market.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("market.timeout_seconds", 10)
	v.SetDefault("market.requests_per_minute", 10.0)
	v.SetDefault("market.history_hours", 24)

	// Model training defaults
	v.SetDefault("model.min_training_rows", 50)
	v.SetDefault("model.ridge_alpha", 1.0)
	v.SetDefault("model.drift_threshold", 0.3)

	// Prediction defaults
	v.SetDefault("predict.horizon_minutes", 30)
	v.SetDefault("predict.direction_tolerance_pct", 0.1)

	// Alert thresholds
	v.SetDefault("alerts.price_change_pct", 5.0)
	v.SetDefault("alerts.volatility", 0.5)
	v.SetDefault("alerts.deviation_pct", 3.0)

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"http://127.0.0.1",
	})
}
