// Package config provides CryptoSentinel configuration via Viper.
//
// Configuration is merged from (lowest to highest precedence): built-in
// defaults, a config.toml discovered by walking up from the working
// directory, and CRYPTOSENTINEL_* environment variables.
package config

// Config represents the core CryptoSentinel configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Market    MarketConfig    `mapstructure:"market"`
	Model     ModelConfig     `mapstructure:"model"`
	Predict   PredictConfig   `mapstructure:"predict"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the dashboard HTTP server
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SchedulerConfig configures the recurring pipeline scheduler
type SchedulerConfig struct {
	// TickSeconds is how often the scheduler checks for due jobs. Must be
	// materially smaller than the shortest job interval.
	TickSeconds int `mapstructure:"tick_seconds"`

	// Job intervals, measured in minutes
	FeatureIntervalMinutes   int `mapstructure:"feature_interval_minutes"`
	TrainingIntervalMinutes  int `mapstructure:"training_interval_minutes"`
	InferenceIntervalMinutes int `mapstructure:"inference_interval_minutes"`
}

// MarketConfig configures the CoinGecko data source
type MarketConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"` // CoinGecko free tier throttles hard
	HistoryHours      int     `mapstructure:"history_hours"`
}

// ModelConfig configures training
type ModelConfig struct {
	MinTrainingRows int     `mapstructure:"min_training_rows"`
	RidgeAlpha      float64 `mapstructure:"ridge_alpha"`
	DriftThreshold  float64 `mapstructure:"drift_threshold"`
}

// PredictConfig configures inference and validation
type PredictConfig struct {
	// HorizonMinutes is how far ahead each prediction looks
	HorizonMinutes int `mapstructure:"horizon_minutes"`
	// DirectionTolerancePct marks near-flat price movement as an incorrect
	// call rather than crediting the predicted direction
	DirectionTolerancePct float64 `mapstructure:"direction_tolerance_pct"`
}

// AlertsConfig sets the thresholds at which alerts are raised
type AlertsConfig struct {
	// PriceChangePct is the absolute 24h price move, in percent
	PriceChangePct float64 `mapstructure:"price_change_pct"`
	// Volatility is the annualized volatility level
	Volatility float64 `mapstructure:"volatility"`
	// DeviationPct is the absolute predicted move, in percent
	DeviationPct float64 `mapstructure:"deviation_pct"`
}
