// Package commands implements the cryptosentinel CLI.
package commands

import (
	"database/sql"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/config"
	"github.com/Riyan-420/CryptoSentinel-V2/db"
	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/feature"
	"github.com/Riyan-420/CryptoSentinel-V2/logger"
	"github.com/Riyan-420/CryptoSentinel-V2/market"
	"github.com/Riyan-420/CryptoSentinel-V2/model"
	"github.com/Riyan-420/CryptoSentinel-V2/pipeline"
	"github.com/Riyan-420/CryptoSentinel-V2/predict"
)

var rootCmd = &cobra.Command{
	Use:   "cryptosentinel",
	Short: "Bitcoin price prediction dashboard",
	Long: `CryptoSentinel - Bitcoin price prediction dashboard.

Fetches market data from CoinGecko, engineers technical-indicator features,
trains prediction models on a schedule, and serves live predictions over
HTTP and WebSocket.

Available commands:
  run       - Start the full daemon (scheduler + dashboard server)
  pipeline  - Run a single pipeline job once
  config    - Manage configuration
  db        - Manage the database
  version   - Show version information

Examples:
  cryptosentinel run                 # Start the daemon
  cryptosentinel pipeline training   # Train models once and exit
  cryptosentinel config show         # Show effective configuration
  cryptosentinel db stats            # Show database statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return errors.Wrap(err, "initialize logger")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs instead of console output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pipelineCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openDatabase opens and migrates the configured database.
func openDatabase(cfg *config.Config, log *zap.SugaredLogger) (*sql.DB, error) {
	return db.OpenWithMigrations(cfg.Database.Path, log)
}

// components is the assembled dependency graph shared by run and pipeline.
type components struct {
	market    *market.Client
	features  *feature.Store
	registry  *model.Registry
	cache     *predict.Cache
	preds     *predict.Store
	alerts    *predict.AlertManager
	predictor *predict.Predictor
	validator *predict.Validator
	pipeline  *pipeline.Pipeline
}

func buildComponents(cfg *config.Config, database *sql.DB, log *zap.SugaredLogger) *components {
	client := market.NewClient(market.Config{
		BaseURL:           cfg.Market.BaseURL,
		Timeout:           time.Duration(cfg.Market.TimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.Market.RequestsPerMinute,
	}, log.Named("market"))

	features := feature.NewStore(database)
	registry := model.NewRegistry(database)
	cache := predict.NewCache()
	preds := predict.NewStore(database)
	alerts := predict.NewAlertManager(predict.Thresholds{
		PriceChangePct: cfg.Alerts.PriceChangePct,
		Volatility:     cfg.Alerts.Volatility,
		DeviationPct:   cfg.Alerts.DeviationPct,
	})

	predictor := predict.NewPredictor(cache, client, preds, predict.Config{
		HorizonMinutes: cfg.Predict.HorizonMinutes,
		HistoryHours:   cfg.Market.HistoryHours,
	}, log.Named("predict"))
	validator := predict.NewValidator(preds, client, cfg.Predict.DirectionTolerancePct, log.Named("predict"))

	pipe := pipeline.New(client, features, registry, predictor, validator, alerts, pipeline.Config{
		HistoryHours:    cfg.Market.HistoryHours,
		HorizonMinutes:  cfg.Predict.HorizonMinutes,
		TrainingRows:    2000,
		MinTrainingRows: cfg.Model.MinTrainingRows,
		RidgeAlpha:      cfg.Model.RidgeAlpha,
		DriftThreshold:  cfg.Model.DriftThreshold,
	}, log.Named("pipeline"))

	return &components{
		market:    client,
		features:  features,
		registry:  registry,
		cache:     cache,
		preds:     preds,
		alerts:    alerts,
		predictor: predictor,
		validator: validator,
		pipeline:  pipe,
	}
}
