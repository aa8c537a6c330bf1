package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Riyan-420/CryptoSentinel-V2/config"
	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CryptoSentinel configuration",
	Long: `Manage configuration.

Configuration is merged from built-in defaults, a config.toml found by
walking up from the working directory, and CRYPTOSENTINEL_* environment
variables.

Examples:
  cryptosentinel config show              # Show effective configuration
  cryptosentinel config init              # Write a default config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.toml in the current directory",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	source := config.FindProjectConfig()
	if source == "" {
		source = "(defaults and environment only)"
	}

	fmt.Println("CryptoSentinel Configuration")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Source:              %s\n\n", source)
	fmt.Printf("Database path:       %s\n", cfg.Database.Path)
	fmt.Printf("Server port:         %d\n\n", cfg.Server.Port)
	fmt.Printf("Scheduler tick:      %ds\n", cfg.Scheduler.TickSeconds)
	fmt.Printf("Feature interval:    %dm\n", cfg.Scheduler.FeatureIntervalMinutes)
	fmt.Printf("Training interval:   %dm\n", cfg.Scheduler.TrainingIntervalMinutes)
	fmt.Printf("Inference interval:  %dm\n\n", cfg.Scheduler.InferenceIntervalMinutes)
	fmt.Printf("Market base URL:     %s\n", cfg.Market.BaseURL)
	fmt.Printf("History window:      %dh\n", cfg.Market.HistoryHours)
	fmt.Printf("Rate limit:          %.1f req/min\n\n", cfg.Market.RequestsPerMinute)
	fmt.Printf("Min training rows:   %d\n", cfg.Model.MinTrainingRows)
	fmt.Printf("Ridge alpha:         %.2f\n", cfg.Model.RidgeAlpha)
	fmt.Printf("Drift threshold:     %.2f\n\n", cfg.Model.DriftThreshold)
	fmt.Printf("Horizon:             %dm\n", cfg.Predict.HorizonMinutes)
	fmt.Printf("Direction tolerance: %.2f%%\n", cfg.Predict.DirectionTolerancePct)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault("config.toml"); err != nil {
		return err
	}
	fmt.Println("Wrote config.toml")
	return nil
}
