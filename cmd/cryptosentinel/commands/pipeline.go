package commands

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Riyan-420/CryptoSentinel-V2/config"
	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/logger"
	"github.com/Riyan-420/CryptoSentinel-V2/scheduler"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <feature|training|inference>",
	Short: "Run a single pipeline job once",
	Long: `Run one pipeline job in the foreground and exit.

Useful for backfilling features, forcing a training run, or debugging
inference without starting the daemon.

Examples:
  cryptosentinel pipeline feature     # Fetch prices and engineer features
  cryptosentinel pipeline training    # Train and register a model version
  cryptosentinel pipeline inference   # Generate and validate predictions`,
	Args: cobra.ExactArgs(1),
	RunE: runPipelineJob,
}

var pipelineTimeoutFlag int

func init() {
	pipelineCmd.Flags().IntVar(&pipelineTimeoutFlag, "timeout", 300, "Job timeout in seconds")
}

func runPipelineJob(cmd *cobra.Command, args []string) error {
	name, err := scheduler.ParseJobName(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	log := logger.Logger
	database, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close()

	deps := buildComponents(cfg, database, log)

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(pipelineTimeoutFlag)*time.Second)
	defer cancel()

	spinner, _ := pterm.DefaultSpinner.Start("Running " + string(name) + " job...")

	switch name {
	case scheduler.JobFeature:
		err = deps.pipeline.RunFeature(ctx)
	case scheduler.JobTraining:
		err = deps.pipeline.RunTraining(ctx)
	case scheduler.JobInference:
		// One-off inference needs the active model in memory.
		if err = deps.cache.Reload(ctx, deps.registry); err == nil {
			err = deps.pipeline.RunInference(ctx)
		}
	}

	if err != nil {
		spinner.Fail("Job failed")
		return err
	}
	spinner.Success("Job complete")
	return nil
}
