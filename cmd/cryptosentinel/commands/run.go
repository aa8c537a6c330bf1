package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/config"
	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/logger"
	"github.com/Riyan-420/CryptoSentinel-V2/scheduler"
	"github.com/Riyan-420/CryptoSentinel-V2/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the CryptoSentinel daemon",
	Long: `Start the full daemon in foreground mode.

The daemon will:
- Run the pipeline scheduler (feature, training, inference jobs)
- Serve the dashboard API and WebSocket feed
- Reload models automatically after each successful training run
- Watch config.toml and apply interval changes without a restart
- Run until interrupted (Ctrl+C) with graceful shutdown`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
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

	// Warm the model cache from the registry so inference works immediately
	// after a restart. Missing model is fine: the first training run fills it.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if err := deps.cache.Reload(startupCtx, deps.registry); err != nil {
		if errors.Is(err, errors.ErrNoModel) {
			log.Infow("No trained model yet, inference waits for first training run")
		} else {
			log.Warnw("Failed to load active model", "error", err)
		}
	}
	cancelStartup()

	jobs := []scheduler.Job{
		{
			Name:     scheduler.JobFeature,
			Interval: time.Duration(cfg.Scheduler.FeatureIntervalMinutes) * time.Minute,
			Action:   deps.pipeline.RunFeature,
		},
		{
			Name:     scheduler.JobTraining,
			Interval: time.Duration(cfg.Scheduler.TrainingIntervalMinutes) * time.Minute,
			Action:   deps.pipeline.RunTraining,
		},
		{
			Name:     scheduler.JobInference,
			Interval: time.Duration(cfg.Scheduler.InferenceIntervalMinutes) * time.Minute,
			Action:   deps.pipeline.RunInference,
		},
	}

	sched := scheduler.New(
		scheduler.NewSQLiteRunStateStore(database),
		jobs,
		time.Duration(cfg.Scheduler.TickSeconds)*time.Second,
		log.Named("scheduler"),
	)
	sched.SetReloadHook(func(ctx context.Context) error {
		return deps.cache.Reload(ctx, deps.registry)
	})

	srv := server.New(cfg, deps.market, deps.preds, deps.alerts,
		deps.registry, sched, deps.pipeline, log.Named("server"))

	if err := sched.Start(); err != nil {
		return err
	}

	watcher := startConfigWatcher(sched, log)

	fmt.Println("CryptoSentinel daemon started")
	fmt.Printf("  Dashboard:          http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("  Scheduler tick:     %ds\n", cfg.Scheduler.TickSeconds)
	fmt.Printf("  Feature interval:   %dm\n", cfg.Scheduler.FeatureIntervalMinutes)
	fmt.Printf("  Training interval:  %dm\n", cfg.Scheduler.TrainingIntervalMinutes)
	fmt.Printf("  Inference interval: %dm\n", cfg.Scheduler.InferenceIntervalMinutes)
	fmt.Println("\nPress Ctrl+C for graceful shutdown")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Infow("Shutdown signal received", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			log.Errorw("Server failed", "error", err)
		}
	}

	// Stop components in reverse order of startup.
	if watcher != nil {
		watcher.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("Server shutdown incomplete", "error", err)
	}
	sched.Stop()

	fmt.Println("CryptoSentinel daemon stopped")
	return nil
}

// startConfigWatcher applies scheduler interval changes from config.toml
// edits without a restart. Returns nil when no config file is in use.
func startConfigWatcher(sched *scheduler.Scheduler, log *zap.SugaredLogger) *config.Watcher {
	path := config.FindProjectConfig()
	if path == "" {
		return nil
	}

	watcher, err := config.NewWatcher(path)
	if err != nil {
		log.Warnw("Config watcher unavailable", "error", err)
		return nil
	}

	watcher.OnReload(func(cfg *config.Config) error {
		updates := map[scheduler.JobName]time.Duration{
			scheduler.JobFeature:   time.Duration(cfg.Scheduler.FeatureIntervalMinutes) * time.Minute,
			scheduler.JobTraining:  time.Duration(cfg.Scheduler.TrainingIntervalMinutes) * time.Minute,
			scheduler.JobInference: time.Duration(cfg.Scheduler.InferenceIntervalMinutes) * time.Minute,
		}
		for name, interval := range updates {
			if err := sched.UpdateInterval(name, interval); err != nil {
				return err
			}
		}
		log.Infow("Scheduler intervals reloaded from config")
		return nil
	})
	watcher.Start()
	return watcher
}
