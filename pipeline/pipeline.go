// Package pipeline implements the three scheduled jobs: feature
// engineering, model training, and inference with validation.
package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/feature"
	"github.com/Riyan-420/CryptoSentinel-V2/model"
	"github.com/Riyan-420/CryptoSentinel-V2/predict"
)

// driftWindow is the number of recent feature rows compared against the
// preceding window when checking for distribution drift.
const driftWindow = 100

// Config tunes the pipeline jobs.
type Config struct {
	HistoryHours    int
	HorizonMinutes  int
	TrainingRows    int
	MinTrainingRows int
	RidgeAlpha      float64
	DriftThreshold  float64
}

// Pipeline wires the market client, stores and models into the job actions
// the scheduler runs.
type Pipeline struct {
	source    predict.PriceSource
	features  *feature.Store
	registry  *model.Registry
	predictor *predict.Predictor
	validator *predict.Validator
	alerts    *predict.AlertManager
	cfg       Config
	logger    *zap.SugaredLogger

	mu        sync.Mutex
	lastDrift *feature.DriftReport
}

func New(source predict.PriceSource, features *feature.Store, registry *model.Registry,
	predictor *predict.Predictor, validator *predict.Validator,
	alerts *predict.AlertManager, cfg Config, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		source:    source,
		features:  features,
		registry:  registry,
		predictor: predictor,
		validator: validator,
		alerts:    alerts,
		cfg:       cfg,
		logger:    logger,
	}
}

// horizonPeriods converts the prediction horizon to a number of 5-minute
// observations, matching the price history granularity.
func (p *Pipeline) horizonPeriods() int {
	periods := p.cfg.HorizonMinutes / 5
	if periods < 1 {
		periods = 1
	}
	return periods
}

// RunFeature fetches recent price history, engineers feature rows, persists
// the new ones, and checks for feature drift.
func (p *Pipeline) RunFeature(ctx context.Context) error {
	points, err := p.source.PriceHistory(ctx, p.cfg.HistoryHours)
	if err != nil {
		return errors.Wrap(err, "fetch price history")
	}

	rows := feature.Engineer(points, p.horizonPeriods())
	inserted, err := p.features.Save(ctx, rows)
	if err != nil {
		return err
	}
	p.logger.Infow("Feature job complete",
		"points", len(points), "rows", len(rows), "inserted", inserted)

	if quote, err := p.source.CurrentPrice(ctx); err == nil && len(rows) > 0 {
		volatility := rows[len(rows)-1].Values["volatility"]
		p.alerts.EvaluateMarket(quote, volatility)
	}

	p.checkDrift(ctx)
	return nil
}

// RunTraining trains on the stored feature rows and registers the winning
// bundle as the active model version.
func (p *Pipeline) RunTraining(ctx context.Context) error {
	rows, err := p.features.Latest(ctx, p.cfg.TrainingRows)
	if err != nil {
		return err
	}

	bundle, err := model.Train(rows, model.TrainConfig{
		MinRows:    p.cfg.MinTrainingRows,
		RidgeAlpha: p.cfg.RidgeAlpha,
	})
	if err != nil {
		return err
	}

	id, err := p.registry.Register(ctx, bundle)
	if err != nil {
		return err
	}

	p.logger.Infow("Training job complete",
		"version", bundle.Version,
		"id", id,
		"best_model", bundle.BestModel,
		"rmse", bundle.Metrics[bundle.BestModel].RMSE,
		"rows", bundle.Rows)
	return nil
}

// RunInference generates a prediction from the cached model, evaluates
// prediction alerts, and settles any matured predictions.
func (p *Pipeline) RunInference(ctx context.Context) error {
	pred, err := p.predictor.Generate(ctx)
	if err != nil {
		return err
	}
	p.alerts.EvaluatePrediction(pred)

	settled, err := p.validator.Validate(ctx)
	if err != nil {
		p.logger.Warnw("Prediction validation failed", "error", err)
	} else if settled > 0 {
		p.logger.Infow("Settled predictions", "count", settled)
	}
	return nil
}

// RunValidation settles matured predictions out of band, returning the
// number settled. The inference job does this on its own cadence; this is
// for manual triggering.
func (p *Pipeline) RunValidation(ctx context.Context) (int, error) {
	return p.validator.Validate(ctx)
}

// LastDrift returns the most recent drift report, or nil before the first
// feature run with enough history.
func (p *Pipeline) LastDrift() *feature.DriftReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastDrift
}

func (p *Pipeline) checkDrift(ctx context.Context) {
	rows, err := p.features.Latest(ctx, 2*driftWindow)
	if err != nil {
		p.logger.Warnw("Drift check skipped", "error", err)
		return
	}
	if len(rows) < 2*driftWindow {
		return
	}

	report := feature.DetectDrift(rows[:driftWindow], rows[driftWindow:], p.cfg.DriftThreshold)
	p.mu.Lock()
	p.lastDrift = &report
	p.mu.Unlock()

	if report.Drifted {
		p.logger.Warnw("Feature drift detected",
			"score", report.Score, "threshold", p.cfg.DriftThreshold)
	}
}
