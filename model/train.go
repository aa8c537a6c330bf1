package model

import (
	"time"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/feature"
)

// baselineFeature is the column the momentum baseline regresses on.
const baselineFeature = "price_lag_1"

// TrainConfig controls a training run.
type TrainConfig struct {
	MinRows    int
	RidgeAlpha float64
}

// Bundle is one trained model version: the fitted scaler, every candidate
// regressor, the direction classifier, and the holdout metrics that picked
// the winner. It serializes to JSON for the registry.
type Bundle struct {
	Version           string                       `json:"version"`
	TrainedAt         time.Time                    `json:"trained_at"`
	Rows              int                          `json:"rows"`
	FeatureNames      []string                     `json:"feature_names"`
	BestModel         string                       `json:"best_model"`
	Scaler            *Scaler                      `json:"scaler"`
	Ridge             *Ridge                       `json:"ridge"`
	Gradient          *GradientLinear              `json:"gradient"`
	Baseline          *MomentumBaseline            `json:"baseline"`
	Classifier        *Logistic                    `json:"classifier"`
	Metrics           map[string]RegressionMetrics `json:"metrics"`
	ClassifierMetrics ClassificationMetrics        `json:"classifier_metrics"`
}

// Prediction is a bundle's combined output for one feature vector.
type Prediction struct {
	Price      float64
	Direction  int
	Confidence float64
}

// Predict scales the raw feature vector and runs the winning regressor and
// the direction classifier.
func (b *Bundle) Predict(features []float64) Prediction {
	scaled := b.Scaler.TransformRow(features)
	direction, confidence := b.Classifier.Classify(scaled)
	return Prediction{
		Price:      b.best().Predict(scaled),
		Direction:  direction,
		Confidence: confidence,
	}
}

func (b *Bundle) best() Regressor {
	switch b.BestModel {
	case "gradient_linear":
		return b.Gradient
	case "momentum_baseline":
		return b.Baseline
	default:
		return b.Ridge
	}
}

// Train fits all candidate models on a chronological 80/20 split of the
// feature rows and selects the regressor with the lowest holdout RMSE.
func Train(rows []feature.Row, cfg TrainConfig) (*Bundle, error) {
	if len(rows) < cfg.MinRows {
		return nil, errors.Wrapf(errors.ErrInsufficientData,
			"%d feature rows, need %d", len(rows), cfg.MinRows)
	}

	names := feature.Names()
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	yDir := make([]int, len(rows))
	for i, row := range rows {
		X[i] = row.Vector()
		y[i] = row.FuturePrice
		yDir[i] = row.TargetDirection
	}

	// Chronological split: the holdout is the most recent 20%.
	split := len(rows) * 8 / 10
	if split == 0 || split == len(rows) {
		return nil, errors.Wrapf(errors.ErrInsufficientData,
			"cannot split %d rows for holdout", len(rows))
	}

	scaler := &Scaler{}
	if err := scaler.Fit(X[:split]); err != nil {
		return nil, err
	}
	trainX := scaler.Transform(X[:split])
	testX := scaler.Transform(X[split:])
	trainY, testY := y[:split], y[split:]
	trainDir, testDir := yDir[:split], yDir[split:]

	bundle := &Bundle{
		Version:      time.Now().UTC().Format("20060102T150405Z"),
		TrainedAt:    time.Now().UTC(),
		Rows:         len(rows),
		FeatureNames: names,
		Scaler:       scaler,
		Ridge:        NewRidge(cfg.RidgeAlpha),
		Gradient:     NewGradientLinear(),
		Baseline:     NewMomentumBaseline(indexOf(names, baselineFeature)),
		Classifier:   NewLogistic(),
		Metrics:      make(map[string]RegressionMetrics),
	}

	regressors := []Regressor{bundle.Ridge, bundle.Gradient, bundle.Baseline}
	for _, r := range regressors {
		if err := r.Fit(trainX, trainY); err != nil {
			return nil, errors.Wrapf(err, "fit %s", r.Name())
		}
		bundle.Metrics[r.Name()] = EvaluateRegressor(r, testX, testY)
	}

	bundle.BestModel = regressors[0].Name()
	for _, r := range regressors[1:] {
		if bundle.Metrics[r.Name()].RMSE < bundle.Metrics[bundle.BestModel].RMSE {
			bundle.BestModel = r.Name()
		}
	}

	if err := bundle.Classifier.Fit(trainX, trainDir); err != nil {
		return nil, errors.Wrap(err, "fit direction classifier")
	}
	bundle.ClassifierMetrics = EvaluateClassifier(bundle.Classifier, testX, testDir)

	return bundle, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}
