package model

import "github.com/Riyan-420/CryptoSentinel-V2/errors"

// MomentumBaseline is a single-feature linear model fitted on one column of
// the feature matrix by ordinary least squares. It anchors model selection:
// a trained model that cannot beat it on the holdout split is not worth
// promoting.
type MomentumBaseline struct {
	FeatureIndex int     `json:"feature_index"`
	Slope        float64 `json:"slope"`
	Intercept    float64 `json:"intercept"`
}

func NewMomentumBaseline(featureIndex int) *MomentumBaseline {
	return &MomentumBaseline{FeatureIndex: featureIndex}
}

func (m *MomentumBaseline) Name() string { return "momentum_baseline" }

func (m *MomentumBaseline) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.Newf("invalid training shape: %d rows, %d targets", len(X), len(y))
	}
	if m.FeatureIndex < 0 || m.FeatureIndex >= len(X[0]) {
		return errors.Newf("baseline feature index %d out of range", m.FeatureIndex)
	}

	n := float64(len(X))
	var sumX, sumY, sumXY, sumXX float64
	for i, row := range X {
		v := row[m.FeatureIndex]
		sumX += v
		sumY += y[i]
		sumXY += v * y[i]
		sumXX += v * v
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// Constant feature: fall back to predicting the mean target.
		m.Slope = 0
		m.Intercept = sumY / n
		return nil
	}
	m.Slope = (n*sumXY - sumX*sumY) / denom
	m.Intercept = (sumY - m.Slope*sumX) / n
	return nil
}

func (m *MomentumBaseline) Predict(x []float64) float64 {
	return m.Slope*x[m.FeatureIndex] + m.Intercept
}
