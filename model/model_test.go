package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalerFitTransform(t *testing.T) {
	X := [][]float64{{1, 100}, {2, 200}, {3, 300}}
	s := &Scaler{}
	require.NoError(t, s.Fit(X))

	out := s.Transform(X)
	for j := 0; j < 2; j++ {
		var mean float64
		for i := range out {
			mean += out[i][j]
		}
		assert.InDelta(t, 0.0, mean/3, 1e-9)
	}
	// Middle row sits at the mean.
	assert.InDelta(t, 0.0, out[1][0], 1e-9)
	assert.InDelta(t, 0.0, out[1][1], 1e-9)
}

func TestScalerConstantColumn(t *testing.T) {
	X := [][]float64{{5, 1}, {5, 2}, {5, 3}}
	s := &Scaler{}
	require.NoError(t, s.Fit(X))

	out := s.Transform(X)
	for i := range out {
		assert.False(t, math.IsNaN(out[i][0]))
		assert.InDelta(t, 0.0, out[i][0], 1e-9)
	}
}

func TestScalerEmptyMatrix(t *testing.T) {
	s := &Scaler{}
	assert.Error(t, s.Fit(nil))
}

func TestRidgeRecoversLinearFunction(t *testing.T) {
	// y = 3*x1 - 2*x2 + 5
	var X [][]float64
	var y []float64
	for i := 0; i < 50; i++ {
		x1 := float64(i%10) - 5
		x2 := float64((i*7)%13) - 6
		X = append(X, []float64{x1, x2})
		y = append(y, 3*x1-2*x2+5)
	}

	r := NewRidge(1e-6)
	require.NoError(t, r.Fit(X, y))

	assert.InDelta(t, 3.0, r.Weights[0], 1e-3)
	assert.InDelta(t, -2.0, r.Weights[1], 1e-3)
	assert.InDelta(t, 5.0, r.Bias, 1e-3)
	assert.InDelta(t, 3*2.0-2*1.0+5, r.Predict([]float64{2, 1}), 1e-3)
}

func TestRidgeInvalidShape(t *testing.T) {
	r := NewRidge(1.0)
	assert.Error(t, r.Fit(nil, nil))
	assert.Error(t, r.Fit([][]float64{{1}}, []float64{1, 2}))
}

func TestGradientLinearConverges(t *testing.T) {
	// Scaled inputs, y = 2*x + 1
	var X [][]float64
	var y []float64
	for i := -10; i <= 10; i++ {
		x := float64(i) / 10
		X = append(X, []float64{x})
		y = append(y, 2*x+1)
	}

	g := NewGradientLinear()
	require.NoError(t, g.Fit(X, y))

	assert.InDelta(t, 2.0, g.Weights[0], 0.05)
	assert.InDelta(t, 1.0, g.Bias, 0.05)
}

func TestMomentumBaseline(t *testing.T) {
	// Target depends only on the second feature: y = 4*x2 - 1
	var X [][]float64
	var y []float64
	for i := 0; i < 20; i++ {
		x2 := float64(i)
		X = append(X, []float64{99, x2})
		y = append(y, 4*x2-1)
	}

	b := NewMomentumBaseline(1)
	require.NoError(t, b.Fit(X, y))
	assert.InDelta(t, 4.0, b.Slope, 1e-9)
	assert.InDelta(t, -1.0, b.Intercept, 1e-9)
}

func TestMomentumBaselineConstantFeature(t *testing.T) {
	X := [][]float64{{1}, {1}, {1}}
	y := []float64{2, 4, 6}

	b := NewMomentumBaseline(0)
	require.NoError(t, b.Fit(X, y))
	assert.Zero(t, b.Slope)
	assert.InDelta(t, 4.0, b.Intercept, 1e-9)
}

func TestLogisticSeparableData(t *testing.T) {
	// Positive x -> up, negative x -> down.
	var X [][]float64
	var y []int
	for i := -20; i <= 20; i++ {
		if i == 0 {
			continue
		}
		x := float64(i) / 10
		X = append(X, []float64{x})
		if i > 0 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}

	l := NewLogistic()
	require.NoError(t, l.Fit(X, y))

	dir, conf := l.Classify([]float64{1.5})
	assert.Equal(t, 1, dir)
	assert.Greater(t, conf, 0.5)

	dir, conf = l.Classify([]float64{-1.5})
	assert.Equal(t, 0, dir)
	assert.Greater(t, conf, 0.5)

	metrics := EvaluateClassifier(l, X, y)
	assert.Greater(t, metrics.Accuracy, 0.9)
	assert.Greater(t, metrics.F1, 0.9)
}

func TestEvaluateRegressorPerfectFit(t *testing.T) {
	r := NewRidge(1e-9)
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{2, 4, 6, 8}
	require.NoError(t, r.Fit(X, y))

	m := EvaluateRegressor(r, X, y)
	assert.InDelta(t, 0.0, m.RMSE, 1e-3)
	assert.InDelta(t, 0.0, m.MAE, 1e-3)
	assert.InDelta(t, 1.0, m.R2, 1e-3)
}

func TestSolveLinearSystemSingular(t *testing.T) {
	A := [][]float64{{1, 2}, {2, 4}}
	b := []float64{1, 2}
	_, err := solveLinearSystem(A, b)
	assert.Error(t, err)
}
