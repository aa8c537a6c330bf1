// Package model trains and serves the price-prediction models: a set of
// regressors for the future price, a direction classifier, and the registry
// that versions trained bundles.
package model

import (
	"math"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// Scaler standardizes features to zero mean and unit variance. Fit on the
// training split only; the same parameters are applied at inference.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func (s *Scaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("cannot fit scaler on empty matrix")
	}
	cols := len(X[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	n := float64(len(X))
	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			// Constant column: leave values untouched after centering.
			s.Std[j] = 1
		}
	}
	return nil
}

// Transform returns a new matrix with the fitted standardization applied.
func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.TransformRow(row)
	}
	return out
}

func (s *Scaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}
