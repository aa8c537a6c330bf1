package model

import (
	"math"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// Logistic is a logistic-regression direction classifier trained by batch
// gradient descent. Output is the probability that the price moves up over
// the prediction horizon.
type Logistic struct {
	LearningRate float64   `json:"learning_rate"`
	Epochs       int       `json:"epochs"`
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
}

func NewLogistic() *Logistic {
	return &Logistic{LearningRate: 0.1, Epochs: 300}
}

func (l *Logistic) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.Newf("invalid training shape: %d rows, %d targets", len(X), len(y))
	}
	cols := len(X[0])
	l.Weights = make([]float64, cols)
	l.Bias = 0

	n := float64(len(X))
	for epoch := 0; epoch < l.Epochs; epoch++ {
		gradW := make([]float64, cols)
		var gradB float64
		for i, row := range X {
			err := l.Probability(row) - float64(y[i])
			for j, v := range row {
				gradW[j] += err * v
			}
			gradB += err
		}
		for j := range l.Weights {
			l.Weights[j] -= l.LearningRate * gradW[j] / n
		}
		l.Bias -= l.LearningRate * gradB / n
	}
	return nil
}

// Probability returns P(direction = up) for a scaled feature vector.
func (l *Logistic) Probability(x []float64) float64 {
	return sigmoid(dot(l.Weights, x) + l.Bias)
}

// Classify returns the predicted direction (1 up, 0 down) and the model's
// confidence in that call.
func (l *Logistic) Classify(x []float64) (direction int, confidence float64) {
	p := l.Probability(x)
	if p >= 0.5 {
		return 1, p
	}
	return 0, 1 - p
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
