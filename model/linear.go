package model

import (
	"math"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// Regressor is a price model that can be fit on a feature matrix and asked
// for point predictions.
type Regressor interface {
	Name() string
	Fit(X [][]float64, y []float64) error
	Predict(x []float64) float64
}

// Ridge is linear regression with L2 regularization, solved in closed form
// via the normal equations (X'X + alpha*I) w = X'y. The intercept is carried
// as an augmented column and left unpenalized.
type Ridge struct {
	Alpha   float64   `json:"alpha"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha}
}

func (r *Ridge) Name() string { return "ridge" }

func (r *Ridge) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.Newf("invalid training shape: %d rows, %d targets", len(X), len(y))
	}
	cols := len(X[0])
	dim := cols + 1 // intercept column

	// Build the normal-equation system A w = b with A = X'X + alpha*I.
	A := make([][]float64, dim)
	for i := range A {
		A[i] = make([]float64, dim)
	}
	b := make([]float64, dim)

	for i, row := range X {
		for j := 0; j < cols; j++ {
			for k := j; k < cols; k++ {
				A[j][k] += row[j] * row[k]
			}
			A[j][cols] += row[j]
			b[j] += row[j] * y[i]
		}
		b[cols] += y[i]
	}
	A[cols][cols] = float64(len(X))
	// A is symmetric; mirror the upper triangle and regularize the
	// feature weights only.
	for j := 0; j < dim; j++ {
		for k := j + 1; k < dim; k++ {
			A[k][j] = A[j][k]
		}
	}
	for j := 0; j < cols; j++ {
		A[j][j] += r.Alpha
	}

	w, err := solveLinearSystem(A, b)
	if err != nil {
		return errors.Wrap(err, "ridge normal equations")
	}
	r.Weights = w[:cols]
	r.Bias = w[cols]
	return nil
}

func (r *Ridge) Predict(x []float64) float64 {
	return dot(r.Weights, x) + r.Bias
}

// GradientLinear is plain linear regression trained by batch gradient
// descent.
type GradientLinear struct {
	LearningRate float64   `json:"learning_rate"`
	Epochs       int       `json:"epochs"`
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
}

func NewGradientLinear() *GradientLinear {
	return &GradientLinear{LearningRate: 0.05, Epochs: 500}
}

func (g *GradientLinear) Name() string { return "gradient_linear" }

func (g *GradientLinear) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.Newf("invalid training shape: %d rows, %d targets", len(X), len(y))
	}
	cols := len(X[0])
	g.Weights = make([]float64, cols)

	// Center the target so the bias converges quickly even when prices
	// are far from zero.
	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(len(y))
	g.Bias = yMean

	n := float64(len(X))
	for epoch := 0; epoch < g.Epochs; epoch++ {
		gradW := make([]float64, cols)
		var gradB float64
		for i, row := range X {
			err := g.Predict(row) - y[i]
			for j, v := range row {
				gradW[j] += err * v
			}
			gradB += err
		}
		for j := range g.Weights {
			g.Weights[j] -= g.LearningRate * gradW[j] / n
		}
		g.Bias -= g.LearningRate * gradB / n
	}

	for _, w := range g.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return errors.New("gradient descent diverged")
		}
	}
	return nil
}

func (g *GradientLinear) Predict(x []float64) float64 {
	return dot(g.Weights, x) + g.Bias
}

// solveLinearSystem solves A x = b by Gaussian elimination with partial
// pivoting. A is modified in place.
func solveLinearSystem(A [][]float64, b []float64) ([]float64, error) {
	n := len(A)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(A[row][col]) > math.Abs(A[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(A[pivot][col]) < 1e-12 {
			return nil, errors.New("singular system")
		}
		A[col], A[pivot] = A[pivot], A[col]
		b[col], b[pivot] = b[pivot], b[col]

		for row := col + 1; row < n; row++ {
			factor := A[row][col] / A[col][col]
			for k := col; k < n; k++ {
				A[row][k] -= factor * A[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= A[row][k] * x[k]
		}
		x[row] = sum / A[row][row]
	}
	return x, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
