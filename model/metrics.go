package model

import "math"

// RegressionMetrics is the holdout evaluation for a price regressor.
type RegressionMetrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// ClassificationMetrics is the holdout evaluation for the direction
// classifier.
type ClassificationMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// EvaluateRegressor computes RMSE, MAE and R² of a regressor on a holdout
// split.
func EvaluateRegressor(r Regressor, X [][]float64, y []float64) RegressionMetrics {
	var m RegressionMetrics
	if len(X) == 0 {
		return m
	}

	n := float64(len(y))
	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= n

	var sqErr, absErr, totalVar float64
	for i, row := range X {
		pred := r.Predict(row)
		d := pred - y[i]
		sqErr += d * d
		absErr += math.Abs(d)
		dv := y[i] - yMean
		totalVar += dv * dv
	}

	m.RMSE = math.Sqrt(sqErr / n)
	m.MAE = absErr / n
	if totalVar > 0 {
		m.R2 = 1 - sqErr/totalVar
	}
	return m
}

// EvaluateClassifier computes accuracy, precision, recall and F1 for the
// up-direction class.
func EvaluateClassifier(l *Logistic, X [][]float64, y []int) ClassificationMetrics {
	var m ClassificationMetrics
	if len(X) == 0 {
		return m
	}

	var tp, fp, fn, correct float64
	for i, row := range X {
		pred, _ := l.Classify(row)
		if pred == y[i] {
			correct++
		}
		switch {
		case pred == 1 && y[i] == 1:
			tp++
		case pred == 1 && y[i] == 0:
			fp++
		case pred == 0 && y[i] == 1:
			fn++
		}
	}

	m.Accuracy = correct / float64(len(y))
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
