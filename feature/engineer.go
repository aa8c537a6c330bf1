// Package feature engineers technical-indicator features from price history
// and persists them in the feature store.
package feature

import (
	"math"
	"strconv"
	"time"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/market"
)

// lagPeriods are the trailing offsets used for lag features.
var lagPeriods = []int{1, 2, 3, 5, 10}

// Row is one engineered observation: the raw price, the named indicator
// values, and the training targets at the prediction horizon.
type Row struct {
	Timestamp       time.Time
	Price           float64
	Values          map[string]float64
	FuturePrice     float64
	TargetDirection int
	TargetReturn    float64
}

// Names returns the ordered feature column names. Model vectors are always
// assembled in this order, so it must stay stable across training and
// inference.
func Names() []string {
	names := []string{
		"returns", "log_returns", "rsi", "macd", "macd_signal", "macd_histogram",
		"bb_width", "bb_position", "sma_5", "sma_10", "sma_20",
		"ema_5", "ema_10", "ema_20", "price_to_sma_20", "sma_5_to_sma_20",
		"volatility", "momentum_10", "roc_10", "hour", "day_of_week", "is_weekend",
	}
	for _, lag := range lagPeriods {
		names = append(names, lagName("price_lag", lag))
	}
	for _, lag := range lagPeriods {
		names = append(names, lagName("returns_lag", lag))
	}
	return names
}

// Vector assembles the row's feature values in Names() order.
func (r *Row) Vector() []float64 {
	names := Names()
	vec := make([]float64, len(names))
	for i, name := range names {
		vec[i] = r.Values[name]
	}
	return vec
}

// Engineer computes all features from a price history series. horizonPeriods
// is how many observations ahead the targets look. Rows containing NaN in
// any feature or target are dropped, so the result is shorter than the input
// by the longest indicator warm-up plus the horizon.
func Engineer(points []market.PricePoint, horizonPeriods int) []Row {
	n := len(points)
	if n == 0 {
		return nil
	}

	prices := make([]float64, n)
	for i, p := range points {
		prices[i] = p.Price
	}

	returns := Returns(prices)
	logReturns := LogReturns(prices)
	rsi := RSI(prices, RSIPeriod)
	macd, macdSignal, macdHist := MACD(prices, MACDFast, MACDSlow, MACDSignal)
	bbUpper, bbMiddle, bbLower := Bollinger(prices, BollingerPeriod, BollingerStdDev)
	sma5 := SMA(prices, 5)
	sma10 := SMA(prices, 10)
	sma20 := SMA(prices, 20)
	ema5 := EMA(prices, 5)
	ema10 := EMA(prices, 10)
	ema20 := EMA(prices, 20)
	volatility := Volatility(prices, VolatilityPeriod)
	momentum := Momentum(prices, MomentumPeriod)
	roc := ROC(prices, ROCPeriod)

	var rows []Row
	for i := 0; i < n; i++ {
		values := map[string]float64{
			"returns":        returns[i],
			"log_returns":    logReturns[i],
			"rsi":            rsi[i],
			"macd":           macd[i],
			"macd_signal":    macdSignal[i],
			"macd_histogram": macdHist[i],
			"sma_5":          sma5[i],
			"sma_10":         sma10[i],
			"sma_20":         sma20[i],
			"ema_5":          ema5[i],
			"ema_10":         ema10[i],
			"ema_20":         ema20[i],
			"volatility":     volatility[i],
			"momentum_10":    momentum[i],
			"roc_10":         roc[i],
		}

		if !math.IsNaN(bbUpper[i]) && bbMiddle[i] != 0 {
			values["bb_width"] = (bbUpper[i] - bbLower[i]) / bbMiddle[i]
		} else {
			values["bb_width"] = math.NaN()
		}
		if band := bbUpper[i] - bbLower[i]; !math.IsNaN(band) && band != 0 {
			values["bb_position"] = (prices[i] - bbLower[i]) / band
		} else {
			values["bb_position"] = math.NaN()
		}

		if !math.IsNaN(sma20[i]) && sma20[i] != 0 {
			values["price_to_sma_20"] = prices[i] / sma20[i]
			values["sma_5_to_sma_20"] = sma5[i] / sma20[i]
		} else {
			values["price_to_sma_20"] = math.NaN()
			values["sma_5_to_sma_20"] = math.NaN()
		}

		// Calendar features from the observation timestamp (UTC)
		ts := points[i].Timestamp.UTC()
		values["hour"] = float64(ts.Hour())
		values["day_of_week"] = float64(int(ts.Weekday()))
		if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
			values["is_weekend"] = 1
		} else {
			values["is_weekend"] = 0
		}

		// Lag features
		for _, lag := range lagPeriods {
			if i >= lag {
				values[lagName("price_lag", lag)] = prices[i-lag]
				values[lagName("returns_lag", lag)] = returns[i-lag]
			} else {
				values[lagName("price_lag", lag)] = math.NaN()
				values[lagName("returns_lag", lag)] = math.NaN()
			}
		}

		// Targets at the prediction horizon
		if i+horizonPeriods >= n {
			continue
		}
		future := prices[i+horizonPeriods]

		if hasNaN(values) {
			continue
		}

		row := Row{
			Timestamp:   points[i].Timestamp,
			Price:       prices[i],
			Values:      values,
			FuturePrice: future,
		}
		if prices[i] != 0 {
			row.TargetReturn = (future - prices[i]) / prices[i]
		}
		if future > prices[i] {
			row.TargetDirection = 1
		}
		rows = append(rows, row)
	}

	return rows
}

// EngineerLatest computes the feature vector for the most recent observation
// only, with no targets. Used at inference time, where the future price is
// what the model is being asked for.
func EngineerLatest(points []market.PricePoint) (*Row, error) {
	rows := Engineer(points, 0)
	if len(rows) == 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientData,
			"%d price points cover no complete indicator window", len(points))
	}
	row := rows[len(rows)-1]
	if !row.Timestamp.Equal(points[len(points)-1].Timestamp) {
		return nil, errors.Wrap(errors.ErrInsufficientData,
			"latest observation has incomplete indicators")
	}
	row.FuturePrice = 0
	row.TargetDirection = 0
	row.TargetReturn = 0
	return &row, nil
}

func hasNaN(values map[string]float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func lagName(prefix string, lag int) string {
	return prefix + "_" + strconv.Itoa(lag)
}
