package feature

import "math"

// Indicator parameters matching the dashboard's configuration.
const (
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	MACDSignal       = 9
	BollingerPeriod  = 20
	BollingerStdDev  = 2.0
	VolatilityPeriod = 20
	MomentumPeriod   = 10
	ROCPeriod        = 10
)

// SMA computes the simple moving average over the trailing period.
// Entries before a full window are NaN.
func SMA(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}
	var sum float64
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes the exponential moving average with span-style smoothing
// (alpha = 2/(span+1)), seeded from the first price.
func EMA(prices []float64, span int) []float64 {
	out := nanSlice(len(prices))
	if span <= 0 || len(prices) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	ema := prices[0]
	out[0] = ema
	for i := 1; i < len(prices); i++ {
		ema = alpha*prices[i] + (1-alpha)*ema
		out[i] = ema
	}
	return out
}

// RSI computes the Relative Strength Index using simple rolling means of
// gains and losses over the period.
func RSI(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if len(prices) <= period {
		return out
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := period; i < len(prices); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD computes the MACD line, signal line and histogram.
func MACD(prices []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)

	macd = make([]float64, len(prices))
	for i := range prices {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	sig = EMA(macd, signal)

	hist = make([]float64, len(prices))
	for i := range prices {
		hist[i] = macd[i] - sig[i]
	}
	return macd, sig, hist
}

// Bollinger computes the upper, middle and lower Bollinger bands.
func Bollinger(prices []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	middle = SMA(prices, period)
	upper = nanSlice(len(prices))
	lower = nanSlice(len(prices))

	for i := period - 1; i < len(prices); i++ {
		mean := middle[i]
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - mean
			variance += d * d
		}
		// Sample standard deviation, matching rolling std elsewhere
		sd := math.Sqrt(variance / float64(period-1))
		upper[i] = mean + stdDev*sd
		lower[i] = mean - stdDev*sd
	}
	return upper, middle, lower
}

// Volatility computes annualized volatility from the rolling standard
// deviation of simple returns.
func Volatility(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	returns := Returns(prices)

	for i := period; i < len(prices); i++ {
		var sum, count float64
		for j := i - period + 1; j <= i; j++ {
			if !math.IsNaN(returns[j]) {
				sum += returns[j]
				count++
			}
		}
		if count < 2 {
			continue
		}
		mean := sum / count
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			if !math.IsNaN(returns[j]) {
				d := returns[j] - mean
				variance += d * d
			}
		}
		out[i] = math.Sqrt(variance/(count-1)) * math.Sqrt(252)
	}
	return out
}

// Momentum computes the price difference over the trailing period.
func Momentum(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	for i := period; i < len(prices); i++ {
		out[i] = prices[i] - prices[i-period]
	}
	return out
}

// ROC computes the rate of change (percent) over the trailing period.
func ROC(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	for i := period; i < len(prices); i++ {
		if prices[i-period] != 0 {
			out[i] = (prices[i] - prices[i-period]) / prices[i-period] * 100
		}
	}
	return out
}

// Returns computes simple period-over-period returns. The first entry is NaN.
func Returns(prices []float64) []float64 {
	out := nanSlice(len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			out[i] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return out
}

// LogReturns computes log returns. The first entry is NaN.
func LogReturns(prices []float64) []float64 {
	out := nanSlice(len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] > 0 && prices[i] > 0 {
			out[i] = math.Log(prices[i] / prices[i-1])
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
