package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	out := SMA(prices, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestSMAShortSeries(t *testing.T) {
	out := SMA([]float64{1, 2}, 5)
	for _, v := range out {
		assert.True(t, math.IsNaN(v))
	}
}

func TestEMA(t *testing.T) {
	prices := []float64{10, 10, 10, 10}
	out := EMA(prices, 5)

	// A constant series stays constant.
	for _, v := range out {
		assert.InDelta(t, 10.0, v, 1e-9)
	}

	out = EMA([]float64{10, 20}, 3)
	// alpha = 2/(3+1) = 0.5, seeded at 10
	assert.InDelta(t, 10.0, out[0], 1e-9)
	assert.InDelta(t, 15.0, out[1], 1e-9)
}

func TestRSIBounds(t *testing.T) {
	// Monotonically rising prices: RSI should be pinned at 100.
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	out := RSI(rising, RSIPeriod)
	assert.InDelta(t, 100.0, out[len(out)-1], 1e-9)

	// Monotonically falling prices: RSI should be 0.
	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = 200 - float64(i)
	}
	out = RSI(falling, RSIPeriod)
	assert.InDelta(t, 0.0, out[len(out)-1], 1e-9)
}

func TestMACDHistogram(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + math.Sin(float64(i)/5)*10
	}
	macd, sig, hist := MACD(prices, MACDFast, MACDSlow, MACDSignal)
	require.Len(t, hist, len(prices))

	for i := range prices {
		if math.IsNaN(macd[i]) || math.IsNaN(sig[i]) {
			continue
		}
		assert.InDelta(t, macd[i]-sig[i], hist[i], 1e-9)
	}
}

func TestBollingerBands(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i%5)
	}
	upper, middle, lower := Bollinger(prices, BollingerPeriod, BollingerStdDev)

	for i := BollingerPeriod - 1; i < len(prices); i++ {
		assert.False(t, math.IsNaN(middle[i]), "middle band NaN at %d", i)
		assert.GreaterOrEqual(t, upper[i], middle[i])
		assert.LessOrEqual(t, lower[i], middle[i])
	}
}

func TestReturns(t *testing.T) {
	out := Returns([]float64{100, 110, 99})
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 0.10, out[1], 1e-9)
	assert.InDelta(t, -0.10, out[2], 1e-9)
}

func TestLogReturns(t *testing.T) {
	out := LogReturns([]float64{100, 110})
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, math.Log(1.1), out[1], 1e-9)
}

func TestMomentumAndROC(t *testing.T) {
	prices := make([]float64, 15)
	for i := range prices {
		prices[i] = float64(100 + i)
	}

	mom := Momentum(prices, MomentumPeriod)
	assert.InDelta(t, 10.0, mom[14], 1e-9)

	roc := ROC(prices, ROCPeriod)
	assert.InDelta(t, 10.0/104.0*100, roc[14], 1e-9)
}

func TestVolatilityConstantSeries(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100
	}
	out := Volatility(prices, VolatilityPeriod)
	assert.InDelta(t, 0.0, out[len(out)-1], 1e-9)
}
