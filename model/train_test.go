package model

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/feature"
	qtesting "github.com/Riyan-420/CryptoSentinel-V2/internal/testing"
)

// syntheticRows builds feature rows whose future price is a deterministic
// function of a few named features, so training has real signal.
func syntheticRows(n int) []feature.Row {
	names := feature.Names()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := make([]feature.Row, n)
	for i := range rows {
		values := make(map[string]float64, len(names))
		for j, name := range names {
			values[name] = math.Sin(float64(i+j)/7) + float64(j)/10
		}
		price := 50000 + float64(i)*20
		values["price_lag_1"] = price - 20
		values["momentum_10"] = math.Sin(float64(i) / 5)

		future := price + 100*values["momentum_10"] + 50
		row := feature.Row{
			Timestamp:    start.Add(time.Duration(i) * 5 * time.Minute),
			Price:        price,
			Values:       values,
			FuturePrice:  future,
			TargetReturn: (future - price) / price,
		}
		if future > price {
			row.TargetDirection = 1
		}
		rows[i] = row
	}
	return rows
}

func TestTrainSelectsBestByRMSE(t *testing.T) {
	rows := syntheticRows(200)
	bundle, err := Train(rows, TrainConfig{MinRows: 50, RidgeAlpha: 1.0})
	require.NoError(t, err)

	require.Len(t, bundle.Metrics, 3)
	bestRMSE := bundle.Metrics[bundle.BestModel].RMSE
	for name, m := range bundle.Metrics {
		assert.False(t, math.IsNaN(m.RMSE), "NaN RMSE for %s", name)
		assert.GreaterOrEqual(t, m.RMSE, bestRMSE)
	}

	assert.Equal(t, feature.Names(), bundle.FeatureNames)
	assert.Equal(t, 200, bundle.Rows)
	assert.NotEmpty(t, bundle.Version)
}

func TestTrainInsufficientData(t *testing.T) {
	_, err := Train(syntheticRows(10), TrainConfig{MinRows: 50, RidgeAlpha: 1.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientData))
}

func TestBundlePredict(t *testing.T) {
	rows := syntheticRows(200)
	bundle, err := Train(rows, TrainConfig{MinRows: 50, RidgeAlpha: 1.0})
	require.NoError(t, err)

	pred := bundle.Predict(rows[len(rows)-1].Vector())
	assert.False(t, math.IsNaN(pred.Price))
	assert.Contains(t, []int{0, 1}, pred.Direction)
	assert.GreaterOrEqual(t, pred.Confidence, 0.5)
	assert.LessOrEqual(t, pred.Confidence, 1.0)

	// The winning regressor has real signal: the prediction should land in
	// the neighborhood of the actual future price.
	actual := rows[len(rows)-1].FuturePrice
	assert.InDelta(t, actual, pred.Price, actual*0.05)
}

func TestRegistryActivateAndList(t *testing.T) {
	database := qtesting.CreateTestDB(t)
	registry := NewRegistry(database)
	ctx := context.Background()

	_, err := registry.Active(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoModel))

	first, err := Train(syntheticRows(200), TrainConfig{MinRows: 50, RidgeAlpha: 1.0})
	require.NoError(t, err)
	firstID, err := registry.Register(ctx, first)
	require.NoError(t, err)

	active, err := registry.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Version, active.Version)
	assert.Equal(t, first.BestModel, active.BestModel)

	// A reloaded bundle predicts identically to the original.
	vec := syntheticRows(1)[0].Vector()
	assert.InDelta(t, first.Predict(vec).Price, active.Predict(vec).Price, 1e-9)

	second, err := Train(syntheticRows(250), TrainConfig{MinRows: 50, RidgeAlpha: 1.0})
	require.NoError(t, err)
	secondID, err := registry.Register(ctx, second)
	require.NoError(t, err)
	require.NotEqual(t, firstID, secondID)

	versions, err := registry.Versions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	var activeCount int
	for _, v := range versions {
		if v.Active {
			activeCount++
			assert.Equal(t, secondID, v.ID)
		}
	}
	assert.Equal(t, 1, activeCount)
}
