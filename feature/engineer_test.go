package feature

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qtesting "github.com/Riyan-420/CryptoSentinel-V2/internal/testing"
	"github.com/Riyan-420/CryptoSentinel-V2/market"
)

func makePoints(n int) []market.PricePoint {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	points := make([]market.PricePoint, n)
	for i := range points {
		points[i] = market.PricePoint{
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute),
			Price:     50000 + float64(i)*10 + math.Sin(float64(i)/3)*50,
		}
	}
	return points
}

func TestEngineerProducesCompleteRows(t *testing.T) {
	points := makePoints(120)
	rows := Engineer(points, 6)
	require.NotEmpty(t, rows)

	names := Names()
	for _, row := range rows {
		vec := row.Vector()
		require.Len(t, vec, len(names))
		for i, v := range vec {
			assert.False(t, math.IsNaN(v), "NaN feature %s at %s", names[i], row.Timestamp)
		}
	}

	// Warm-up rows (longest indicator window) must have been dropped.
	assert.Less(t, len(rows), len(points))
	assert.True(t, rows[0].Timestamp.After(points[MACDSlow-2].Timestamp))
}

func TestEngineerTargets(t *testing.T) {
	points := makePoints(120)
	horizon := 6
	rows := Engineer(points, horizon)
	require.NotEmpty(t, rows)

	byTS := make(map[time.Time]float64, len(points))
	for _, p := range points {
		byTS[p.Timestamp] = p.Price
	}

	for _, row := range rows {
		future, ok := byTS[row.Timestamp.Add(time.Duration(horizon)*5*time.Minute)]
		require.True(t, ok, "no source point at horizon for %s", row.Timestamp)
		assert.InDelta(t, future, row.FuturePrice, 1e-9)
		assert.InDelta(t, (future-row.Price)/row.Price, row.TargetReturn, 1e-9)
		if future > row.Price {
			assert.Equal(t, 1, row.TargetDirection)
		} else {
			assert.Equal(t, 0, row.TargetDirection)
		}
	}
}

func TestEngineerLatest(t *testing.T) {
	points := makePoints(60)
	row, err := EngineerLatest(points)
	require.NoError(t, err)

	assert.True(t, row.Timestamp.Equal(points[len(points)-1].Timestamp))
	assert.Zero(t, row.FuturePrice)
	assert.Zero(t, row.TargetDirection)
	for i, v := range row.Vector() {
		assert.False(t, math.IsNaN(v), "NaN feature %s", Names()[i])
	}
}

func TestEngineerLatestTooFewPoints(t *testing.T) {
	_, err := EngineerLatest(makePoints(5))
	assert.Error(t, err)
}

func TestEngineerEmptyInput(t *testing.T) {
	assert.Nil(t, Engineer(nil, 6))
	assert.Empty(t, Engineer(makePoints(10), 6))
}

func TestDetectDrift(t *testing.T) {
	reference := Engineer(makePoints(120), 6)
	require.NotEmpty(t, reference)

	// Identical windows: no drift.
	report := DetectDrift(reference, reference, 0.5)
	assert.False(t, report.Drifted)
	assert.InDelta(t, 0.0, report.Score, 1e-9)

	// Shifted prices move the distribution.
	shifted := makePoints(120)
	for i := range shifted {
		shifted[i].Price *= 1.5
	}
	recent := Engineer(shifted, 6)
	report = DetectDrift(reference, recent, 0.5)
	assert.True(t, report.Drifted)
	assert.Greater(t, report.Score, 0.5)
}

func TestDetectDriftEmptyWindows(t *testing.T) {
	report := DetectDrift(nil, nil, 0.5)
	assert.False(t, report.Drifted)
	assert.Zero(t, report.Score)
}

func TestStoreSaveAndLatest(t *testing.T) {
	database := qtesting.CreateTestDB(t)
	store := NewStore(database)
	ctx := context.Background()

	rows := Engineer(makePoints(120), 6)
	require.NotEmpty(t, rows)

	inserted, err := store.Save(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, len(rows), inserted)

	// Saving the same window again is a no-op.
	inserted, err = store.Save(ctx, rows)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(rows), count)

	latest, err := store.Latest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, latest, 10)

	// Chronological order, ending at the newest row.
	for i := 1; i < len(latest); i++ {
		assert.True(t, latest[i].Timestamp.After(latest[i-1].Timestamp))
	}
	last := rows[len(rows)-1]
	got := latest[len(latest)-1]
	assert.True(t, got.Timestamp.Equal(last.Timestamp))
	assert.InDelta(t, last.Price, got.Price, 1e-9)
	assert.InDelta(t, last.Values["rsi"], got.Values["rsi"], 1e-9)
	assert.Equal(t, last.TargetDirection, got.TargetDirection)
}

func TestStoreLatestEmpty(t *testing.T) {
	database := qtesting.CreateTestDB(t)
	store := NewStore(database)

	latest, err := store.Latest(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, latest)
}
