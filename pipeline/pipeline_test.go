package pipeline

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/feature"
	qtesting "github.com/Riyan-420/CryptoSentinel-V2/internal/testing"
	"github.com/Riyan-420/CryptoSentinel-V2/market"
	"github.com/Riyan-420/CryptoSentinel-V2/model"
	"github.com/Riyan-420/CryptoSentinel-V2/predict"
)

type fakeSource struct {
	quote   *market.CurrentPrice
	history []market.PricePoint
	err     error
}

func (f *fakeSource) CurrentPrice(ctx context.Context) (*market.CurrentPrice, error) {
	return f.quote, f.err
}

func (f *fakeSource) PriceHistory(ctx context.Context, hours int) ([]market.PricePoint, error) {
	return f.history, f.err
}

func makeHistory(n int) []market.PricePoint {
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

type fixture struct {
	pipeline *Pipeline
	cache    *predict.Cache
	registry *model.Registry
	features *feature.Store
	preds    *predict.Store
	source   *fakeSource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := qtesting.CreateTestDB(t)
	logger := zap.NewNop().Sugar()

	source := &fakeSource{
		quote:   &market.CurrentPrice{Price: 53000, ChangePercent24h: 1.0},
		history: makeHistory(400),
	}
	features := feature.NewStore(database)
	registry := model.NewRegistry(database)
	cache := predict.NewCache()
	preds := predict.NewStore(database)
	alerts := predict.NewAlertManager(predict.Thresholds{})
	predictor := predict.NewPredictor(cache, source, preds,
		predict.Config{HorizonMinutes: 30, HistoryHours: 48}, logger)
	validator := predict.NewValidator(preds, source, 0.1, logger)

	p := New(source, features, registry, predictor, validator, alerts, Config{
		HistoryHours:    48,
		HorizonMinutes:  30,
		TrainingRows:    1000,
		MinTrainingRows: 50,
		RidgeAlpha:      1.0,
		DriftThreshold:  0.5,
	}, logger)

	return &fixture{
		pipeline: p,
		cache:    cache,
		registry: registry,
		features: features,
		preds:    preds,
		source:   source,
	}
}

func TestRunFeaturePersistsRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.pipeline.RunFeature(ctx))

	count, err := f.features.Count(ctx)
	require.NoError(t, err)
	assert.Greater(t, count, 300)

	// Same history again: idempotent.
	require.NoError(t, f.pipeline.RunFeature(ctx))
	again, err := f.features.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, count, again)
}

func TestRunFeatureFetchFailure(t *testing.T) {
	f := newFixture(t)
	f.source.err = errors.New("upstream down")

	err := f.pipeline.RunFeature(context.Background())
	require.Error(t, err)
}

func TestRunTrainingRequiresFeatures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.pipeline.RunTraining(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientData))

	require.NoError(t, f.pipeline.RunFeature(ctx))
	require.NoError(t, f.pipeline.RunTraining(ctx))

	bundle, err := f.registry.Active(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.BestModel)
}

func TestRunInferenceNeedsLoadedModel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.pipeline.RunInference(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoModel))

	require.NoError(t, f.pipeline.RunFeature(ctx))
	require.NoError(t, f.pipeline.RunTraining(ctx))
	require.NoError(t, f.cache.Reload(ctx, f.registry))

	require.NoError(t, f.pipeline.RunInference(ctx))

	latest, err := f.preds.Latest(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, latest.ID)
	assert.False(t, math.IsNaN(latest.PredictedPrice))
}

func TestRunValidationNoPending(t *testing.T) {
	f := newFixture(t)

	settled, err := f.pipeline.RunValidation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, settled)
}

func TestDriftReportAfterFeatureRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Nil(t, f.pipeline.LastDrift())
	require.NoError(t, f.pipeline.RunFeature(ctx))

	report := f.pipeline.LastDrift()
	require.NotNil(t, report)
	assert.False(t, math.IsNaN(report.Score))
}
