package predict

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/feature"
	"github.com/Riyan-420/CryptoSentinel-V2/market"
)

// PriceSource is the market access the predictor needs.
type PriceSource interface {
	CurrentPrice(ctx context.Context) (*market.CurrentPrice, error)
	PriceHistory(ctx context.Context, hours int) ([]market.PricePoint, error)
}

// Config tunes prediction generation.
type Config struct {
	HorizonMinutes int
	HistoryHours   int
}

// Predictor runs the inference path: fetch recent prices, engineer the
// latest feature vector, run the cached model, persist the prediction.
type Predictor struct {
	cache  *Cache
	source PriceSource
	store  *Store
	cfg    Config
	logger *zap.SugaredLogger
}

func NewPredictor(cache *Cache, source PriceSource, store *Store, cfg Config, logger *zap.SugaredLogger) *Predictor {
	return &Predictor{cache: cache, source: source, store: store, cfg: cfg, logger: logger}
}

// Generate produces and persists one prediction. Returns ErrNoModel when no
// trained model has been loaded yet.
func (p *Predictor) Generate(ctx context.Context) (*Prediction, error) {
	bundle := p.cache.Get()
	if bundle == nil {
		return nil, errors.WithStack(errors.ErrNoModel)
	}

	points, err := p.source.PriceHistory(ctx, p.cfg.HistoryHours)
	if err != nil {
		return nil, errors.Wrap(err, "fetch price history")
	}
	row, err := feature.EngineerLatest(points)
	if err != nil {
		return nil, err
	}

	out := bundle.Predict(row.Vector())
	now := time.Now().UTC()

	pred := &Prediction{
		ID:             uuid.New().String(),
		CreatedAt:      now,
		TargetAt:       now.Add(time.Duration(p.cfg.HorizonMinutes) * time.Minute),
		CurrentPrice:   row.Price,
		PredictedPrice: out.Price,
		Confidence:     out.Confidence,
		MarketRegime:   regime(row),
		ModelUsed:      bundle.BestModel,
		PriceChange:    out.Price - row.Price,
	}
	if out.Direction == 1 {
		pred.PredictedDirection = DirectionUp
	} else {
		pred.PredictedDirection = DirectionDown
	}
	if row.Price != 0 {
		pred.PriceChangePct = pred.PriceChange / row.Price * 100
	}

	if err := p.store.Save(ctx, pred); err != nil {
		return nil, err
	}

	p.logger.Infow("Generated prediction",
		"id", pred.ID,
		"current_price", pred.CurrentPrice,
		"predicted_price", pred.PredictedPrice,
		"direction", pred.PredictedDirection,
		"confidence", pred.Confidence,
		"regime", pred.MarketRegime,
		"model", pred.ModelUsed)
	return pred, nil
}

// regime classifies market conditions from the engineered features.
// Elevated volatility dominates; otherwise the short/long SMA ratio decides
// the trend label.
func regime(row *feature.Row) string {
	if row.Values["volatility"] > 0.5 {
		return RegimeVolatile
	}
	switch ratio := row.Values["sma_5_to_sma_20"]; {
	case ratio > 1.005:
		return RegimeBullish
	case ratio < 0.995:
		return RegimeBearish
	default:
		return RegimeSideways
	}
}
