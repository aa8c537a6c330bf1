package predict

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// Validation notes. A realized move smaller than the tolerance is treated
// as sideways noise and settled incorrect regardless of the direction call,
// so flat markets cannot inflate accuracy.
const (
	noteWithinTolerance    = "price_within_tolerance"
	noteDirectionValidated = "direction_validated"
)

// Validator settles matured predictions against the realized price.
type Validator struct {
	store        *Store
	source       PriceSource
	tolerancePct float64
	logger       *zap.SugaredLogger
}

func NewValidator(store *Store, source PriceSource, tolerancePct float64, logger *zap.SugaredLogger) *Validator {
	return &Validator{store: store, source: source, tolerancePct: tolerancePct, logger: logger}
}

// Validate settles all predictions whose target time has passed. A
// prediction is correct when the realized move exceeded the percentage
// tolerance and the direction call matches it; moves inside the tolerance
// settle incorrect with a note.
func (v *Validator) Validate(ctx context.Context) (int, error) {
	pending, err := v.store.Pending(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	quote, err := v.source.CurrentPrice(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "fetch price for validation")
	}
	actual := quote.Price

	settled := 0
	for _, p := range pending {
		correct, note := v.judge(&p, actual)
		errAmount := math.Abs(actual - p.PredictedPrice)
		if err := v.store.MarkValidated(ctx, p.ID, actual, correct, errAmount, note); err != nil {
			return settled, err
		}
		settled++

		v.logger.Debugw("Validated prediction",
			"id", p.ID,
			"predicted", p.PredictedPrice,
			"actual", actual,
			"correct", correct,
			"note", note)
	}
	return settled, nil
}

func (v *Validator) judge(p *Prediction, actual float64) (bool, string) {
	if p.CurrentPrice == 0 {
		return false, noteWithinTolerance
	}

	actualChange := actual - p.CurrentPrice
	changePct := math.Abs(actualChange / p.CurrentPrice * 100)
	if changePct < v.tolerancePct {
		return false, noteWithinTolerance
	}

	actualDirection := DirectionDown
	if actualChange > 0 {
		actualDirection = DirectionUp
	}
	return actualDirection == p.PredictedDirection, noteDirectionValidated
}
