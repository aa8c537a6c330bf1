package predict

import "time"

// Direction labels for stored predictions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Market regime labels derived from trend and volatility features.
const (
	RegimeBullish  = "bullish"
	RegimeBearish  = "bearish"
	RegimeSideways = "sideways"
	RegimeVolatile = "volatile"
)

// Prediction is one stored inference result, later validated against the
// realized price at TargetAt.
type Prediction struct {
	ID                 string     `json:"id"`
	CreatedAt          time.Time  `json:"created_at"`
	TargetAt           time.Time  `json:"target_at"`
	CurrentPrice       float64    `json:"current_price"`
	PredictedPrice     float64    `json:"predicted_price"`
	PredictedDirection string     `json:"predicted_direction"`
	Confidence         float64    `json:"confidence"`
	MarketRegime       string     `json:"market_regime"`
	ModelUsed          string     `json:"model_used"`
	PriceChange        float64    `json:"price_change"`
	PriceChangePct     float64    `json:"price_change_pct"`
	ActualPrice        *float64   `json:"actual_price,omitempty"`
	WasCorrect         *bool      `json:"was_correct,omitempty"`
	ErrorAmount        *float64   `json:"error_amount,omitempty"`
	ValidatedAt        *time.Time `json:"validated_at,omitempty"`
	ValidationNote     string     `json:"validation_note,omitempty"`
}

// AccuracyStats summarizes validated prediction performance.
type AccuracyStats struct {
	Total        int     `json:"total"`
	Validated    int     `json:"validated"`
	Correct      int     `json:"correct"`
	Accuracy     float64 `json:"accuracy"`
	MeanAbsError float64 `json:"mean_abs_error"`
}
