package predict

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Riyan-420/CryptoSentinel-V2/market"
)

// Default alert thresholds, used where the config leaves one unset.
const (
	defaultAlertPriceChangePct = 5.0
	defaultAlertVolatility     = 0.5
	defaultAlertDeviationPct   = 3.0

	maxAlertHistory = 100
)

// Thresholds configures when alert rules fire. Zero or negative values fall
// back to the defaults.
type Thresholds struct {
	// PriceChangePct is the absolute 24h move, in percent, above which a
	// price-change alert is raised.
	PriceChangePct float64
	// Volatility is the annualized volatility above which a volatility
	// alert is raised.
	Volatility float64
	// DeviationPct is the absolute predicted move, in percent, above which
	// a prediction-deviation alert is raised.
	DeviationPct float64
}

// Alert severity levels.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Alert is one raised market or model condition.
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertSummary aggregates the retained alert history.
type AlertSummary struct {
	Total      int            `json:"total"`
	ByType     map[string]int `json:"by_type"`
	BySeverity map[string]int `json:"by_severity"`
	Latest     *Alert         `json:"latest,omitempty"`
}

// AlertManager evaluates alert rules and retains a bounded in-memory
// history, newest first.
type AlertManager struct {
	thresholds Thresholds

	mu     sync.Mutex
	alerts []Alert
}

func NewAlertManager(thresholds Thresholds) *AlertManager {
	if thresholds.PriceChangePct <= 0 {
		thresholds.PriceChangePct = defaultAlertPriceChangePct
	}
	if thresholds.Volatility <= 0 {
		thresholds.Volatility = defaultAlertVolatility
	}
	if thresholds.DeviationPct <= 0 {
		thresholds.DeviationPct = defaultAlertDeviationPct
	}
	return &AlertManager{thresholds: thresholds}
}

// EvaluateMarket raises alerts for large 24h moves and elevated volatility.
func (m *AlertManager) EvaluateMarket(quote *market.CurrentPrice, volatility float64) []Alert {
	var raised []Alert
	if math.Abs(quote.ChangePercent24h) > m.thresholds.PriceChangePct {
		raised = append(raised, m.raise("price_change", SeverityWarning,
			"24h price change exceeds threshold", quote.ChangePercent24h, m.thresholds.PriceChangePct))
	}
	if volatility > m.thresholds.Volatility {
		raised = append(raised, m.raise("volatility", SeverityWarning,
			"annualized volatility exceeds threshold", volatility, m.thresholds.Volatility))
	}
	return raised
}

// EvaluatePrediction raises an alert when the model's predicted move
// deviates sharply from the current price.
func (m *AlertManager) EvaluatePrediction(p *Prediction) []Alert {
	var raised []Alert
	if math.Abs(p.PriceChangePct) > m.thresholds.DeviationPct {
		raised = append(raised, m.raise("prediction_deviation", SeverityInfo,
			"predicted move deviates sharply from current price", p.PriceChangePct, m.thresholds.DeviationPct))
	}
	return raised
}

// Recent returns up to limit alerts, newest first.
func (m *AlertManager) Recent(limit int) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.alerts) {
		limit = len(m.alerts)
	}
	out := make([]Alert, limit)
	copy(out, m.alerts[:limit])
	return out
}

// Summary aggregates the retained history.
func (m *AlertManager) Summary() AlertSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := AlertSummary{
		Total:      len(m.alerts),
		ByType:     make(map[string]int),
		BySeverity: make(map[string]int),
	}
	for _, a := range m.alerts {
		summary.ByType[a.Type]++
		summary.BySeverity[a.Severity]++
	}
	if len(m.alerts) > 0 {
		latest := m.alerts[0]
		summary.Latest = &latest
	}
	return summary
}

func (m *AlertManager) raise(alertType, severity, message string, value, threshold float64) Alert {
	alert := Alert{
		ID:        uuid.New().String(),
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		Value:     value,
		Threshold: threshold,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.alerts = append([]Alert{alert}, m.alerts...)
	if len(m.alerts) > maxAlertHistory {
		m.alerts = m.alerts[:maxAlertHistory]
	}
	m.mu.Unlock()
	return alert
}
