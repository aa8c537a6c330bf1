package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Riyan-420/CryptoSentinel-V2/internal/timeutil"
	"github.com/Riyan-420/CryptoSentinel-V2/predict"
	"github.com/Riyan-420/CryptoSentinel-V2/scheduler"
)

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":         "ok",
		"timestamp":      timeutil.Format(time.Now()),
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	}
	if total, available, err := memoryStats(); err == nil {
		payload["memory"] = map[string]interface{}{
			"total_bytes":     total,
			"available_bytes": available,
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) HandleCurrentPrice(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	quote, err := s.market.CurrentPrice(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"price":              quote.Price,
		"change_24h":         quote.Change24h,
		"change_percent_24h": quote.ChangePercent24h,
		"timestamp":          timeutil.Format(time.Now()),
	})
}

func (s *Server) HandlePriceHistory(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	hours := queryInt(r, "hours", s.cfg.Market.HistoryHours)
	points, err := s.market.PriceHistory(r.Context(), hours)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type point struct {
		Timestamp string  `json:"timestamp"`
		Price     float64 `json:"price"`
	}
	out := make([]point, len(points))
	for i, p := range points {
		out[i] = point{Timestamp: timeutil.Format(p.Timestamp), Price: p.Price}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hours":  hours,
		"points": out,
	})
}

func (s *Server) HandleOHLC(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	hours := queryInt(r, "hours", 24)
	candles, err := s.market.OHLC(r.Context(), hours)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type candle struct {
		Timestamp string  `json:"timestamp"`
		Open      float64 `json:"open"`
		High      float64 `json:"high"`
		Low       float64 `json:"low"`
		Close     float64 `json:"close"`
	}
	out := make([]candle, len(candles))
	for i, c := range candles {
		out[i] = candle{
			Timestamp: timeutil.Format(c.Timestamp),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hours":   hours,
		"candles": out,
	})
}

func (s *Server) HandleMarket(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot, err := s.market.Market(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) HandleLatestPrediction(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	pred, err := s.preds.Latest(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictionPayload(pred))
}

func (s *Server) HandlePredictionHistory(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	limit := queryInt(r, "limit", 50)
	preds, err := s.preds.Recent(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]map[string]interface{}, len(preds))
	for i := range preds {
		out[i] = predictionPayload(&preds[i])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(out),
		"predictions": out,
	})
}

func (s *Server) HandleAccuracy(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := s.preds.Accuracy(r.Context(), queryInt(r, "limit", 200))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleModelMetrics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	versions, err := s.registry.Versions(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	payload := map[string]interface{}{"versions": versions}
	if s.pipeline != nil {
		if drift := s.pipeline.LastDrift(); drift != nil {
			payload["drift"] = drift
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) HandleValidatePredictions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if s.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "validation unavailable")
		return
	}

	settled, err := s.pipeline.RunValidation(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"settled": settled})
}

func (s *Server) HandleDriftSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	payload := map[string]interface{}{"available": false}
	if s.pipeline != nil {
		if drift := s.pipeline.LastDrift(); drift != nil {
			payload = map[string]interface{}{
				"available": true,
				"score":     drift.Score,
				"drifted":   drift.Drifted,
				"features":  drift.Features,
			}
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": s.alerts.Recent(queryInt(r, "limit", 20)),
	})
}

func (s *Server) HandleAlertSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.alerts.Summary())
}

func (s *Server) HandleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	statuses := s.sched.Status()
	out := make([]map[string]interface{}, len(statuses))
	for i, st := range statuses {
		entry := map[string]interface{}{
			"name":        st.Name,
			"interval":    st.Interval,
			"last_status": st.LastStatus,
		}
		if st.LastRunAt != nil {
			entry["last_run_at"] = timeutil.Format(*st.LastRunAt)
		}
		if st.NextDueAt != nil {
			entry["next_due_at"] = timeutil.Format(*st.NextDueAt)
		}
		out[i] = entry
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": out})
}

func (s *Server) HandleSchedulerRun(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/scheduler/run/")
	name, err := scheduler.ParseJobName(raw)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.sched.TriggerJob(name); err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Infow("Job triggered via API", "job", name)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job":       name,
		"triggered": true,
	})
}

func predictionPayload(p *predict.Prediction) map[string]interface{} {
	out := map[string]interface{}{
		"id":                  p.ID,
		"created_at":          timeutil.Format(p.CreatedAt),
		"target_at":           timeutil.Format(p.TargetAt),
		"current_price":       p.CurrentPrice,
		"predicted_price":     p.PredictedPrice,
		"predicted_direction": p.PredictedDirection,
		"confidence":          p.Confidence,
		"market_regime":       p.MarketRegime,
		"model_used":          p.ModelUsed,
		"price_change":        p.PriceChange,
		"price_change_pct":    p.PriceChangePct,
	}
	if p.ActualPrice != nil {
		out["actual_price"] = *p.ActualPrice
	}
	if p.WasCorrect != nil {
		out["was_correct"] = *p.WasCorrect
	}
	if p.ErrorAmount != nil {
		out["error_amount"] = *p.ErrorAmount
	}
	if p.ValidatedAt != nil {
		out["validated_at"] = timeutil.Format(*p.ValidatedAt)
	}
	if p.ValidationNote != "" {
		out["validation_note"] = p.ValidationNote
	}
	return out
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
