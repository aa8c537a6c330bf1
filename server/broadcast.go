package server

import (
	"context"
	"time"

	"github.com/Riyan-420/CryptoSentinel-V2/internal/timeutil"
)

// broadcastInterval is how often the live price/prediction feed is pushed
// to connected clients.
const broadcastInterval = 10 * time.Second

// PriceUpdateMessage is the WebSocket payload for a live price tick.
type PriceUpdateMessage struct {
	Type             string  `json:"type"`
	Price            float64 `json:"price"`
	ChangePercent24h float64 `json:"change_percent_24h"`
	Timestamp        string  `json:"timestamp"`
}

// PredictionUpdateMessage is the WebSocket payload for the latest
// prediction.
type PredictionUpdateMessage struct {
	Type               string  `json:"type"`
	ID                 string  `json:"id"`
	PredictedPrice     float64 `json:"predicted_price"`
	PredictedDirection string  `json:"predicted_direction"`
	Confidence         float64 `json:"confidence"`
	MarketRegime       string  `json:"market_regime"`
	TargetAt           string  `json:"target_at"`
}

// broadcastMessage sends a message to all connected clients.
// Returns the number of clients that accepted the message (channel not full).
func (s *Server) broadcastMessage(msg interface{}) int {
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	sent := 0
	for _, client := range clients {
		select {
		case client.send <- msg:
			sent++
		default:
			// Channel full - skip
		}
	}
	return sent
}

// startBroadcaster pushes price and prediction updates to clients on a
// fixed cadence while any are connected.
func (s *Server) startBroadcaster() {
	ticker := time.NewTicker(broadcastInterval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.mu.RLock()
				hasClients := len(s.clients) > 0
				s.mu.RUnlock()
				if hasClients {
					s.broadcastUpdate()
				}
			}
		}
	}()
}

func (s *Server) broadcastUpdate() {
	ctx, cancel := context.WithTimeout(s.ctx, broadcastInterval)
	defer cancel()

	quote, err := s.market.CurrentPrice(ctx)
	if err != nil {
		s.logger.Debugw("Skipping price broadcast", "error", err)
	} else {
		s.broadcastMessage(PriceUpdateMessage{
			Type:             "price_update",
			Price:            quote.Price,
			ChangePercent24h: quote.ChangePercent24h,
			Timestamp:        timeutil.Format(time.Now()),
		})
	}

	pred, err := s.preds.Latest(ctx)
	if err != nil {
		return
	}
	s.broadcastMessage(PredictionUpdateMessage{
		Type:               "prediction_update",
		ID:                 pred.ID,
		PredictedPrice:     pred.PredictedPrice,
		PredictedDirection: pred.PredictedDirection,
		Confidence:         pred.Confidence,
		MarketRegime:       pred.MarketRegime,
		TargetAt:           timeutil.Format(pred.TargetAt),
	})
}

// initialSnapshot builds the first message a connecting client receives.
func (s *Server) initialSnapshot(ctx context.Context) interface{} {
	quote, err := s.market.CurrentPrice(ctx)
	if err != nil {
		return nil
	}
	return PriceUpdateMessage{
		Type:             "price_update",
		Price:            quote.Price,
		ChangePercent24h: quote.ChangePercent24h,
		Timestamp:        timeutil.Format(time.Now()),
	}
}
