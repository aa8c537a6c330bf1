// Package server exposes the dashboard HTTP API and the WebSocket feed of
// live prices and predictions.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/config"
	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/market"
	"github.com/Riyan-420/CryptoSentinel-V2/model"
	"github.com/Riyan-420/CryptoSentinel-V2/pipeline"
	"github.com/Riyan-420/CryptoSentinel-V2/predict"
	"github.com/Riyan-420/CryptoSentinel-V2/scheduler"
)

// MarketAPI is the market data surface the handlers need.
type MarketAPI interface {
	CurrentPrice(ctx context.Context) (*market.CurrentPrice, error)
	PriceHistory(ctx context.Context, hours int) ([]market.PricePoint, error)
	OHLC(ctx context.Context, hours int) ([]market.Candle, error)
	Market(ctx context.Context) (*market.Snapshot, error)
}

// SchedulerAPI is the scheduler surface the handlers need.
type SchedulerAPI interface {
	Status() []scheduler.JobStatus
	TriggerJob(name scheduler.JobName) error
}

// Server serves the dashboard API and manages WebSocket clients.
type Server struct {
	cfg      *config.Config
	market   MarketAPI
	preds    *predict.Store
	alerts   *predict.AlertManager
	registry *model.Registry
	sched    SchedulerAPI
	pipeline *pipeline.Pipeline
	logger   *zap.SugaredLogger

	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client

	httpServer *http.Server
	started    time.Time
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func New(cfg *config.Config, marketAPI MarketAPI, preds *predict.Store,
	alerts *predict.AlertManager, registry *model.Registry,
	sched SchedulerAPI, pipe *pipeline.Pipeline, logger *zap.SugaredLogger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:        cfg,
		market:     marketAPI,
		preds:      preds,
		alerts:     alerts,
		registry:   registry,
		sched:      sched,
		pipeline:   pipe,
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		started:    time.Now(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Routes builds the API mux. Split out so tests can exercise handlers
// without binding a port.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/api/price/current", s.HandleCurrentPrice)
	mux.HandleFunc("/api/price/history", s.HandlePriceHistory)
	mux.HandleFunc("/api/price/ohlc", s.HandleOHLC)
	mux.HandleFunc("/api/market", s.HandleMarket)
	mux.HandleFunc("/api/prediction/latest", s.HandleLatestPrediction)
	mux.HandleFunc("/api/prediction/history", s.HandlePredictionHistory)
	mux.HandleFunc("/api/prediction/accuracy", s.HandleAccuracy)
	mux.HandleFunc("/api/prediction/validate", s.HandleValidatePredictions)
	mux.HandleFunc("/api/model/metrics", s.HandleModelMetrics)
	mux.HandleFunc("/api/drift/summary", s.HandleDriftSummary)
	mux.HandleFunc("/api/alerts", s.HandleAlerts)
	mux.HandleFunc("/api/alerts/summary", s.HandleAlertSummary)
	mux.HandleFunc("/api/scheduler/status", s.HandleSchedulerStatus)
	mux.HandleFunc("/api/scheduler/run/", s.HandleSchedulerRun)
	mux.HandleFunc("/ws", s.HandleWebSocket)
	return mux
}

// Start binds the listener and runs until Shutdown. Blocks.
func (s *Server) Start() error {
	s.wg.Add(1)
	go s.clientLoop()
	s.startBroadcaster()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Infow("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server")
	}
	return nil
}

// Shutdown stops the broadcaster, disconnects clients and drains the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	// Close client connections first so their pump goroutines unblock
	// before the wait below.
	s.mu.Lock()
	for client := range s.clients {
		client.close()
	}
	s.clients = make(map[*Client]bool)
	s.mu.Unlock()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.wg.Wait()

	s.logger.Infow("HTTP server stopped")
	return err
}

// clientLoop owns the client set. Register/unregister go through channels
// so the set is never mutated from handler goroutines.
func (s *Server) clientLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Debugw("WebSocket client connected", "client_id", client.id, "clients", count)
		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				client.close()
			}
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Debugw("WebSocket client disconnected", "client_id", client.id, "clients", count)
		}
	}
}
