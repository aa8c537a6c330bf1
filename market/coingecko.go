// Package market fetches Bitcoin price data from the CoinGecko API.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/internal/httpclient"
	"github.com/Riyan-420/CryptoSentinel-V2/internal/util"
)

// Client talks to the CoinGecko public API for the bitcoin/usd pair.
type Client struct {
	baseURL string
	http    *httpclient.RateLimitedClient
	logger  *zap.SugaredLogger
}

// Config configures the CoinGecko client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute float64
}

// NewClient creates a CoinGecko client.
func NewClient(cfg Config, log *zap.SugaredLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpclient.New(cfg.Timeout, cfg.RequestsPerMinute),
		logger:  log,
	}
}

// CurrentPrice fetches the current Bitcoin price with 24h change.
func (c *Client) CurrentPrice(ctx context.Context) (*CurrentPrice, error) {
	q := url.Values{
		"ids":                 {"bitcoin"},
		"vs_currencies":       {"usd"},
		"include_24hr_change": {"true"},
	}

	var payload map[string]struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
	}
	if err := c.getJSON(ctx, "/simple/price", q, &payload); err != nil {
		return nil, errors.Wrap(err, "fetch current price")
	}

	btc, ok := payload["bitcoin"]
	if !ok {
		return nil, errors.New("bitcoin missing from price response")
	}

	return &CurrentPrice{
		Price:            util.Round2(btc.USD),
		Change24h:        util.Round2(btc.USD * btc.USD24hChange / 100),
		ChangePercent24h: util.Round2(btc.USD24hChange),
	}, nil
}

// PriceHistory fetches historical prices covering the given number of hours.
func (c *Client) PriceHistory(ctx context.Context, hours int) ([]PricePoint, error) {
	q := url.Values{
		"vs_currency": {"usd"},
		"days":        {fmt.Sprintf("%g", float64(hours)/24)},
	}

	var payload struct {
		Prices [][2]float64 `json:"prices"`
	}
	if err := c.getJSON(ctx, "/coins/bitcoin/market_chart", q, &payload); err != nil {
		return nil, errors.Wrap(err, "fetch price history")
	}

	points := make([]PricePoint, 0, len(payload.Prices))
	for _, p := range payload.Prices {
		points = append(points, PricePoint{
			Timestamp: time.UnixMilli(int64(p[0])).UTC(),
			Price:     util.Round2(p[1]),
		})
	}

	c.logger.Debugw("Fetched price history", "hours", hours, "points", len(points))
	return points, nil
}

// OHLC fetches candle data covering the given number of hours.
func (c *Client) OHLC(ctx context.Context, hours int) ([]Candle, error) {
	days := hours / 24
	if days < 1 {
		days = 1
	}
	q := url.Values{
		"vs_currency": {"usd"},
		"days":        {fmt.Sprintf("%d", days)},
	}

	var payload [][5]float64
	if err := c.getJSON(ctx, "/coins/bitcoin/ohlc", q, &payload); err != nil {
		return nil, errors.Wrap(err, "fetch ohlc")
	}

	candles := make([]Candle, 0, len(payload))
	for _, row := range payload {
		candles = append(candles, Candle{
			Timestamp: time.UnixMilli(int64(row[0])).UTC(),
			Open:      util.Round2(row[1]),
			High:      util.Round2(row[2]),
			Low:       util.Round2(row[3]),
			Close:     util.Round2(row[4]),
		})
	}
	return candles, nil
}

// Market fetches the aggregate market snapshot.
func (c *Client) Market(ctx context.Context) (*Snapshot, error) {
	q := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"community_data": {"false"},
		"developer_data": {"false"},
	}

	var payload struct {
		MarketData struct {
			CurrentPrice             map[string]float64 `json:"current_price"`
			MarketCap                map[string]float64 `json:"market_cap"`
			TotalVolume              map[string]float64 `json:"total_volume"`
			High24h                  map[string]float64 `json:"high_24h"`
			Low24h                   map[string]float64 `json:"low_24h"`
			PriceChange24h           float64            `json:"price_change_24h"`
			PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
		} `json:"market_data"`
	}
	if err := c.getJSON(ctx, "/coins/bitcoin", q, &payload); err != nil {
		return nil, errors.Wrap(err, "fetch market data")
	}

	md := payload.MarketData
	return &Snapshot{
		CurrentPrice:             md.CurrentPrice["usd"],
		MarketCap:                md.MarketCap["usd"],
		TotalVolume:              md.TotalVolume["usd"],
		High24h:                  md.High24h["usd"],
		Low24h:                   md.Low24h["usd"],
		PriceChange24h:           md.PriceChange24h,
		PriceChangePercentage24h: md.PriceChangePercentage24h,
	}, nil
}

// getJSON performs a rate-limited GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return errors.Wrap(errors.ErrServiceUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return errors.Wrapf(errors.ErrServiceUnavailable, "coingecko returned %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode response for %s", path)
	}
	return nil
}
