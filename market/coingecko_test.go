package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
	"github.com/Riyan-420/CryptoSentinel-V2/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:           srv.URL,
		Timeout:           2 * time.Second,
		RequestsPerMinute: 6000, // no throttling in tests
	}, logger.Logger)
}

func TestCurrentPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"bitcoin":{"usd":65000.1234,"usd_24h_change":2.5}}`))
	})

	price, err := client.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 65000.12, price.Price)
	assert.Equal(t, 2.5, price.ChangePercent24h)
	assert.InDelta(t, 1625.0, price.Change24h, 0.5)
}

func TestCurrentPriceMissingBitcoin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.CurrentPrice(context.Background())
	assert.Error(t, err)
}

func TestPriceHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		w.Write([]byte(`{"prices":[[1700000000000,64000.5],[1700000300000,64100.25]]}`))
	})

	points, err := client.PriceHistory(context.Background(), 24)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 64000.5, points[0].Price)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), points[0].Timestamp)
}

func TestOHLC(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/ohlc", r.URL.Path)
		w.Write([]byte(`[[1700000000000,64000,64500,63800,64200]]`))
	})

	candles, err := client.OHLC(context.Background(), 24)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, 64500.0, candles[0].High)
	assert.Equal(t, 0.0, candles[0].Volume)
}

func TestServerErrorIsServiceUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.PriceHistory(context.Background(), 24)
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailableError(err))
	assert.Contains(t, err.Error(), "429")
}
