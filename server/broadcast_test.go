package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWebSocket(t *testing.T, api *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(api.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketInitialSnapshot(t *testing.T) {
	f := newServerFixture(t)
	f.server.wg.Add(1)
	go f.server.clientLoop()
	defer f.server.Shutdown(context.Background())

	conn := dialWebSocket(t, f.api)

	var msg PriceUpdateMessage
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "price_update", msg.Type)
	assert.InDelta(t, 52000, msg.Price, 1e-9)
	assert.True(t, strings.HasSuffix(msg.Timestamp, "+05:00"))
}

func TestBroadcastReachesClients(t *testing.T) {
	f := newServerFixture(t)
	f.server.wg.Add(1)
	go f.server.clientLoop()
	defer f.server.Shutdown(context.Background())

	conn := dialWebSocket(t, f.api)

	// Drain the initial snapshot.
	var initial PriceUpdateMessage
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&initial))

	// Wait for registration, then push an update.
	require.Eventually(t, func() bool {
		f.server.mu.RLock()
		defer f.server.mu.RUnlock()
		return len(f.server.clients) == 1
	}, time.Second, 5*time.Millisecond)

	f.server.broadcastUpdate()

	var msg PriceUpdateMessage
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "price_update", msg.Type)
}

func TestBroadcastCountsDeliveries(t *testing.T) {
	f := newServerFixture(t)

	// No clients connected: nothing delivered.
	assert.Zero(t, f.server.broadcastMessage(PriceUpdateMessage{Type: "price_update"}))
}
