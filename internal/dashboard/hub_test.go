package dashboard

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", hub.ServeWS)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Count() == 1 },
		time.Second, 10*time.Millisecond)
	return conn
}

func TestHubBroadcastsToClients(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	hub.Broadcast([]byte(`{"symbol":"MCH"}`))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	kind, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.Equal(t, `{"symbol":"MCH"}`, string(payload))
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Count() == 0 },
		time.Second, 10*time.Millisecond)

	hub.Broadcast([]byte("after disconnect"))
	assert.Equal(t, 0, hub.Count())
}

func TestPumpBridgesQuoteAndTradeFeeds(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed := make(chan []byte, 4)
	go hub.Pump(ctx, feed)

	// Quotes and trade events arrive on the same bridge.
	feed <- []byte(`{"name":"MacroHard","bid":"42"}`)
	feed <- []byte(`{"action":"SELL","new-amount":2}`)
	close(feed)

	var got []string
	for i := 0; i < 2; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		got = append(got, string(payload))
	}
	assert.Equal(t, []string{
		`{"name":"MacroHard","bid":"42"}`,
		`{"action":"SELL","new-amount":2}`,
	}, got)
}
