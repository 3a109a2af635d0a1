package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestNewClientReceivesMessageFromConnectHook(t *testing.T) {
	hub := NewHub()
	hub.OnConnect(func() { hub.Broadcast([]byte(`{"type":"metrics_update"}`)) })

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"metrics_update"}`, string(msg))
	assert.Equal(t, 1, hub.Count())
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	a := dial(t, srv)
	defer a.Close()
	b := dial(t, srv)
	defer b.Close()

	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast([]byte("hello"))
	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "hello", string(msg))
	}
}

func TestDisconnectFiresHookAndDecrementsCount(t *testing.T) {
	hub := NewHub()
	var disconnects atomic.Int32
	hub.OnDisconnect(func() { disconnects.Add(1) })

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return disconnects.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestFullQueueDropsOnlyThatClient(t *testing.T) {
	hub := NewHub()
	var disconnects atomic.Int32
	hub.OnDisconnect(func() { disconnects.Add(1) })

	slow := &client{send: make(chan []byte, 1)}
	healthy := &client{send: make(chan []byte, 4)}
	hub.register(slow)
	hub.register(healthy)

	hub.Broadcast([]byte("1"))
	hub.Broadcast([]byte("2"))

	assert.Equal(t, 1, hub.Count())
	assert.Equal(t, int32(1), disconnects.Load())
	assert.Len(t, healthy.send, 2)

	// la file du client lent est fermée
	<-slow.send
	_, open := <-slow.send
	assert.False(t, open)

	hub.remove(slow)
	assert.Equal(t, int32(1), disconnects.Load())
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://dashboard.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://dashboard.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
