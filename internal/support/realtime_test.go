package support

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/storefront/internal/testing/leaktest"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocketRealtime_SubscribeAndPush(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)
	subscribed := make(chan Frame, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}
		subscribed <- f
		_ = conn.WriteJSON(Frame{Type: FrameChange, Topic: "other"})
		_ = conn.WriteJSON(Frame{Type: FrameChange, Topic: f.Topic})

		// hold the connection until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client := NewWebsocketRealtime(wsURL(srv), "key")
	pushed := make(chan struct{}, 1)
	require.NoError(t, client.Subscribe(Topic("u1"), func() { pushed <- struct{}{} }))
	client.Start(context.Background())

	select {
	case f := <-subscribed:
		assert.Equal(t, FrameSubscribe, f.Type)
		assert.Equal(t, "support_tickets:u1", f.Topic)
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the subscription")
	}

	select {
	case <-pushed:
	case <-time.After(2 * time.Second):
		t.Fatal("push was not delivered")
	}
	assert.True(t, client.IsConnected())

	client.Stop()
	srv.Close()
	checker.Check(2)
}

func TestWebsocketRealtime_ResubscribesAfterReconnect(t *testing.T) {
	var connections int32
	frames := make(chan Frame, 8)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		n := atomic.AddInt32(&connections, 1)

		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}
		frames <- f
		if n == 1 {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client := NewWebsocketRealtime(wsURL(srv), "")
	require.NoError(t, client.Subscribe("topic-a", func() {}))
	client.Start(context.Background())
	defer client.Stop()

	for i := 0; i < 2; i++ {
		select {
		case f := <-frames:
			assert.Equal(t, "topic-a", f.Topic)
		case <-time.After(3 * time.Second):
			t.Fatalf("subscription %d not received", i+1)
		}
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&connections), int32(2))
}

func TestWebsocketRealtime_UnsubscribeStopsDelivery(t *testing.T) {
	client := NewWebsocketRealtime("ws://127.0.0.1:1/unused", "")
	var calls int32
	require.NoError(t, client.Subscribe("t", func() { atomic.AddInt32(&calls, 1) }))
	client.Unsubscribe("t")
	client.Unsubscribe("t")

	assert.Empty(t, client.topicNames())
	assert.Error(t, client.Subscribe("t", nil))
}

func TestWebsocketRealtime_DormantWakeup(t *testing.T) {
	client := NewWebsocketRealtime("ws://127.0.0.1:1/unused", "")
	client.mu.Lock()
	client.dormant = true
	client.mu.Unlock()

	require.NoError(t, client.Subscribe("t", func() {}))

	select {
	case <-client.wakeup:
	case <-time.After(100 * time.Millisecond):
		t.Error("Expected wakeup signal to be sent")
	}
}
