package support

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame is the realtime wire message in both directions
type Frame struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

// WebsocketRealtime is a Realtime over one websocket connection with
// auto-reconnect. Subscriptions survive reconnects: every live topic is
// re-sent after each successful dial.
type WebsocketRealtime struct {
	url    string
	header http.Header
	conn   *websocket.Conn
	mu     sync.RWMutex
	// writeMu serializes frames; gorilla connections allow one writer
	writeMu  sync.Mutex
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	connected bool
	dormant   bool
	wakeup    chan struct{}

	topicsMu sync.RWMutex
	topics   map[string]func()
}

// NewWebsocketRealtime creates a client for url. apiKey, when set, is sent
// as a bearer token on the upgrade request.
func NewWebsocketRealtime(url, apiKey string) *WebsocketRealtime {
	header := http.Header{}
	if apiKey != "" {
		header.Set("Authorization", "Bearer "+apiKey)
	}
	return &WebsocketRealtime{
		url:      url,
		header:   header,
		shutdown: make(chan struct{}),
		wakeup:   make(chan struct{}, 1),
		topics:   make(map[string]func()),
	}
}

// Start begins the connection with auto-reconnect
func (c *WebsocketRealtime) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.connectLoop(ctx)
}

// Stop closes the connection and waits for the read loop to exit
func (c *WebsocketRealtime) Stop() {
	c.stopOnce.Do(func() {
		close(c.shutdown)
	})

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// IsConnected returns whether the client is currently connected
func (c *WebsocketRealtime) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Subscribe implements Realtime. The topic is registered even while
// disconnected and is sent once a connection is up.
func (c *WebsocketRealtime) Subscribe(topic string, onChange func()) error {
	if onChange == nil {
		return fmt.Errorf("subscribe %s: nil callback", topic)
	}
	c.topicsMu.Lock()
	c.topics[topic] = onChange
	c.topicsMu.Unlock()

	c.mu.RLock()
	isDormant := c.dormant
	c.mu.RUnlock()
	if isDormant {
		slog.Debug(LogMsgDormantRetry, "topic", topic)
		select {
		case c.wakeup <- struct{}{}:
		default:
		}
		return nil
	}

	if c.IsConnected() {
		return c.send(Frame{Type: FrameSubscribe, Topic: topic})
	}
	return nil
}

// Unsubscribe implements Realtime
func (c *WebsocketRealtime) Unsubscribe(topic string) {
	c.topicsMu.Lock()
	_, ok := c.topics[topic]
	delete(c.topics, topic)
	c.topicsMu.Unlock()

	if ok && c.IsConnected() {
		if err := c.send(Frame{Type: FrameUnsubscribe, Topic: topic}); err != nil {
			slog.Warn(LogMsgWriteError, "topic", topic, "error", err)
		}
	}
}

func (c *WebsocketRealtime) connectLoop(ctx context.Context) {
	defer c.wg.Done()

	backoff := DefaultReconnectDelay
	consecutiveFailures := 0

	for {
		select {
		case <-c.shutdown:
			slog.Info(LogMsgClientStopped)
			return
		case <-ctx.Done():
			slog.Info(LogMsgClientStopped)
			return
		default:
		}

		connected, err := c.connect(ctx)
		c.setConnected(false)
		if connected {
			// The session was up; start the next dial from scratch
			backoff = DefaultReconnectDelay
			consecutiveFailures = 0
		}
		if err == nil {
			continue
		}

		consecutiveFailures++
		if consecutiveFailures >= MaxConsecutiveFailures {
			if stop := c.handleDormantMode(ctx, &consecutiveFailures, &backoff); stop {
				return
			}
			continue
		}

		// Only log the first few failures and then periodically
		if consecutiveFailures <= 3 || consecutiveFailures%100 == 0 {
			slog.Warn(LogMsgReconnecting,
				"error", err,
				"backoff", backoff,
				"consecutive_failures", consecutiveFailures)
		}

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * ReconnectMultiplier)
			if backoff > MaxReconnectDelay {
				backoff = MaxReconnectDelay
			}
		case <-c.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

// handleDormantMode waits for a wakeup after too many failures
func (c *WebsocketRealtime) handleDormantMode(ctx context.Context, consecutiveFailures *int, backoff *time.Duration) bool {
	c.mu.Lock()
	c.dormant = true
	c.mu.Unlock()

	slog.Warn(LogMsgGivingUp,
		"consecutive_failures", *consecutiveFailures,
		"max_allowed", MaxConsecutiveFailures)

	select {
	case <-c.wakeup:
		c.mu.Lock()
		c.dormant = false
		c.mu.Unlock()
		*backoff = DefaultReconnectDelay
		*consecutiveFailures = 0
		return false
	case <-c.shutdown:
		return true
	case <-ctx.Done():
		return true
	}
}

// connect dials, replays subscriptions and runs the read loop. connected
// reports whether the dial succeeded.
func (c *WebsocketRealtime) connect(ctx context.Context) (connected bool, err error) {
	slog.Info(LogMsgConnecting, "url", c.url)

	dialer := websocket.Dialer{
		ReadBufferSize:   ReadBufferSize,
		WriteBufferSize:  WriteBufferSize,
		HandshakeTimeout: WriteTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("failed to connect: %w (status: %s, code: %d)", err, resp.Status, resp.StatusCode)
		}
		return false, fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	select {
	case <-c.shutdown:
		c.mu.Unlock()
		_ = conn.Close()
		return true, nil
	default:
	}
	c.conn = conn
	c.connected = true
	c.dormant = false
	c.mu.Unlock()
	slog.Info(LogMsgConnected, "url", c.url)

	for _, topic := range c.topicNames() {
		if err := c.send(Frame{Type: FrameSubscribe, Topic: topic}); err != nil {
			_ = conn.Close()
			return true, err
		}
	}
	return true, c.readLoop(conn)
}

func (c *WebsocketRealtime) readLoop(conn *websocket.Conn) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.shutdown:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			slog.Warn(LogMsgReadError, "error", err)
			return err
		}

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil || frame.Type != FrameChange {
			continue
		}

		c.topicsMu.RLock()
		onChange, ok := c.topics[frame.Topic]
		c.topicsMu.RUnlock()
		if ok {
			slog.Debug(LogMsgPushReceived, "topic", frame.Topic)
			onChange()
		}
	}
}

func (c *WebsocketRealtime) send(frame Frame) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("no connection")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return conn.WriteJSON(frame)
}

func (c *WebsocketRealtime) topicNames() []string {
	c.topicsMu.RLock()
	defer c.topicsMu.RUnlock()
	names := make([]string, 0, len(c.topics))
	for t := range c.topics {
		names = append(names, t)
	}
	return names
}

func (c *WebsocketRealtime) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = connected
	if !connected {
		c.conn = nil
	}
}
