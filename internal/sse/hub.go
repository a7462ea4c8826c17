package sse

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/metrics"
)

// Event is one message on a browser event stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"` // unix milliseconds
	Payload   interface{} `json:"payload"`

	// owner scopes delivery to one user's streams
	owner string
}

// Client is one open stream
type Client struct {
	ID           string
	UserID       string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means every type

	// owner is UserID, or the stream's own scope when signed out
	owner string
}

func (c *Client) wants(eventType string) bool {
	return c.EventFilter == nil || c.EventFilter[eventType]
}

// Hub fans events out to the streams of their owner. Streams are indexed by
// user so a broadcast only visits that user's clients.
type Hub struct {
	mu       sync.RWMutex
	byUser   map[string]map[string]*Client
	byID     map[string]*Client
	stopped  bool
	queue    chan Event
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHub creates a hub. Call Start before broadcasting.
func NewHub() *Hub {
	return &Hub{
		byUser:   make(map[string]map[string]*Client),
		byID:     make(map[string]*Client),
		queue:    make(chan Event, BroadcastBufferSize),
		shutdown: make(chan struct{}),
	}
}

// Start runs the delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the delivery loop and closes every stream. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
	})
	h.wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	metrics.SSEStreamsOpen.Sub(float64(len(h.byID)))
	for id, c := range h.byID {
		close(c.EventChannel)
		delete(h.byID, id)
	}
	h.byUser = make(map[string]map[string]*Client)
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case evt := <-h.queue:
			h.deliver(evt)
		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) deliver(evt Event) {
	if evt.owner == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.byUser[evt.owner] {
		if !c.wants(evt.Type) {
			continue
		}
		select {
		case c.EventChannel <- evt:
		default:
			metrics.SSEEventsDropped.WithLabelValues(metrics.DropReasonClientFull).Inc()
			slog.Warn(LogMsgEventDropped, "client_id", c.ID, "event_type", evt.Type)
		}
	}
}

// Register opens a stream for userID. A signed-out stream is scoped to its
// own client id and only receives events addressed to event.StreamOwner of
// that id. After Stop the returned client's channel is already closed.
func (h *Hub) Register(userID string, eventTypes []string) *Client {
	c := &Client{
		ID:           uuid.New().String(),
		UserID:       userID,
		EventChannel: make(chan Event, ClientEventBuffer),
		owner:        userID,
	}
	if userID == "" {
		c.owner = event.StreamOwner(c.ID)
	}
	if len(eventTypes) > 0 {
		c.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.EventFilter[t] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		close(c.EventChannel)
		return c
	}
	if h.byUser[c.owner] == nil {
		h.byUser[c.owner] = make(map[string]*Client)
	}
	h.byUser[c.owner][c.ID] = c
	h.byID[c.ID] = c
	metrics.SSEStreamsOpen.Inc()
	return c
}

// Unregister closes and forgets a stream. Unknown ids are ignored.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.byID[clientID]
	if !ok {
		return
	}
	delete(h.byID, clientID)
	delete(h.byUser[c.owner], clientID)
	if len(h.byUser[c.owner]) == 0 {
		delete(h.byUser, c.owner)
	}
	close(c.EventChannel)
	metrics.SSEStreamsOpen.Dec()
}

// Broadcast queues an event for the streams of owner. An empty owner reaches
// nobody. It never blocks; when the queue is full the event is dropped.
func (h *Hub) Broadcast(owner, eventType string, payload interface{}) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		Payload:   payload,
		owner:     owner,
	}
	select {
	case h.queue <- evt:
	default:
		metrics.SSEEventsDropped.WithLabelValues(metrics.DropReasonHubFull).Inc()
		slog.Warn(LogMsgEventDropped, "event_type", eventType)
	}
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byID)
}

// UserClientCount returns the number of streams open for userID
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// FormatSSEMessage renders event in text/event-stream framing
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if event.ID != "" {
		buf.WriteString("id: " + event.ID + "\n")
	}
	buf.WriteString("event: " + event.Type + "\n")
	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

// retryLine is the EventSource reconnect hint, in milliseconds
func retryLine() []byte {
	return []byte("retry: " + strconv.FormatInt(ReconnectDelay.Milliseconds(), 10) + "\n")
}

// keepaliveComment is ignored by EventSource but keeps the connection warm
var keepaliveComment = []byte(": keepalive\n\n")
