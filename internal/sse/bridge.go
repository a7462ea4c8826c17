package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/storefront/internal/event"
)

// Bridge forwards every bus event to the owning user's SSE streams. It is
// the browser end of the event bus.
type Bridge struct {
	hub    *Hub
	unsubs []event.Unsubscribe
}

// NewBridge creates a bridge onto hub
func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub}
}

// Register subscribes to every event type on bus
func (b *Bridge) Register(bus event.Bus) {
	types := make([]string, 0, len(event.AllTypes))
	for _, t := range event.AllTypes {
		b.unsubs = append(b.unsubs, bus.Subscribe(t, b.forward))
		types = append(types, string(t))
	}
	slog.Info(LogMsgBridgeRegistered, "types", types)
}

// Close removes the bridge's subscriptions
func (b *Bridge) Close() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
}

func (b *Bridge) forward(_ context.Context, evt event.Event) error {
	owner := ""
	if evt.Payload != nil {
		owner = evt.Payload.Owner()
	}
	b.hub.Broadcast(owner, string(evt.Type), evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "user_id", owner)
	return nil
}
