package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/logger"
)

// Type represents the type of an event. Type values double as the channel
// names the browser surface listens on.
type Type string

// Event types
const (
	CartUpdated        Type = "cartUpdated"
	WishlistUpdated    Type = "wishlistUpdated"
	PriceAlertsUpdated Type = "priceAlertsUpdated"
	WalletUpdated      Type = "walletUpdated"
	SupportUpdated     Type = "supportUpdated"
	ShowNotification   Type = "showNotification"
)

// AllTypes lists every type a subscriber may listen on
var AllTypes = []Type{
	CartUpdated,
	WishlistUpdated,
	PriceAlertsUpdated,
	WalletUpdated,
	SupportUpdated,
	ShowNotification,
}

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string   `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type     `json:"type"`
	Payload  Payload  `json:"payload"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Payload is the closed set of event bodies. Every payload names the user
// partition it belongs to so that fan-out surfaces can scope delivery.
type Payload interface {
	EventType() Type
	Owner() string
}

// CartChangedV1 carries the settled cart after a mutation
type CartChangedV1 struct {
	UserID string            `json:"user_id"`
	Items  []domain.LineItem `json:"items"`
	Count  int               `json:"count"`
}

func (p CartChangedV1) EventType() Type { return CartUpdated }
func (p CartChangedV1) Owner() string   { return p.UserID }

// WishlistChangedV1 carries the settled wishlist after a mutation
type WishlistChangedV1 struct {
	UserID  string                 `json:"user_id"`
	Entries []domain.WishlistEntry `json:"entries"`
	Count   int                    `json:"count"`
}

func (p WishlistChangedV1) EventType() Type { return WishlistUpdated }
func (p WishlistChangedV1) Owner() string   { return p.UserID }

// AlertsChangedV1 carries the settled alert registry after a mutation
type AlertsChangedV1 struct {
	UserID string              `json:"user_id"`
	Alerts []domain.PriceAlert `json:"alerts"`
}

func (p AlertsChangedV1) EventType() Type { return PriceAlertsUpdated }
func (p AlertsChangedV1) Owner() string   { return p.UserID }

// WalletChangedV1 is published by the wallet surface. Nothing in this module
// produces it; it is part of the shared channel set.
type WalletChangedV1 struct {
	UserID  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

func (p WalletChangedV1) EventType() Type { return WalletUpdated }
func (p WalletChangedV1) Owner() string   { return p.UserID }

// SupportChangedV1 carries the refreshed ticket mirror
type SupportChangedV1 struct {
	UserID  string                 `json:"user_id"`
	Tickets []domain.SupportTicket `json:"tickets"`
}

func (p SupportChangedV1) EventType() Type { return SupportUpdated }
func (p SupportChangedV1) Owner() string   { return p.UserID }

// NotificationV1 is a user-facing toast request. A signed-out recipient is
// addressed by StreamID instead of UserID.
type NotificationV1 struct {
	UserID   string                   `json:"user_id,omitempty"`
	StreamID string                   `json:"-"`
	Level    domain.NotificationLevel `json:"type"`
	Message  string                   `json:"message"`
}

func (p NotificationV1) EventType() Type { return ShowNotification }

func (p NotificationV1) Owner() string {
	if p.UserID == "" && p.StreamID != "" {
		return StreamOwner(p.StreamID)
	}
	return p.UserID
}

// streamOwnerPrefix keeps anonymous stream ids apart from user ids
const streamOwnerPrefix = "stream:"

// StreamOwner is the delivery scope of one signed-out browser stream
func StreamOwner(streamID string) string {
	return streamOwnerPrefix + streamID
}

// New wraps payload in an event of the current schema version
func New(payload Payload) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    payload.EventType(),
		Payload: payload,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// FailureObserver is told about every handler that returned an error or panicked
type FailureObserver func(ctx context.Context, event Event, err error)

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler) Unsubscribe
}

type subscription struct {
	id      uint64
	handler Handler
}

// MemoryBus is an in-memory implementation of the Event Bus. Delivery is
// synchronous and in registration order; there is no replay.
type MemoryBus struct {
	handlers  map[Type][]subscription
	observers []FailureObserver
	nextID    uint64
	mu        sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]subscription),
	}
}

// Observe registers a FailureObserver
func (b *MemoryBus) Observe(observer FailureObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, observer)
}

// Publish publishes an event to all subscribers. A failing handler does not
// stop delivery to the remaining ones; the joined failures are returned for
// diagnostics only.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	subs := append([]subscription(nil), b.handlers[event.Type]...)
	observers := append([]FailureObserver(nil), b.observers...)
	b.mu.RUnlock()

	if len(subs) == 0 {
		return nil
	}

	var errs []error
	for _, sub := range subs {
		if err := b.deliver(ctx, sub.handler, event); err != nil {
			logger.FromContext(ctx).Warn(LogMsgHandlerFailed,
				"event_type", event.Type,
				"error", err)
			for _, observe := range observers {
				observe(ctx, event, err)
			}
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(errHandlersFailed, len(errs), event.Type, errors.Join(errs...))
	}

	return nil
}

func (b *MemoryBus) deliver(ctx context.Context, handler Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
		}
	}()
	return handler(ctx, event)
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) Unsubscribe {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(eventType, id) })
	}
}

func (b *MemoryBus) remove(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, sub := range subs {
		if sub.id == id {
			// copy so that in-flight snapshots are not disturbed
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.handlers[eventType] = next
			return
		}
	}
}

// SubscriberCount returns the number of live handlers for eventType
func (b *MemoryBus) SubscriberCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Emit publishes payload wrapped in a new event
func Emit(ctx context.Context, bus Bus, payload Payload) error {
	return bus.Publish(ctx, New(payload))
}

// Notify publishes a showNotification event
func Notify(ctx context.Context, bus Bus, userID string, level domain.NotificationLevel, message string) error {
	n := NotificationV1{UserID: userID, Level: level, Message: message}
	if userID == "" {
		n.StreamID = auth.StreamFromContext(ctx)
	}
	return Emit(ctx, bus, n)
}
