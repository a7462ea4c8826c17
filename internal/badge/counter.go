// Package badge keeps header badge counts in step with the ledgers. A badge
// never increments on its own: every changed event recomputes the count from
// the collection carried in the payload.
package badge

import (
	"context"
	"sync"

	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/store"
)

// CountFunc derives a badge value from an event payload
type CountFunc func(payload interface{}) (userID string, count int, err error)

// LoadFunc reads the current value for a user that has not produced an event yet
type LoadFunc func(ctx context.Context, userID string) int

// Counter is a badge value per user, maintained from one event type
type Counter struct {
	mu     sync.RWMutex
	values map[string]int
	count  CountFunc
	load   LoadFunc
	unsub  event.Unsubscribe
}

// NewCounter subscribes to eventType on bus
func NewCounter(bus event.Bus, eventType event.Type, count CountFunc, load LoadFunc) *Counter {
	c := &Counter{
		values: make(map[string]int),
		count:  count,
		load:   load,
	}
	c.unsub = bus.Subscribe(eventType, c.handle)
	return c
}

// NewCartBadge counts units across the cart's lines
func NewCartBadge(bus event.Bus, items *store.Collection[domain.LineItem]) *Counter {
	return NewCounter(bus, event.CartUpdated,
		func(payload interface{}) (string, int, error) {
			p, err := event.DecodePayload[event.CartChangedV1](payload)
			if err != nil {
				return "", 0, err
			}
			return p.UserID, domain.CountUnits(p.Items), nil
		},
		collectionLoader(items, domain.CountUnits),
	)
}

// NewWishlistBadge counts wishlist entries
func NewWishlistBadge(bus event.Bus, entries *store.Collection[domain.WishlistEntry]) *Counter {
	return NewCounter(bus, event.WishlistUpdated,
		func(payload interface{}) (string, int, error) {
			p, err := event.DecodePayload[event.WishlistChangedV1](payload)
			if err != nil {
				return "", 0, err
			}
			return p.UserID, len(p.Entries), nil
		},
		collectionLoader(entries, func(e []domain.WishlistEntry) int { return len(e) }),
	)
}

func collectionLoader[T any](coll *store.Collection[T], count func([]T) int) LoadFunc {
	if coll == nil {
		return nil
	}
	return func(ctx context.Context, userID string) int {
		return count(coll.Read(ctx, userID))
	}
}

func (c *Counter) handle(ctx context.Context, evt event.Event) error {
	userID, n, err := c.count(evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "event_type", evt.Type, "error", err)
		return err
	}

	c.mu.Lock()
	c.values[userID] = n
	c.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgRecomputed, "event_type", evt.Type, "user_id", userID, "count", n)
	return nil
}

// Value returns the badge value for userID. Users without events yet are
// read from the collection once.
func (c *Counter) Value(ctx context.Context, userID string) int {
	c.mu.RLock()
	n, ok := c.values[userID]
	c.mu.RUnlock()
	if ok || c.load == nil {
		return n
	}

	n = c.load(ctx, userID)
	c.mu.Lock()
	// An event may have landed while loading; it wins.
	if cur, ok := c.values[userID]; ok {
		n = cur
	} else {
		c.values[userID] = n
	}
	c.mu.Unlock()
	return n
}

// Close stops listening for events
func (c *Counter) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}
