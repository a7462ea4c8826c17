package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/storefront/internal/badge"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/metrics"
	"github.com/osse101/storefront/internal/sse"
	"github.com/osse101/storefront/internal/store"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Hub      *sse.Hub
	Cart     *store.Collection[domain.LineItem]
	Wishlist *store.Collection[domain.WishlistEntry]
}

// EventHandlers are the bus subscribers owned by the application
type EventHandlers struct {
	Metrics       *metrics.EventMetricsCollector
	Bridge        *sse.Bridge
	CartBadge     *badge.Counter
	WishlistBadge *badge.Counter
}

// RegisterEventHandlers sets up all event handlers and subscribers.
// This includes:
// - Metrics collector (for event-based metrics)
// - SSE bridge (pushes every event to the owner's browser streams)
// - Header badge counters
func RegisterEventHandlers(deps EventHandlerDependencies) (*EventHandlers, error) {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	bridge := sse.NewBridge(deps.Hub)
	bridge.Register(deps.EventBus)
	slog.Info(LogMsgSSEBridgeRegistered)

	handlers := &EventHandlers{
		Metrics:       metricsCollector,
		Bridge:        bridge,
		CartBadge:     badge.NewCartBadge(deps.EventBus, deps.Cart),
		WishlistBadge: badge.NewWishlistBadge(deps.EventBus, deps.Wishlist),
	}
	slog.Info(LogMsgBadgesRegistered)

	return handlers, nil
}

// Close removes every subscription
func (h *EventHandlers) Close() {
	h.WishlistBadge.Close()
	h.CartBadge.Close()
	h.Bridge.Close()
	h.Metrics.Close()
}
