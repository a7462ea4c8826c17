package metrics

import (
	"context"

	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct {
	unsubscribes []event.Unsubscribe
}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events and, when the bus supports it, to handler failures
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		e.unsubscribes = append(e.unsubscribes, bus.Subscribe(eventType, e.HandleEvent))
	}

	if mb, ok := bus.(*event.MemoryBus); ok {
		mb.Observe(func(ctx context.Context, evt event.Event, err error) {
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		})
	}

	return nil
}

// Close removes the collector's subscriptions
func (e *EventMetricsCollector) Close() {
	for _, unsubscribe := range e.unsubscribes {
		unsubscribe()
	}
	e.unsubscribes = nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.CartUpdated:
		payload, ok := evt.Payload.(event.CartChangedV1)
		if !ok {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type)
			return nil
		}
		CartUnits.Observe(float64(payload.Count))

	case event.SupportUpdated:
		SupportRefreshes.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
