package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/storefront/internal/event"
)

func TestEventMetricsCollector_CountsPublishedEvents(t *testing.T) {
	bus := event.NewMemoryBus()
	collector := NewEventMetricsCollector()
	require.NoError(t, collector.Register(bus))
	defer collector.Close()

	before := testutil.ToFloat64(EventsPublished.WithLabelValues(string(event.WishlistUpdated)))

	require.NoError(t, event.Emit(context.Background(), bus, event.WishlistChangedV1{UserID: "u1", Count: 2}))
	require.NoError(t, event.Emit(context.Background(), bus, event.WishlistChangedV1{UserID: "u1", Count: 1}))

	after := testutil.ToFloat64(EventsPublished.WithLabelValues(string(event.WishlistUpdated)))
	assert.Equal(t, 2.0, after-before)
}

func TestEventMetricsCollector_CountsHandlerFailures(t *testing.T) {
	bus := event.NewMemoryBus()
	collector := NewEventMetricsCollector()
	require.NoError(t, collector.Register(bus))
	defer collector.Close()

	bus.Subscribe(event.SupportUpdated, func(ctx context.Context, e event.Event) error {
		return errors.New("broken view")
	})

	before := testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.SupportUpdated)))
	_ = event.Emit(context.Background(), bus, event.SupportChangedV1{UserID: "u1"})
	after := testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.SupportUpdated)))

	assert.Equal(t, 1.0, after-before)
}

func TestEventMetricsCollector_Close(t *testing.T) {
	bus := event.NewMemoryBus()
	collector := NewEventMetricsCollector()
	require.NoError(t, collector.Register(bus))

	assert.Equal(t, 1, bus.SubscriberCount(event.CartUpdated))
	collector.Close()
	assert.Equal(t, 0, bus.SubscriberCount(event.CartUpdated))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/cart/items/{id}", "418"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/items/sku-123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/cart/items/{id}", "418"))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, after-before)
}
