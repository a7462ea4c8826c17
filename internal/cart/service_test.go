package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/concurrency"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/pricing"
	"github.com/osse101/storefront/internal/store"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) ofType(t event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	svc     Service
	backend *store.MemoryBackend
	events  *recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	backend := store.NewMemoryBackend()
	bus := event.NewMemoryBus()
	rec := &recorder{}
	bus.Subscribe(event.CartUpdated, rec.handle)
	bus.Subscribe(event.ShowNotification, rec.handle)

	svc := NewService(NewCollection(backend), bus, concurrency.NewLockManager(), pricing.NewCalculator(pricing.DefaultRules()))
	svc.(*service).now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return &fixture{svc: svc, backend: backend, events: rec}
}

func signedIn(userID string) context.Context {
	return auth.WithUser(context.Background(), userID)
}

func product(key, price string) domain.Product {
	return domain.Product{Key: key, Title: "Item " + key, Price: decimal.RequireFromString(price)}
}

func TestCart_EndToEndScenario(t *testing.T) {
	// ARRANGE
	f := setup(t)
	ctx := signedIn("u1")

	// ACT: add one item priced 20.00
	items, err := f.svc.AddItem(ctx, product("lamp", "20.00"), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// ASSERT
	assert.Equal(t, 1, f.svc.Count(ctx))
	summary := f.svc.Summary(ctx)
	assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("20.00")), summary.Subtotal.String())
	assert.True(t, summary.ServiceFee.Equal(decimal.RequireFromString("1.50")), summary.ServiceFee.String())
	assert.False(t, items[0].Addons.QualityInspection)
	assert.False(t, items[0].Addons.PackageConsolidation)

	// ACT: enable quality inspection
	items, err = f.svc.SetAddons(ctx, "lamp", domain.Addons{QualityInspection: true})
	require.NoError(t, err)

	// ASSERT
	calc := pricing.NewCalculator(pricing.DefaultRules())
	assert.True(t, calc.LineTotal(items[0]).Equal(decimal.RequireFromString("26.99")))
	assert.True(t, f.svc.Summary(ctx).EstimatedTotal.Equal(decimal.RequireFromString("28.49")))

	// ACT: remove it again
	items, err = f.svc.RemoveItem(ctx, "lamp")
	require.NoError(t, err)

	// ASSERT
	assert.Empty(t, items)
	assert.Equal(t, 0, f.svc.Count(ctx))
	raw, err := f.backend.Get(ctx, "cart_u1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)

	updates := f.events.ofType(event.CartUpdated)
	require.Len(t, updates, 3)
	last := updates[2].Payload.(event.CartChangedV1)
	assert.Equal(t, "u1", last.UserID)
	assert.Equal(t, 0, last.Count)
	assert.Empty(t, last.Items)

	notes := f.events.ofType(event.ShowNotification)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationInfo, notes[0].Payload.(event.NotificationV1).Level)
}

func TestCart_AddItemMergesByKey(t *testing.T) {
	quantities := [][]int{
		{1},
		{1, 1, 1},
		{2, 5, 3},
		{7, 1},
	}

	for _, qs := range quantities {
		f := setup(t)
		ctx := signedIn("u1")
		want := 0
		for _, q := range qs {
			_, err := f.svc.AddItem(ctx, product("sku", "3.00"), q)
			require.NoError(t, err)
			want += q
		}

		items := f.svc.Items(ctx)
		require.Len(t, items, 1, "same key must never produce duplicate lines")
		assert.Equal(t, want, items[0].Quantity)
		assert.Equal(t, want, f.svc.Count(ctx))
	}
}

func TestCart_AddItemDefaultsQuantity(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")

	items, err := f.svc.AddItem(ctx, product("sku", "3.00"), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)

	items, err = f.svc.AddItem(ctx, product("sku", "3.00"), -4)
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCart_UnauthenticatedMutationFails(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, product("sku", "3.00"), 1)

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, f.events.ofType(event.CartUpdated))
	notes := f.events.ofType(event.ShowNotification)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationError, notes[0].Payload.(event.NotificationV1).Level)
	assert.Equal(t, MsgSignInRequired, notes[0].Payload.(event.NotificationV1).Message)

	assert.Empty(t, f.svc.Items(ctx))
	assert.Equal(t, 0, f.svc.Count(ctx))
}

func TestCart_SetQuantity(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")
	_, err := f.svc.AddItem(ctx, product("a", "1.00"), 1)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, product("b", "1.00"), 1)
	require.NoError(t, err)

	items, err := f.svc.SetQuantity(ctx, "a", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, 5, f.svc.Count(ctx))

	// zero is a removal
	items, err = f.svc.SetQuantity(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestCart_UnknownItem(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")

	_, err := f.svc.RemoveItem(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = f.svc.SetAddons(ctx, "ghost", domain.Addons{})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = f.svc.SetQuantity(ctx, "ghost", 3)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	assert.Empty(t, f.events.ofType(event.CartUpdated))
	_, err = f.backend.Get(ctx, "cart_u1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCart_ClearPublishesEmptyPayload(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")
	_, err := f.svc.AddItem(ctx, product("a", "1.00"), 3)
	require.NoError(t, err)

	require.NoError(t, f.svc.Clear(ctx))

	updates := f.events.ofType(event.CartUpdated)
	require.Len(t, updates, 2)
	payload := updates[1].Payload.(event.CartChangedV1)
	assert.Empty(t, payload.Items)
	assert.Equal(t, 0, payload.Count)
	assert.Empty(t, f.svc.Items(ctx))
}

func TestCart_PartitionsAreIsolated(t *testing.T) {
	f := setup(t)
	_, err := f.svc.AddItem(signedIn("alice"), product("a", "1.00"), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, f.svc.Count(signedIn("alice")))
	assert.Equal(t, 0, f.svc.Count(signedIn("bob")))
}

func TestCart_ConcurrentAddsSerialize(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.AddItem(ctx, product("sku", "1.00"), 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, f.svc.Count(ctx))
}

func TestCart_SubscribersSeeSettledCollection(t *testing.T) {
	backend := store.NewMemoryBackend()
	bus := event.NewMemoryBus()
	collection := NewCollection(backend)
	svc := NewService(collection, bus, concurrency.NewLockManager(), nil)

	var persistedCount int
	bus.Subscribe(event.CartUpdated, func(ctx context.Context, e event.Event) error {
		p := e.Payload.(event.CartChangedV1)
		persistedCount = domain.CountUnits(collection.Read(ctx, p.UserID))
		return nil
	})

	_, err := svc.AddItem(signedIn("u1"), product("a", "1.00"), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, persistedCount)
}

// flakyBackend fails every Set while failing is true
type flakyBackend struct {
	*store.MemoryBackend
	failing bool
}

func (f *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.failing {
		return assert.AnError
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

func TestCart_FailedWriteReturnsUnchangedCart(t *testing.T) {
	backend := &flakyBackend{MemoryBackend: store.NewMemoryBackend()}
	svc := NewService(NewCollection(backend), event.NewMemoryBus(), concurrency.NewLockManager(), pricing.NewCalculator(pricing.DefaultRules()))
	ctx := signedIn("u1")

	for _, key := range []string{"a", "b", "c"} {
		_, err := svc.AddItem(ctx, product(key, "10"), 1)
		require.NoError(t, err)
	}
	lines := func(items []domain.LineItem) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, fmt.Sprintf("%s x%d", it.ID, it.Quantity))
		}
		return out
	}
	want := []string{"a x1", "b x1", "c x1"}

	backend.failing = true

	got, err := svc.RemoveItem(ctx, "a")
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, want, lines(got))

	got, err = svc.AddItem(ctx, product("b", "10"), 2)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, want, lines(got))

	assert.Equal(t, want, lines(svc.Items(ctx)))
}
