package wishlist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/concurrency"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/store"
)

type fixture struct {
	svc           *service
	backend       *store.MemoryBackend
	updates       []event.WishlistChangedV1
	notifications []event.NotificationV1
	clock         time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: store.NewMemoryBackend(),
		clock:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	bus := event.NewMemoryBus()
	bus.Subscribe(event.WishlistUpdated, func(_ context.Context, e event.Event) error {
		f.updates = append(f.updates, e.Payload.(event.WishlistChangedV1))
		return nil
	})
	bus.Subscribe(event.ShowNotification, func(_ context.Context, e event.Event) error {
		f.notifications = append(f.notifications, e.Payload.(event.NotificationV1))
		return nil
	})

	f.svc = NewService(NewCollection(f.backend), bus, concurrency.NewLockManager()).(*service)
	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("entry-%d", seq)
	}
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	return f
}

func signedIn(userID string) context.Context {
	return auth.WithUser(context.Background(), userID)
}

func product(key, title, seller, price string) domain.Product {
	return domain.Product{Key: key, Title: title, Seller: seller, Price: decimal.RequireFromString(price)}
}

func TestToggle_AddsWithDefaults(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")

	added, err := f.svc.Toggle(ctx, product("p1", "Desk Lamp", "Acme", "19.99"))
	require.NoError(t, err)
	assert.True(t, added)

	entries := f.svc.List(ctx, Query{})
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "entry-1", e.ID)
	assert.Equal(t, "p1", e.ProductKey)
	assert.Equal(t, domain.DefaultRating, e.Rating)
	require.Len(t, e.PriceHistory, 1)
	assert.True(t, e.PriceHistory[0].Price.Equal(decimal.RequireFromString("19.99")))

	require.Len(t, f.updates, 1)
	assert.Equal(t, 1, f.updates[0].Count)
	require.Len(t, f.notifications, 1)
	assert.Equal(t, domain.NotificationSuccess, f.notifications[0].Level)
}

func TestToggle_IsSelfInverse(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")
	_, err := f.svc.Toggle(ctx, product("keep", "Chair", "Acme", "50"))
	require.NoError(t, err)
	before := f.svc.List(ctx, Query{})

	added, err := f.svc.Toggle(ctx, product("p2", "Mug", "Acme", "5"))
	require.NoError(t, err)
	assert.True(t, added)
	added, err = f.svc.Toggle(ctx, product("p2", "Mug", "Acme", "5"))
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, before, f.svc.List(ctx, Query{}))
	assert.Len(t, f.updates, 3, "both branches publish")
	last := f.notifications[len(f.notifications)-1]
	assert.Equal(t, domain.NotificationInfo, last.Level)
	assert.Contains(t, last.Message, "Removed")
}

func TestToggle_Unauthenticated(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Toggle(context.Background(), product("p1", "Lamp", "", "1"))

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, f.updates)
	require.Len(t, f.notifications, 1)
	assert.Equal(t, domain.NotificationError, f.notifications[0].Level)
}

func TestToggle_IdentityCheckedBeforeProduct(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Toggle(context.Background(), domain.Product{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	require.Len(t, f.notifications, 1)

	_, err = f.svc.Toggle(signedIn("u1"), domain.Product{})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestAdd_IsNoOpWhenPresent(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")

	first, err := f.svc.Add(ctx, product("p1", "Lamp", "", "1"))
	require.NoError(t, err)
	second, err := f.svc.Add(ctx, product("p1", "Lamp", "", "1"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.svc.Count(ctx))
	assert.Len(t, f.updates, 1)
	assert.True(t, f.svc.Contains(ctx, "p1"))
	assert.False(t, f.svc.Contains(ctx, "p2"))
}

func TestRemove(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")
	entry, err := f.svc.Add(ctx, product("p1", "Lamp", "", "1"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, entry.ID))
	assert.Equal(t, 0, f.svc.Count(ctx))

	err = f.svc.Remove(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestList_FilterAndSort(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")
	for _, p := range []domain.Product{
		product("a", "Oak Desk", "WoodWorks", "120.00"),
		product("b", "Desk Lamp", "Acme", "19.99"),
		product("c", "Coffee Mug", "DESKTOP Supplies", "7.50"),
		product("d", "Chair", "Acme", "80.00"),
	} {
		_, err := f.svc.Add(ctx, p)
		require.NoError(t, err)
	}

	keys := func(entries []domain.WishlistEntry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.ProductKey
		}
		return out
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"default is newest first", Query{}, []string{"d", "c", "b", "a"}},
		{"oldest", Query{Sort: SortOldest}, []string{"a", "b", "c", "d"}},
		{"price ascending", Query{Sort: SortPriceAsc}, []string{"c", "b", "d", "a"}},
		{"price descending", Query{Sort: SortPriceDesc}, []string{"a", "d", "b", "c"}},
		{"filter matches title and seller case-insensitively", Query{Filter: "desk", Sort: SortOldest}, []string{"a", "b", "c"}},
		{"filter on seller", Query{Filter: "ACME", Sort: SortPriceAsc}, []string{"b", "d"}},
		{"no match", Query{Filter: "sofa"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(f.svc.List(ctx, tt.query)))
		})
	}
}

func TestRecordPrice(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")
	_, err := f.svc.Add(ctx, product("p1", "Lamp", "", "20.00"))
	require.NoError(t, err)

	changed, err := f.svc.RecordPrice(ctx, "p1", decimal.RequireFromString("20.00"))
	require.NoError(t, err)
	assert.False(t, changed, "same price is not recorded")

	changed, err = f.svc.RecordPrice(ctx, "p1", decimal.RequireFromString("18.50"))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.svc.RecordPrice(ctx, "unknown", decimal.RequireFromString("1"))
	require.NoError(t, err)
	assert.False(t, changed)

	e := f.svc.List(ctx, Query{})[0]
	assert.True(t, e.Price.Equal(decimal.RequireFromString("18.50")))
	require.Len(t, e.PriceHistory, 2)
	assert.True(t, e.PriceHistory[0].Price.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, e.PriceHistory[1].At.After(e.PriceHistory[0].At))
}

func TestRecordPrice_CapsHistory(t *testing.T) {
	f := setup(t)
	ctx := signedIn("u1")
	_, err := f.svc.Add(ctx, product("p1", "Lamp", "", "1.00"))
	require.NoError(t, err)

	for i := 0; i < MaxPriceHistory+10; i++ {
		_, err := f.svc.RecordPrice(ctx, "p1", decimal.NewFromInt(int64(i+2)))
		require.NoError(t, err)
	}

	e := f.svc.List(ctx, Query{})[0]
	assert.Len(t, e.PriceHistory, MaxPriceHistory)
	assert.True(t, e.PriceHistory[MaxPriceHistory-1].Price.Equal(e.Price))
}

func TestNormalizeEntry_CoercesLegacyRecords(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	legacy := `[{"id":"w1","product_key":"p1","title":"Lamp","price":"9.99","rating":0,"added_at":"2025-01-01T00:00:00Z"},
	            {"id":"w2","product_key":"","title":"orphan","price":"1"}]`
	require.NoError(t, backend.Set(ctx, "wishlist_u1", []byte(legacy)))

	entries := NewCollection(backend).Read(ctx, "u1")

	require.Len(t, entries, 1)
	assert.Equal(t, domain.DefaultRating, entries[0].Rating)
	require.Len(t, entries[0].PriceHistory, 1)
	assert.True(t, entries[0].PriceHistory[0].Price.Equal(decimal.RequireFromString("9.99")))
}
