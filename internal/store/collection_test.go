package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/storefront/internal/domain"
)

func newCartCollection(b Backend) *Collection[domain.LineItem] {
	return NewCollection[domain.LineItem](b, domain.KindCart)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cart_u-42", Key(domain.KindCart, "u-42"))
	assert.Equal(t, "priceAlerts_abc", Key(domain.KindPriceAlerts, "abc"))
}

func TestCollection_ReadMissingPartitionIsEmpty(t *testing.T) {
	c := newCartCollection(NewMemoryBackend())

	items := c.Read(context.Background(), "nobody")

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCollection_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	c := newCartCollection(backend)

	in := []domain.LineItem{
		{ID: "sku-1", Title: "Lamp", UnitPrice: decimal.RequireFromString("20.00"), Quantity: 2},
		{ID: "sku-2", Title: "Rug", UnitPrice: decimal.RequireFromString("7.5"), Quantity: 1},
	}
	require.NoError(t, c.Write(ctx, "u1", in))

	out := c.Read(ctx, "u1")
	require.Len(t, out, 2)
	assert.Equal(t, "sku-1", out[0].ID)
	assert.True(t, out[0].UnitPrice.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, 1, out[1].Quantity)

	raw, err := backend.Get(ctx, "cart_u1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"schema":"cart"`)
	assert.Contains(t, string(raw), `"version":1`)
}

func TestCollection_ClearPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	c := newCartCollection(backend)

	require.NoError(t, c.Write(ctx, "u1", []domain.LineItem{{ID: "a", Quantity: 1}}))
	require.NoError(t, c.Clear(ctx, "u1"))

	raw, err := backend.Get(ctx, "cart_u1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
	assert.Empty(t, c.Read(ctx, "u1"))
}

func TestCollection_PartitionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	cart := newCartCollection(backend)
	wishlist := NewCollection[domain.WishlistEntry](backend, domain.KindWishlist)

	require.NoError(t, cart.Write(ctx, "u1", []domain.LineItem{{ID: "a", Quantity: 1}}))

	assert.Empty(t, cart.Read(ctx, "u2"))
	assert.Empty(t, wishlist.Read(ctx, "u1"))
}

func TestCollection_MalformedDataReadsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"plain string", `"hello"`},
		{"number", `42`},
		{"envelope of another kind", `{"schema":"wishlist","version":1,"items":[]}`},
		{"future version", `{"schema":"cart","version":99,"items":[{"id":"a","quantity":1}]}`},
		{"zero version envelope", `{"schema":"cart","version":0,"items":[]}`},
		{"items not an array", `{"schema":"cart","version":1,"items":{"id":"a"}}`},
		{"truncated array", `[{"id":"a","quantity":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := NewMemoryBackend()
			require.NoError(t, backend.Set(ctx, "cart_u1", []byte(tt.raw)))

			items := newCartCollection(backend).Read(ctx, "u1")

			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestCollection_NullReadsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "cart_u1", []byte(" null ")))

	assert.Empty(t, newCartCollection(backend).Read(ctx, "u1"))
}

func TestCollection_LegacyBareArrayMigrates(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	legacy := `[{"id":"sku-1","title":"Lamp","unit_price":"20.00","quantity":3}]`
	require.NoError(t, backend.Set(ctx, "cart_u1", []byte(legacy)))
	c := newCartCollection(backend)

	items := c.Read(ctx, "u1")
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	// the next write upgrades the layout
	require.NoError(t, c.Write(ctx, "u1", items))
	raw, _ := backend.Get(ctx, "cart_u1")
	assert.True(t, strings.HasPrefix(string(raw), `{"schema":"cart"`))
}

func TestCollection_InvalidEntitiesDropped(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	raw := `{"schema":"cart","version":1,"items":[
		{"id":"good","quantity":2},
		{"id":"","quantity":1},
		{"id":"zero","quantity":0},
		{"id":"bad-price","unit_price":"abc","quantity":1},
		"garbage",
		{"id":"also-good","quantity":1}
	]}`
	require.NoError(t, backend.Set(ctx, "cart_u1", []byte(raw)))

	items := newCartCollection(backend).Read(ctx, "u1")

	require.Len(t, items, 2)
	assert.Equal(t, "good", items[0].ID)
	assert.Equal(t, "also-good", items[1].ID)
}

func TestCollection_NormalizerCoercesAndDrops(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	raw := `[{"id":"w1","product_key":"p1","rating":0},{"id":"w2","product_key":"drop-me","rating":5}]`
	require.NoError(t, backend.Set(ctx, "wishlist_u1", []byte(raw)))

	c := NewCollection[domain.WishlistEntry](backend, domain.KindWishlist,
		WithNormalizer(func(e domain.WishlistEntry) (domain.WishlistEntry, bool) {
			if e.ProductKey == "drop-me" {
				return e, false
			}
			if e.Rating == 0 {
				e.Rating = domain.DefaultRating
			}
			return e, true
		}))

	entries := c.Read(ctx, "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, domain.DefaultRating, entries[0].Rating)
}

type failingBackend struct {
	*MemoryBackend
	getErr error
	setErr error
}

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryBackend.Get(ctx, key)
}

func (f *failingBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

func TestCollection_BackendReadErrorIsEmpty(t *testing.T) {
	backend := &failingBackend{MemoryBackend: NewMemoryBackend(), getErr: errors.New("disk gone")}

	assert.Empty(t, newCartCollection(backend).Read(context.Background(), "u1"))
}

func TestCollection_BackendWriteErrorIsReturned(t *testing.T) {
	backend := &failingBackend{MemoryBackend: NewMemoryBackend(), setErr: errors.New("quota exceeded")}

	err := newCartCollection(backend).Write(context.Background(), "u1", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
