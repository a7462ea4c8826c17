package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got CartChangedV1

	bus.Subscribe(CartUpdated, func(ctx context.Context, e Event) error {
		payload, err := DecodePayload[CartChangedV1](e.Payload)
		require.NoError(t, err)
		got = payload
		return nil
	})

	err := Emit(context.Background(), bus, CartChangedV1{UserID: "u1", Count: 3})

	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, 3, got.Count)
}

func TestMemoryBus_DeliveryOrder(t *testing.T) {
	bus := NewMemoryBus()
	var order []int

	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe(WishlistUpdated, func(ctx context.Context, e Event) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, Emit(context.Background(), bus, WishlistChangedV1{UserID: "u1"}))
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestMemoryBus_OtherTypesNotDelivered(t *testing.T) {
	bus := NewMemoryBus()
	called := false
	bus.Subscribe(SupportUpdated, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	require.NoError(t, Emit(context.Background(), bus, AlertsChangedV1{UserID: "u1"}))
	assert.False(t, called)
}

func TestMemoryBus_FailingHandlerIsolated(t *testing.T) {
	bus := NewMemoryBus()
	var failures []error
	bus.Observe(func(ctx context.Context, e Event, err error) {
		failures = append(failures, err)
	})

	reached := 0
	bus.Subscribe(CartUpdated, func(ctx context.Context, e Event) error {
		return errors.New("handler error")
	})
	bus.Subscribe(CartUpdated, func(ctx context.Context, e Event) error {
		panic("boom")
	})
	bus.Subscribe(CartUpdated, func(ctx context.Context, e Event) error {
		reached++
		return nil
	})

	err := Emit(context.Background(), bus, CartChangedV1{UserID: "u1"})

	require.Error(t, err)
	assert.Equal(t, 1, reached, "healthy subscriber must still receive the event")
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[1], ErrHandlerPanicked)
	assert.Contains(t, err.Error(), "encountered 2 errors")
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus()
	count := 0
	unsubscribe := bus.Subscribe(ShowNotification, func(ctx context.Context, e Event) error {
		count++
		return nil
	})
	assert.Equal(t, 1, bus.SubscriberCount(ShowNotification))

	require.NoError(t, Notify(context.Background(), bus, "u1", domain.NotificationInfo, "hi"))
	unsubscribe()
	unsubscribe()
	require.NoError(t, Notify(context.Background(), bus, "u1", domain.NotificationInfo, "hi again"))

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.SubscriberCount(ShowNotification))
}

func TestMemoryBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := NewMemoryBus()
	second := 0
	var unsubscribeSecond Unsubscribe

	bus.Subscribe(CartUpdated, func(ctx context.Context, e Event) error {
		unsubscribeSecond()
		return nil
	})
	unsubscribeSecond = bus.Subscribe(CartUpdated, func(ctx context.Context, e Event) error {
		second++
		return nil
	})

	require.NoError(t, Emit(context.Background(), bus, CartChangedV1{UserID: "u1"}))
	require.NoError(t, Emit(context.Background(), bus, CartChangedV1{UserID: "u1"}))

	// the first publish used a snapshot taken before the unsubscribe
	assert.Equal(t, 1, second)
}

func TestNotify_Payload(t *testing.T) {
	bus := NewMemoryBus()
	var got Event
	bus.Subscribe(ShowNotification, func(ctx context.Context, e Event) error {
		got = e
		return nil
	})

	require.NoError(t, Notify(context.Background(), bus, "u9", domain.NotificationError, "failed"))

	assert.Equal(t, EventSchemaVersion, got.Version)
	n, ok := got.Payload.(NotificationV1)
	require.True(t, ok)
	assert.Equal(t, domain.NotificationError, n.Level)
	assert.Equal(t, "failed", n.Message)
	assert.Equal(t, "u9", n.Owner())
}

func TestNotify_SignedOutTargetsOriginStream(t *testing.T) {
	bus := NewMemoryBus()
	var owners []string
	bus.Subscribe(ShowNotification, func(ctx context.Context, e Event) error {
		owners = append(owners, e.Payload.Owner())
		return nil
	})

	ctx := auth.WithStream(context.Background(), "tab-1")
	require.NoError(t, Notify(ctx, bus, "", domain.NotificationError, "Please sign in"))
	require.NoError(t, Notify(context.Background(), bus, "", domain.NotificationError, "Please sign in"))
	require.NoError(t, Notify(ctx, bus, "u1", domain.NotificationInfo, "hi"))

	assert.Equal(t, []string{StreamOwner("tab-1"), "", "u1"}, owners)
}

func TestDecodePayload_FromSerializedMap(t *testing.T) {
	raw := map[string]interface{}{"user_id": "u1", "message": "saved", "type": "success"}

	n, err := DecodePayload[NotificationV1](raw)

	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSuccess, n.Level)
	assert.Equal(t, "saved", n.Message)
}

func TestDecodePayload_RawAndPointer(t *testing.T) {
	n, err := DecodePayload[NotificationV1]([]byte(`{"user_id":"u2","message":"gone","type":"info"}`))
	require.NoError(t, err)
	assert.Equal(t, "u2", n.UserID)

	orig := &NotificationV1{UserID: "u3", Message: "ptr"}
	n, err = DecodePayload[NotificationV1](orig)
	require.NoError(t, err)
	assert.Equal(t, "ptr", n.Message)

	_, err = DecodePayload[NotificationV1]([]byte(`{"message":`))
	assert.ErrorContains(t, err, "decode event.NotificationV1")

	_, err = DecodePayload[NotificationV1]((*NotificationV1)(nil))
	assert.Error(t, err)
}

func TestDeadLetterWriter_Observe(t *testing.T) {
	dir := t.TempDir()
	dlw, err := NewDeadLetterWriter(dir)
	require.NoError(t, err)

	bus := NewMemoryBus()
	bus.Observe(dlw.Observe)
	bus.Subscribe(PriceAlertsUpdated, func(ctx context.Context, e Event) error {
		return errors.New("render failed")
	})

	_ = Emit(context.Background(), bus, AlertsChangedV1{UserID: "u1"})
	require.NoError(t, dlw.Close())

	f, err := os.Open(filepath.Join(dir, DeadLetterFileName))
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
	assert.Equal(t, PriceAlertsUpdated, entry.EventType)
	assert.Equal(t, "u1", entry.Owner)
	assert.Contains(t, entry.Error, "render failed")
	assert.False(t, scanner.Scan())
}
