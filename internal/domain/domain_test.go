package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWishlistEntry_DiscountPercent(t *testing.T) {
	orig := decimal.RequireFromString("80.00")
	zero := decimal.Zero

	tests := []struct {
		name     string
		entry    WishlistEntry
		expected int
	}{
		{"no original price", WishlistEntry{Price: decimal.RequireFromString("10")}, 0},
		{"quarter off", WishlistEntry{Price: decimal.RequireFromString("60.00"), OriginalPrice: &orig}, 25},
		{"price above original", WishlistEntry{Price: decimal.RequireFromString("90.00"), OriginalPrice: &orig}, 0},
		{"zero original", WishlistEntry{Price: decimal.RequireFromString("5"), OriginalPrice: &zero}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.DiscountPercent())
		})
	}
}

func TestPriceAlert_IsArmed(t *testing.T) {
	now := time.Now()
	assert.True(t, PriceAlert{Active: true}.IsArmed())
	assert.False(t, PriceAlert{Active: false}.IsArmed())
	assert.False(t, PriceAlert{Active: true, TriggeredAt: &now}.IsArmed())
}

func TestCountUnits(t *testing.T) {
	items := []LineItem{{ID: "a", Quantity: 2}, {ID: "b", Quantity: 3}}
	assert.Equal(t, 5, CountUnits(items))
	assert.Equal(t, 0, CountUnits(nil))
}

func TestBackendError_UnwrapsToRemoteFailure(t *testing.T) {
	var err error = &BackendError{Code: "rate_limited", Message: "slow down"}
	wrapped := fmt.Errorf("create ticket: %w", err)

	assert.True(t, errors.Is(wrapped, ErrRemoteOperationFailed))

	var be *BackendError
	assert.True(t, errors.As(wrapped, &be))
	assert.Equal(t, "slow down", be.UserMessage())
	assert.Contains(t, err.Error(), "rate_limited")
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, DirectionBelow.Valid())
	assert.False(t, Direction("sideways").Valid())
	assert.True(t, TicketStatusInProgress.Valid())
	assert.False(t, TicketStatus("archived").Valid())
	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, TicketPriority("").Valid())
}
