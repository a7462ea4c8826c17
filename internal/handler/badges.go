package handler

import (
	"context"
	"net/http"

	"github.com/osse101/storefront/internal/auth"
)

// BadgeCounter reads a header badge value
type BadgeCounter interface {
	Value(ctx context.Context, userID string) int
}

// BadgesResponse holds the header badge counts
type BadgesResponse struct {
	Cart     int `json:"cart"`
	Wishlist int `json:"wishlist"`
}

// HandleBadges returns the header badge counts. Anonymous callers get zeros.
// @Summary Header badges
// @Tags badges
// @Produce json
// @Success 200 {object} BadgesResponse
// @Router /api/v1/badges [get]
func HandleBadges(cartBadge, wishlistBadge BadgeCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp BadgesResponse
		if userID, ok := auth.UserFromContext(r.Context()); ok {
			resp.Cart = cartBadge.Value(r.Context(), userID)
			resp.Wishlist = wishlistBadge.Value(r.Context(), userID)
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
