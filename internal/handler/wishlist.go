package handler

import (
	"context"
	"net/http"

	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/wishlist"
)

// WishlistResponse is a filtered, sorted wishlist view
type WishlistResponse struct {
	Entries []domain.WishlistEntry `json:"entries"`
	Count   int                    `json:"count"`
}

// ToggleWishlistResponse reports which way a toggle went
type ToggleWishlistResponse struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
	Count   int    `json:"count"`
}

// HandleListWishlist returns the wishlist, optionally filtered and sorted
// @Summary List wishlist
// @Tags wishlist
// @Produce json
// @Param q query string false "Case-insensitive title or seller filter"
// @Param sort query string false "newest, oldest, price_asc or price_desc"
// @Success 200 {object} WishlistResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/wishlist [get]
func HandleListWishlist(svc wishlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := wishlist.Query{
			Filter: GetOptionalQueryParam(r, "q", ""),
			Sort:   GetOptionalQueryParam(r, "sort", wishlist.SortNewest),
		}
		if err := GetValidator().ValidateStruct(q); err != nil {
			respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:  ErrMsgInvalidRequestSummary,
				Fields: FormatValidationError(err),
			})
			return
		}

		respondJSON(w, http.StatusOK, WishlistResponse{
			Entries: svc.List(r.Context(), q),
			Count:   svc.Count(r.Context()),
		})
	}
}

// HandleToggleWishlist saves or un-saves a product
// @Summary Toggle wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Param request body domain.Product true "Product"
// @Success 200 {object} ToggleWishlistResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/wishlist/toggle [post]
func HandleToggleWishlist(svc wishlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.Product
		if err := DecodeForUser(r, w, &req, "Toggle wishlist", func(ctx context.Context) error {
			_, err := svc.Toggle(ctx, domain.Product{})
			return err
		}); err != nil {
			return
		}

		saved, err := svc.Toggle(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, "Toggle wishlist", err)
			return
		}

		msg := MsgWishlistRemoved
		if saved {
			msg = MsgWishlistAdded
		}
		respondJSON(w, http.StatusOK, ToggleWishlistResponse{
			Message: msg,
			Saved:   saved,
			Count:   svc.Count(r.Context()),
		})
	}
}

// HandleRemoveWishlistEntry deletes an entry by id
// @Summary Remove wishlist entry
// @Tags wishlist
// @Produce json
// @Param id path string true "Entry id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/wishlist/{id} [delete]
func HandleRemoveWishlistEntry(svc wishlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		if err := svc.Remove(r.Context(), entryID); err != nil {
			respondServiceError(w, r, "Remove wishlist entry", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgEntryRemoved})
	}
}
