package handler

import (
	"context"
	"net/http"

	"github.com/osse101/storefront/internal/cart"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/pricing"
)

// MaxQuantity bounds a single cart line
const MaxQuantity = 10000

// AddCartItemRequest is a product plus the quantity to add. A zero
// quantity adds one unit.
type AddCartItemRequest struct {
	domain.Product
	Quantity int `json:"quantity" validate:"min=0,max=10000"`
}

// SetQuantityRequest replaces a line's quantity. Zero removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=10000"`
}

// CartResponse is the cart with its derived totals
type CartResponse struct {
	Items   []domain.LineItem `json:"items"`
	Count   int               `json:"count"`
	Summary pricing.Summary   `json:"summary"`
}

func cartResponse(r *http.Request, svc cart.Service) CartResponse {
	items := svc.Items(r.Context())
	return CartResponse{
		Items:   items,
		Count:   domain.CountUnits(items),
		Summary: svc.Summary(r.Context()).Rounded(),
	}
}

// HandleGetCart returns the signed-in user's cart
// @Summary Get cart
// @Description Lines, unit count and the priced summary of the cart
// @Tags cart
// @Produce json
// @Success 200 {object} CartResponse
// @Router /api/v1/cart [get]
func HandleGetCart(svc cart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, cartResponse(r, svc))
	}
}

// HandleAddCartItem adds a product to the cart, merging with an existing line
// @Summary Add to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body AddCartItemRequest true "Product and quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/cart/items [post]
func HandleAddCartItem(svc cart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddCartItemRequest
		if err := DecodeForUser(r, w, &req, "Add cart item", func(ctx context.Context) error {
			_, err := svc.AddItem(ctx, domain.Product{}, 0)
			return err
		}); err != nil {
			return
		}

		if _, err := svc.AddItem(r.Context(), req.Product, req.Quantity); err != nil {
			respondServiceError(w, r, "Add cart item", err)
			return
		}

		logger.FromContext(r.Context()).Info("Cart item added", "item", req.Key, "quantity", req.Quantity)
		respondJSON(w, http.StatusOK, cartResponse(r, svc))
	}
}

// HandleSetCartQuantity replaces the quantity of a line
// @Summary Set line quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "Line id"
// @Param request body SetQuantityRequest true "New quantity"
// @Success 200 {object} CartResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/cart/items/{id}/quantity [patch]
func HandleSetCartQuantity(svc cart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		var req SetQuantityRequest
		if err := DecodeForUser(r, w, &req, "Set cart quantity", func(ctx context.Context) error {
			_, err := svc.SetQuantity(ctx, itemID, 1)
			return err
		}); err != nil {
			return
		}

		if _, err := svc.SetQuantity(r.Context(), itemID, req.Quantity); err != nil {
			respondServiceError(w, r, "Set cart quantity", err)
			return
		}
		respondJSON(w, http.StatusOK, cartResponse(r, svc))
	}
}

// HandleSetCartAddons replaces the optional services of a line
// @Summary Set line add-ons
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "Line id"
// @Param request body domain.Addons true "Add-on selection"
// @Success 200 {object} CartResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/cart/items/{id}/addons [put]
func HandleSetCartAddons(svc cart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		var req domain.Addons
		if err := DecodeForUser(r, w, &req, "Set cart add-ons", func(ctx context.Context) error {
			_, err := svc.SetAddons(ctx, itemID, domain.Addons{})
			return err
		}); err != nil {
			return
		}

		if _, err := svc.SetAddons(r.Context(), itemID, req); err != nil {
			respondServiceError(w, r, "Set cart add-ons", err)
			return
		}
		respondJSON(w, http.StatusOK, cartResponse(r, svc))
	}
}

// HandleRemoveCartItem deletes a line
// @Summary Remove from cart
// @Tags cart
// @Produce json
// @Param id path string true "Line id"
// @Success 200 {object} CartResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/cart/items/{id} [delete]
func HandleRemoveCartItem(svc cart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		if _, err := svc.RemoveItem(r.Context(), itemID); err != nil {
			respondServiceError(w, r, "Remove cart item", err)
			return
		}
		respondJSON(w, http.StatusOK, cartResponse(r, svc))
	}
}

// HandleClearCart empties the cart
// @Summary Clear cart
// @Tags cart
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/cart [delete]
func HandleClearCart(svc cart.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context()); err != nil {
			respondServiceError(w, r, "Clear cart", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgCartCleared})
	}
}
