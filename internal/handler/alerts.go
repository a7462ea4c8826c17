package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/osse101/storefront/internal/alerts"
	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/domain"
)

// WatchFunc starts periodic price checks for a user
type WatchFunc func(userID string)

// CreateAlertRequest arms an alert on a product
type CreateAlertRequest struct {
	domain.Product
	TargetPrice decimal.Decimal  `json:"target_price" validate:"gt=0"`
	Direction   domain.Direction `json:"direction" validate:"required,oneof=below above"`
}

// UpdateAlertRequest changes an alert's threshold and re-arms it
type UpdateAlertRequest struct {
	TargetPrice decimal.Decimal  `json:"target_price" validate:"gt=0"`
	Direction   domain.Direction `json:"direction" validate:"required,oneof=below above"`
}

// AlertsResponse lists the user's alerts
type AlertsResponse struct {
	Alerts []domain.PriceAlert `json:"alerts"`
}

// HandleListAlerts returns every price alert of the signed-in user
// @Summary List price alerts
// @Tags alerts
// @Produce json
// @Success 200 {object} AlertsResponse
// @Router /api/v1/alerts [get]
func HandleListAlerts(svc alerts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, AlertsResponse{Alerts: svc.List(r.Context())})
	}
}

// HandleCreateAlert arms a new price alert
// @Summary Create price alert
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body CreateAlertRequest true "Product, target and direction"
// @Success 201 {object} domain.PriceAlert
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/alerts [post]
func HandleCreateAlert(svc alerts.Service, watch WatchFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAlertRequest
		if err := DecodeForUser(r, w, &req, "Create price alert", func(ctx context.Context) error {
			_, err := svc.Create(ctx, domain.Product{}, decimal.Zero, "")
			return err
		}); err != nil {
			return
		}

		alert, err := svc.Create(r.Context(), req.Product, req.TargetPrice, req.Direction)
		if err != nil {
			respondServiceError(w, r, "Create price alert", err)
			return
		}

		if userID, ok := auth.UserFromContext(r.Context()); ok && watch != nil {
			watch(userID)
		}
		respondJSON(w, http.StatusCreated, alert)
	}
}

// HandleUpdateAlert changes an alert's target and direction
// @Summary Update price alert
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert id"
// @Param request body UpdateAlertRequest true "Target and direction"
// @Success 200 {object} domain.PriceAlert
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/alerts/{id} [put]
func HandleUpdateAlert(svc alerts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		var req UpdateAlertRequest
		if err := DecodeForUser(r, w, &req, "Update price alert", func(ctx context.Context) error {
			_, err := svc.Update(ctx, alertID, decimal.Zero, "")
			return err
		}); err != nil {
			return
		}

		alert, err := svc.Update(r.Context(), alertID, req.TargetPrice, req.Direction)
		if err != nil {
			respondServiceError(w, r, "Update price alert", err)
			return
		}
		respondJSON(w, http.StatusOK, alert)
	}
}

// HandleToggleAlert pauses or re-arms an alert
// @Summary Toggle price alert
// @Tags alerts
// @Produce json
// @Param id path string true "Alert id"
// @Success 200 {object} domain.PriceAlert
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/alerts/{id}/toggle [post]
func HandleToggleAlert(svc alerts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		alert, err := svc.ToggleActive(r.Context(), alertID)
		if err != nil {
			respondServiceError(w, r, "Toggle price alert", err)
			return
		}
		respondJSON(w, http.StatusOK, alert)
	}
}

// HandleRemoveAlert deletes an alert
// @Summary Remove price alert
// @Tags alerts
// @Produce json
// @Param id path string true "Alert id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/alerts/{id} [delete]
func HandleRemoveAlert(svc alerts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		if err := svc.Remove(r.Context(), alertID); err != nil {
			respondServiceError(w, r, "Remove price alert", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgAlertRemoved})
	}
}
