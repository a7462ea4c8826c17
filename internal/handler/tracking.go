package handler

import (
	"net/http"

	"github.com/osse101/storefront/internal/tracking"
)

// TrackingRequest carries the number typed into the tracking form
type TrackingRequest struct {
	Number string `json:"number" validate:"required,max=100"`
}

// HandleTracking returns the widget configuration for a tracking number
// @Summary Prepare package tracking
// @Tags tracking
// @Accept json
// @Produce json
// @Param request body TrackingRequest true "Tracking number"
// @Success 200 {object} tracking.Widget
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tracking [post]
func HandleTracking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrackingRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Tracking"); err != nil {
			return
		}

		widget, err := tracking.WidgetConfig(req.Number)
		if err != nil {
			respondServiceError(w, r, "Tracking", err)
			return
		}
		respondJSON(w, http.StatusOK, widget)
	}
}
