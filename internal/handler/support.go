package handler

import (
	"context"
	"net/http"

	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/support"
)

// AppendMessageRequest is a user reply on a ticket
type AppendMessageRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

// TicketsResponse is the user's ticket mirror
type TicketsResponse struct {
	Tickets []domain.SupportTicket `json:"tickets"`
}

// remoteContext keeps support calls running when the client goes away, so a
// submitted ticket is not abandoned halfway
func remoteContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// HandleListTickets returns the mirrored support tickets
// @Summary List support tickets
// @Tags support
// @Produce json
// @Success 200 {object} TicketsResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/support/tickets [get]
func HandleListTickets(mgr *support.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := remoteContext(r)
		session, err := mgr.For(ctx)
		if err != nil {
			respondServiceError(w, r, "List support tickets", err)
			return
		}
		respondJSON(w, http.StatusOK, TicketsResponse{Tickets: session.Tickets(ctx)})
	}
}

// HandleCreateTicket opens a support ticket with its first message
// @Summary Create support ticket
// @Tags support
// @Accept json
// @Produce json
// @Param request body support.NewTicket true "Ticket"
// @Success 201 {object} domain.SupportTicket
// @Failure 400 {object} ValidationErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/support/tickets [post]
func HandleCreateTicket(mgr *support.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := remoteContext(r)
		session, err := mgr.For(ctx)
		if err != nil {
			respondServiceError(w, r, "Create support ticket", err)
			return
		}

		var req support.NewTicket
		if err := DecodeAndValidateRequest(r, w, &req, "Create support ticket"); err != nil {
			return
		}

		ticket, err := session.CreateTicket(ctx, req)
		if err != nil {
			respondServiceError(w, r, "Create support ticket", err)
			return
		}
		respondJSON(w, http.StatusCreated, ticket)
	}
}

// HandleAppendMessage posts a user message on a ticket
// @Summary Reply to support ticket
// @Tags support
// @Accept json
// @Produce json
// @Param id path string true "Ticket id"
// @Param request body AppendMessageRequest true "Message"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/support/tickets/{id}/messages [post]
func HandleAppendMessage(mgr *support.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		ctx := remoteContext(r)
		session, err := mgr.For(ctx)
		if err != nil {
			respondServiceError(w, r, "Append support message", err)
			return
		}

		var req AppendMessageRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Append support message"); err != nil {
			return
		}

		if err := session.AppendMessage(ctx, ticketID, req.Message); err != nil {
			respondServiceError(w, r, "Append support message", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgMessageSent})
	}
}
