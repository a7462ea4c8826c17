package support

import (
	"context"

	"github.com/osse101/storefront/internal/domain"
)

// Backend is the remote source of truth for support tickets. Failures are
// returned as *domain.BackendError.
type Backend interface {
	GetUserSupportTickets(ctx context.Context, userID string) ([]domain.SupportTicket, error)
	CreateSupportTicket(ctx context.Context, record TicketRecord) (domain.SupportTicket, error)
	AddSupportMessage(ctx context.Context, record MessageRecord) (domain.SupportMessage, error)
}

// TicketRecord is the create-ticket request body
type TicketRecord struct {
	UserID   string                `json:"user_id"`
	Subject  string                `json:"subject"`
	Priority domain.TicketPriority `json:"priority"`
	OrderRef string                `json:"order_id,omitempty"`
	Status   domain.TicketStatus   `json:"status"`
}

// MessageRecord is the add-message request body
type MessageRecord struct {
	TicketID   string            `json:"ticket_id"`
	UserID     string            `json:"user_id"`
	SenderType domain.SenderType `json:"sender_type"`
	Body       string            `json:"message"`
}

// NewTicket is what a user submits to open a ticket
type NewTicket struct {
	Subject  string                `json:"subject" validate:"required,max=200"`
	Message  string                `json:"message" validate:"required,max=5000"`
	Priority domain.TicketPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	OrderRef string                `json:"order_id" validate:"max=100"`
}

// Realtime delivers change pushes for a topic. onChange carries no data:
// receivers re-fetch.
type Realtime interface {
	Subscribe(topic string, onChange func()) error
	Unsubscribe(topic string)
}

// Topic returns the realtime topic for a user's tickets
func Topic(userID string) string {
	return TopicPrefix + userID
}
