package domain

import "time"

// TicketStatus is owned by the remote backend; the client only mirrors it
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether s is a known status
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority of a support ticket
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// Valid reports whether p is a known priority
func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// SenderType tags who wrote a support message
type SenderType string

const (
	SenderUser  SenderType = "user"
	SenderAdmin SenderType = "admin"
)

// SupportMessage is one message in a ticket thread
type SupportMessage struct {
	ID         string     `json:"id"`
	TicketID   string     `json:"ticket_id"`
	SenderType SenderType `json:"sender_type"`
	Body       string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SupportTicket mirrors a ticket held by the remote backend
type SupportTicket struct {
	ID        string           `json:"id" validate:"required"`
	UserID    string           `json:"user_id" validate:"required"`
	OrderRef  string           `json:"order_id,omitempty"`
	Subject   string           `json:"subject"`
	Status    TicketStatus     `json:"status"`
	Priority  TicketPriority   `json:"priority"`
	Messages  []SupportMessage `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// HasAdminReply reports whether any admin message exists in the thread
func (t SupportTicket) HasAdminReply() bool {
	for _, m := range t.Messages {
		if m.SenderType == SenderAdmin {
			return true
		}
	}
	return false
}
