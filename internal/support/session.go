package support

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osse101/storefront/internal/concurrency"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/store"
)

// Session mirrors one user's tickets. The remote backend is the source of
// truth: every mutation and every realtime push is followed by a full
// re-fetch, never a local merge. A failed remote call leaves the mirror
// untouched and publishes an error notification with the backend message.
type Session struct {
	userID      string
	backend     Backend
	realtime    Realtime
	mirror      *store.Collection[domain.SupportTicket]
	bus         event.Bus
	lockManager *concurrency.LockManager
}

// NewSession creates a session for userID. realtime may be nil.
func NewSession(userID string, backend Backend, realtime Realtime, mirror *store.Collection[domain.SupportTicket], bus event.Bus, lockManager *concurrency.LockManager) *Session {
	return &Session{
		userID:      userID,
		backend:     backend,
		realtime:    realtime,
		mirror:      mirror,
		bus:         bus,
		lockManager: lockManager,
	}
}

// NewCollection creates the persisted ticket mirror on backend
func NewCollection(backend store.Backend) *store.Collection[domain.SupportTicket] {
	return store.NewCollection[domain.SupportTicket](backend, domain.KindSupportTickets)
}

// UserID returns the session owner
func (s *Session) UserID() string {
	return s.userID
}

// Start subscribes to pushes for the user's topic and runs an initial
// refresh. A push re-fetches on a context detached from ctx's cancellation.
func (s *Session) Start(ctx context.Context) error {
	if s.realtime != nil {
		pushCtx := context.WithoutCancel(ctx)
		if err := s.realtime.Subscribe(Topic(s.userID), func() {
			refreshCtx, cancel := context.WithTimeout(pushCtx, PushRefreshTimeout)
			defer cancel()
			_ = s.Refresh(refreshCtx)
		}); err != nil {
			return fmt.Errorf("subscribe %s: %w", Topic(s.userID), err)
		}
	}
	logger.FromContext(ctx).Info(LogMsgSessionStarted, "user_id", s.userID)
	return s.Refresh(ctx)
}

// Stop ends the realtime subscription. The mirror is kept.
func (s *Session) Stop() {
	if s.realtime != nil {
		s.realtime.Unsubscribe(Topic(s.userID))
	}
	logger.Info(LogMsgSessionStopped, "user_id", s.userID)
}

// Tickets returns the mirrored tickets in backend order
func (s *Session) Tickets(ctx context.Context) []domain.SupportTicket {
	return s.mirror.Read(ctx, s.userID)
}

// Refresh replaces the mirror with the backend's ticket list
func (s *Session) Refresh(ctx context.Context) error {
	lock := s.lockManager.GetLock(store.Key(domain.KindSupportTickets, s.userID))
	lock.Lock()
	defer lock.Unlock()

	log := logger.FromContext(ctx)
	tickets, err := s.backend.GetUserSupportTickets(ctx, s.userID)
	if err != nil {
		log.Error(LogMsgRefreshFailed, "user_id", s.userID, "error", err)
		s.notifyFailure(ctx, err)
		return wrapRemote(err)
	}

	if err := s.mirror.Write(ctx, s.userID, tickets); err != nil {
		log.Error(LogMsgPersistFailed, "error", err)
		return err
	}
	log.Debug(LogMsgTicketsRefreshed, "count", len(tickets))

	if err := event.Emit(ctx, s.bus, event.SupportChangedV1{UserID: s.userID, Tickets: tickets}); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err)
	}
	return nil
}

// CreateTicket opens a ticket with its first message, then re-fetches
func (s *Session) CreateTicket(ctx context.Context, req NewTicket) (domain.SupportTicket, error) {
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if subject == "" || message == "" {
		s.notify(ctx, domain.NotificationWarning, MsgSubjectRequired)
		return domain.SupportTicket{}, fmt.Errorf("%w: subject and message are required", domain.ErrValidationFailed)
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.SupportTicket{}, fmt.Errorf("%w: unknown priority %q", domain.ErrValidationFailed, priority)
	}

	log := logger.FromContext(ctx)
	ticket, err := s.backend.CreateSupportTicket(ctx, TicketRecord{
		UserID:   s.userID,
		Subject:  subject,
		Priority: priority,
		OrderRef: strings.TrimSpace(req.OrderRef),
		Status:   domain.TicketStatusOpen,
	})
	if err != nil {
		s.notifyFailure(ctx, err)
		return domain.SupportTicket{}, wrapRemote(err)
	}
	log.Info(LogMsgTicketCreated, "ticket_id", ticket.ID)

	_, msgErr := s.backend.AddSupportMessage(ctx, MessageRecord{
		TicketID:   ticket.ID,
		UserID:     s.userID,
		SenderType: domain.SenderUser,
		Body:       message,
	})
	if msgErr != nil {
		s.notifyFailure(ctx, msgErr)
	}

	// Reconcile in both cases: the ticket exists remotely either way
	if err := s.Refresh(ctx); err != nil {
		log.Warn(LogMsgRefreshFailed, "error", err)
	}
	if msgErr != nil {
		return ticket, wrapRemote(msgErr)
	}

	s.notify(ctx, domain.NotificationSuccess, MsgTicketCreated)
	for _, t := range s.Tickets(ctx) {
		if t.ID == ticket.ID {
			return t, nil
		}
	}
	return ticket, nil
}

// AppendMessage sends a user message on ticketID, then re-fetches
func (s *Session) AppendMessage(ctx context.Context, ticketID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		s.notify(ctx, domain.NotificationWarning, MsgMessageRequired)
		return fmt.Errorf("%w: message is required", domain.ErrValidationFailed)
	}
	if !s.hasTicket(ctx, ticketID) {
		// The mirror may be stale; ask the backend once before giving up
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		if !s.hasTicket(ctx, ticketID) {
			return fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
		}
	}

	log := logger.FromContext(ctx)
	if _, err := s.backend.AddSupportMessage(ctx, MessageRecord{
		TicketID:   ticketID,
		UserID:     s.userID,
		SenderType: domain.SenderUser,
		Body:       text,
	}); err != nil {
		s.notifyFailure(ctx, err)
		return wrapRemote(err)
	}
	log.Info(LogMsgMessageAppended, "ticket_id", ticketID)

	return s.Refresh(ctx)
}

func (s *Session) hasTicket(ctx context.Context, ticketID string) bool {
	for _, t := range s.Tickets(ctx) {
		if t.ID == ticketID {
			return true
		}
	}
	return false
}

func (s *Session) notifyFailure(ctx context.Context, err error) {
	msg := domain.ErrMsgRemoteOperationFailed
	var be *domain.BackendError
	if errors.As(err, &be) {
		msg = be.UserMessage()
	}
	s.notify(ctx, domain.NotificationError, msg)
}

func (s *Session) notify(ctx context.Context, level domain.NotificationLevel, message string) {
	if err := event.Notify(ctx, s.bus, s.userID, level, message); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
	}
}

// wrapRemote makes every backend failure match domain.ErrRemoteOperationFailed
func wrapRemote(err error) error {
	if errors.Is(err, domain.ErrRemoteOperationFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrRemoteOperationFailed, err)
}
