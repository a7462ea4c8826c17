package support

import (
	"context"
	"sync"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/concurrency"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/store"
)

// Manager owns one Session per signed-in user
type Manager struct {
	backend     Backend
	realtime    Realtime
	mirror      *store.Collection[domain.SupportTicket]
	bus         event.Bus
	lockManager *concurrency.LockManager

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager. realtime may be nil.
func NewManager(backend Backend, realtime Realtime, mirror *store.Collection[domain.SupportTicket], bus event.Bus, lockManager *concurrency.LockManager) *Manager {
	return &Manager{
		backend:     backend,
		realtime:    realtime,
		mirror:      mirror,
		bus:         bus,
		lockManager: lockManager,
		sessions:    make(map[string]*Session),
	}
}

// For returns the caller's session, starting it on first use. Without an
// identity it publishes an error notification and fails.
func (m *Manager) For(ctx context.Context) (*Session, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		if nerr := event.Notify(ctx, m.bus, "", domain.NotificationError, MsgSignInRequired); nerr != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", nerr)
		}
		return nil, err
	}

	m.mu.Lock()
	session, ok := m.sessions[userID]
	if !ok {
		session = NewSession(userID, m.backend, m.realtime, m.mirror, m.bus, m.lockManager)
		m.sessions[userID] = session
	}
	m.mu.Unlock()

	if !ok {
		// A failed initial refresh already notified; the mirror still serves
		if err := session.Start(ctx); err != nil {
			logger.FromContext(ctx).Warn(LogMsgRefreshFailed, "error", err)
		}
	}
	return session, nil
}

// Close stops every session
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}
