package support

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/storefront/internal/domain"
)

// MockBackend is a mock implementation of the Backend interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) GetUserSupportTickets(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	args := m.Called(ctx, userID)
	tickets, _ := args.Get(0).([]domain.SupportTicket)
	return tickets, args.Error(1)
}

func (m *MockBackend) CreateSupportTicket(ctx context.Context, record TicketRecord) (domain.SupportTicket, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(domain.SupportTicket), args.Error(1)
}

func (m *MockBackend) AddSupportMessage(ctx context.Context, record MessageRecord) (domain.SupportMessage, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(domain.SupportMessage), args.Error(1)
}

// MockRealtime is a mock implementation of the Realtime interface.
// Push invokes the callback registered for a topic.
type MockRealtime struct {
	mock.Mock
	callbacks map[string]func()
}

func (m *MockRealtime) Subscribe(topic string, onChange func()) error {
	args := m.Called(topic, onChange)
	if args.Error(0) == nil {
		if m.callbacks == nil {
			m.callbacks = make(map[string]func())
		}
		m.callbacks[topic] = onChange
	}
	return args.Error(0)
}

func (m *MockRealtime) Unsubscribe(topic string) {
	m.Called(topic)
	delete(m.callbacks, topic)
}

// Push simulates a change notification on topic
func (m *MockRealtime) Push(topic string) bool {
	cb, ok := m.callbacks[topic]
	if ok {
		cb()
	}
	return ok
}
