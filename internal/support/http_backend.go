package support

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/metrics"
)

// Remote operation names, used for metrics and logs
const (
	OpGetTickets   = "get_user_support_tickets"
	OpCreateTicket = "create_support_ticket"
	OpAddMessage   = "add_support_message"
)

// envelope is the remote response shape: a result or a structured error
type envelope[T any] struct {
	Data  T                    `json:"data"`
	Error *domain.BackendError `json:"error,omitempty"`
}

type errorBody struct {
	Error *domain.BackendError `json:"error"`
}

// HTTPBackend talks to the remote support API over JSON/HTTP. Transport
// failures and 5xx responses count against a circuit breaker; while it is
// open calls fail fast with an "unavailable" backend error.
type HTTPBackend struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
}

// NewHTTPBackend creates a client for the API at baseURL
func NewHTTPBackend(baseURL, apiKey string, timeout time.Duration) *HTTPBackend {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: BreakerMaxRequests,
		Interval:    BreakerInterval,
		Timeout:     BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(LogMsgBreakerStateChange, "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &HTTPBackend{client: client, breaker: breaker}
}

// GetUserSupportTickets implements Backend
func (b *HTTPBackend) GetUserSupportTickets(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	var out envelope[[]domain.SupportTicket]
	err := b.call(ctx, OpGetTickets, &out.Error, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("userID", userID).SetResult(&out).Get(PathUserTickets)
	})
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []domain.SupportTicket{}, nil
	}
	return out.Data, nil
}

// CreateSupportTicket implements Backend
func (b *HTTPBackend) CreateSupportTicket(ctx context.Context, record TicketRecord) (domain.SupportTicket, error) {
	var out envelope[domain.SupportTicket]
	err := b.call(ctx, OpCreateTicket, &out.Error, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(record).SetResult(&out).Post(PathTickets)
	})
	return out.Data, err
}

// AddSupportMessage implements Backend
func (b *HTTPBackend) AddSupportMessage(ctx context.Context, record MessageRecord) (domain.SupportMessage, error) {
	var out envelope[domain.SupportMessage]
	err := b.call(ctx, OpAddMessage, &out.Error, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(record).SetResult(&out).Post(PathMessages)
	})
	return out.Data, err
}

// call executes send through the breaker and folds every failure into a
// *domain.BackendError. resultErr points at the error field of the decoded
// success envelope.
func (b *HTTPBackend) call(ctx context.Context, op string, resultErr **domain.BackendError, send func(*resty.Request) (*resty.Response, error)) error {
	var failure errorBody
	resp, err := b.breaker.Execute(func() (*resty.Response, error) {
		resp, err := send(b.client.R().SetContext(ctx).SetError(&failure))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, fmt.Errorf("status %d", resp.StatusCode())
		}
		return resp, nil
	})

	backendErr := classify(resp, err, failure.Error)
	if backendErr == nil && *resultErr != nil {
		backendErr = *resultErr
	}
	if backendErr == nil {
		return nil
	}

	metrics.RemoteFailures.WithLabelValues(op).Inc()
	logger.FromContext(ctx).Error(LogMsgRemoteCallFailed, "operation", op, "code", backendErr.Code, "error", backendErr.Message)
	return backendErr
}

func classify(resp *resty.Response, err error, bodyErr *domain.BackendError) *domain.BackendError {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &domain.BackendError{Code: CodeUnavailable, Message: MsgUnavailable}
	case bodyErr != nil && (err != nil || (resp != nil && resp.IsError())):
		return bodyErr
	case err != nil && resp == nil:
		return &domain.BackendError{Code: CodeTransport, Message: err.Error()}
	case resp != nil && resp.IsError():
		return &domain.BackendError{
			Code:    CodeHTTPStatus,
			Message: fmt.Sprintf("support backend returned %d", resp.StatusCode()),
		}
	}
	return nil
}
