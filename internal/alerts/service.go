package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/concurrency"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/metrics"
	"github.com/osse101/storefront/internal/pricing"
	"github.com/osse101/storefront/internal/store"
)

// PriceSource supplies the latest observed price of a product.
// last is the previously observed price.
type PriceSource interface {
	Price(ctx context.Context, productKey string, last decimal.Decimal) (decimal.Decimal, error)
}

// Service is the price-alert registry of the signed-in user
type Service interface {
	// Create adds an armed alert for product
	Create(ctx context.Context, product domain.Product, target decimal.Decimal, direction domain.Direction) (domain.PriceAlert, error)

	// Update changes target and direction and re-arms the alert
	Update(ctx context.Context, alertID string, target decimal.Decimal, direction domain.Direction) (domain.PriceAlert, error)

	// Remove deletes an alert
	Remove(ctx context.Context, alertID string) error

	// ToggleActive pauses an armed alert or re-arms a paused or triggered one
	ToggleActive(ctx context.Context, alertID string) (domain.PriceAlert, error)

	// List returns every alert of the signed-in user
	List(ctx context.Context) []domain.PriceAlert

	// Check evaluates every armed alert of userID against source and
	// returns the alerts that triggered. It runs outside a request, so the
	// user is passed explicitly.
	Check(ctx context.Context, userID string, source PriceSource) ([]domain.PriceAlert, error)
}

type service struct {
	alerts      *store.Collection[domain.PriceAlert]
	bus         event.Bus
	lockManager *concurrency.LockManager
	formatter   *pricing.Formatter
	now         func() time.Time
	newID       func() string
}

// NewService creates a price-alert registry over the given collection
func NewService(alerts *store.Collection[domain.PriceAlert], bus event.Bus, lockManager *concurrency.LockManager, formatter *pricing.Formatter) Service {
	if formatter == nil {
		formatter = pricing.NewFormatter(pricing.DefaultCurrency, language.English)
	}
	return &service{
		alerts:      alerts,
		bus:         bus,
		lockManager: lockManager,
		formatter:   formatter,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// NewCollection creates the persisted alert collection on backend
func NewCollection(backend store.Backend) *store.Collection[domain.PriceAlert] {
	return store.NewCollection(backend, domain.KindPriceAlerts, store.WithNormalizer(normalizeAlert))
}

// normalizeAlert keeps a triggered alert inactive
func normalizeAlert(a domain.PriceAlert) (domain.PriceAlert, bool) {
	if a.TriggeredAt != nil {
		a.Active = false
	}
	return a, true
}

func validateTarget(target decimal.Decimal, direction domain.Direction) error {
	if !target.IsPositive() {
		return fmt.Errorf("%w: target price must be above zero", domain.ErrValidationFailed)
	}
	if !direction.Valid() {
		return fmt.Errorf("%w: unknown direction %q", domain.ErrValidationFailed, direction)
	}
	return nil
}

func (s *service) Create(ctx context.Context, product domain.Product, target decimal.Decimal, direction domain.Direction) (domain.PriceAlert, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return domain.PriceAlert{}, err
	}
	if product.Key == "" {
		return domain.PriceAlert{}, fmt.Errorf("%w: product key is required", domain.ErrValidationFailed)
	}
	if err := validateTarget(target, direction); err != nil {
		s.notify(ctx, userID, domain.NotificationWarning, MsgInvalidTarget)
		return domain.PriceAlert{}, err
	}

	alert := domain.PriceAlert{
		ID:           s.newID(),
		ProductKey:   product.Key,
		Title:        product.Title,
		Image:        product.Image,
		CurrentPrice: product.Price,
		TargetPrice:  target,
		Direction:    direction,
		Active:       true,
		CreatedAt:    s.now(),
	}
	err = s.mutate(ctx, userID, func(alerts []domain.PriceAlert) ([]domain.PriceAlert, error) {
		logger.FromContext(ctx).Info(LogMsgAlertCreated, "alert_id", alert.ID, "product_key", alert.ProductKey, "direction", direction)
		return append(alerts, alert), nil
	})
	if err != nil {
		return domain.PriceAlert{}, err
	}
	s.notify(ctx, userID, domain.NotificationSuccess, fmt.Sprintf(MsgAlertCreated, alert.Title, s.formatter.Format(target)))
	return alert, nil
}

func (s *service) Update(ctx context.Context, alertID string, target decimal.Decimal, direction domain.Direction) (domain.PriceAlert, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return domain.PriceAlert{}, err
	}
	if err := validateTarget(target, direction); err != nil {
		s.notify(ctx, userID, domain.NotificationWarning, MsgInvalidTarget)
		return domain.PriceAlert{}, err
	}

	var updated domain.PriceAlert
	err = s.mutate(ctx, userID, func(alerts []domain.PriceAlert) ([]domain.PriceAlert, error) {
		i := indexOf(alerts, alertID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrAlertNotFound, alertID)
		}
		alerts[i].TargetPrice = target
		alerts[i].Direction = direction
		alerts[i].TriggeredAt = nil
		alerts[i].Active = true
		updated = alerts[i]
		logger.FromContext(ctx).Info(LogMsgAlertUpdated, "alert_id", alertID, "direction", direction)
		return alerts, nil
	})
	return updated, err
}

func (s *service) Remove(ctx context.Context, alertID string) error {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return err
	}
	err = s.mutate(ctx, userID, func(alerts []domain.PriceAlert) ([]domain.PriceAlert, error) {
		i := indexOf(alerts, alertID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrAlertNotFound, alertID)
		}
		logger.FromContext(ctx).Info(LogMsgAlertRemoved, "alert_id", alertID)
		return append(alerts[:i], alerts[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx, userID, domain.NotificationInfo, MsgAlertRemoved)
	return nil
}

func (s *service) ToggleActive(ctx context.Context, alertID string) (domain.PriceAlert, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return domain.PriceAlert{}, err
	}

	var toggled domain.PriceAlert
	err = s.mutate(ctx, userID, func(alerts []domain.PriceAlert) ([]domain.PriceAlert, error) {
		i := indexOf(alerts, alertID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrAlertNotFound, alertID)
		}
		a := &alerts[i]
		if a.TriggeredAt != nil {
			a.TriggeredAt = nil
			a.Active = true
		} else {
			a.Active = !a.Active
		}
		toggled = *a
		logger.FromContext(ctx).Info(LogMsgAlertToggled, "alert_id", alertID, "active", a.Active)
		return alerts, nil
	})
	return toggled, err
}

func (s *service) List(ctx context.Context) []domain.PriceAlert {
	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return []domain.PriceAlert{}
	}
	return s.alerts.Read(ctx, userID)
}

func (s *service) Check(ctx context.Context, userID string, source PriceSource) ([]domain.PriceAlert, error) {
	log := logger.FromContext(ctx)
	var triggered []domain.PriceAlert

	lock := s.lockManager.GetLock(store.Key(domain.KindPriceAlerts, userID))
	lock.Lock()
	defer lock.Unlock()

	alerts := s.alerts.Read(ctx, userID)
	changed := false
	for i := range alerts {
		if !alerts[i].IsArmed() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return triggered, err
		}
		observed, err := source.Price(ctx, alerts[i].ProductKey, alerts[i].CurrentPrice)
		if err != nil {
			log.Warn(LogMsgPriceLookupFail, "product_key", alerts[i].ProductKey, "error", err)
			continue
		}
		if !observed.Equal(alerts[i].CurrentPrice) {
			changed = true
		}
		next, fired := Evaluate(alerts[i], observed, s.now())
		alerts[i] = next
		if fired {
			changed = true
			triggered = append(triggered, next)
			metrics.AlertsTriggered.WithLabelValues(string(next.Direction)).Inc()
			log.Info(LogMsgAlertTriggered, "alert_id", next.ID, "product_key", next.ProductKey, "price", observed.String())
		}
	}
	if !changed {
		return triggered, nil
	}

	if err := s.alerts.Write(ctx, userID, alerts); err != nil {
		log.Error(LogMsgPersistFailed, "error", err)
		return nil, err
	}
	s.publish(ctx, userID, alerts)

	for _, a := range triggered {
		msg := MsgTriggeredBelow
		if a.Direction == domain.DirectionAbove {
			msg = MsgTriggeredAbove
		}
		s.notify(ctx, userID, domain.NotificationSuccess, fmt.Sprintf(msg, a.Title, s.formatter.Format(a.CurrentPrice)))
	}
	return triggered, nil
}

func (s *service) requireUser(ctx context.Context) (string, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		s.notify(ctx, "", domain.NotificationError, MsgSignInRequired)
		return "", err
	}
	return userID, nil
}

// mutate runs a read-modify-write on userID's alert partition
func (s *service) mutate(ctx context.Context, userID string, apply func([]domain.PriceAlert) ([]domain.PriceAlert, error)) error {
	lock := s.lockManager.GetLock(store.Key(domain.KindPriceAlerts, userID))
	lock.Lock()
	defer lock.Unlock()

	next, err := apply(s.alerts.Read(ctx, userID))
	if err != nil {
		return err
	}
	if err := s.alerts.Write(ctx, userID, next); err != nil {
		logger.FromContext(ctx).Error(LogMsgPersistFailed, "error", err)
		s.notify(ctx, userID, domain.NotificationError, MsgSaveFailed)
		return err
	}
	s.publish(ctx, userID, next)
	return nil
}

func (s *service) publish(ctx context.Context, userID string, alerts []domain.PriceAlert) {
	if err := event.Emit(ctx, s.bus, event.AlertsChangedV1{UserID: userID, Alerts: alerts}); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
	}
}

func (s *service) notify(ctx context.Context, userID string, level domain.NotificationLevel, message string) {
	if err := event.Notify(ctx, s.bus, userID, level, message); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
	}
}

func indexOf(alerts []domain.PriceAlert, alertID string) int {
	for i := range alerts {
		if alerts[i].ID == alertID {
			return i
		}
	}
	return -1
}
