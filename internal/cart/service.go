package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/concurrency"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/metrics"
	"github.com/osse101/storefront/internal/pricing"
	"github.com/osse101/storefront/internal/store"
)

// Service is the cart ledger of the signed-in user. Every mutation
// persists the whole collection and then publishes cartUpdated with it.
type Service interface {
	// AddItem merges quantity into the line for product.Key, creating it
	// with default add-ons when absent. quantity <= 0 adds one unit.
	AddItem(ctx context.Context, product domain.Product, quantity int) ([]domain.LineItem, error)

	// SetQuantity replaces a line's quantity; n <= 0 removes the line
	SetQuantity(ctx context.Context, itemID string, quantity int) ([]domain.LineItem, error)

	// RemoveItem drops a line and publishes an info notification
	RemoveItem(ctx context.Context, itemID string) ([]domain.LineItem, error)

	// SetAddons replaces the add-on flags of one line
	SetAddons(ctx context.Context, itemID string, addons domain.Addons) ([]domain.LineItem, error)

	// Clear empties the cart
	Clear(ctx context.Context) error

	// Items returns the current lines; empty when signed out
	Items(ctx context.Context) []domain.LineItem

	// Count is the badge value: the sum of all quantities
	Count(ctx context.Context) int

	// Summary prices the current cart
	Summary(ctx context.Context) pricing.Summary
}

type service struct {
	items       *store.Collection[domain.LineItem]
	bus         event.Bus
	lockManager *concurrency.LockManager
	calculator  *pricing.Calculator
	now         func() time.Time
}

// NewService creates a cart ledger over the given collection
func NewService(items *store.Collection[domain.LineItem], bus event.Bus, lockManager *concurrency.LockManager, calculator *pricing.Calculator) Service {
	if calculator == nil {
		calculator = pricing.NewCalculator(pricing.DefaultRules())
	}
	return &service{
		items:       items,
		bus:         bus,
		lockManager: lockManager,
		calculator:  calculator,
		now:         time.Now,
	}
}

// NewCollection creates the persisted cart collection on backend
func NewCollection(backend store.Backend) *store.Collection[domain.LineItem] {
	return store.NewCollection(backend, domain.KindCart, store.WithNormalizer(normalizeLine))
}

// normalizeLine drops lines without an id and clamps stray quantities
func normalizeLine(item domain.LineItem) (domain.LineItem, bool) {
	if item.ID == "" {
		return item, false
	}
	if item.Quantity < 1 {
		item.Quantity = domain.DefaultQuantity
	}
	return item, true
}

func (s *service) AddItem(ctx context.Context, product domain.Product, quantity int) ([]domain.LineItem, error) {
	if quantity <= 0 {
		quantity = domain.DefaultQuantity
	}
	return s.mutate(ctx, OpAdd, func(userID string, items []domain.LineItem) ([]domain.LineItem, error) {
		if product.Key == "" {
			return nil, fmt.Errorf("%w: product key is required", domain.ErrValidationFailed)
		}
		for i := range items {
			if items[i].ID == product.Key {
				items[i].Quantity += quantity
				logger.FromContext(ctx).Info(LogMsgItemAdded, "item_id", product.Key, "quantity", items[i].Quantity)
				return items, nil
			}
		}
		logger.FromContext(ctx).Info(LogMsgItemAdded, "item_id", product.Key, "quantity", quantity)
		return append(items, domain.NewLineItem(product, quantity, s.now())), nil
	})
}

func (s *service) SetQuantity(ctx context.Context, itemID string, quantity int) ([]domain.LineItem, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}
	return s.mutate(ctx, OpSetQuantity, func(userID string, items []domain.LineItem) ([]domain.LineItem, error) {
		i := indexOf(items, itemID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
		}
		items[i].Quantity = quantity
		logger.FromContext(ctx).Info(LogMsgQuantitySet, "item_id", itemID, "quantity", quantity)
		return items, nil
	})
}

func (s *service) RemoveItem(ctx context.Context, itemID string) ([]domain.LineItem, error) {
	var removed domain.LineItem
	items, err := s.mutate(ctx, OpRemove, func(userID string, items []domain.LineItem) ([]domain.LineItem, error) {
		i := indexOf(items, itemID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
		}
		removed = items[i]
		logger.FromContext(ctx).Info(LogMsgItemRemoved, "item_id", itemID)
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return items, err
	}

	userID, _ := auth.UserFromContext(ctx)
	s.notify(ctx, userID, domain.NotificationInfo, fmt.Sprintf(MsgItemRemoved, removed.Title))
	return items, nil
}

func (s *service) SetAddons(ctx context.Context, itemID string, addons domain.Addons) ([]domain.LineItem, error) {
	return s.mutate(ctx, OpSetAddons, func(userID string, items []domain.LineItem) ([]domain.LineItem, error) {
		i := indexOf(items, itemID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
		}
		items[i].Addons = addons
		logger.FromContext(ctx).Info(LogMsgAddonsSet, "item_id", itemID,
			"quality_inspection", addons.QualityInspection,
			"package_consolidation", addons.PackageConsolidation)
		return items, nil
	})
}

func (s *service) Clear(ctx context.Context) error {
	_, err := s.mutate(ctx, OpClear, func(userID string, items []domain.LineItem) ([]domain.LineItem, error) {
		logger.FromContext(ctx).Info(LogMsgCartCleared, "lines", len(items))
		return []domain.LineItem{}, nil
	})
	return err
}

func (s *service) Items(ctx context.Context) []domain.LineItem {
	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return []domain.LineItem{}
	}
	return s.items.Read(ctx, userID)
}

func (s *service) Count(ctx context.Context) int {
	return domain.CountUnits(s.Items(ctx))
}

func (s *service) Summary(ctx context.Context) pricing.Summary {
	return s.calculator.Summarize(s.Items(ctx))
}

// mutate runs a read-modify-write on the caller's cart partition. The
// partition lock is held until subscribers have seen the settled cart.
func (s *service) mutate(ctx context.Context, op string, apply func(userID string, items []domain.LineItem) ([]domain.LineItem, error)) ([]domain.LineItem, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		s.notify(ctx, "", domain.NotificationError, MsgSignInRequired)
		return nil, err
	}
	log := logger.FromContext(ctx)

	lock := s.lockManager.GetLock(store.Key(domain.KindCart, userID))
	lock.Lock()
	defer lock.Unlock()

	current := s.items.Read(ctx, userID)
	next, err := apply(userID, slices.Clone(current))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			s.notify(ctx, userID, domain.NotificationWarning, MsgItemNotFound)
		}
		return current, err
	}

	if err := s.items.Write(ctx, userID, next); err != nil {
		log.Error(LogMsgPersistFailed, "error", err)
		s.notify(ctx, userID, domain.NotificationError, MsgSaveFailed)
		return current, err
	}
	metrics.CartMutations.WithLabelValues(op).Inc()

	if err := event.Emit(ctx, s.bus, event.CartChangedV1{
		UserID: userID,
		Items:  next,
		Count:  domain.CountUnits(next),
	}); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err)
	}
	return next, nil
}

func (s *service) notify(ctx context.Context, userID string, level domain.NotificationLevel, message string) {
	if err := event.Notify(ctx, s.bus, userID, level, message); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
	}
}

func indexOf(items []domain.LineItem, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}
