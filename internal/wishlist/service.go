package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/concurrency"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/metrics"
	"github.com/osse101/storefront/internal/store"
)

// Service is the wishlist ledger of the signed-in user
type Service interface {
	// Toggle removes the entry for product.Key if present, otherwise saves
	// a new one. Returns true when the product was added.
	Toggle(ctx context.Context, product domain.Product) (bool, error)

	// Add saves product unless an entry with its key already exists
	Add(ctx context.Context, product domain.Product) (domain.WishlistEntry, error)

	// Remove deletes an entry by its id
	Remove(ctx context.Context, entryID string) error

	// List returns the filtered and sorted entries
	List(ctx context.Context, q Query) []domain.WishlistEntry

	// Count is the number of saved entries
	Count(ctx context.Context) int

	// Contains reports whether productKey is saved
	Contains(ctx context.Context, productKey string) bool

	// RecordPrice appends an observation to the entry's price history when
	// the price moved. Returns false when nothing changed.
	RecordPrice(ctx context.Context, productKey string, price decimal.Decimal) (bool, error)
}

type service struct {
	entries     *store.Collection[domain.WishlistEntry]
	bus         event.Bus
	lockManager *concurrency.LockManager
	now         func() time.Time
	newID       func() string
}

// NewService creates a wishlist ledger over the given collection
func NewService(entries *store.Collection[domain.WishlistEntry], bus event.Bus, lockManager *concurrency.LockManager) Service {
	return &service{
		entries:     entries,
		bus:         bus,
		lockManager: lockManager,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// NewCollection creates the persisted wishlist collection on backend
func NewCollection(backend store.Backend) *store.Collection[domain.WishlistEntry] {
	return store.NewCollection(backend, domain.KindWishlist, store.WithNormalizer(normalizeEntry))
}

// normalizeEntry coerces older records: ratings outside 1..5 fall back to
// the default and an empty history is seeded from the current price.
func normalizeEntry(e domain.WishlistEntry) (domain.WishlistEntry, bool) {
	if e.ProductKey == "" {
		return e, false
	}
	if e.Rating < domain.MinRating || e.Rating > domain.MaxRating {
		e.Rating = domain.DefaultRating
	}
	if len(e.PriceHistory) == 0 {
		e.PriceHistory = []domain.PricePoint{{Price: e.Price, At: e.AddedAt}}
	}
	return e, true
}

func (s *service) newEntry(p domain.Product) domain.WishlistEntry {
	now := s.now()
	rating := p.Rating
	if rating < domain.MinRating || rating > domain.MaxRating {
		rating = domain.DefaultRating
	}
	return domain.WishlistEntry{
		ID:            s.newID(),
		ProductKey:    p.Key,
		Title:         p.Title,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Seller:        p.Seller,
		Rating:        rating,
		AddedAt:       now,
		PriceHistory:  []domain.PricePoint{{Price: p.Price, At: now}},
	}
}

func (s *service) Toggle(ctx context.Context, product domain.Product) (bool, error) {
	var added bool
	var title string
	err := s.mutate(ctx, func(entries []domain.WishlistEntry) ([]domain.WishlistEntry, bool, error) {
		if product.Key == "" {
			return nil, false, fmt.Errorf("%w: product key is required", domain.ErrValidationFailed)
		}
		if i := indexByKey(entries, product.Key); i >= 0 {
			title = entries[i].Title
			logger.FromContext(ctx).Info(LogMsgEntryRemoved, "product_key", product.Key)
			return append(entries[:i], entries[i+1:]...), true, nil
		}
		added = true
		title = product.Title
		logger.FromContext(ctx).Info(LogMsgEntryAdded, "product_key", product.Key)
		return append(entries, s.newEntry(product)), true, nil
	})
	if err != nil {
		return false, err
	}

	userID, _ := auth.UserFromContext(ctx)
	if added {
		metrics.WishlistToggles.WithLabelValues(ActionAdded).Inc()
		s.notify(ctx, userID, domain.NotificationSuccess, fmt.Sprintf(MsgAdded, title))
	} else {
		metrics.WishlistToggles.WithLabelValues(ActionRemoved).Inc()
		s.notify(ctx, userID, domain.NotificationInfo, fmt.Sprintf(MsgRemoved, title))
	}
	return added, nil
}

func (s *service) Add(ctx context.Context, product domain.Product) (domain.WishlistEntry, error) {
	if product.Key == "" {
		return domain.WishlistEntry{}, fmt.Errorf("%w: product key is required", domain.ErrValidationFailed)
	}

	var result domain.WishlistEntry
	err := s.mutate(ctx, func(entries []domain.WishlistEntry) ([]domain.WishlistEntry, bool, error) {
		if i := indexByKey(entries, product.Key); i >= 0 {
			result = entries[i]
			return entries, false, nil
		}
		result = s.newEntry(product)
		logger.FromContext(ctx).Info(LogMsgEntryAdded, "product_key", product.Key)
		return append(entries, result), true, nil
	})
	return result, err
}

func (s *service) Remove(ctx context.Context, entryID string) error {
	var title string
	err := s.mutate(ctx, func(entries []domain.WishlistEntry) ([]domain.WishlistEntry, bool, error) {
		for i := range entries {
			if entries[i].ID == entryID {
				title = entries[i].Title
				logger.FromContext(ctx).Info(LogMsgEntryRemoved, "entry_id", entryID)
				return append(entries[:i], entries[i+1:]...), true, nil
			}
		}
		return nil, false, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, entryID)
	})
	if err != nil {
		return err
	}

	userID, _ := auth.UserFromContext(ctx)
	metrics.WishlistToggles.WithLabelValues(ActionRemoved).Inc()
	s.notify(ctx, userID, domain.NotificationInfo, fmt.Sprintf(MsgRemoved, title))
	return nil
}

func (s *service) List(ctx context.Context, q Query) []domain.WishlistEntry {
	return q.Apply(s.read(ctx))
}

func (s *service) Count(ctx context.Context) int {
	return len(s.read(ctx))
}

func (s *service) Contains(ctx context.Context, productKey string) bool {
	return indexByKey(s.read(ctx), productKey) >= 0
}

func (s *service) RecordPrice(ctx context.Context, productKey string, price decimal.Decimal) (bool, error) {
	var changed bool
	err := s.mutate(ctx, func(entries []domain.WishlistEntry) ([]domain.WishlistEntry, bool, error) {
		i := indexByKey(entries, productKey)
		if i < 0 || entries[i].Price.Equal(price) {
			return entries, false, nil
		}
		e := &entries[i]
		e.Price = price
		e.PriceHistory = append(e.PriceHistory, domain.PricePoint{Price: price, At: s.now()})
		if len(e.PriceHistory) > MaxPriceHistory {
			e.PriceHistory = e.PriceHistory[len(e.PriceHistory)-MaxPriceHistory:]
		}
		changed = true
		logger.FromContext(ctx).Debug(LogMsgPriceRecorded, "product_key", productKey, "price", price.String())
		return entries, true, nil
	})
	return changed, err
}

func (s *service) read(ctx context.Context) []domain.WishlistEntry {
	userID, ok := auth.UserFromContext(ctx)
	if !ok {
		return []domain.WishlistEntry{}
	}
	return s.entries.Read(ctx, userID)
}

// mutate runs a read-modify-write on the caller's wishlist partition.
// Nothing is written or published when apply reports no change.
func (s *service) mutate(ctx context.Context, apply func([]domain.WishlistEntry) ([]domain.WishlistEntry, bool, error)) error {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		s.notify(ctx, "", domain.NotificationError, MsgSignInRequired)
		return err
	}
	log := logger.FromContext(ctx)

	lock := s.lockManager.GetLock(store.Key(domain.KindWishlist, userID))
	lock.Lock()
	defer lock.Unlock()

	next, changed, err := apply(s.entries.Read(ctx, userID))
	if err != nil || !changed {
		return err
	}

	if err := s.entries.Write(ctx, userID, next); err != nil {
		log.Error(LogMsgPersistFailed, "error", err)
		s.notify(ctx, userID, domain.NotificationError, MsgSaveFailed)
		return err
	}

	if err := event.Emit(ctx, s.bus, event.WishlistChangedV1{
		UserID:  userID,
		Entries: next,
		Count:   len(next),
	}); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err)
	}
	return nil
}

func (s *service) notify(ctx context.Context, userID string, level domain.NotificationLevel, message string) {
	if err := event.Notify(ctx, s.bus, userID, level, message); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
	}
}

func indexByKey(entries []domain.WishlistEntry, productKey string) int {
	for i := range entries {
		if entries[i].ProductKey == productKey {
			return i
		}
	}
	return -1
}
