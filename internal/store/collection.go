package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/metrics"
	"github.com/osse101/storefront/internal/validation"
)

// Envelope is the persisted form of a partition
type Envelope struct {
	Schema  string          `json:"schema"`
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// Normalizer coerces a decoded entity before validation. Returning false
// drops the entity.
type Normalizer[T any] func(T) (T, bool)

// Collection is the typed view of one entity kind over a Backend
type Collection[T any] struct {
	backend   Backend
	kind      string
	validate  *validator.Validate
	normalize Normalizer[T]
}

// Option configures a Collection
type Option[T any] func(*Collection[T])

// WithNormalizer installs a per-kind coercion hook
func WithNormalizer[T any](fn Normalizer[T]) Option[T] {
	return func(c *Collection[T]) { c.normalize = fn }
}

// NewCollection creates the collection for kind on backend
func NewCollection[T any](backend Backend, kind string, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		backend:  backend,
		kind:     kind,
		validate: validation.Struct(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind returns the entity kind this collection stores
func (c *Collection[T]) Kind() string {
	return c.kind
}

// Read returns the user's collection. It never fails: a missing partition,
// a backend error or undecodable data all read as an empty collection.
func (c *Collection[T]) Read(ctx context.Context, userID string) []T {
	log := logger.FromContext(ctx)
	key := Key(c.kind, userID)
	metrics.StoreReads.WithLabelValues(c.kind).Inc()

	raw, err := c.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}
	}
	if err != nil {
		log.Warn(LogMsgPartitionReadFail, "key", key, "error", err)
		metrics.StoreCorruptions.WithLabelValues(c.kind).Inc()
		return []T{}
	}

	items, err := c.decode(ctx, key, raw)
	if err != nil {
		log.Warn(LogMsgPartitionCorrupt, "key", key, "error", err)
		metrics.StoreCorruptions.WithLabelValues(c.kind).Inc()
		return []T{}
	}
	return items
}

// Write replaces the user's collection
func (c *Collection[T]) Write(ctx context.Context, userID string, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.kind, err)
	}
	data, err := json.Marshal(Envelope{
		Schema:  c.kind,
		Version: CurrentSchemaVersion,
		Items:   payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", c.kind, err)
	}

	key := Key(c.kind, userID)
	if err := c.backend.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	metrics.StoreWrites.WithLabelValues(c.kind).Inc()
	logger.FromContext(ctx).Debug(LogMsgPartitionWritten, "key", key, "count", len(items))
	return nil
}

// Clear persists an empty collection for the user
func (c *Collection[T]) Clear(ctx context.Context, userID string) error {
	return c.Write(ctx, userID, []T{})
}

func (c *Collection[T]) decode(ctx context.Context, key string, raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	var itemsJSON json.RawMessage
	switch trimmed[0] {
	case '[':
		logger.FromContext(ctx).Debug(LogMsgLegacyPartition, "key", key)
		itemsJSON = trimmed
	case '{':
		var env Envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPersistedData, err)
		}
		if env.Schema != c.kind {
			return nil, fmt.Errorf("%w: schema %q stored under %s", domain.ErrMalformedPersistedData, env.Schema, c.kind)
		}
		if env.Version > CurrentSchemaVersion || env.Version <= LegacySchemaVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrMalformedPersistedData, env.Version)
		}
		itemsJSON = env.Items
	default:
		return nil, fmt.Errorf("%w: not a JSON array or envelope", domain.ErrMalformedPersistedData)
	}

	if len(itemsJSON) == 0 || bytes.Equal(bytes.TrimSpace(itemsJSON), []byte("null")) {
		return []T{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(itemsJSON, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPersistedData, err)
	}

	items := make([]T, 0, len(elements))
	for i, element := range elements {
		item, ok := c.decodeEntity(ctx, key, i, element)
		if ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (c *Collection[T]) decodeEntity(ctx context.Context, key string, index int, element json.RawMessage) (T, bool) {
	log := logger.FromContext(ctx)
	var item T
	if err := json.Unmarshal(element, &item); err != nil {
		log.Warn(LogMsgEntityDropped, "key", key, "index", index, "error", err)
		metrics.StoreDroppedEntities.WithLabelValues(c.kind).Inc()
		return item, false
	}

	if c.normalize != nil {
		var ok bool
		if item, ok = c.normalize(item); !ok {
			log.Warn(LogMsgEntityDropped, "key", key, "index", index, "reason", "normalize")
			metrics.StoreDroppedEntities.WithLabelValues(c.kind).Inc()
			return item, false
		}
	}

	if err := c.validate.Struct(item); err != nil {
		log.Warn(LogMsgEntityDropped, "key", key, "index", index, "error", err)
		metrics.StoreDroppedEntities.WithLabelValues(c.kind).Inc()
		return item, false
	}
	return item, true
}
