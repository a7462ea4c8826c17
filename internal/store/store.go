// Package store is the keyed local store: one partition per (entity kind,
// user), holding a versioned JSON envelope of that user's collection.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when a key has never been written
var ErrNotFound = errors.New("partition not found")

// Backend is the raw byte-level persistence a Collection sits on
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds the partition key for kind and userID
func Key(kind, userID string) string {
	return kind + "_" + userID
}
