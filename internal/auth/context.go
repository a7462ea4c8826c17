// Package auth supplies the signed-in identity ledgers act for. Sign-in
// itself happens elsewhere; this package only carries and verifies it.
package auth

import (
	"context"

	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/logger"
)

type contextKey struct{}

type streamKey struct{}

// WithUser returns a context carrying userID as the signed-in identity
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	ctx = logger.WithUserID(ctx, userID)
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserFromContext returns the signed-in identity, if any
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}

// WithStream records the browser event stream a signed-out request came
// from, so notifications about it reach only that tab.
func WithStream(ctx context.Context, streamID string) context.Context {
	if streamID == "" {
		return ctx
	}
	return context.WithValue(ctx, streamKey{}, streamID)
}

// StreamFromContext returns the stream recorded by WithStream, or ""
func StreamFromContext(ctx context.Context) string {
	streamID, _ := ctx.Value(streamKey{}).(string)
	return streamID
}

// RequireUser returns the identity or domain.ErrUnauthenticated
func RequireUser(ctx context.Context) (string, error) {
	userID, ok := UserFromContext(ctx)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}
