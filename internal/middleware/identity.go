package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/logger"
)

// FailureRecorder is told about rejected credentials, keyed by client address
type FailureRecorder interface {
	RecordFailedAuth(ip string)
}

// Identity resolves the signed-in user from a bearer token. Requests without
// a token continue anonymously so read endpoints can answer with empty views;
// ledgers reject anonymous mutations themselves. A token that is present but
// invalid is rejected with 401.
func Identity(secret string, recorder FailureRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(w, r.WithContext(anonymousContext(r)))
				return
			}

			token, ok := strings.CutPrefix(header, BearerPrefix)
			if !ok {
				reject(w, r, recorder)
				return
			}

			claims, err := auth.ValidateToken(secret, strings.TrimSpace(token))
			if err != nil {
				reject(w, r, recorder)
				return
			}

			ctx := auth.WithUser(r.Context(), claims.UserID())
			logger.FromContext(ctx).Debug(LogMsgIdentityFound)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// anonymousContext records the caller's event stream when it names a
// well-formed one
func anonymousContext(r *http.Request) context.Context {
	streamID := r.Header.Get(HeaderStreamID)
	if streamID == "" {
		return r.Context()
	}
	if _, err := uuid.Parse(streamID); err != nil {
		return r.Context()
	}
	return auth.WithStream(r.Context(), streamID)
}

func reject(w http.ResponseWriter, r *http.Request, recorder FailureRecorder) {
	logger.FromContext(r.Context()).Warn(LogMsgInvalidToken,
		"remote_addr", r.RemoteAddr,
		"path", r.URL.Path)
	if recorder != nil {
		recorder.RecordFailedAuth(r.RemoteAddr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": ErrMsgInvalidToken})
}
