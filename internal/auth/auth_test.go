package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/logger"
)

const testSecret = "test-secret-key"

func TestContextIdentity(t *testing.T) {
	ctx := context.Background()

	_, ok := UserFromContext(ctx)
	assert.False(t, ok)
	_, err := RequireUser(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	ctx = WithUser(ctx, "user-1")
	userID, err := RequireUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestWithUser_EmptyIsAnonymous(t *testing.T) {
	ctx := WithUser(context.Background(), "")

	_, ok := UserFromContext(ctx)
	assert.False(t, ok)
}

func TestWithUser_TagsLogger(t *testing.T) {
	ctx := WithUser(context.Background(), "user-5")
	assert.NotNil(t, logger.FromContext(ctx))
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-42")
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID())
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	a, err := GenerateToken(testSecret, "u")
	require.NoError(t, err)
	b, err := GenerateToken(testSecret, "u")
	require.NoError(t, err)

	ca, _ := ValidateToken(testSecret, a)
	cb, _ := ValidateToken(testSecret, b)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestGenerateToken_EmptyUser(t *testing.T) {
	_, err := GenerateToken(testSecret, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Rejects(t *testing.T) {
	good, err := GenerateToken(testSecret, "user-1")
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})
	expiredStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	noSubjectStr, err := noSubject.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other-secret", good},
		{"garbage", testSecret, "not.a.jwt"},
		{"expired", testSecret, expiredStr},
		{"missing subject", testSecret, noSubjectStr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
