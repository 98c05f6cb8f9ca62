package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signHS256(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	t.Run("subject claim", func(t *testing.T) {
		tok := signHS256(t, testSecret, &Claims{
			Email: "a@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-a",
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		})

		id, err := v.Verify(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "user-a", id.Subject)
		assert.Equal(t, "a@example.com", id.Email)
		assert.True(t, exp.Equal(id.ExpiresAt))
	})

	t.Run("legacy _id claim", func(t *testing.T) {
		tok := signHS256(t, testSecret, &Claims{UserID: "64f0c0ffee", Email: "b@example.com"})

		id, err := v.Verify(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "64f0c0ffee", id.Subject)
		assert.True(t, id.ExpiresAt.IsZero())
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok := signHS256(t, "other", &Claims{UserID: "x"})
		_, err := v.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tok := signHS256(t, testSecret, &Claims{
			UserID:           "x",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		})
		_, err := v.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no subject", func(t *testing.T) {
		tok := signHS256(t, testSecret, &Claims{Email: "nobody@example.com"})
		_, err := v.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects other algorithms", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: "x"}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = v.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
