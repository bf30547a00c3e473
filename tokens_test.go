package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	ti := newTokenIssuer("secret", 5*time.Minute, time.Hour)

	access, refresh, err := ti.issuePair(42)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := ti.parse(access, tokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	claims, err = ti.parse(refresh, tokenTypeRefresh)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIDsAreUnique(t *testing.T) {
	ti := newTokenIssuer("secret", 5*time.Minute, time.Hour)
	a, err := ti.issueAccess(1)
	require.NoError(t, err)
	b, err := ti.issueAccess(1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenRejections(t *testing.T) {
	ti := newTokenIssuer("secret", 5*time.Minute, time.Hour)
	access, refresh, err := ti.issuePair(7)
	require.NoError(t, err)

	t.Run("wrong type", func(t *testing.T) {
		_, err := ti.parse(refresh, tokenTypeAccess)
		assert.ErrorIs(t, err, errTokenWrongType)
		_, err = ti.parse(access, tokenTypeRefresh)
		assert.ErrorIs(t, err, errTokenWrongType)
		assert.Equal(t, "Token has wrong type", tokenErrorDetail(err))
	})
	t.Run("wrong secret", func(t *testing.T) {
		other := newTokenIssuer("other-secret", 5*time.Minute, time.Hour)
		_, err := other.parse(access, tokenTypeAccess)
		assert.ErrorIs(t, err, errTokenInvalid)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := ti.parse("not-a-token", tokenTypeAccess)
		assert.ErrorIs(t, err, errTokenInvalid)
		assert.Equal(t, "Token is invalid or expired", tokenErrorDetail(err))
	})
	t.Run("expired", func(t *testing.T) {
		past := newTokenIssuer("secret", 5*time.Minute, time.Hour)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		old, err := past.issueAccess(7)
		require.NoError(t, err)
		_, err = ti.parse(old, tokenTypeAccess)
		assert.ErrorIs(t, err, errTokenInvalid)
	})
	t.Run("unsigned", func(t *testing.T) {
		claims := tokenClaims{
			TokenType: tokenTypeAccess,
			UserID:    7,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = ti.parse(raw, tokenTypeAccess)
		assert.ErrorIs(t, err, errTokenInvalid)
	})
	t.Run("other hmac algorithm", func(t *testing.T) {
		claims := tokenClaims{
			TokenType: tokenTypeAccess,
			UserID:    7,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = ti.parse(raw, tokenTypeAccess)
		assert.ErrorIs(t, err, errTokenInvalid)
	})
	t.Run("missing expiry", func(t *testing.T) {
		claims := tokenClaims{TokenType: tokenTypeAccess, UserID: 7}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = ti.parse(raw, tokenTypeAccess)
		assert.ErrorIs(t, err, errTokenInvalid)
	})
	t.Run("missing user", func(t *testing.T) {
		claims := tokenClaims{
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = ti.parse(raw, tokenTypeAccess)
		assert.ErrorIs(t, err, errTokenInvalid)
	})
}
