package token

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_ClaimsAndExpiry(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	signed, err := Issue("test-secret", now)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	parsed, err := jwt.Parse(signed, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tk.Header["alg"])
		}
		return []byte("test-secret"), nil
	}, jwt.WithAudience(Audience), jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)

	assert.Equal(t, Subject, claims["sub"])
	assert.Equal(t, Role, claims["role"])
	assert.Equal(t, Audience, claims["aud"])
	assert.Equal(t, float64(now.Unix()), claims["iat"])
	assert.Equal(t, float64(now.Add(TTL).Unix()), claims["exp"])
}

func TestIssue_ExpiresAfterTTL(t *testing.T) {
	now := time.Now()

	signed, err := Issue("test-secret", now)
	require.NoError(t, err)

	after := now.Add(TTL + time.Minute)
	_, err = jwt.Parse(signed, func(tk *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return after }))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestIssue_EmptySecret(t *testing.T) {
	_, err := Issue("", time.Now())
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestIssue_RejectedWithWrongSecret(t *testing.T) {
	signed, err := Issue("right-secret", time.Now())
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(tk *jwt.Token) (any, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}
