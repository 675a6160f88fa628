package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateSessionToken(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, token.ID, claims.ID)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.InDelta(t, time.Hour.Seconds(), claims.ExpiresIn(time.Now()).Seconds(), 5)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTService("other", time.Hour).GenerateSessionToken(uuid.New())
		require.NoError(t, err)
		_, err = svc.ValidateToken(token.Token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService("test-secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.GenerateSessionToken(uuid.New())
		require.NoError(t, err)
		_, err = svc.ValidateToken(token.Token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("a.b.c")
		assert.Error(t, err)
	})
}

func TestNewJWTService_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultSessionExpiry, NewJWTService("s", 0).TTL())
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "654321"))
	BurnPasswordCheck("anything")
}

func TestTokenStore_NilCacheNeverRevokes(t *testing.T) {
	store := NewTokenStore(nil)
	require.NoError(t, store.RevokeToken(context.Background(), "id", time.Minute))
	revoked, err := store.IsTokenRevoked(context.Background(), "id")
	require.NoError(t, err)
	assert.False(t, revoked)
}
