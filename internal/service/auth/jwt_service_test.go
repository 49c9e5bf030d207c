package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logspool/logspool/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "thisisasecretkeythatis32charslong!!",
		TokenLifetimeMinutes: 60,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("secret too short", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.JWTSecret = "short"
		svc, err := NewJWTService(cfg)
		assert.Error(t, err)
		assert.Nil(t, svc)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	clientID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), clientID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, clientID, claims.ClientID)
	assert.NotEmpty(t, claims.TokenID)
}

func TestValidateTokenFailures(t *testing.T) {
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		claims, err := svc.ValidateToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		otherCfg := testAuthConfig()
		otherCfg.JWTSecret = "adifferentsecretthatisalso32chars!!!"
		other, err := NewJWTService(otherCfg)
		require.NoError(t, err)

		token, err := other.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		claims, err := svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		impl, ok := svc.(*hmacJWTService)
		require.True(t, ok)

		// Issue a token in the past, beyond lifetime plus clock skew.
		past := time.Now().Add(-2 * time.Hour)
		impl.timeFunc = func() time.Time { return past }
		token, err := impl.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		impl.timeFunc = time.Now
		claims, err := impl.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Nil(t, claims)
	})
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := HashAPIKey("correct horse battery staple")
	require.NoError(t, err)

	verifier, err := NewBcryptVerifier(hash)
	require.NoError(t, err)

	t.Run("matching key", func(t *testing.T) {
		assert.NoError(t, verifier.Verify("correct horse battery staple"))
	})

	t.Run("wrong key", func(t *testing.T) {
		assert.ErrorIs(t, verifier.Verify("incorrect horse"), ErrInvalidAPIKey)
	})

	t.Run("empty hash rejected", func(t *testing.T) {
		v, err := NewBcryptVerifier("")
		assert.Error(t, err)
		assert.Nil(t, v)
	})
}
