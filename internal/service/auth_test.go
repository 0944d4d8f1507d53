package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectly/internal/config"
	"connectly/internal/model"
)

func newAuthService(tokens *mockRefreshTokenRepository) *AuthService {
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 3600,
	}
	return NewAuthService(tokens, userStore(alice, bob), cfg, testLogger())
}

func TestAuthService_GenerateTokenPair(t *testing.T) {
	tokens := newMockRefreshTokenRepository()
	svc := newAuthService(tokens)

	pair, err := svc.GenerateTokenPair(context.Background(), alice, "curl/8.0", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 900, pair.ExpiresIn)
	assert.NotEmpty(t, pair.RefreshToken)

	stored, ok := tokens.tokens[hashToken(pair.RefreshToken)]
	require.True(t, ok, "only the hash of the refresh token is stored")
	assert.Equal(t, alice.ID, stored.UserID)
	require.NotNil(t, stored.DeviceInfo)
	assert.Equal(t, "curl/8.0", *stored.DeviceInfo)

	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(alice.ID), claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	tokens := newMockRefreshTokenRepository()
	svc := newAuthService(tokens)
	ctx := context.Background()

	first, err := svc.GenerateTokenPair(ctx, alice, "", "")
	require.NoError(t, err)

	second, userID, err := svc.RefreshTokens(ctx, first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, userID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	old := tokens.tokens[hashToken(first.RefreshToken)]
	current := tokens.tokens[hashToken(second.RefreshToken)]
	require.True(t, old.IsRevoked())
	require.NotNil(t, old.ReplacedBy)
	assert.Equal(t, current.ID, *old.ReplacedBy)
	assert.False(t, current.IsRevoked())
}

func TestAuthService_RefreshTokens_ReuseRevokesFamily(t *testing.T) {
	tokens := newMockRefreshTokenRepository()
	svc := newAuthService(tokens)
	ctx := context.Background()

	first, err := svc.GenerateTokenPair(ctx, alice, "", "")
	require.NoError(t, err)
	second, _, err := svc.RefreshTokens(ctx, first.RefreshToken, "", "")
	require.NoError(t, err)

	_, _, err = svc.RefreshTokens(ctx, first.RefreshToken, "", "")
	assert.ErrorIs(t, err, model.ErrRefreshTokenReused)
	assert.Equal(t, []int64{alice.ID}, tokens.revokedAllFor)

	_, _, err = svc.RefreshTokens(ctx, second.RefreshToken, "", "")
	assert.ErrorIs(t, err, model.ErrRefreshTokenReused, "the rotated token is revoked with its family")
}

func TestAuthService_RefreshTokens_Failures(t *testing.T) {
	tokens := newMockRefreshTokenRepository()
	svc := newAuthService(tokens)
	ctx := context.Background()

	_, _, err := svc.RefreshTokens(ctx, "unknown", "", "")
	assert.ErrorIs(t, err, model.ErrRefreshTokenNotFound)

	pair, err := svc.GenerateTokenPair(ctx, alice, "", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = svc.RefreshTokens(ctx, pair.RefreshToken, "", "")
	assert.ErrorIs(t, err, model.ErrRefreshTokenExpired)
}

func TestAuthService_RevokeRefreshToken(t *testing.T) {
	tokens := newMockRefreshTokenRepository()
	svc := newAuthService(tokens)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, alice, "", "")
	require.NoError(t, err)

	err = svc.RevokeRefreshToken(ctx, bob.ID, pair.RefreshToken)
	assert.True(t, errors.Is(err, model.ErrRefreshTokenNotFound), "another user's token is not found")
	assert.Empty(t, tokens.revoked)

	require.NoError(t, svc.RevokeRefreshToken(ctx, alice.ID, pair.RefreshToken))
	assert.True(t, tokens.tokens[hashToken(pair.RefreshToken)].IsRevoked())

	require.NoError(t, svc.RevokeAllUserTokens(ctx, alice.ID))
	assert.Equal(t, []int64{alice.ID}, tokens.revokedAllFor)
}
