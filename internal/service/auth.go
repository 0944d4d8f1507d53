package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"connectly/internal/config"
	"connectly/internal/model"
	"connectly/internal/repository"
)

// AuthService handles authentication-related business logic with refresh token rotation and reuse detection.
type AuthService struct {
	refreshTokenRepo repository.RefreshTokenRepository
	userRepo         repository.UserRepository
	config           *config.Config
	logger           *slog.Logger
	now              func() time.Time
}

func NewAuthService(refreshTokenRepo repository.RefreshTokenRepository, userRepo repository.UserRepository, cfg *config.Config, logger *slog.Logger) *AuthService {
	return &AuthService{
		refreshTokenRepo: refreshTokenRepo,
		userRepo:         userRepo,
		config:           cfg,
		logger:           logger,
		now:              time.Now,
	}
}

// GenerateTokenPair issues a new access token and persists a refresh token.
func (s *AuthService) GenerateTokenPair(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, error) {
	pair, _, err := s.issueTokenPair(ctx, user, deviceInfo, ipAddress)
	return pair, err
}

// issueTokenPair also returns the id of the stored refresh token.
func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshTokenRaw := uuid.New().String()
	refreshToken := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: s.now().Add(time.Duration(s.config.RefreshTokenMaxAge) * time.Second),
	}
	if deviceInfo != "" {
		refreshToken.DeviceInfo = &deviceInfo
	}
	if ipAddress != "" {
		refreshToken.IPAddress = &ipAddress
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return nil, "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    s.config.AccessTokenMaxAge,
	}, refreshToken.ID, nil
}

// RefreshTokens validates the refresh token and rotates a new pair.
// Presenting an already-revoked token revokes every token of its user.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshTokenRaw, deviceInfo, ipAddress string) (*model.TokenPair, int64, error) {
	token, err := s.refreshTokenRepo.FindByTokenHash(ctx, hashToken(refreshTokenRaw))
	if err != nil {
		if errors.Is(err, model.ErrRefreshTokenNotFound) {
			return nil, 0, model.ErrRefreshTokenNotFound
		}
		return nil, 0, err
	}

	if token.IsRevoked() {
		s.logger.WarnContext(ctx, "refresh token reuse detected", "user_id", token.UserID, "token_id", token.ID)
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, token.UserID); err != nil {
			s.logger.ErrorContext(ctx, "failed to revoke token family", "user_id", token.UserID, "err", err)
		}
		return nil, 0, model.ErrRefreshTokenReused
	}

	if token.IsExpiredAt(s.now()) {
		return nil, 0, model.ErrRefreshTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, 0, err
	}

	newTokenPair, newTokenID, err := s.issueTokenPair(ctx, user, deviceInfo, ipAddress)
	if err != nil {
		return nil, 0, err
	}

	if err := s.refreshTokenRepo.Revoke(ctx, token.ID, &newTokenID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke rotated refresh token", "token_id", token.ID, "err", err)
	}

	return newTokenPair, token.UserID, nil
}

// RevokeRefreshToken revokes a single refresh token. Only the owner may revoke it.
func (s *AuthService) RevokeRefreshToken(ctx context.Context, userID int64, refreshTokenRaw string) error {
	token, err := s.refreshTokenRepo.FindByTokenHash(ctx, hashToken(refreshTokenRaw))
	if err != nil {
		return err
	}
	if token.UserID != userID {
		return model.ErrRefreshTokenNotFound
	}
	return s.refreshTokenRepo.Revoke(ctx, token.ID, nil)
}

func (s *AuthService) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	return s.refreshTokenRepo.RevokeAllForUser(ctx, userID)
}

// PruneExpiredTokens deletes refresh tokens that expired more than olderThan ago.
func (s *AuthService) PruneExpiredTokens(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "pruned expired refresh tokens", "count", n)
	return n, nil
}

func (s *AuthService) generateAccessToken(user *model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
