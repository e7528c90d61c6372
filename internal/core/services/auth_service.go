package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
	"github.com/ledgerkeep/ledgerkeep/internal/platform/config"
	"github.com/ledgerkeep/ledgerkeep/internal/utils"
)

// authService implements AuthSvcFacade using JWT access tokens and opaque
// rotating refresh tokens whose SHA256 hash is stored on the user row.
type authService struct {
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, userRepo: userRepo}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user for login: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Login failed: password mismatch", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	userID, ok := splitRefreshToken(refreshToken)
	if !ok {
		return nil, fmt.Errorf("%w: malformed refresh token", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user for refresh: %w", err)
	}

	if user.RefreshTokenHash == nil || user.RefreshTokenExpiryTime == nil {
		return nil, fmt.Errorf("%w: no active refresh token", apperrors.ErrUnauthorized)
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, fmt.Errorf("%w: refresh token expired", apperrors.ErrUnauthorized)
	}
	if !utils.CompareRefreshTokenHash(refreshToken, *user.RefreshTokenHash) {
		logger.Warn("Refresh token mismatch", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
	}

	// Rotation: the presented token is consumed and replaced.
	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.Info("Refresh token rotated", slog.String("user_id", user.UserID))
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshTokenHash(ctx, userID, nil, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token for user %s: %w", userID, err)
	}
	return nil
}

// issueTokens generates an access token and a fresh refresh token, persisting
// the refresh token hash.
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	random, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	// The user ID prefix lets the refresh endpoint locate the stored hash
	// without a token index.
	refreshToken := user.UserID + "." + random
	hash := utils.HashRefreshToken(refreshToken)
	expiresAt := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)

	if err := s.userRepo.UpdateRefreshTokenHash(ctx, user.UserID, &hash, &expiresAt); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token hash: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWTExpiryDuration.Seconds()),
		User:         dto.ToUserResponse(user),
	}, nil
}

// splitRefreshToken extracts the user ID prefix from a refresh token.
func splitRefreshToken(token string) (string, bool) {
	idx := strings.LastIndex(token, ".")
	if idx <= 0 || idx == len(token)-1 {
		return "", false
	}
	return token[:idx], true
}
