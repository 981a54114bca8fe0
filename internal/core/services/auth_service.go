package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/platform/config"
	"github.com/SscSPs/ledger_bridge/internal/utils"
)

// TokenService authenticates the operator and issues JWT access tokens.
type TokenService struct {
	BaseService
	username     string
	passwordHash string
	jwtSecret    string
	expiry       time.Duration
	issuer       string
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		username:     cfg.OperatorUsername,
		passwordHash: cfg.OperatorPasswordHash,
		jwtSecret:    cfg.JWTSecret,
		expiry:       cfg.JWTExpiryDuration,
		issuer:       cfg.JWTIssuer,
	}
}

var _ portssvc.TokenSvcFacade = (*TokenService)(nil)

func (s *TokenService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if s.passwordHash == "" {
		return "", time.Time{}, fmt.Errorf("%w: operator login is disabled", apperrors.ErrUnauthorized)
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	if !utils.CheckPasswordHash(password, s.passwordHash) || !userOK {
		s.LogInfo(ctx, "Rejected operator login", slog.String("username", username))
		return "", time.Time{}, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	return s.GenerateAccessToken(ctx, username)
}

func (s *TokenService) GenerateAccessToken(ctx context.Context, subject string) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateJWT(subject, s.jwtSecret, s.expiry, s.issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("subject", subject))
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiresAt, nil
}
