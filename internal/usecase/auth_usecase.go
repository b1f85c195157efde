package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// AuthUseCase проверяет токены сервиса аутентификации и ведёт список вышедших сессий.
type AuthUseCase struct {
	verifier  TokenVerifier
	tokenRepo TokenRepository
	logger    logger.Logger
}

func NewAuthUC(verifier TokenVerifier, tokenRepo TokenRepository, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		verifier:  verifier,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// Authenticate возвращает пользователя по токену.
func (a *AuthUseCase) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	const op = "AuthUseCase.Authenticate"

	claims, err := a.verify(ctx, token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &domain.Identity{
		UserID:  claims.UserID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}, nil
}

// SignOut отзывает токен до истечения его срока.
func (a *AuthUseCase) SignOut(ctx context.Context, token string) error {
	const op = "AuthUseCase.SignOut"

	claims, err := a.verify(ctx, token)
	if err != nil {
		return e.Wrap(op, err)
	}

	ttl := time.Until(claims.ExpiresAt)
	if claims.TokenID == "" || ttl <= 0 {
		return nil
	}

	if err := a.tokenRepo.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return e.Wrap(op, err)
	}

	a.logger.Infof("user signed out. user: %s", claims.UserID)

	return nil
}

func (a *AuthUseCase) verify(ctx context.Context, token string) (*TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, e.ErrAuthRequired
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	if claims.TokenID != "" {
		revoked, err := a.tokenRepo.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, e.ErrInvalidToken
		}
	}

	return claims, nil
}
