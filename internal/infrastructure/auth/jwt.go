// Package auth проверяет токены, выданные сервисом аутентификации (HS256).
package auth

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/golang-jwt/jwt/v5"
)

// Claims содержит поля токена сервиса аутентификации.
type Claims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(cfg *cfg.AuthCfg) *JWTVerifier {
	return &JWTVerifier{
		secret: cfg.JWTSecret,
		issuer: cfg.Issuer,
	}
}

// Verify проверяет подпись и срок токена. Любая ошибка разбора превращается в e.ErrInvalidToken.
func (v *JWTVerifier) Verify(token string) (*usecase.TokenClaims, error) {
	const op = "JWTVerifier.Verify"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%s: %w: %v", op, e.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, e.Wrap(op, e.ErrInvalidToken)
	}

	return &usecase.TokenClaims{
		TokenID:   claims.ID,
		UserID:    claims.Subject,
		Email:     claims.Email,
		IsAdmin:   claims.IsAdmin,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Sign выпускает токен с тем же секретом. Используется в тестах и для локальной разработки.
func (v *JWTVerifier) Sign(userID, email string, isAdmin bool, tokenID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:   email,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        tokenID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", e.Wrap("JWTVerifier.Sign", err)
	}

	return signed, nil
}
