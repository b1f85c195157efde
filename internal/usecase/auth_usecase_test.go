package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthUC() (*AuthUseCase, *fakeTokenRepo) {
	verifier := &fakeVerifier{tokens: map[string]*TokenClaims{
		"admin-token": {TokenID: "jti-1", UserID: "u1", Email: "admin@example.com", IsAdmin: true, ExpiresAt: time.Now().Add(time.Hour)},
		"stale-token": {TokenID: "jti-2", UserID: "u2", ExpiresAt: time.Now().Add(-time.Minute)},
	}}
	tokens := newFakeTokenRepo()
	return NewAuthUC(verifier, tokens, logger.Nop()), tokens
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	uc, _ := newAuthUC()

	identity, err := uc.Authenticate(context.Background(), "admin-token")
	require.NoError(t, err)

	assert.Equal(t, "u1", identity.UserID)
	assert.True(t, identity.IsAdmin)
}

func TestAuthUseCase_AuthenticateErrors(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.Authenticate(context.Background(), "  ")
	assert.ErrorIs(t, err, e.ErrAuthRequired)

	_, err = uc.Authenticate(context.Background(), "forged")
	assert.ErrorIs(t, err, e.ErrInvalidToken)
}

func TestAuthUseCase_SignOutRevokesToken(t *testing.T) {
	uc, tokens := newAuthUC()
	ctx := context.Background()

	require.NoError(t, uc.SignOut(ctx, "admin-token"))

	ttl, ok := tokens.revoked["jti-1"]
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))

	_, err := uc.Authenticate(ctx, "admin-token")
	assert.ErrorIs(t, err, e.ErrInvalidToken)
}

func TestAuthUseCase_SignOutExpiredTokenIsNoop(t *testing.T) {
	uc, tokens := newAuthUC()

	require.NoError(t, uc.SignOut(context.Background(), "stale-token"))
	assert.Empty(t, tokens.revoked)
}
