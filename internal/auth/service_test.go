package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/ledgerbook/internal/user"
)

func newTestAuth(t *testing.T) (*Service, *TokenManager, user.User) {
	t.Helper()
	users := user.NewMemoryRepository()
	u, err := user.NewService(users).Register(context.Background(), user.RegisterInput{
		Name:     "Test",
		Email:    "test@test.com",
		Password: "123456",
	})
	require.NoError(t, err)

	tokens := NewTokenManager("test-secret", "ledgerbook-test", time.Minute)
	return NewService(users, tokens), tokens, u
}

func TestAuthenticateReturnsVerifiableToken(t *testing.T) {
	svc, tokens, u := newTestAuth(t)

	session, err := svc.Authenticate(context.Background(), "test@test.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.User.ID)
	assert.NotEmpty(t, session.Token)

	sub, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sub)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, err := svc.Authenticate(context.Background(), "non-existing-user@test.com", "123456")
	assert.ErrorIs(t, err, ErrIncorrectCredentials)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, err := svc.Authenticate(context.Background(), "test@test.com", "incorrect-password")
	assert.ErrorIs(t, err, ErrIncorrectCredentials)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	_, tokens, u := newTestAuth(t)

	forged := NewTokenManager("other-secret", "ledgerbook-test", time.Minute)
	tokenStr, err := forged.Generate(u)
	require.NoError(t, err)

	_, err = tokens.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	users := user.NewMemoryRepository()
	u, err := user.NewService(users).Register(context.Background(), user.RegisterInput{
		Name: "Test", Email: "expired@test.com", Password: "123456",
	})
	require.NoError(t, err)

	tokens := NewTokenManager("test-secret", "ledgerbook-test", -time.Minute)
	tokenStr, err := tokens.Generate(u)
	require.NoError(t, err)

	_, err = tokens.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokenManager("test-secret", "ledgerbook-test", time.Minute)
	_, err := tokens.Verify("any_token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
