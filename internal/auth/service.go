package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerbook/ledgerbook/internal/user"
)

// ErrIncorrectCredentials covers both an unknown email and a wrong password.
// The caller must not learn which half of the pair failed.
var ErrIncorrectCredentials = errors.New("incorrect email or password")

// Service authenticates users and issues session tokens.
type Service struct {
	users  user.Repository
	tokens *TokenManager
}

// NewService creates a new auth service.
func NewService(users user.Repository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Session pairs the authenticated user's profile with a signed token.
type Session struct {
	User  user.Profile
	Token string
}

// Authenticate verifies the email/password pair and returns a session.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrIncorrectCredentials
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return Session{}, ErrIncorrectCredentials
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		return Session{}, err
	}

	return Session{User: u.Profile(), Token: token}, nil
}
