package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/providence-asso/providence/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   RepositoryPort
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Authenticate validates username/password credentials. Lookup misses,
// disabled accounts and bad passwords all collapse into the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(ctx, shared.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		IsSuperuser: user.IsSuperuser,
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes a token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Identify resolves the identity behind a bearer token.
func (s *Service) Identify(ctx context.Context, token string) (*shared.Identity, error) {
	return s.tokens.Resolve(ctx, token)
}
