package users

import (
	"context"

	"github.com/providence-asso/providence/internal/shared"
)

// RepositoryPort defines data access methods for user accounts.
type RepositoryPort interface {
	// CreateUser inserts the account; a username or email conflict
	// comes back wrapped as shared.ErrDuplicate.
	CreateUser(ctx context.Context, u *User, passwordHash string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, page shared.Page) ([]User, error)
	// ListMembers returns active accounts flagged can_contribute.
	ListMembers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, input UpdateUserInput) error
	SetDues(ctx context.Context, input SetDuesInput) error
	SetActive(ctx context.Context, id int64, active bool) error
}
