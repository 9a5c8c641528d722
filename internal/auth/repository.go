package auth

import "context"

// RepositoryPort defines persistence operations for the auth module.
type RepositoryPort interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}
