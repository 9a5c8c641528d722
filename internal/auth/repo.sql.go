package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/providence-asso/providence/internal/shared"
)

// Repository implements RepositoryPort using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByUsername fetches a user by username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT id, username, password_hash, is_active, is_superuser, created_at
FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("auth: user %q: %w", username, shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

var _ RepositoryPort = (*Repository)(nil)
