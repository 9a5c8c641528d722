package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/providence-asso/providence/internal/shared"
)

// Repository implements RepositoryPort using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, COALESCE(first_name, ''), last_name, COALESCE(email, ''), COALESCE(phone, ''),
  COALESCE(role, ''), is_active, is_superuser, can_contribute, social_due, mission_due, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.Role, &u.IsActive, &u.IsSuperuser, &u.CanContribute, &u.SocialDue, &u.MissionDue, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an account.
func (r *Repository) CreateUser(ctx context.Context, u *User, passwordHash string) (*User, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO users (username, password_hash, first_name, last_name, email, phone, role,
  is_active, is_superuser, can_contribute, social_due, mission_due)
VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9, $10, $11)
RETURNING id, created_at`,
		u.Username, passwordHash, u.FirstName, u.LastName, u.Email, u.Phone, u.Role,
		u.IsSuperuser, u.CanContribute, u.SocialDue, u.MissionDue).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("users: username %q taken: %w", u.Username, shared.ErrDuplicate)
		}
		return nil, err
	}
	u.IsActive = true
	return u, nil
}

// GetUser fetches one account.
func (r *Repository) GetUser(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("users: user %d: %w", id, shared.ErrNotFound)
	}
	return u, err
}

// ListUsers pages through all accounts.
func (r *Repository) ListUsers(ctx context.Context, page shared.Page) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY last_name, first_name, id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListMembers returns active contributing accounts.
func (r *Repository) ListMembers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users
WHERE is_active AND can_contribute ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UpdateUser edits profile fields.
func (r *Repository) UpdateUser(ctx context.Context, input UpdateUserInput) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET first_name = $1, last_name = $2, email = $3, phone = $4, role = $5
WHERE id = $6`,
		input.FirstName, input.LastName, input.Email, input.Phone, input.Role, input.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: user %d: %w", input.UserID, shared.ErrNotFound)
	}
	return nil
}

// SetDues adjusts the contribution flag and standing amounts.
func (r *Repository) SetDues(ctx context.Context, input SetDuesInput) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET can_contribute = $1, social_due = $2, mission_due = $3 WHERE id = $4`,
		input.CanContribute, input.SocialDue, input.MissionDue, input.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: user %d: %w", input.UserID, shared.ErrNotFound)
	}
	return nil
}

// SetActive toggles the account.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: user %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
