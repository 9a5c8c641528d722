package beneficiaries

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

const beneficiaryColumns = `id, last_name, COALESCE(given_names, ''), COALESCE(sex, ''), COALESCE(marital_status, ''),
  COALESCE(profession, ''), COALESCE(role, ''), children, years_in_faith, community_id, created_at`

func scanBeneficiary(row pgx.Row) (*Beneficiary, error) {
	var b Beneficiary
	err := row.Scan(&b.ID, &b.LastName, &b.GivenNames, &b.Sex, &b.MaritalStatus,
		&b.Profession, &b.Role, &b.Children, &b.YearsInFaith, &b.CommunityID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a beneficiary.
func (r *Repository) Create(ctx context.Context, b *Beneficiary) (*Beneficiary, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO beneficiaries (last_name, given_names, sex, marital_status, profession, role,
  children, years_in_faith, community_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`,
		b.LastName, b.GivenNames, b.Sex, b.MaritalStatus, b.Profession, b.Role,
		b.Children, b.YearsInFaith, b.CommunityID).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("beneficiaries: community %v: %w", b.CommunityID, shared.ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

// Get fetches one beneficiary.
func (r *Repository) Get(ctx context.Context, id int64) (*Beneficiary, error) {
	b, err := scanBeneficiary(r.pool.QueryRow(ctx, `SELECT `+beneficiaryColumns+` FROM beneficiaries WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("beneficiaries: beneficiary %d: %w", id, shared.ErrNotFound)
	}
	return b, err
}

// List pages through beneficiaries, optionally filtered on name.
func (r *Repository) List(ctx context.Context, search string, page shared.Page) ([]Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` WHERE last_name ILIKE $1 OR given_names ILIKE $1`
	}
	args = append(args, page.Limit, page.Offset())
	query += fmt.Sprintf(` ORDER BY last_name, given_names, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Beneficiary
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields.
func (r *Repository) Update(ctx context.Context, b *Beneficiary) error {
	tag, err := r.pool.Exec(ctx, `UPDATE beneficiaries SET last_name = $1, given_names = $2, sex = $3, marital_status = $4,
  profession = $5, role = $6, children = $7, years_in_faith = $8, community_id = $9
WHERE id = $10`,
		b.LastName, b.GivenNames, b.Sex, b.MaritalStatus, b.Profession, b.Role,
		b.Children, b.YearsInFaith, b.CommunityID, b.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("beneficiaries: beneficiary %d: %w", b.ID, shared.ErrNotFound)
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
