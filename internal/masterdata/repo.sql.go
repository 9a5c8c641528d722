package masterdata

import (
	"context"
	"errors"
	"fmt"

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

// CreateFamily inserts a community family.
func (r *Repository) CreateFamily(ctx context.Context, name string) (*CommunityFamily, error) {
	f := &CommunityFamily{Name: name}
	err := r.pool.QueryRow(ctx, `INSERT INTO community_families (name) VALUES ($1) RETURNING id`, name).Scan(&f.ID)
	if err != nil {
		return nil, mapDuplicate(err, fmt.Sprintf("masterdata: family %q exists", name))
	}
	return f, nil
}

// ListFamilies returns all families.
func (r *Repository) ListFamilies(ctx context.Context) ([]CommunityFamily, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM community_families ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CommunityFamily
	for rows.Next() {
		var f CommunityFamily
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CreateCommunity inserts a community under its family.
func (r *Repository) CreateCommunity(ctx context.Context, c *Community) (*Community, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO communities (family_id, name, city) VALUES ($1, $2, $3) RETURNING id`,
		c.FamilyID, c.Name, c.City).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, fmt.Errorf("masterdata: community %q exists: %w", c.Name, shared.ErrDuplicate)
			case "23503":
				return nil, fmt.Errorf("masterdata: family %d: %w", c.FamilyID, shared.ErrNotFound)
			}
		}
		return nil, err
	}
	return c, nil
}

// ListCommunities returns communities, optionally for one family.
func (r *Repository) ListCommunities(ctx context.Context, familyID int64) ([]Community, error) {
	query := `SELECT id, family_id, name, COALESCE(city, '') FROM communities`
	args := []any{}
	if familyID != 0 {
		query += ` WHERE family_id = $1`
		args = append(args, familyID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Community
	for rows.Next() {
		var c Community
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.Name, &c.City); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateNeedCategory inserts a need category.
func (r *Repository) CreateNeedCategory(ctx context.Context, c *NeedCategory) (*NeedCategory, error) {
	var class *string
	if c.Classification != "" {
		v := string(c.Classification)
		class = &v
	}
	err := r.pool.QueryRow(ctx, `INSERT INTO need_categories (name, classification) VALUES ($1, $2) RETURNING id`,
		c.Name, class).Scan(&c.ID)
	if err != nil {
		return nil, mapDuplicate(err, fmt.Sprintf("masterdata: need category %q exists", c.Name))
	}
	return c, nil
}

// ListNeedCategories returns all need categories.
func (r *Repository) ListNeedCategories(ctx context.Context) ([]NeedCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, COALESCE(classification, '') FROM need_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []NeedCategory
	for rows.Next() {
		var c NeedCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Classification); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func mapDuplicate(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", msg, shared.ErrDuplicate)
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
