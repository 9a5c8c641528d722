package cases

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/providence-asso/providence/internal/funds"
	"github.com/providence-asso/providence/internal/platform/db"
	"github.com/providence-asso/providence/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetBeneficiarySnapshot reads the beneficiary fields to freeze into a
// new case.
func (r *Repository) GetBeneficiarySnapshot(ctx context.Context, beneficiaryID int64) (*BeneficiarySnapshot, error) {
	var s BeneficiarySnapshot
	err := r.pool.QueryRow(ctx, `SELECT last_name, COALESCE(given_names, ''), COALESCE(sex, ''), COALESCE(marital_status, ''),
  COALESCE(profession, ''), COALESCE(role, ''), children, years_in_faith, community_id
FROM beneficiaries WHERE id = $1`, beneficiaryID).
		Scan(&s.LastName, &s.GivenNames, &s.Sex, &s.MaritalStatus, &s.Profession, &s.Role, &s.Children, &s.YearsInFaith, &s.CommunityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cases: beneficiary %d: %w", beneficiaryID, shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateCase inserts the case and its need-category links in one
// transaction. A (meeting, beneficiary) conflict maps to ErrDuplicate.
func (r *Repository) CreateCase(ctx context.Context, c *Case) (*Case, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO cases (meeting_id, beneficiary_id, submitter_id, classification, urgent,
  requested_amount, external_amount, allocated_amount, description,
  last_name, given_names, sex, marital_status, profession, role, children, years_in_faith, community_id, status, report)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, '')
RETURNING id, created_at`,
			c.MeetingID, c.BeneficiaryID, c.SubmitterID, c.Classification, c.Urgent,
			c.RequestedAmount, c.ExternalAmount, c.AllocatedAmount, c.Description,
			c.LastName, c.GivenNames, c.Sex, c.MaritalStatus, c.Profession, c.Role, c.Children, c.YearsInFaith, c.CommunityID, c.Status).
			Scan(&c.ID, &c.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("cases: beneficiary %d already has a case in meeting %d: %w", c.BeneficiaryID, c.MeetingID, shared.ErrDuplicate)
			}
			return err
		}
		for _, categoryID := range c.NeedCategoryIDs {
			if _, err := tx.Exec(ctx, `INSERT INTO case_need_categories (case_id, category_id) VALUES ($1, $2)`, c.ID, categoryID); err != nil {
				return fmt.Errorf("cases: link need category: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

const caseColumns = `id, meeting_id, beneficiary_id, submitter_id, classification, urgent,
  requested_amount, external_amount, allocated_amount, description,
  last_name, given_names, sex, marital_status, profession, role, children, years_in_faith, community_id,
  status, COALESCE(donation_state, ''), report, created_at`

func scanCase(row pgx.Row) (*Case, error) {
	var c Case
	err := row.Scan(&c.ID, &c.MeetingID, &c.BeneficiaryID, &c.SubmitterID, &c.Classification, &c.Urgent,
		&c.RequestedAmount, &c.ExternalAmount, &c.AllocatedAmount, &c.Description,
		&c.LastName, &c.GivenNames, &c.Sex, &c.MaritalStatus, &c.Profession, &c.Role, &c.Children, &c.YearsInFaith, &c.CommunityID,
		&c.Status, &c.DonationState, &c.Report, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCase returns one case with its need categories.
func (r *Repository) GetCase(ctx context.Context, id int64) (*Case, error) {
	c, err := scanCase(r.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cases: case %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT category_id FROM case_need_categories WHERE case_id = $1 ORDER BY category_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var categoryID int64
		if err := rows.Scan(&categoryID); err != nil {
			return nil, err
		}
		c.NeedCategoryIDs = append(c.NeedCategoryIDs, categoryID)
	}
	return c, rows.Err()
}

// ListCases returns cases matching the filter, urgent first.
func (r *Repository) ListCases(ctx context.Context, filter ListFilter) ([]Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE 1=1`
	args := []any{}
	if filter.MeetingID != 0 {
		args = append(args, filter.MeetingID)
		query += fmt.Sprintf(" AND meeting_id = $%d", len(args))
	}
	if filter.Classification != "" {
		args = append(args, filter.Classification)
		query += fmt.Sprintf(" AND classification = $%d", len(args))
	}
	if filter.UrgentOnly {
		query += " AND urgent"
	}
	query += " ORDER BY urgent DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateAllocation sets the allocated amount.
func (r *Repository) UpdateAllocation(ctx context.Context, id, amount int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cases SET allocated_amount = $1 WHERE id = $2`, amount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cases: case %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// UpdateClassification moves the case to the other fund.
func (r *Repository) UpdateClassification(ctx context.Context, id int64, class funds.Classification) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cases SET classification = $1 WHERE id = $2`, class, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cases: case %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// UpdateFollowup edits the follow-up fields.
func (r *Repository) UpdateFollowup(ctx context.Context, input UpdateFollowupInput) error {
	var donation *string
	if input.DonationState != "" {
		v := string(input.DonationState)
		donation = &v
	}
	tag, err := r.pool.Exec(ctx, `UPDATE cases SET status = $1, donation_state = $2, report = $3 WHERE id = $4`,
		input.Status, donation, input.Report, input.CaseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cases: case %d: %w", input.CaseID, shared.ErrNotFound)
	}
	return nil
}
