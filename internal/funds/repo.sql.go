package funds

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed aggregates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// contributionColumn maps a fund to its ledger amount column. Keys are
// the two classification constants; the map is never fed user input.
var contributionColumn = map[Classification]string{
	ClassSocial:  "social_amount",
	ClassMission: "mission_amount",
}

// FundTotals sums the ledger and case rows of one meeting and fund.
// COALESCE keeps empty meetings at zero instead of NULL.
func (r *Repository) FundTotals(ctx context.Context, meetingID int64, class Classification) (Totals, error) {
	col, ok := contributionColumn[class]
	if !ok {
		return Totals{}, fmt.Errorf("funds: unknown classification %q", class)
	}
	query := fmt.Sprintf(`SELECT
  COALESCE((SELECT SUM(c.%s) FROM contributions c WHERE c.meeting_id = $1), 0),
  COALESCE((SELECT SUM(k.requested_amount) FROM cases k WHERE k.meeting_id = $1 AND k.classification = $2), 0),
  COALESCE((SELECT SUM(k.requested_amount) FROM cases k WHERE k.meeting_id = $1 AND k.classification = $2 AND k.urgent), 0),
  COALESCE((SELECT SUM(k.allocated_amount) FROM cases k WHERE k.meeting_id = $1 AND k.classification = $2 AND NOT k.urgent), 0)`, col)

	t := Totals{MeetingID: meetingID, Classification: class}
	err := r.pool.QueryRow(ctx, query, meetingID, class).
		Scan(&t.Contributions, &t.Requested, &t.UrgentRequested, &t.AllocatedNonUrgent)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}

// ListCaseFigures returns the meeting's cases for the fund, urgent
// first, mirroring the review order used at réunions.
func (r *Repository) ListCaseFigures(ctx context.Context, meetingID int64, class Classification) ([]CaseFigures, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, last_name || ' ' || COALESCE(given_names, ''), requested_amount, allocated_amount, urgent
FROM cases WHERE meeting_id = $1 AND classification = $2 ORDER BY urgent DESC, id`, meetingID, class)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var figures []CaseFigures
	for rows.Next() {
		var f CaseFigures
		if err := rows.Scan(&f.CaseID, &f.Beneficiary, &f.Requested, &f.Allocated, &f.Urgent); err != nil {
			return nil, err
		}
		figures = append(figures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return figures, nil
}
