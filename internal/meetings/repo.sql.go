package meetings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

// CreateMeetingWithContributions inserts the meeting, its attendance
// list and the contribution fan-out inside one repeatable-read
// transaction. A failure on any row rolls back the whole creation.
func (r *Repository) CreateMeetingWithContributions(ctx context.Context, input CreateMeetingInput, seeds []ContributionSeed) (*Meeting, error) {
	var meeting Meeting
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO meetings (host_id, meeting_date, location, minutes)
VALUES ($1, $2, $3, $4) RETURNING id, host_id, meeting_date, location, minutes, created_at`,
			input.HostID, input.Date, input.Location, input.Minutes).
			Scan(&meeting.ID, &meeting.HostID, &meeting.Date, &meeting.Location, &meeting.Minutes, &meeting.CreatedAt)
		if err != nil {
			return fmt.Errorf("meetings: insert meeting: %w", err)
		}
		for _, memberID := range input.Attendees {
			if _, err := tx.Exec(ctx, `INSERT INTO meeting_attendees (meeting_id, member_id) VALUES ($1, $2)`, meeting.ID, memberID); err != nil {
				return fmt.Errorf("meetings: insert attendee: %w", err)
			}
		}
		for _, seed := range seeds {
			if _, err := tx.Exec(ctx, `INSERT INTO contributions (meeting_id, member_id, social_amount, mission_amount, social_released, mission_released)
VALUES ($1, $2, $3, $4, false, false)`, meeting.ID, seed.MemberID, seed.SocialAmount, seed.MissionAmount); err != nil {
				return mapContributionErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	meeting.Attendees = input.Attendees
	return &meeting, nil
}

// GetMeeting returns a meeting and its attendance list.
func (r *Repository) GetMeeting(ctx context.Context, id int64) (*Meeting, error) {
	var meeting Meeting
	err := r.pool.QueryRow(ctx, `SELECT id, host_id, meeting_date, location, minutes, created_at FROM meetings WHERE id = $1`, id).
		Scan(&meeting.ID, &meeting.HostID, &meeting.Date, &meeting.Location, &meeting.Minutes, &meeting.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("meetings: meeting %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT member_id FROM meeting_attendees WHERE meeting_id = $1 ORDER BY member_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var memberID int64
		if err := rows.Scan(&memberID); err != nil {
			return nil, err
		}
		meeting.Attendees = append(meeting.Attendees, memberID)
	}
	return &meeting, rows.Err()
}

// ListMeetings returns meetings, most recent first.
func (r *Repository) ListMeetings(ctx context.Context, page shared.Page) ([]Meeting, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, host_id, meeting_date, location, minutes, created_at FROM meetings
ORDER BY meeting_date DESC, id DESC LIMIT $1 OFFSET $2`, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.HostID, &m.Date, &m.Location, &m.Minutes, &m.CreatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// ListContributingMembers snapshots members flagged can_contribute
// with their standing due amounts.
func (r *Repository) ListContributingMembers(ctx context.Context) ([]MemberSnapshot, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, social_due, mission_due FROM users WHERE can_contribute ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []MemberSnapshot
	for rows.Next() {
		var m MemberSnapshot
		if err := rows.Scan(&m.MemberID, &m.Social, &m.Mission); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsEligibleCollector reports whether the member may physically
// collect money: an active contributing member.
func (r *Repository) IsEligibleCollector(ctx context.Context, memberID int64) (bool, error) {
	var eligible bool
	err := r.pool.QueryRow(ctx, `SELECT is_active AND can_contribute FROM users WHERE id = $1`, memberID).Scan(&eligible)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("meetings: member %d: %w", memberID, shared.ErrNotFound)
	}
	if err != nil {
		return false, err
	}
	return eligible, nil
}

// GetContribution returns one ledger row.
func (r *Repository) GetContribution(ctx context.Context, id int64) (*Contribution, error) {
	var c Contribution
	err := r.pool.QueryRow(ctx, `SELECT id, meeting_id, member_id, social_amount, mission_amount, social_released, mission_released
FROM contributions WHERE id = $1`, id).
		Scan(&c.ID, &c.MeetingID, &c.MemberID, &c.SocialAmount, &c.MissionAmount, &c.SocialReleased, &c.MissionReleased)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("meetings: contribution %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListContributions returns the meeting's ledger.
func (r *Repository) ListContributions(ctx context.Context, meetingID int64) ([]Contribution, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, meeting_id, member_id, social_amount, mission_amount, social_released, mission_released
FROM contributions WHERE meeting_id = $1 ORDER BY member_id`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ledger []Contribution
	for rows.Next() {
		var c Contribution
		if err := rows.Scan(&c.ID, &c.MeetingID, &c.MemberID, &c.SocialAmount, &c.MissionAmount, &c.SocialReleased, &c.MissionReleased); err != nil {
			return nil, err
		}
		ledger = append(ledger, c)
	}
	return ledger, rows.Err()
}

// UpdateContributionAmounts corrects the due amounts of one row.
func (r *Repository) UpdateContributionAmounts(ctx context.Context, id, social, mission int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE contributions SET social_amount = $1, mission_amount = $2 WHERE id = $3`, social, mission, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meetings: contribution %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// SetReleaseFlags records collection state per fund.
func (r *Repository) SetReleaseFlags(ctx context.Context, id int64, social, mission bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE contributions SET social_released = $1, mission_released = $2 WHERE id = $3`, social, mission, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meetings: contribution %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// ListUnreleased re-queries rows with at least one unreleased flag and
// computes the remaining uncollected amount against existing
// assignments.
func (r *Repository) ListUnreleased(ctx context.Context, meetingID int64) ([]UnreleasedContribution, error) {
	rows, err := r.pool.Query(ctx, `SELECT c.id, c.meeting_id, c.member_id, c.social_amount, c.mission_amount, c.social_released, c.mission_released,
  u.last_name || ' ' || u.first_name,
  COALESCE((SELECT SUM(a.amount) FROM assignments a WHERE a.contribution_id = c.id), 0)
FROM contributions c
JOIN users u ON u.id = c.member_id
WHERE c.meeting_id = $1 AND (NOT c.social_released OR NOT c.mission_released)
ORDER BY u.last_name, u.first_name`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var unreleased []UnreleasedContribution
	for rows.Next() {
		var u UnreleasedContribution
		if err := rows.Scan(&u.ID, &u.MeetingID, &u.MemberID, &u.SocialAmount, &u.MissionAmount, &u.SocialReleased, &u.MissionReleased, &u.MemberName, &u.AssignedAmount); err != nil {
			return nil, err
		}
		u.RemainingUncollected = u.UnreleasedBalance() - u.AssignedAmount
		unreleased = append(unreleased, u)
	}
	return unreleased, rows.Err()
}

// CreateAssignment appends an affectation row.
func (r *Repository) CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*Assignment, error) {
	var a Assignment
	err := r.pool.QueryRow(ctx, `INSERT INTO assignments (contribution_id, collector_id, case_id, amount)
VALUES ($1, $2, $3, $4) RETURNING id, contribution_id, collector_id, case_id, amount, created_at`,
		input.ContributionID, input.CollectorID, input.CaseID, input.Amount).
		Scan(&a.ID, &a.ContributionID, &a.CollectorID, &a.CaseID, &a.Amount, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CaseMeeting returns the meeting a case belongs to.
func (r *Repository) CaseMeeting(ctx context.Context, caseID int64) (int64, error) {
	var meetingID int64
	err := r.pool.QueryRow(ctx, `SELECT meeting_id FROM cases WHERE id = $1`, caseID).Scan(&meetingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("meetings: case %d: %w", caseID, shared.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return meetingID, nil
}

// mapContributionErr translates the (member, meeting) uniqueness
// violation into the validation taxonomy.
func mapContributionErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("meetings: contribution already exists for member and meeting: %w", shared.ErrDuplicate)
	}
	return err
}
