package meetings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/providence-asso/providence/internal/shared"
)

// Invalidator drops derived fund figures after a ledger write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles meeting lifecycle, ledger edits and assignments.
type Service struct {
	repo   RepositoryPort
	funds  Invalidator
	audit  AuditRecorder
	logger *slog.Logger
}

// AuditRecorder appends to the reconciliation trail.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, funds Invalidator, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, funds: funds, audit: audit, logger: logger}
}

// CreateMeeting persists a meeting and fans out one contribution row
// per contributing member, snapshotting their standing amounts at this
// instant. The fan-out runs inside the same transaction as the meeting
// insert; any row failure rolls the whole creation back. The snapshot
// fires only here, on the does-not-exist to exists transition, so
// later membership changes never touch an existing ledger.
func (s *Service) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*Meeting, error) {
	if input.HostID == 0 {
		return nil, shared.Validationf("host member required")
	}
	if input.Date.IsZero() {
		return nil, shared.Validationf("meeting date required")
	}
	if input.Location == "" {
		return nil, shared.Validationf("meeting location required")
	}

	members, err := s.repo.ListContributingMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("meetings: list contributing members: %w", err)
	}
	seeds := make([]ContributionSeed, 0, len(members))
	for _, m := range members {
		seeds = append(seeds, ContributionSeed{
			MemberID:      m.MemberID,
			SocialAmount:  amountOrZero(m.Social),
			MissionAmount: amountOrZero(m.Mission),
		})
	}

	meeting, err := s.repo.CreateMeetingWithContributions(ctx, input, seeds)
	if err != nil {
		return nil, err
	}
	s.invalidateFunds(ctx)
	return meeting, nil
}

// EnsureSnapshot is the creation hook applied to an already persisted
// meeting. The snapshot is gated on the first save, so this performs
// no writes and the ledger membership stays exactly as created.
func (s *Service) EnsureSnapshot(ctx context.Context, meetingID int64) error {
	if _, err := s.repo.GetMeeting(ctx, meetingID); err != nil {
		return err
	}
	return nil
}

// GetMeeting returns a meeting with its ledger.
func (s *Service) GetMeeting(ctx context.Context, id int64) (*Meeting, []Contribution, error) {
	meeting, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := s.repo.ListContributions(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return meeting, ledger, nil
}

// ListMeetings returns meetings, most recent first.
func (s *Service) ListMeetings(ctx context.Context, page shared.Page) ([]Meeting, error) {
	return s.repo.ListMeetings(ctx, page)
}

// UpdateContributionAmounts corrects a ledger row's due amounts.
func (s *Service) UpdateContributionAmounts(ctx context.Context, meetingID, contributionID, social, mission int64) (*Contribution, error) {
	if social < 0 || mission < 0 {
		return nil, shared.Validationf("contribution amounts must be non-negative")
	}
	contrib, err := s.repo.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if contrib.MeetingID != meetingID {
		return nil, shared.Validationf("contribution %d does not belong to meeting %d", contributionID, meetingID)
	}
	if err := s.repo.UpdateContributionAmounts(ctx, contributionID, social, mission); err != nil {
		return nil, err
	}
	s.invalidateFunds(ctx)
	contrib.SocialAmount = social
	contrib.MissionAmount = mission
	return contrib, nil
}

// Release records physical collection of a contribution's fund
// amounts by flipping the released flags.
func (s *Service) Release(ctx context.Context, meetingID, contributionID int64, social, mission bool) (*Contribution, error) {
	contrib, err := s.repo.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if contrib.MeetingID != meetingID {
		return nil, shared.Validationf("contribution %d does not belong to meeting %d", contributionID, meetingID)
	}
	if err := s.repo.SetReleaseFlags(ctx, contributionID, social, mission); err != nil {
		return nil, err
	}
	contrib.SocialReleased = social
	contrib.MissionReleased = mission
	return contrib, nil
}

// ListUnreleased returns the meeting's assignable contributions: rows
// with at least one unreleased flag, with the remaining uncollected
// amount already computed so callers can enforce the assignment cap.
func (s *Service) ListUnreleased(ctx context.Context, meetingID int64) ([]UnreleasedContribution, error) {
	if _, err := s.repo.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.repo.ListUnreleased(ctx, meetingID)
}

// CreateAssignment appends an affectation. The contribution and the
// case must belong to the same meeting, and the collector must be an
// eligible member. Released flags are untouched: collection itself is
// a separate staff action.
func (s *Service) CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*Assignment, error) {
	if input.Amount <= 0 {
		return nil, shared.Validationf("assignment amount must be positive")
	}
	contrib, err := s.repo.GetContribution(ctx, input.ContributionID)
	if err != nil {
		return nil, err
	}
	if contrib.MeetingID != input.MeetingID {
		return nil, shared.Validationf("contribution %d does not belong to meeting %d", input.ContributionID, input.MeetingID)
	}
	if contrib.FullyReleased() {
		return nil, shared.Validationf("contribution %d is fully released", input.ContributionID)
	}
	caseMeeting, err := s.repo.CaseMeeting(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}
	if caseMeeting != input.MeetingID {
		return nil, shared.Validationf("case %d belongs to another meeting", input.CaseID)
	}
	eligible, err := s.repo.IsEligibleCollector(ctx, input.CollectorID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, shared.Validationf("member %d cannot act as collector", input.CollectorID)
	}

	assignment, err := s.repo.CreateAssignment(ctx, input)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		actorID := int64(0)
		if id := shared.IdentityFromContext(ctx); id != nil {
			actorID = id.UserID
		}
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "assignment.create",
			Entity:   "assignment",
			EntityID: strconv.FormatInt(assignment.ID, 10),
			Meta: map[string]any{
				"contribution_id": input.ContributionID,
				"collector_id":    input.CollectorID,
				"case_id":         input.CaseID,
				"amount":          input.Amount,
			},
		}); err != nil && s.logger != nil {
			s.logger.Warn("record assignment audit", slog.Any("error", err))
		}
	}
	return assignment, nil
}

func (s *Service) invalidateFunds(ctx context.Context) {
	if s.funds == nil {
		return
	}
	if err := s.funds.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("invalidate fund summaries", slog.Any("error", err))
	}
}

func amountOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
