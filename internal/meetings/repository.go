package meetings

import (
	"context"

	"github.com/providence-asso/providence/internal/shared"
)

// RepositoryPort defines data access methods for meetings, the
// contribution ledger and assignments.
type RepositoryPort interface {
	// CreateMeetingWithContributions persists the meeting and its
	// contribution fan-out in one transaction: either the meeting and
	// every seed row exist afterwards, or nothing does.
	CreateMeetingWithContributions(ctx context.Context, input CreateMeetingInput, seeds []ContributionSeed) (*Meeting, error)
	GetMeeting(ctx context.Context, id int64) (*Meeting, error)
	ListMeetings(ctx context.Context, page shared.Page) ([]Meeting, error)

	// ListContributingMembers snapshots members with can_contribute set,
	// with their standing due amounts.
	ListContributingMembers(ctx context.Context) ([]MemberSnapshot, error)
	IsEligibleCollector(ctx context.Context, memberID int64) (bool, error)

	GetContribution(ctx context.Context, id int64) (*Contribution, error)
	ListContributions(ctx context.Context, meetingID int64) ([]Contribution, error)
	UpdateContributionAmounts(ctx context.Context, id, social, mission int64) error
	SetReleaseFlags(ctx context.Context, id int64, social, mission bool) error

	// ListUnreleased re-queries the ledger on every call; no cursor is
	// cached across invocations.
	ListUnreleased(ctx context.Context, meetingID int64) ([]UnreleasedContribution, error)
	CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*Assignment, error)
	CaseMeeting(ctx context.Context, caseID int64) (int64, error)
}
