package meetings

import "time"

// Meeting is a réunion of the association. It owns its contribution
// ledger and its cases; both are removed with it.
type Meeting struct {
	ID        int64     `json:"id"`
	HostID    int64     `json:"host_id"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	Minutes   string    `json:"minutes"`
	Attendees []int64   `json:"attendees,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Contribution is one member's due amounts for one meeting. The
// (member, meeting) pair is unique; amounts stay editable after
// creation, membership of the ledger does not.
type Contribution struct {
	ID              int64 `json:"id"`
	MeetingID       int64 `json:"meeting_id"`
	MemberID        int64 `json:"member_id"`
	SocialAmount    int64 `json:"social_amount"`
	MissionAmount   int64 `json:"mission_amount"`
	SocialReleased  bool  `json:"social_released"`
	MissionReleased bool  `json:"mission_released"`
}

// FullyReleased reports whether both fund amounts have been collected.
func (c Contribution) FullyReleased() bool {
	return c.SocialReleased && c.MissionReleased
}

// UnreleasedBalance sums the fund amounts not yet collected.
func (c Contribution) UnreleasedBalance() int64 {
	var balance int64
	if !c.SocialReleased {
		balance += c.SocialAmount
	}
	if !c.MissionReleased {
		balance += c.MissionAmount
	}
	return balance
}

// Assignment (affectation) redirects an uncollected contribution
// amount to a collector, against a specific case's shortfall.
type Assignment struct {
	ID             int64     `json:"id"`
	ContributionID int64     `json:"contribution_id"`
	CollectorID    int64     `json:"collector_id"`
	CaseID         int64     `json:"case_id"`
	Amount         int64     `json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
}

// UnreleasedContribution is a ledger row with at least one unreleased
// flag, enriched with the figures collectors need. The remaining
// uncollected amount is informational: cumulative assignments are not
// hard-capped against it, callers decide.
type UnreleasedContribution struct {
	Contribution
	MemberName           string `json:"member_name"`
	AssignedAmount       int64  `json:"assigned_amount"`
	RemainingUncollected int64  `json:"remaining_uncollected"`
}

// MemberSnapshot is the slice of a member read at meeting-creation
// time: standing due amounts, nil when the member has none on file.
type MemberSnapshot struct {
	MemberID int64
	Social   *int64
	Mission  *int64
}

// ContributionSeed is one ledger row to create during the fan-out.
type ContributionSeed struct {
	MemberID      int64
	SocialAmount  int64
	MissionAmount int64
}

// CreateMeetingInput for creating meetings.
type CreateMeetingInput struct {
	HostID    int64
	Date      time.Time
	Location  string
	Minutes   string
	Attendees []int64
}

// CreateAssignmentInput for creating assignments.
type CreateAssignmentInput struct {
	MeetingID      int64
	ContributionID int64
	CollectorID    int64
	CaseID         int64
	Amount         int64
}
