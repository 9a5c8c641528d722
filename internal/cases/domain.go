package cases

import (
	"time"

	"github.com/providence-asso/providence/internal/funds"
)

// Status tracks the follow-up state of a case.
type Status string

const (
	StatusOpen      Status = "O"
	StatusClosed    Status = "C"
	StatusRenewed   Status = "R"
	StatusPostponed Status = "P"
)

// DonationState records whether the granted donation was handed over.
type DonationState string

const (
	DonationGiven     DonationState = "O"
	DonationNotGiven  DonationState = "N"
	DonationPartially DonationState = "P"
)

// Case is an assistance request submitted at a meeting on behalf of a
// beneficiary. The beneficiary's descriptive fields are copied into
// the case once, at creation; later edits to the beneficiary record
// never reach back into historical cases.
type Case struct {
	ID            int64 `json:"id"`
	MeetingID     int64 `json:"meeting_id"`
	BeneficiaryID int64 `json:"beneficiary_id"`
	SubmitterID   int64 `json:"submitter_id"`

	Classification  funds.Classification `json:"classification"`
	Urgent          bool                 `json:"urgent"`
	RequestedAmount int64                `json:"requested_amount"`
	ExternalAmount  int64                `json:"external_amount"`
	AllocatedAmount int64                `json:"allocated_amount"`
	Description     string               `json:"description"`
	NeedCategoryIDs []int64              `json:"need_category_ids,omitempty"`

	// Beneficiary snapshot, frozen at creation.
	LastName      string `json:"last_name"`
	GivenNames    string `json:"given_names"`
	Sex           string `json:"sex"`
	MaritalStatus string `json:"marital_status"`
	Profession    string `json:"profession"`
	Role          string `json:"role"`
	Children      int    `json:"children"`
	YearsInFaith  int    `json:"years_in_faith"`
	CommunityID   *int64 `json:"community_id,omitempty"`

	// Follow-up.
	Status        Status        `json:"status"`
	DonationState DonationState `json:"donation_state,omitempty"`
	Report        string        `json:"report"`

	CreatedAt time.Time `json:"created_at"`
}

// BeneficiarySnapshot carries the fields copied into a new case.
type BeneficiarySnapshot struct {
	LastName      string
	GivenNames    string
	Sex           string
	MaritalStatus string
	Profession    string
	Role          string
	Children      int
	YearsInFaith  int
	CommunityID   *int64
}

// CreateCaseInput for submitting cases.
type CreateCaseInput struct {
	MeetingID       int64
	BeneficiaryID   int64
	SubmitterID     int64
	Classification  funds.Classification
	Urgent          bool
	RequestedAmount int64
	ExternalAmount  int64
	Description     string
	NeedCategoryIDs []int64
}

// UpdateFollowupInput for the case follow-up fields.
type UpdateFollowupInput struct {
	CaseID        int64
	Status        Status
	DonationState DonationState
	Report        string
}

// ListFilter narrows case listings.
type ListFilter struct {
	MeetingID      int64
	Classification funds.Classification
	UrgentOnly     bool
}
