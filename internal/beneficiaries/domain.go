package beneficiaries

import "time"

// Beneficiary is a person assistance can be requested for. Cases copy
// these descriptive fields at creation, so edits here never rewrite
// history.
type Beneficiary struct {
	ID            int64     `json:"id"`
	LastName      string    `json:"last_name"`
	GivenNames    string    `json:"given_names"`
	Sex           string    `json:"sex"`
	MaritalStatus string    `json:"marital_status"`
	Profession    string    `json:"profession"`
	Role          string    `json:"role"`
	Children      int       `json:"children"`
	YearsInFaith  int       `json:"years_in_faith"`
	CommunityID   *int64    `json:"community_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpsertInput carries the editable fields.
type UpsertInput struct {
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
