package masterdata

import "github.com/providence-asso/providence/internal/funds"

// CommunityFamily groups communities.
type CommunityFamily struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Community is a local assembly inside a family.
type Community struct {
	ID       int64  `json:"id"`
	FamilyID int64  `json:"family_id"`
	Name     string `json:"name"`
	City     string `json:"city"`
}

// NeedCategory labels the nature of an assistance request. The
// classification tag is advisory: it suggests which fund a case with
// this need usually draws from, without constraining the case.
type NeedCategory struct {
	ID             int64                `json:"id"`
	Name           string               `json:"name"`
	Classification funds.Classification `json:"classification,omitempty"`
}
