package beneficiaries

import (
	"context"
	"strings"

	"github.com/providence-asso/providence/internal/shared"
)

// Service handles beneficiary business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers a beneficiary.
func (s *Service) Create(ctx context.Context, input UpsertInput) (*Beneficiary, error) {
	if err := validate(&input); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, fromInput(input))
}

// Get returns one beneficiary.
func (s *Service) Get(ctx context.Context, id int64) (*Beneficiary, error) {
	return s.repo.Get(ctx, id)
}

// List pages through beneficiaries, optionally filtered on name.
func (s *Service) List(ctx context.Context, search string, page shared.Page) ([]Beneficiary, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page)
}

// Update edits a beneficiary. Cases created before the edit keep the
// snapshot they were given.
func (s *Service) Update(ctx context.Context, id int64, input UpsertInput) (*Beneficiary, error) {
	if err := validate(&input); err != nil {
		return nil, err
	}
	b := fromInput(input)
	b.ID = id
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func validate(input *UpsertInput) error {
	input.LastName = strings.TrimSpace(input.LastName)
	if input.LastName == "" {
		return shared.Validationf("last name required")
	}
	switch input.Sex {
	case "", "M", "F":
	default:
		return shared.Validationf("sex must be M or F")
	}
	if input.Children < 0 {
		return shared.Validationf("children must be non-negative")
	}
	if input.YearsInFaith < 0 {
		return shared.Validationf("years in faith must be non-negative")
	}
	return nil
}

func fromInput(input UpsertInput) *Beneficiary {
	return &Beneficiary{
		LastName:      input.LastName,
		GivenNames:    input.GivenNames,
		Sex:           input.Sex,
		MaritalStatus: input.MaritalStatus,
		Profession:    input.Profession,
		Role:          input.Role,
		Children:      input.Children,
		YearsInFaith:  input.YearsInFaith,
		CommunityID:   input.CommunityID,
	}
}
