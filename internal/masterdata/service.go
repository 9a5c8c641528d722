package masterdata

import (
	"context"
	"strings"

	"github.com/providence-asso/providence/internal/funds"
	"github.com/providence-asso/providence/internal/shared"
)

// Service handles master data business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateFamily registers a community family.
func (s *Service) CreateFamily(ctx context.Context, name string) (*CommunityFamily, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.Validationf("family name required")
	}
	return s.repo.CreateFamily(ctx, name)
}

// ListFamilies returns all families.
func (s *Service) ListFamilies(ctx context.Context) ([]CommunityFamily, error) {
	return s.repo.ListFamilies(ctx)
}

// CreateCommunity registers a community under its family.
func (s *Service) CreateCommunity(ctx context.Context, c Community) (*Community, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, shared.Validationf("community name required")
	}
	if c.FamilyID == 0 {
		return nil, shared.Validationf("community family required")
	}
	return s.repo.CreateCommunity(ctx, &c)
}

// ListCommunities returns communities, all of them or one family's.
func (s *Service) ListCommunities(ctx context.Context, familyID int64) ([]Community, error) {
	return s.repo.ListCommunities(ctx, familyID)
}

// CreateNeedCategory registers a need category. The classification
// tag is optional.
func (s *Service) CreateNeedCategory(ctx context.Context, c NeedCategory) (*NeedCategory, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, shared.Validationf("need category name required")
	}
	if c.Classification != "" {
		if _, err := funds.ParseClassification(string(c.Classification)); err != nil {
			return nil, err
		}
	}
	return s.repo.CreateNeedCategory(ctx, &c)
}

// ListNeedCategories returns all need categories.
func (s *Service) ListNeedCategories(ctx context.Context) ([]NeedCategory, error) {
	return s.repo.ListNeedCategories(ctx)
}
