package cases

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/providence-asso/providence/internal/funds"
	"github.com/providence-asso/providence/internal/shared"
)

// Invalidator drops derived fund figures after a case write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// AuditRecorder appends privileged changes to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles case business logic.
type Service struct {
	repo   RepositoryPort
	funds  Invalidator
	audit  AuditRecorder
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, funds Invalidator, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, funds: funds, audit: audit, logger: logger}
}

// CreateCase submits a case for a beneficiary at a meeting. The
// beneficiary's descriptive fields are copied into the case here and
// never re-synced. An urgent case is allocated its full requested
// amount at this write, ahead of any pro-rata scaling.
func (s *Service) CreateCase(ctx context.Context, input CreateCaseInput) (*Case, error) {
	if input.MeetingID == 0 {
		return nil, shared.Validationf("meeting required")
	}
	if input.BeneficiaryID == 0 {
		return nil, shared.Validationf("beneficiary required")
	}
	if input.RequestedAmount <= 0 {
		return nil, shared.Validationf("requested amount must be positive")
	}
	if input.ExternalAmount < 0 {
		return nil, shared.Validationf("external amount must be non-negative")
	}
	if _, err := funds.ParseClassification(string(input.Classification)); err != nil {
		return nil, err
	}

	snapshot, err := s.repo.GetBeneficiarySnapshot(ctx, input.BeneficiaryID)
	if err != nil {
		return nil, err
	}

	c := &Case{
		MeetingID:       input.MeetingID,
		BeneficiaryID:   input.BeneficiaryID,
		SubmitterID:     input.SubmitterID,
		Classification:  input.Classification,
		Urgent:          input.Urgent,
		RequestedAmount: input.RequestedAmount,
		ExternalAmount:  input.ExternalAmount,
		Description:     input.Description,
		NeedCategoryIDs: input.NeedCategoryIDs,
		LastName:        snapshot.LastName,
		GivenNames:      snapshot.GivenNames,
		Sex:             snapshot.Sex,
		MaritalStatus:   snapshot.MaritalStatus,
		Profession:      snapshot.Profession,
		Role:            snapshot.Role,
		Children:        snapshot.Children,
		YearsInFaith:    snapshot.YearsInFaith,
		CommunityID:     snapshot.CommunityID,
		Status:          StatusOpen,
	}
	if c.Urgent {
		c.AllocatedAmount = c.RequestedAmount
	}

	created, err := s.repo.CreateCase(ctx, c)
	if err != nil {
		return nil, err
	}
	s.invalidateFunds(ctx)
	return created, nil
}

// GetCase returns one case.
func (s *Service) GetCase(ctx context.Context, id int64) (*Case, error) {
	return s.repo.GetCase(ctx, id)
}

// ListCases returns cases matching the filter.
func (s *Service) ListCases(ctx context.Context, filter ListFilter) ([]Case, error) {
	return s.repo.ListCases(ctx, filter)
}

// SetAllocation records the final allocated amount, decided by staff
// with knowledge of the estimate. For urgent cases the allocation is
// pinned to the requested amount; any other value is rejected.
func (s *Service) SetAllocation(ctx context.Context, id, amount int64) (*Case, error) {
	if amount < 0 {
		return nil, shared.Validationf("allocated amount must be non-negative")
	}
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Urgent && amount != c.RequestedAmount {
		return nil, shared.Validationf("urgent case %d must stay allocated its requested amount", id)
	}
	if err := s.repo.UpdateAllocation(ctx, id, amount); err != nil {
		return nil, err
	}
	s.invalidateFunds(ctx)
	c.AllocatedAmount = amount
	return c, nil
}

// ChangeClassification moves a case between funds. Classification is
// immutable after creation except for superusers.
func (s *Service) ChangeClassification(ctx context.Context, id int64, class funds.Classification) (*Case, error) {
	if !shared.IsSuperuser(ctx) {
		return nil, shared.ErrForbidden
	}
	if _, err := funds.ParseClassification(string(class)); err != nil {
		return nil, err
	}
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Classification == class {
		return c, nil
	}
	if err := s.repo.UpdateClassification(ctx, id, class); err != nil {
		return nil, err
	}
	s.invalidateFunds(ctx)

	if s.audit != nil {
		actorID := int64(0)
		if identity := shared.IdentityFromContext(ctx); identity != nil {
			actorID = identity.UserID
		}
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "case.reclassify",
			Entity:   "case",
			EntityID: strconv.FormatInt(id, 10),
			Meta: map[string]any{
				"from": string(c.Classification),
				"to":   string(class),
			},
		}); err != nil && s.logger != nil {
			s.logger.Warn("record reclassification audit", slog.Any("error", err))
		}
	}
	c.Classification = class
	return c, nil
}

// UpdateFollowup edits the follow-up fields of a case.
func (s *Service) UpdateFollowup(ctx context.Context, input UpdateFollowupInput) (*Case, error) {
	switch input.Status {
	case StatusOpen, StatusClosed, StatusRenewed, StatusPostponed:
	default:
		return nil, shared.Validationf("unknown case status %q", input.Status)
	}
	switch input.DonationState {
	case "", DonationGiven, DonationNotGiven, DonationPartially:
	default:
		return nil, shared.Validationf("unknown donation state %q", input.DonationState)
	}
	c, err := s.repo.GetCase(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFollowup(ctx, input); err != nil {
		return nil, err
	}
	c.Status = input.Status
	c.DonationState = input.DonationState
	c.Report = input.Report
	return c, nil
}

func (s *Service) invalidateFunds(ctx context.Context) {
	if s.funds == nil {
		return
	}
	if err := s.funds.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("invalidate fund summaries", slog.Any("error", err))
	}
}
