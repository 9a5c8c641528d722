package users

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/providence-asso/providence/internal/shared"
)

// AuditRecorder appends privileged changes to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user account business logic.
type Service struct {
	repo   RepositoryPort
	audit  AuditRecorder
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// CreateUser registers an account. Only superusers may register.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if !shared.IsSuperuser(ctx) {
		return nil, shared.ErrForbidden
	}
	if input.Username == "" {
		return nil, shared.Validationf("username required")
	}
	if len(input.Password) < 8 {
		return nil, shared.Validationf("password must be at least 8 characters")
	}
	if input.LastName == "" {
		return nil, shared.Validationf("last name required")
	}
	if err := validateDues(input.SocialDue, input.MissionDue); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:      input.Username,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Phone:         input.Phone,
		Role:          input.Role,
		IsSuperuser:   input.IsSuperuser,
		CanContribute: input.CanContribute,
		SocialDue:     input.SocialDue,
		MissionDue:    input.MissionDue,
	}
	created, err := s.repo.CreateUser(ctx, u, string(hash))
	if err != nil {
		return nil, err
	}
	s.record(ctx, "user.create", created.ID, nil)
	return created, nil
}

// GetUser returns one account.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// ListUsers pages through all accounts.
func (s *Service) ListUsers(ctx context.Context, page shared.Page) ([]User, error) {
	return s.repo.ListUsers(ctx, page)
}

// ListMembers returns the accounts taking part in the monthly
// collection: active and flagged can_contribute.
func (s *Service) ListMembers(ctx context.Context) ([]User, error) {
	return s.repo.ListMembers(ctx)
}

// UpdateUser edits profile fields.
func (s *Service) UpdateUser(ctx context.Context, input UpdateUserInput) (*User, error) {
	if input.LastName == "" {
		return nil, shared.Validationf("last name required")
	}
	if err := s.repo.UpdateUser(ctx, input); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, input.UserID)
}

// SetDues adjusts the contribution flag and standing amounts. The
// change only affects meetings created afterwards; existing ledgers
// keep the amounts they were seeded with.
func (s *Service) SetDues(ctx context.Context, input SetDuesInput) (*User, error) {
	if err := validateDues(input.SocialDue, input.MissionDue); err != nil {
		return nil, err
	}
	if err := s.repo.SetDues(ctx, input); err != nil {
		return nil, err
	}
	s.record(ctx, "user.set_dues", input.UserID, map[string]any{
		"can_contribute": input.CanContribute,
	})
	return s.repo.GetUser(ctx, input.UserID)
}

// SetActive enables or disables an account. Only superusers may.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*User, error) {
	if !shared.IsSuperuser(ctx) {
		return nil, shared.ErrForbidden
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	s.record(ctx, "user.set_active", id, map[string]any{"active": active})
	return s.repo.GetUser(ctx, id)
}

func validateDues(social, mission *int64) error {
	if social != nil && *social < 0 {
		return shared.Validationf("social due must be non-negative")
	}
	if mission != nil && *mission < 0 {
		return shared.Validationf("mission due must be non-negative")
	}
	return nil
}

func (s *Service) record(ctx context.Context, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actorID := int64(0)
	if identity := shared.IdentityFromContext(ctx); identity != nil {
		actorID = identity.UserID
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(entityID, 10),
		Meta:     meta,
	}); err != nil && s.logger != nil {
		s.logger.Warn("record user audit", slog.String("action", action), slog.Any("error", err))
	}
}
