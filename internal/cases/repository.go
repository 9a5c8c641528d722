package cases

import (
	"context"

	"github.com/providence-asso/providence/internal/funds"
)

// RepositoryPort defines data access methods for cases.
type RepositoryPort interface {
	GetBeneficiarySnapshot(ctx context.Context, beneficiaryID int64) (*BeneficiarySnapshot, error)
	// CreateCase inserts the row; the (meeting, beneficiary) uniqueness
	// violation comes back wrapped as shared.ErrDuplicate.
	CreateCase(ctx context.Context, c *Case) (*Case, error)
	GetCase(ctx context.Context, id int64) (*Case, error)
	ListCases(ctx context.Context, filter ListFilter) ([]Case, error)
	UpdateAllocation(ctx context.Context, id, amount int64) error
	UpdateClassification(ctx context.Context, id int64, class funds.Classification) error
	UpdateFollowup(ctx context.Context, input UpdateFollowupInput) error
}
