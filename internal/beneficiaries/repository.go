package beneficiaries

import (
	"context"

	"github.com/providence-asso/providence/internal/shared"
)

// RepositoryPort defines data access methods for beneficiaries.
type RepositoryPort interface {
	Create(ctx context.Context, b *Beneficiary) (*Beneficiary, error)
	Get(ctx context.Context, id int64) (*Beneficiary, error)
	List(ctx context.Context, search string, page shared.Page) ([]Beneficiary, error)
	Update(ctx context.Context, b *Beneficiary) error
}
