package funds

import "context"

// RepositoryPort defines the read-only aggregates the engine consumes.
type RepositoryPort interface {
	// FundTotals sums one meeting and fund. Missing rows come back as
	// zeros, never as an error.
	FundTotals(ctx context.Context, meetingID int64, class Classification) (Totals, error)
	// ListCaseFigures returns the cases of the meeting and fund,
	// urgent cases first.
	ListCaseFigures(ctx context.Context, meetingID int64, class Classification) ([]CaseFigures, error)
}
