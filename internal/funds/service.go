package funds

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// Service computes fund summaries and per-case estimates. Reads go
// through the versioned cache; concurrent rebuilds of the same key are
// collapsed with singleflight.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	group singleflight.Group
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Totals returns the aggregated figures for one meeting and fund.
func (s *Service) Totals(ctx context.Context, meetingID int64, class Classification) (Totals, error) {
	summary, err := s.Summary(ctx, meetingID, class)
	if err != nil {
		return Totals{}, err
	}
	return summary.Totals, nil
}

// Summary builds the full fund picture: totals, pool, demand, signed
// available balance, and the estimate for every case of the fund.
func (s *Service) Summary(ctx context.Context, meetingID int64, class Classification) (Summary, error) {
	key, err := s.cache.BuildKey(ctx, "funds", "summary", strconv.FormatInt(meetingID, 10), string(class))
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		result, err, _ := s.singleflightBuild(ctx, key, func(ctx context.Context) (interface{}, error) {
			return s.buildSummary(ctx, meetingID, class)
		})
		return result, err
	})
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Estimate computes the estimated grant for a single case against the
// current fund totals of its meeting.
func (s *Service) Estimate(ctx context.Context, meetingID int64, class Classification, requested int64, urgent bool) (int64, error) {
	totals, err := s.Totals(ctx, meetingID, class)
	if err != nil {
		return 0, err
	}
	return EstimateAllocation(requested, urgent, totals), nil
}

// Invalidate drops every cached summary. Ledger and case writers call
// this after any mutation that moves a meeting's figures.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) buildSummary(ctx context.Context, meetingID int64, class Classification) (Summary, error) {
	totals, err := s.repo.FundTotals(ctx, meetingID, class)
	if err != nil {
		return Summary{}, fmt.Errorf("funds: totals: %w", err)
	}
	figures, err := s.repo.ListCaseFigures(ctx, meetingID, class)
	if err != nil {
		return Summary{}, fmt.Errorf("funds: case figures: %w", err)
	}

	summary := Summary{
		Totals:    totals,
		Pool:      Pool(totals),
		Demand:    Demand(totals),
		Available: AvailableBalance(totals),
		Cases:     make([]CaseEstimate, 0, len(figures)),
	}
	for _, f := range figures {
		summary.Cases = append(summary.Cases, CaseEstimate{
			CaseFigures: f,
			Estimate:    EstimateAllocation(f.Requested, f.Urgent, totals),
		})
	}
	return summary, nil
}

func (s *Service) singleflightBuild(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error, bool) {
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}
