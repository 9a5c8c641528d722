package funds

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryFundsRepo struct {
	totals      map[Classification]Totals
	figures     map[Classification][]CaseFigures
	totalsCalls int
}

func newMemoryFundsRepo() *memoryFundsRepo {
	return &memoryFundsRepo{
		totals:  make(map[Classification]Totals),
		figures: make(map[Classification][]CaseFigures),
	}
}

func (r *memoryFundsRepo) FundTotals(ctx context.Context, meetingID int64, class Classification) (Totals, error) {
	r.totalsCalls++
	t := r.totals[class]
	t.MeetingID = meetingID
	t.Classification = class
	return t, nil
}

func (r *memoryFundsRepo) ListCaseFigures(ctx context.Context, meetingID int64, class Classification) ([]CaseFigures, error) {
	return r.figures[class], nil
}

func newTestService(t *testing.T, repo RepositoryPort) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewCache(client, time.Minute))
}

func TestSummaryWorkedScenario(t *testing.T) {
	repo := newMemoryFundsRepo()
	repo.totals[ClassSocial] = Totals{
		Contributions:   100_000,
		Requested:       100_000,
		UrgentRequested: 20_000,
	}
	repo.figures[ClassSocial] = []CaseFigures{
		{CaseID: 1, Beneficiary: "Mbarga Awono", Requested: 20_000, Allocated: 20_000, Urgent: true},
		{CaseID: 2, Beneficiary: "Essomba Claire", Requested: 40_000},
		{CaseID: 3, Beneficiary: "Ngono Pierre", Requested: 40_000},
	}
	svc := newTestService(t, repo)

	summary, err := svc.Summary(context.Background(), 7, ClassSocial)
	require.NoError(t, err)

	require.Equal(t, int64(80_000), summary.Pool)
	require.Equal(t, int64(80_000), summary.Demand)
	require.Len(t, summary.Cases, 3)
	require.Equal(t, int64(20_000), summary.Cases[0].Estimate)
	require.Equal(t, int64(40_000), summary.Cases[1].Estimate)
	require.Equal(t, int64(40_000), summary.Cases[2].Estimate)

	var nonUrgentSum int64
	for _, c := range summary.Cases {
		if !c.Urgent {
			nonUrgentSum += c.Estimate
		}
	}
	require.LessOrEqual(t, nonUrgentSum, summary.Pool)
}

func TestSummaryCaches(t *testing.T) {
	repo := newMemoryFundsRepo()
	repo.totals[ClassMission] = Totals{Contributions: 30_000, Requested: 10_000}
	svc := newTestService(t, repo)

	ctx := context.Background()
	_, err := svc.Summary(ctx, 3, ClassMission)
	require.NoError(t, err)
	require.Equal(t, 1, repo.totalsCalls)

	// Second read hits the cache.
	_, err = svc.Summary(ctx, 3, ClassMission)
	require.NoError(t, err)
	require.Equal(t, 1, repo.totalsCalls)

	// Invalidation forces a rebuild.
	require.NoError(t, svc.Invalidate(ctx))
	repo.totals[ClassMission] = Totals{Contributions: 45_000, Requested: 10_000}
	summary, err := svc.Summary(ctx, 3, ClassMission)
	require.NoError(t, err)
	require.Equal(t, 2, repo.totalsCalls)
	require.Equal(t, int64(45_000), summary.Totals.Contributions)
}

func TestSummaryEmptyMeetingAggregatesToZero(t *testing.T) {
	svc := newTestService(t, newMemoryFundsRepo())

	summary, err := svc.Summary(context.Background(), 99, ClassSocial)
	require.NoError(t, err)
	require.Equal(t, int64(0), summary.Totals.Contributions)
	require.Equal(t, int64(0), summary.Available)
	require.Empty(t, summary.Cases)
}

func TestEstimateOnlyUrgentCases(t *testing.T) {
	repo := newMemoryFundsRepo()
	repo.totals[ClassSocial] = Totals{Contributions: 50_000, Requested: 30_000, UrgentRequested: 30_000}
	svc := newTestService(t, repo)

	est, err := svc.Estimate(context.Background(), 5, ClassSocial, 10_000, false)
	require.NoError(t, err)
	require.Equal(t, int64(0), est)
}
