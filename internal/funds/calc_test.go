package funds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateWorkedScenario(t *testing.T) {
	// Meeting with 100,000 social contributions; case A urgent 20,000,
	// cases B and C non-urgent 40,000 each.
	totals := Totals{
		Contributions:   100_000,
		Requested:       100_000,
		UrgentRequested: 20_000,
	}

	require.Equal(t, int64(80_000), Pool(totals))
	require.Equal(t, int64(80_000), Demand(totals))

	require.Equal(t, int64(20_000), EstimateAllocation(20_000, true, totals))
	require.Equal(t, int64(40_000), EstimateAllocation(40_000, false, totals))
}

func TestEstimateUrgentShortCircuits(t *testing.T) {
	// Urgent cases ignore the pool entirely, even an empty one.
	totals := Totals{Contributions: 0, Requested: 5_000, UrgentRequested: 5_000}
	require.Equal(t, int64(5_000), EstimateAllocation(5_000, true, totals))
}

func TestEstimateZeroDemand(t *testing.T) {
	// Only urgent cases in the fund: demand is zero, estimate is zero,
	// no division happens.
	totals := Totals{Contributions: 50_000, Requested: 30_000, UrgentRequested: 30_000}
	require.Equal(t, int64(0), EstimateAllocation(10_000, false, totals))
}

func TestEstimateOvercommittedPool(t *testing.T) {
	// Urgent payouts exceed contributions: the pool is negative, so
	// non-urgent cases get nothing rather than a negative estimate. The
	// overdraft stays visible in the signed balance.
	totals := Totals{Contributions: 10_000, Requested: 50_000, UrgentRequested: 20_000}
	require.Equal(t, int64(0), EstimateAllocation(30_000, false, totals))
	require.Equal(t, int64(-10_000), AvailableBalance(totals))

	// Exactly consumed pool behaves the same.
	exhausted := Totals{Contributions: 20_000, Requested: 50_000, UrgentRequested: 20_000}
	require.Equal(t, int64(0), EstimateAllocation(30_000, false, exhausted))
}

func TestEstimateFloorsTowardZero(t *testing.T) {
	totals := Totals{Contributions: 100, Requested: 300}
	// 70 × 100 / 300 = 23.33... floors to 23.
	require.Equal(t, int64(23), EstimateAllocation(70, false, totals))
}

func TestEstimateSumNeverExceedsPool(t *testing.T) {
	cases := []struct {
		requested []int64
		contrib   int64
		urgent    int64
	}{
		{[]int64{40_000, 40_000}, 100_000, 20_000},
		{[]int64{7, 11, 13}, 17, 0},
		{[]int64{1, 1, 1, 1, 1}, 3, 0},
		{[]int64{99, 101}, 150, 0},
	}
	for _, tc := range cases {
		var requested int64 = tc.urgent
		for _, r := range tc.requested {
			requested += r
		}
		totals := Totals{Contributions: tc.contrib, Requested: requested, UrgentRequested: tc.urgent}
		var sum int64
		for _, r := range tc.requested {
			est := EstimateAllocation(r, false, totals)
			require.GreaterOrEqual(t, est, int64(0))
			sum += est
		}
		require.LessOrEqual(t, sum, Pool(totals))
	}
}

func TestAvailableBalanceIsSigned(t *testing.T) {
	totals := Totals{Contributions: 10_000, UrgentRequested: 8_000, AllocatedNonUrgent: 5_000}
	require.Equal(t, int64(-3_000), AvailableBalance(totals))
}

func TestAvailableBalanceEmptyMeeting(t *testing.T) {
	require.Equal(t, int64(0), AvailableBalance(Totals{}))
}

func TestParseClassification(t *testing.T) {
	for _, code := range []string{"S", "M"} {
		class, err := ParseClassification(code)
		require.NoError(t, err)
		require.Equal(t, Classification(code), class)
	}
	_, err := ParseClassification("X")
	require.Error(t, err)
}
