package funds

// Pool is what remains for non-urgent cases once urgent cases are paid
// in full: total contributions minus the urgent requested total.
func Pool(t Totals) int64 {
	return t.Contributions - t.UrgentRequested
}

// Demand is the requested total left after removing urgent cases' own
// requests. Never negative: urgent requests are a subset of requests.
func Demand(t Totals) int64 {
	return t.Requested - t.UrgentRequested
}

// AvailableBalance is the signed remaining balance of the fund:
// contributions minus urgent payouts minus what has already been
// allocated to non-urgent cases. Negative values signal
// overcommitment and are surfaced as-is, never clamped.
func AvailableBalance(t Totals) int64 {
	return t.Contributions - t.UrgentRequested - t.AllocatedNonUrgent
}

// EstimateAllocation computes the estimated grant for a case under
// pro-rata scaling. Urgent cases short-circuit to the full requested
// amount. Non-urgent cases receive requested × pool / demand with
// integer division rounding toward zero, so the sum of estimates never
// exceeds the pool. A zero demand (only urgent cases in the fund)
// yields zero without dividing. An overcommitted fund, where urgent
// payouts exceed contributions, leaves a negative pool; estimates stay
// at zero then, the shortfall shows up in the signed balance instead.
func EstimateAllocation(requested int64, urgent bool, t Totals) int64 {
	if urgent {
		return requested
	}
	pool := Pool(t)
	if pool <= 0 {
		return 0
	}
	demand := Demand(t)
	if demand == 0 {
		return 0
	}
	return requested * pool / demand
}
