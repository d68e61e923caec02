package core

import "sort"

// BudgetSample is one (budget, weight) pair fed to WeightedMedian. weight is
// the voter's cumulative contribution toward the task, never a flat 1 —
// that coupling to real capital is the entire anti-Sybil premise of the
// platform (spec.md §4.1).
type BudgetSample struct {
	Budget uint64
	Weight uint64
}

// WeightedMedian returns the lower-median budget over samples: sort
// ascending by Budget, walk accumulating weight, and return the Budget of
// the first sample at which cumulative weight reaches half of the total
// (floor division). Empty input returns 0.
//
// An attacker who fabricates arbitrary identities but cannot fabricate
// capital cannot move this value past the point their real weight allows,
// because weight is backed 1:1 by contribution recorded in the Escrow
// Ledger — moving the median costs exactly as much as acquiring the stake
// it takes to cross the halfway mark, never less.
func WeightedMedian(samples []BudgetSample) uint64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := make([]BudgetSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Budget < sorted[j].Budget
	})

	var total uint64
	for _, s := range sorted {
		total += s.Weight
	}
	half := total >> 1

	var cumulative uint64
	for _, s := range sorted {
		cumulative += s.Weight
		if cumulative >= half {
			return s.Budget
		}
	}

	// Unreachable when len(samples) > 0: the final sample's cumulative
	// weight always equals total >= half.
	return sorted[len(sorted)-1].Budget
}
