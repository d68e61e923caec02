package core

import "testing"

func TestWeightedMedianEmpty(t *testing.T) {
	if got := WeightedMedian(nil); got != 0 {
		t.Fatalf("empty input: got %d, want 0", got)
	}
}

func TestWeightedMedianSingleSample(t *testing.T) {
	got := WeightedMedian([]BudgetSample{{Budget: 500, Weight: 100}})
	if got != 500 {
		t.Fatalf("got %d, want 500", got)
	}
}

func TestWeightedMedianEqualWeightsLowerConvention(t *testing.T) {
	// W=100, H=50; cumulative reaches 50 exactly at the first sample.
	got := WeightedMedian([]BudgetSample{
		{Budget: 100, Weight: 50},
		{Budget: 200, Weight: 50},
	})
	if got != 100 {
		t.Fatalf("got %d, want 100 (lower-median convention)", got)
	}
}

func TestWeightedMedianSybilDefeated(t *testing.T) {
	// One legitimate vote (200, 100) plus ten Sybil votes (50, 1) each.
	samples := []BudgetSample{{Budget: 200, Weight: 100}}
	for i := 0; i < 10; i++ {
		samples = append(samples, BudgetSample{Budget: 50, Weight: 1})
	}
	got := WeightedMedian(samples)
	if got != 200 {
		t.Fatalf("sybil attack succeeded: got %d, want 200", got)
	}
}

func TestWeightedMedianOutlierResistance(t *testing.T) {
	samples := []BudgetSample{
		{Budget: 100, Weight: 50},
		{Budget: 150, Weight: 50},
		{Budget: 200, Weight: 50},
		{Budget: 10_000, Weight: 1},
	}
	got := WeightedMedian(samples)
	if got < 150 || got > 200 {
		t.Fatalf("got %d, want in [150, 200]", got)
	}
	if got != 150 {
		t.Fatalf("got %d, want exactly 150 under lower-median convention", got)
	}
}

func TestWeightedMedianBoundedInRange(t *testing.T) {
	cases := [][]BudgetSample{
		{{Budget: 7, Weight: 3}, {Budget: 9, Weight: 1}, {Budget: 2, Weight: 5}},
		{{Budget: 1, Weight: 1}},
		{{Budget: 1, Weight: 0}, {Budget: 100, Weight: 0}, {Budget: 50, Weight: 1}},
	}
	for _, samples := range cases {
		min, max := samples[0].Budget, samples[0].Budget
		for _, s := range samples {
			if s.Budget < min {
				min = s.Budget
			}
			if s.Budget > max {
				max = s.Budget
			}
		}
		got := WeightedMedian(samples)
		if got < min || got > max {
			t.Fatalf("median %d out of bounds [%d, %d] for %v", got, min, max, samples)
		}
	}
}

func TestWeightedMedianSybilResistanceUnanimousLegitimate(t *testing.T) {
	// If all legitimate voters unanimously propose b*, and an adversary
	// controls weight no greater than the legitimate total, the median
	// must still equal b*.
	const bStar = 777
	samples := []BudgetSample{
		{Budget: bStar, Weight: 40},
		{Budget: bStar, Weight: 40},
		{Budget: bStar, Weight: 20},
	}
	for i := 0; i < 5; i++ {
		samples = append(samples, BudgetSample{Budget: uint64(1 + i*10), Weight: 5})
	}
	got := WeightedMedian(samples)
	if got != bStar {
		t.Fatalf("got %d, want %d", got, bStar)
	}
}

func TestWeightedMedianDuplicateBudgetsCollapse(t *testing.T) {
	// Ties within a budget key collapse naturally: their weights aggregate
	// before the threshold is crossed.
	got := WeightedMedian([]BudgetSample{
		{Budget: 10, Weight: 1},
		{Budget: 10, Weight: 1},
		{Budget: 10, Weight: 1},
		{Budget: 20, Weight: 1},
	})
	if got != 10 {
		t.Fatalf("got %d, want 10", got)
	}
}

func TestWeightedMedianStableSortOnDuplicateBudgets(t *testing.T) {
	// Equal-budget samples in arbitrary input order must not change the
	// result: the sort is only ever keyed on Budget.
	a := []BudgetSample{{Budget: 5, Weight: 3}, {Budget: 5, Weight: 7}, {Budget: 9, Weight: 1}}
	b := []BudgetSample{{Budget: 5, Weight: 7}, {Budget: 5, Weight: 3}, {Budget: 9, Weight: 1}}
	if WeightedMedian(a) != WeightedMedian(b) {
		t.Fatalf("order of equal-budget samples changed the result")
	}
}
