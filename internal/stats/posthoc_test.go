package stats

import "testing"

func consistentFriedman(t *testing.T) FriedmanResult {
	t.Helper()
	samples := [][]float64{
		{1, 2, 1, 3, 2, 1, 2, 1, 2, 1},
		{4, 5, 4, 6, 5, 4, 5, 4, 5, 4},
		{7, 8, 7, 9, 8, 7, 8, 7, 8, 7},
	}
	return Friedman(samples)
}

func TestNemenyiPostHoc_ProducesOnePairPerCombination(t *testing.T) {
	fr := consistentFriedman(t)
	pairs := NemenyiPostHoc(fr)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairwise comparisons for k=3, got %d", len(pairs))
	}
	for _, p := range pairs {
		if p.PValue < 0 || p.PValue > 1 {
			t.Errorf("p-value out of range: %+v", p)
		}
	}
}

func TestNemenyiPostHoc_SeparatesExtremesMoreThanAdjacent(t *testing.T) {
	fr := consistentFriedman(t)
	pairs := NemenyiPostHoc(fr)

	var adjacent, extreme PostHocPair
	for _, p := range pairs {
		if p.I == 0 && p.J == 1 {
			adjacent = p
		}
		if p.I == 0 && p.J == 2 {
			extreme = p
		}
	}
	if extreme.PValue > adjacent.PValue {
		t.Errorf("expected the 0-2 comparison to be at least as significant as 0-1, got extreme=%v adjacent=%v", extreme.PValue, adjacent.PValue)
	}
}

func TestConoverPostHoc_ProducesOnePairPerCombination(t *testing.T) {
	fr := consistentFriedman(t)
	pairs := ConoverPostHoc(fr)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairwise comparisons for k=3, got %d", len(pairs))
	}
}

func TestNemenyiPostHoc_TooFewSolversYieldsNil(t *testing.T) {
	pairs := NemenyiPostHoc(FriedmanResult{K: 1, N: 5})
	if pairs != nil {
		t.Errorf("expected nil for k<2, got %v", pairs)
	}
}
