package stats

import "testing"

func TestFriedman_DetectsConsistentOrdering(t *testing.T) {
	// Three solvers, eight instances, solver 0 always fastest and solver 2
	// always slowest.
	samples := [][]float64{
		{1, 2, 1, 3, 2, 1, 2, 1},
		{4, 5, 4, 6, 5, 4, 5, 4},
		{7, 8, 7, 9, 8, 7, 8, 7},
	}

	res := Friedman(samples)
	if res.K != 3 || res.N != 8 {
		t.Fatalf("expected K=3, N=8, got K=%d N=%d", res.K, res.N)
	}
	if res.PValue > 0.05 {
		t.Errorf("expected a significant result for a consistent ordering, got p=%v", res.PValue)
	}
	if res.MeanRanks[0] >= res.MeanRanks[1] || res.MeanRanks[1] >= res.MeanRanks[2] {
		t.Errorf("expected mean ranks to reflect solver 0 fastest, solver 2 slowest, got %v", res.MeanRanks)
	}
	if res.KendallsW < 0.5 {
		t.Errorf("expected a strong agreement (Kendall's W) for a consistent ordering, got %v", res.KendallsW)
	}
}

func TestFriedman_TiedSolversYieldHighPValue(t *testing.T) {
	samples := [][]float64{
		{1, 2, 3, 4},
		{1, 2, 3, 4},
		{1, 2, 3, 4},
	}

	res := Friedman(samples)
	if res.PValue < 0.9 {
		t.Errorf("expected a non-significant result when solvers never differ, got p=%v", res.PValue)
	}
}

func TestFriedman_TooFewSolversYieldsZeroValue(t *testing.T) {
	res := Friedman([][]float64{{1, 2, 3}})
	if res.K != 1 {
		t.Errorf("expected K recorded even on degenerate input, got %d", res.K)
	}
	if res.Statistic != 0 {
		t.Errorf("expected no statistic computed for K=1, got %v", res.Statistic)
	}
}

func TestFriedman_RaggedRowsYieldZeroValue(t *testing.T) {
	res := Friedman([][]float64{{1, 2, 3}, {1, 2}})
	if res.N != 0 {
		t.Errorf("expected no statistic computed for ragged rows, got N=%d", res.N)
	}
}
