package bootstrap

import "testing"

func TestPAR2Interval_MatchesHandComputedPointEstimate(t *testing.T) {
	wall := []float64{1, 2, 10, 10}
	solved := []bool{true, true, false, false}
	timeout := 10.0
	// PAR-2 = (1 + 2 + 2*10 + 2*10) / 4 = 43/4 = 10.75
	ci := PAR2Interval(wall, solved, timeout, Config{B: 500, Level: 0.95, Seed: 11})
	if ci.PointEstimate != 10.75 {
		t.Errorf("expected point estimate 10.75, got %v", ci.PointEstimate)
	}
	if ci.CILow > ci.PointEstimate || ci.CIHigh < ci.PointEstimate {
		t.Errorf("expected the interval to bracket the point estimate, got %+v", ci)
	}
}

func TestPAR2Interval_AllSolvedEqualsMeanWallTime(t *testing.T) {
	wall := []float64{2, 4, 6, 8}
	solved := []bool{true, true, true, true}
	ci := PAR2Interval(wall, solved, 100, Config{B: 100, Level: 0.9, Seed: 1})
	if ci.PointEstimate != 5 {
		t.Errorf("expected point estimate 5 (mean wall time) when every run solves, got %v", ci.PointEstimate)
	}
}

func TestPAR2Interval_MismatchedLengthsYieldZeroValue(t *testing.T) {
	ci := PAR2Interval([]float64{1, 2}, []bool{true}, 10, DefaultConfig(1))
	if ci != (Interval{}) {
		t.Errorf("expected zero-value interval for mismatched lengths, got %+v", ci)
	}
}
