package bootstrap

import "testing"

func TestSolveRateInterval_PointEstimateMatchesObservedRate(t *testing.T) {
	solved := []bool{true, true, true, false, false, true, true, false}
	ci := SolveRateInterval(solved, Config{B: 2000, Level: 0.95, Seed: 4})
	if ci.PointEstimate != 0.625 {
		t.Errorf("expected point estimate 5/8=0.625, got %v", ci.PointEstimate)
	}
	if ci.CILow < 0 || ci.CIHigh > 1 {
		t.Errorf("expected the interval to stay within [0,1], got %+v", ci)
	}
}

func TestSolveRateInterval_AllSolvedYieldsPointOne(t *testing.T) {
	solved := []bool{true, true, true, true}
	ci := SolveRateInterval(solved, Config{B: 500, Level: 0.95, Seed: 2})
	if ci.PointEstimate != 1 {
		t.Errorf("expected point estimate 1 when every run solves, got %v", ci.PointEstimate)
	}
}
