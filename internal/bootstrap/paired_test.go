package bootstrap

import "testing"

func TestPairedDifference_SignificantWhenOneSolverConsistentlyFaster(t *testing.T) {
	a := []float64{5, 6, 5, 7, 6, 5, 6, 7, 5, 6}
	b := []float64{10, 11, 10, 12, 11, 10, 11, 12, 10, 11}
	cfg := Config{B: 2000, Level: 0.95, Seed: 21}

	ci, significant := PairedDifference(a, b, cfg)
	if !significant {
		t.Errorf("expected a significant difference when a is consistently faster, got %+v", ci)
	}
	if ci.CIHigh >= 0 {
		t.Errorf("expected the interval to lie entirely below zero, got %+v", ci)
	}
}

func TestPairedDifference_NotSignificantForIdenticalSamples(t *testing.T) {
	a := []float64{5, 6, 7, 8, 9, 10}
	b := []float64{5, 6, 7, 8, 9, 10}
	cfg := Config{B: 1000, Level: 0.95, Seed: 5}

	_, significant := PairedDifference(a, b, cfg)
	if significant {
		t.Errorf("expected no significant difference for identical samples")
	}
}

func TestPairedDifference_MismatchedLengthsYieldZeroValue(t *testing.T) {
	ci, significant := PairedDifference([]float64{1, 2}, []float64{1}, DefaultConfig(1))
	if ci != (Interval{}) || significant {
		t.Errorf("expected zero-value, non-significant result for mismatched lengths")
	}
}
