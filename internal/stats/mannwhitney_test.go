package stats

import "testing"

func TestMannWhitney_DetectsSeparation(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 11, 12, 13, 14}

	res := MannWhitney(a, b)
	if res.PValue > 0.05 {
		t.Errorf("expected a significant result for fully separated samples, got p=%v", res.PValue)
	}
	if res.VDA > 0.1 {
		t.Errorf("expected VDA near 0 when a is uniformly smaller than b, got %v", res.VDA)
	}
}

func TestMannWhitney_IdenticalSamplesYieldVDAHalf(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{1, 2, 3, 4, 5}

	res := MannWhitney(a, b)
	if res.VDA < 0.45 || res.VDA > 0.55 {
		t.Errorf("expected VDA near 0.5 for identical distributions, got %v", res.VDA)
	}
	if res.PValue < 0.9 {
		t.Errorf("expected a non-significant result for identical distributions, got p=%v", res.PValue)
	}
}

func TestMannWhitney_EmptySampleYieldsZeroValue(t *testing.T) {
	res := MannWhitney(nil, []float64{1, 2})
	if res.N1 != 0 || res.N2 != 2 {
		t.Errorf("expected N1=0, N2=2 recorded even on empty input, got %+v", res)
	}
	if res.PValue != 0 {
		t.Errorf("expected zero-value PValue for degenerate input, got %v", res.PValue)
	}
}
