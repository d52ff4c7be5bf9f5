package stats

import "testing"

func TestCohen_ZeroForIdenticalSamples(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{1, 2, 3, 4, 5}

	res := Cohen(a, b)
	if res.CohensD != 0 {
		t.Errorf("expected d=0 for identical samples, got %v", res.CohensD)
	}
}

func TestCohen_LargeEffectForSeparatedSamples(t *testing.T) {
	a := []float64{10, 11, 9, 10, 11, 9}
	b := []float64{1, 2, 0, 1, 2, 0}

	res := Cohen(a, b)
	if res.CohensD < 2 {
		t.Errorf("expected a large positive effect size, got %v", res.CohensD)
	}
}

func TestCohen_SignFlipsWithArgumentOrder(t *testing.T) {
	a := []float64{10, 11, 9, 10}
	b := []float64{1, 2, 0, 1}

	ab := Cohen(a, b)
	ba := Cohen(b, a)
	if ab.CohensD != -ba.CohensD {
		t.Errorf("expected d to flip sign when arguments swap, got %v and %v", ab.CohensD, ba.CohensD)
	}
}

func TestCohen_TooFewSamplesYieldsZeroValue(t *testing.T) {
	res := Cohen([]float64{1}, []float64{1, 2})
	if res.CohensD != 0 {
		t.Errorf("expected CohensD=0 for a single-element sample, got %v", res.CohensD)
	}
}
