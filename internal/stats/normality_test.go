package stats

import "testing"

func TestNormality_SymmetricSampleIsLikelyNormal(t *testing.T) {
	x := []float64{-3, -2, -1, 0, 0, 0, 1, 2, 3}

	res := Normality(x)
	if !res.LikelyNormal {
		t.Errorf("expected a symmetric, mesokurtic sample to be flagged likely normal, got %+v", res)
	}
}

func TestNormality_SkewedSampleIsNotLikelyNormal(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1, 1, 1, 2, 10, 50}

	res := Normality(x)
	if res.LikelyNormal {
		t.Errorf("expected a heavily skewed sample to not be flagged likely normal, got %+v", res)
	}
	if res.Skewness <= 0 {
		t.Errorf("expected positive skewness for a right-tailed sample, got %v", res.Skewness)
	}
}

func TestNormality_TooFewSamplesYieldsZeroValue(t *testing.T) {
	res := Normality([]float64{1, 2})
	if res.N != 2 {
		t.Errorf("expected N recorded even on degenerate input, got %d", res.N)
	}
	if res.Skewness != 0 || res.ExcessKurtosis != 0 {
		t.Errorf("expected zero-value moments for n<3, got %+v", res)
	}
}
