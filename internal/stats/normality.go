package stats

import (
	gstat "gonum.org/v1/gonum/stat"
)

// Normality reports a sample's skewness and excess kurtosis, flagging it
// "likely normal" when both fall within the common rule-of-thumb band
// (|skewness| < 1, |excess kurtosis| < 1) — a quick diagnostic for whether
// a paired test's normal approximation is trustworthy, not a substitute
// for a dedicated test like Shapiro-Wilk.
func Normality(x []float64) NormalityReport {
	n := len(x)
	if n < 3 {
		return NormalityReport{N: n}
	}

	skew := gstat.Skew(x, nil)
	kurt := gstat.ExKurtosis(x, nil)

	likelyNormal := abs(skew) < 1 && abs(kurt) < 1

	return NormalityReport{
		N:              n,
		Skewness:       skew,
		ExcessKurtosis: kurt,
		LikelyNormal:   likelyNormal,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
