package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Wilcoxon runs the Wilcoxon signed-rank test on paired samples a and b
// (same solver's PAR-k across the same instances, say). Zero differences
// are dropped before ranking, per the standard treatment; the p-value uses
// the normal approximation with a continuity correction. Fewer than 6
// non-zero pairs is too small a sample for the approximation to be
// meaningful, so that range returns the sentinel PairedTestResult{N: n}
// (Valid: false) instead of a computed statistic.
func Wilcoxon(a, b []float64) PairedTestResult {
	if len(a) != len(b) || len(a) == 0 {
		return PairedTestResult{}
	}

	diffs := make([]float64, 0, len(a))
	for i := range a {
		d := a[i] - b[i]
		if d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := len(diffs)
	if n < 6 {
		return PairedTestResult{N: n}
	}

	absDiffs := make([]float64, n)
	for i, d := range diffs {
		absDiffs[i] = math.Abs(d)
	}
	ranks := rank(absDiffs)

	var wPlus, wMinus float64
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}
	w := math.Min(wPlus, wMinus)

	meanW := float64(n*(n+1)) / 4
	varW := float64(n*(n+1)*(2*n+1)) / 24
	if varW <= 0 {
		return PairedTestResult{Statistic: w, N: n, Valid: false}
	}

	z := (w - meanW + 0.5) / math.Sqrt(varW)
	p := 2 * distuv.UnitNormal.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}

	return PairedTestResult{Statistic: w, PValue: p, N: n, Valid: true}
}
