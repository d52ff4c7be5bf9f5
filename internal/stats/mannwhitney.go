package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// MannWhitney runs the Mann-Whitney U test on two independent samples,
// using the normal approximation (with continuity correction) for the
// p-value, and reports the Vargha-Delaney A effect size alongside it.
func MannWhitney(a, b []float64) RankSumResult {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return RankSumResult{N1: n1, N2: n2}
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, a...)
	combined = append(combined, b...)
	ranks := rank(combined)

	var rankSumA float64
	for i := 0; i < n1; i++ {
		rankSumA += ranks[i]
	}

	u1 := rankSumA - float64(n1*(n1+1))/2
	u2 := float64(n1*n2) - u1
	u := math.Min(u1, u2)

	nTotal := float64(n1 + n2)
	meanU := float64(n1*n2) / 2
	varU := float64(n1*n2) * (nTotal + 1) / 12
	var p float64 = 1
	if varU > 0 {
		z := (u - meanU + 0.5) / math.Sqrt(varU)
		p = 2 * distuv.UnitNormal.CDF(-math.Abs(z))
		if p > 1 {
			p = 1
		}
	}

	// Vargha-Delaney A: the probability a random draw from a exceeds a
	// random draw from b, plus half the probability of a tie.
	vda := u1 / float64(n1*n2)

	return RankSumResult{
		UStatistic: u,
		PValue:     p,
		VDA:        vda,
		N1:         n1,
		N2:         n2,
	}
}
