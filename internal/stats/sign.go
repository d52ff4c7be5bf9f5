package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// SignTest runs the binomial sign test on paired samples: among pairs where
// a differs from b, are positive and negative differences equally likely?
// Ties (a[i] == b[i]) are dropped before counting.
func SignTest(a, b []float64) PairedTestResult {
	if len(a) != len(b) || len(a) == 0 {
		return PairedTestResult{}
	}

	var positive, total int
	for i := range a {
		switch {
		case a[i] > b[i]:
			positive++
			total++
		case a[i] < b[i]:
			total++
		}
	}
	if total == 0 {
		return PairedTestResult{N: 0}
	}

	binom := distuv.Binomial{N: float64(total), P: 0.5}
	// Two-sided p-value: twice the smaller tail, capped at 1.
	lower := binom.CDF(float64(positive))
	upper := 1 - binom.CDF(float64(positive)-1)
	p := 2 * math.Min(lower, upper)
	if p > 1 {
		p = 1
	}

	return PairedTestResult{
		Statistic: float64(positive),
		PValue:    p,
		N:         total,
		Valid:     true,
	}
}
