package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Friedman runs the Friedman rank test across k solvers measured over the
// same n instances (samples[solver][instance], a complete block design — one
// measurement per solver per instance, no missing cells). It reports
// Kendall's W alongside the usual chi-squared statistic, since W is what
// tells a reader whether a significant Friedman result reflects a
// meaningful or merely a statistically-detectable ordering.
func Friedman(samples [][]float64) FriedmanResult {
	k := len(samples)
	if k < 2 {
		return FriedmanResult{K: k}
	}
	n := len(samples[0])
	for _, row := range samples {
		if len(row) != n {
			return FriedmanResult{K: k}
		}
	}
	if n == 0 {
		return FriedmanResult{K: k}
	}

	rankSums := make([]float64, k)
	for instance := 0; instance < n; instance++ {
		col := make([]float64, k)
		for solver := 0; solver < k; solver++ {
			col[solver] = samples[solver][instance]
		}
		ranks := rank(col)
		for solver := 0; solver < k; solver++ {
			rankSums[solver] += ranks[solver]
		}
	}

	meanRanks := make([]float64, k)
	for i, s := range rankSums {
		meanRanks[i] = s / float64(n)
	}

	var sumSquares float64
	for _, s := range rankSums {
		sumSquares += s * s
	}
	fn, fk := float64(n), float64(k)
	stat := (12 / (fn * fk * (fk + 1))) * sumSquares
	stat -= 3 * fn * (fk + 1)

	df := k - 1
	chi2 := distuv.ChiSquared{K: float64(df)}
	p := 1 - chi2.CDF(stat)
	if stat < 0 {
		stat = 0
		p = 1
	}

	// Kendall's W rescales the same statistic to [0,1].
	w := stat / (fn * (fk - 1))

	return FriedmanResult{
		Statistic: stat,
		PValue:    p,
		DF:        df,
		KendallsW: w,
		K:         k,
		N:         n,
		MeanRanks: meanRanks,
	}
}
