package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NemenyiPostHoc runs all pairwise comparisons of mean ranks following a
// significant Friedman test. gonum has no studentized-range distribution,
// so the pairwise p-value uses the standard normal approximation to the
// studentized range's tail (dividing the statistic by sqrt(2) before
// consulting the normal CDF) rather than a table lookup — adequate once k
// and N are large enough for the Friedman approximation itself to hold.
// Returned pairs carry raw PValue only; call ApplyCorrection to fill in
// AdjustedP and Significant.
func NemenyiPostHoc(fr FriedmanResult) []PostHocPair {
	k, n := fr.K, fr.N
	if k < 2 || n < 1 {
		return nil
	}
	se := math.Sqrt(float64(k*(k+1)) / (6 * float64(n)))
	if se <= 0 {
		return nil
	}

	pairs := make([]PostHocPair, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			z := (fr.MeanRanks[i] - fr.MeanRanks[j]) / se
			p := 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)/math.Sqrt2))
			if p > 1 {
				p = 1
			}
			pairs = append(pairs, PostHocPair{I: i, J: j, PValue: p})
		}
	}
	return pairs
}

// ConoverPostHoc runs the Conover-Iman pairwise follow-up, which uses a
// t-distributed statistic pooling the Friedman statistic into its variance
// estimate; it is less conservative than Nemenyi and is the
// recommended default post-hoc test once the omnibus test rejects.
func ConoverPostHoc(fr FriedmanResult) []PostHocPair {
	k, n := fr.K, fr.N
	if k < 2 || n < 1 {
		return nil
	}
	df := (n - 1) * (k - 1)
	if df < 1 {
		return nil
	}

	denom := float64(n*(k-1)) - fr.Statistic
	if denom <= 0 {
		// The omnibus statistic already accounts for ~all rank variance;
		// fall back to Nemenyi's SE rather than divide by a non-positive
		// quantity.
		return NemenyiPostHoc(fr)
	}
	se := math.Sqrt(float64(k*(k+1)) / (6 * float64(n)) * denom / float64((n-1)*(k-1)))
	if se <= 0 || math.IsNaN(se) {
		return NemenyiPostHoc(fr)
	}

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	pairs := make([]PostHocPair, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			stat := (fr.MeanRanks[i] - fr.MeanRanks[j]) / se
			p := 2 * (1 - t.CDF(math.Abs(stat)))
			if p > 1 {
				p = 1
			}
			pairs = append(pairs, PostHocPair{I: i, J: j, PValue: p})
		}
	}
	return pairs
}
