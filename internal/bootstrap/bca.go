package bootstrap

import (
	"math"
	"sort"

	gstat "gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// BCa computes the bias-corrected and accelerated bootstrap interval for
// stat(x) at cfg.Level. It falls back to the plain percentile interval
// whenever the bias-correction or acceleration terms are numerically
// degenerate (every bootstrap replicate equal to the observed statistic, a
// leave-one-out jackknife with zero variance, or an adjusted quantile
// outside [0,1]) rather than report a nonsensical interval.
func BCa(x []float64, stat func([]float64) float64, cfg Config) Interval {
	n := len(x)
	if n < 2 || cfg.B < 1 {
		return Interval{}
	}

	point := stat(x)
	reps := bootstrapReplicates(x, stat, cfg)

	var below, equal int
	for _, r := range reps {
		if r < point {
			below++
		} else if r == point {
			equal++
		}
	}
	if equal == len(reps) {
		return Percentile(x, stat, cfg)
	}
	p0 := clampProportion(float64(below) / float64(len(reps)))
	z0 := distuv.UnitNormal.Quantile(p0)

	jack := make([]float64, n)
	sample := make([]float64, n-1)
	for i := 0; i < n; i++ {
		copy(sample, x[:i])
		copy(sample[i:], x[i+1:])
		jack[i] = stat(sample)
	}
	jackMean := gstat.Mean(jack, nil)

	var num, denom float64
	for _, ji := range jack {
		d := jackMean - ji
		num += d * d * d
		denom += d * d
	}
	denom = math.Pow(denom, 1.5)
	if denom == 0 {
		return Percentile(x, stat, cfg)
	}
	a := num / (6 * denom)

	alpha := 1 - cfg.Level
	zLo := distuv.UnitNormal.Quantile(alpha / 2)
	zHi := distuv.UnitNormal.Quantile(1 - alpha/2)

	qLo, okLo := adjustedQuantile(z0, a, zLo)
	qHi, okHi := adjustedQuantile(z0, a, zHi)
	if !okLo || !okHi {
		return Percentile(x, stat, cfg)
	}

	sorted := append([]float64(nil), reps...)
	sort.Float64s(sorted)
	lo := gstat.Quantile(qLo, gstat.Empirical, sorted, nil)
	hi := gstat.Quantile(qHi, gstat.Empirical, sorted, nil)

	return Interval{
		PointEstimate: point,
		CILow:         lo,
		CIHigh:        hi,
		Level:         cfg.Level,
		B:             cfg.B,
		StdError:      gstat.StdDev(reps, nil),
		Bias:          gstat.Mean(reps, nil) - point,
		Method:        "bca",
	}
}

// adjustedQuantile computes Φ(z0 + (z0+z)/(1-a(z0+z))), reporting failure
// when the denominator vanishes or the result falls outside (0,1).
func adjustedQuantile(z0, a, z float64) (float64, bool) {
	num := z0 + z
	denom := 1 - a*num
	if denom == 0 {
		return 0, false
	}
	q := distuv.UnitNormal.CDF(z0 + num/denom)
	if q <= 0 || q >= 1 || math.IsNaN(q) {
		return 0, false
	}
	return q, true
}
