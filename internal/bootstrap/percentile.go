package bootstrap

import (
	"sort"

	gstat "gonum.org/v1/gonum/stat"
)

// Percentile computes the bootstrap percentile interval for stat(x) at
// cfg.Level, returning the zero-value Interval when there's nothing to
// resample (n < 2 or B < 1).
func Percentile(x []float64, stat func([]float64) float64, cfg Config) Interval {
	n := len(x)
	if n < 2 || cfg.B < 1 {
		return Interval{}
	}

	point := stat(x)
	reps := bootstrapReplicates(x, stat, cfg)
	sorted := append([]float64(nil), reps...)
	sort.Float64s(sorted)

	alpha := 1 - cfg.Level
	lo := gstat.Quantile(alpha/2, gstat.Empirical, sorted, nil)
	hi := gstat.Quantile(1-alpha/2, gstat.Empirical, sorted, nil)

	return Interval{
		PointEstimate: point,
		CILow:         lo,
		CIHigh:        hi,
		Level:         cfg.Level,
		B:             cfg.B,
		StdError:      gstat.StdDev(reps, nil),
		Bias:          gstat.Mean(reps, nil) - point,
		Method:        "percentile",
	}
}

// clampProportion keeps a bootstrap proportion away from the 0/1 boundary
// by epsilon, since Φ⁻¹(0) and Φ⁻¹(1) are infinite.
func clampProportion(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}
