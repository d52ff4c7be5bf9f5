package bootstrap

import gstat "gonum.org/v1/gonum/stat"

// SolveRateInterval computes the percentile bootstrap interval of the solve
// rate over a 0/1 array of per-run outcomes (solved/not solved).
func SolveRateInterval(solved []bool, cfg Config) Interval {
	x := make([]float64, len(solved))
	for i, s := range solved {
		if s {
			x[i] = 1
		}
	}
	return Percentile(x, func(s []float64) float64 { return gstat.Mean(s, nil) }, cfg)
}
