package bootstrap

import gstat "gonum.org/v1/gonum/stat"

// PairedDifference computes the BCa interval of the mean difference a[i] -
// b[i] over matched pairs (same instance, two solvers), and reports whether
// zero falls outside the interval — the natural "is this difference
// significant" read a caller wants alongside the interval itself.
func PairedDifference(a, b []float64, cfg Config) (Interval, bool) {
	if len(a) != len(b) || len(a) < 2 {
		return Interval{}, false
	}
	diffs := make([]float64, len(a))
	for i := range a {
		diffs[i] = a[i] - b[i]
	}
	ci := BCa(diffs, func(s []float64) float64 { return gstat.Mean(s, nil) }, cfg)
	significant := ci.CIHigh < 0 || ci.CILow > 0
	return ci, significant
}
