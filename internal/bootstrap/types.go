// Package bootstrap implements component C8: percentile and BCa confidence
// intervals for arbitrary statistics over resampled run data, plus the
// paired-difference, PAR-2, and solve-rate specializations built on top of
// them. Every entry point is a pure function of its input samples and a
// fixed seed — two calls with the same arguments resample identically,
// matching the reproducibility requirement a benchmarking report depends on.
package bootstrap

// Config controls a bootstrap run: replication count, confidence level, and
// the RNG seed that makes the resample deterministic.
type Config struct {
	B     int     // replication count, default 10000
	Level float64 // confidence level, e.g. 0.95
	Seed  int64
}

// DefaultConfig returns the spec's defaults: 10000 replications at the 95%
// level, seeded from the caller-supplied value.
func DefaultConfig(seed int64) Config {
	return Config{B: 10000, Level: 0.95, Seed: seed}
}

// Interval is a confidence interval over a point estimate, reported with
// enough detail (method, replication count, standard error, bias) for a
// report to explain how it was produced.
type Interval struct {
	PointEstimate float64
	CILow         float64
	CIHigh        float64
	Level         float64
	B             int
	StdError      float64
	Bias          float64
	Method        string // "percentile" or "bca"
}
