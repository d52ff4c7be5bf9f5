package bootstrap

import (
	"math/rand"
	"sort"

	gstat "gonum.org/v1/gonum/stat"
)

// par2Stat computes PAR-2 over one (wall, solved) sample: a solved run
// contributes its own wall time, an unsolved run contributes 2x the
// timeout.
func par2Stat(wall []float64, solved []bool, timeoutSeconds float64) float64 {
	var sum float64
	for i, s := range solved {
		if s {
			sum += wall[i]
		} else {
			sum += 2 * timeoutSeconds
		}
	}
	return sum / float64(len(wall))
}

// PAR2Interval computes the percentile bootstrap interval of PAR-2 by
// resampling (wall, outcome) pairs jointly — each replicate draws the same
// indices for both arrays, so a replicate never pairs one run's wall time
// with another run's outcome.
func PAR2Interval(wall []float64, solved []bool, timeoutSeconds float64, cfg Config) Interval {
	n := len(wall)
	if n != len(solved) || n < 2 || cfg.B < 1 {
		return Interval{}
	}

	point := par2Stat(wall, solved, timeoutSeconds)

	rng := rand.New(rand.NewSource(cfg.Seed))
	reps := make([]float64, cfg.B)
	sampleWall := make([]float64, n)
	sampleSolved := make([]bool, n)
	for b := 0; b < cfg.B; b++ {
		for i, idx := range resampleIndices(rng, n) {
			sampleWall[i] = wall[idx]
			sampleSolved[i] = solved[idx]
		}
		reps[b] = par2Stat(sampleWall, sampleSolved, timeoutSeconds)
	}

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
