package bootstrap

import "math/rand"

// resampleIndices draws n indices in [0,n) with replacement using rng,
// the shared primitive every statistic-specific resampler in this package
// builds its bootstrap replicate from.
func resampleIndices(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// bootstrapReplicates draws cfg.B resamples of x (with replacement) and
// evaluates stat on each, returning the B replicate values. The RNG is
// seeded from cfg.Seed and not returned; a caller needing the same draws
// again constructs its own rand.Rand from cfg.Seed.
func bootstrapReplicates(x []float64, stat func([]float64) float64, cfg Config) []float64 {
	n := len(x)
	rng := rand.New(rand.NewSource(cfg.Seed))
	reps := make([]float64, cfg.B)
	sample := make([]float64, n)
	for b := 0; b < cfg.B; b++ {
		for i, idx := range resampleIndices(rng, n) {
			sample[i] = x[idx]
		}
		reps[b] = stat(sample)
	}
	return reps
}
