package stats

import (
	"math"

	gstat "gonum.org/v1/gonum/stat"
)

// Cohen computes Cohen's d between two independent samples, using the
// pooled standard deviation.
func Cohen(a, b []float64) EffectSize {
	n1, n2 := len(a), len(b)
	if n1 < 2 || n2 < 2 {
		return EffectSize{N1: n1, N2: n2}
	}

	meanA, meanB := gstat.Mean(a, nil), gstat.Mean(b, nil)
	sdA, sdB := gstat.StdDev(a, nil), gstat.StdDev(b, nil)

	pooled := math.Sqrt((float64(n1-1)*sdA*sdA + float64(n2-1)*sdB*sdB) / float64(n1+n2-2))
	if pooled == 0 {
		return EffectSize{N1: n1, N2: n2}
	}

	return EffectSize{
		CohensD: (meanA - meanB) / pooled,
		N1:      n1,
		N2:      n2,
	}
}
