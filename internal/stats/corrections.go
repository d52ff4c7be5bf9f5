package stats

import "sort"

// ApplyCorrection adjusts a set of pairwise p-values for multiple
// comparisons and marks each pair significant at alpha, returning a new
// slice (the input is left untouched).
func ApplyCorrection(pairs []PostHocPair, method CorrectionMethod, alpha float64) []PostHocPair {
	out := make([]PostHocPair, len(pairs))
	copy(out, pairs)
	m := len(out)
	if m == 0 {
		return out
	}

	switch method {
	case Bonferroni:
		for i := range out {
			adj := out[i].PValue * float64(m)
			out[i].AdjustedP = capAtOne(adj)
		}
	case Holm:
		order := make([]int, m)
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return out[order[a]].PValue < out[order[b]].PValue })
		runningMax := 0.0
		for rank, idx := range order {
			adj := out[idx].PValue * float64(m-rank)
			if adj < runningMax {
				adj = runningMax
			}
			adj = capAtOne(adj)
			runningMax = adj
			out[idx].AdjustedP = adj
		}
	case BenjaminiHochberg:
		order := make([]int, m)
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return out[order[a]].PValue < out[order[b]].PValue })
		runningMin := 1.0
		for rank := m - 1; rank >= 0; rank-- {
			idx := order[rank]
			adj := out[idx].PValue * float64(m) / float64(rank+1)
			if adj > runningMin {
				adj = runningMin
			}
			adj = capAtOne(adj)
			runningMin = adj
			out[idx].AdjustedP = adj
		}
	}

	for i := range out {
		out[i].Significant = out[i].AdjustedP < alpha
	}
	return out
}

func capAtOne(p float64) float64 {
	if p > 1 {
		return 1
	}
	return p
}
