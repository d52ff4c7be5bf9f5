package stats

import "sort"

// rank assigns fractional (mid-rank) ranks to x, the standard tie-handling
// rule every rank-based test in this package depends on: tied values share
// the average of the ranks they would otherwise occupy.
func rank(x []float64) []float64 {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i
		for j+1 < n && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
