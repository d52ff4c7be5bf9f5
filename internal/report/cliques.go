package report

import (
	"sort"

	"github.com/jpequegn/satbench/internal/errs"
)

var errMismatchedLengths = errs.New(errs.Input, "solverKeys and meanRanks must have the same length")

// CriticalDifferenceDiagram builds a critical-difference diagram's data from
// a Friedman test's mean ranks and a critical difference value: each clique
// is a maximal run of solvers (ordered by mean rank) whose best and worst
// member differ by no more than cd — the standard Demsar grouping rule,
// since "within CD of each other" is not transitive across a long chain of
// close-but-not-identical ranks.
func CriticalDifferenceDiagram(solverKeys []string, meanRanks []float64, cd float64) (*CDDiagram, error) {
	if len(solverKeys) != len(meanRanks) {
		return nil, errMismatchedLengths
	}
	if len(meanRanks) == 0 {
		return &CDDiagram{CD: cd}, nil
	}

	order := make([]int, len(meanRanks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return meanRanks[order[i]] < meanRanks[order[j]] })

	var cliques []CDClique
	lastEnd := -1
	for start := range order {
		end := start
		for end+1 < len(order) && meanRanks[order[end+1]]-meanRanks[order[start]] <= cd {
			end++
		}
		// A run ending no later than the previous clique lies inside it.
		if end > start && end > lastEnd {
			cliques = append(cliques, CDClique{SolverIndices: append([]int(nil), order[start:end+1]...)})
			lastEnd = end
		}
	}

	return &CDDiagram{
		SolverKeys: solverKeys,
		MeanRanks:  meanRanks,
		CD:         cd,
		Cliques:    cliques,
	}, nil
}
