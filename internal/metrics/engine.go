package metrics

import (
	"fmt"
	"sort"

	gstat "gonum.org/v1/gonum/stat"

	"github.com/jpequegn/satbench/internal/catalog"
)

// Engine computes metrics from an experiment's recorded runs. It holds no
// state of its own beyond a read handle on the catalogue store.
type Engine struct {
	store catalog.Store
}

// NewEngine creates a metric engine reading from store.
func NewEngine(store catalog.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) runsAndInstances(experimentID int64) ([]*catalog.Run, map[int64]*catalog.Instance, error) {
	runs, err := e.store.ListRuns(catalog.RunFilter{ExperimentID: experimentID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list runs for experiment %d: %w", experimentID, err)
	}
	instances := make(map[int64]*catalog.Instance)
	for _, r := range runs {
		if _, ok := instances[r.InstanceID]; ok {
			continue
		}
		inst, err := e.store.GetInstance(r.InstanceID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load instance %d: %w", r.InstanceID, err)
		}
		instances[r.InstanceID] = inst
	}
	return runs, instances, nil
}

// SolverSummaries computes one SolverSummary per solver that has at least
// one recorded run in experimentID, sorted by solver id.
func (e *Engine) SolverSummaries(experimentID int64, timeoutSeconds float64) ([]*SolverSummary, error) {
	runs, _, err := e.runsAndInstances(experimentID)
	if err != nil {
		return nil, err
	}

	bySolver := make(map[int64]*SolverSummary)
	solvedWall := make(map[int64][]float64)
	for _, r := range runs {
		s, ok := bySolver[r.SolverID]
		if !ok {
			sol, err := e.store.GetSolver(r.SolverID)
			key := ""
			if err == nil && sol != nil {
				key = sol.Key
			}
			s = &SolverSummary{SolverID: r.SolverID, SolverKey: key}
			bySolver[r.SolverID] = s
		}
		s.Total++
		switch r.Outcome {
		case catalog.OutcomeSAT:
			s.CountSAT++
		case catalog.OutcomeUNSAT:
			s.CountUNSAT++
		case catalog.OutcomeTimeout:
			s.CountTimeout++
		case catalog.OutcomeError:
			s.CountError++
		}
		if r.Outcome.Solved() {
			s.Solved++
			solvedWall[r.SolverID] = append(solvedWall[r.SolverID], r.WallSeconds)
		}
		s.PAR2 += r.PAR2(timeoutSeconds)
		s.PAR10 += r.PAR10(timeoutSeconds)
	}

	out := make([]*SolverSummary, 0, len(bySolver))
	for id, s := range bySolver {
		if s.Total > 0 {
			s.PAR2 /= float64(s.Total)
			s.PAR10 /= float64(s.Total)
		}
		s.SolvedTime = timeStats(solvedWall[id])
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolverID < out[j].SolverID })
	return out, nil
}

// timeStats computes basic descriptive statistics over a set of wall-clock
// times, per §4.6's "basic time statistics over solved runs". Returns the
// zero value for an empty input.
func timeStats(times []float64) TimeStats {
	if len(times) == 0 {
		return TimeStats{}
	}
	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)

	var sum float64
	for _, t := range sorted {
		sum += t
	}
	var stdDev float64
	if len(sorted) > 1 {
		stdDev = gstat.StdDev(sorted, nil)
	}
	return TimeStats{
		Mean:   gstat.Mean(sorted, nil),
		Median: gstat.Quantile(0.5, gstat.Empirical, sorted, nil),
		StdDev: stdDev,
		Q1:     gstat.Quantile(0.25, gstat.Empirical, sorted, nil),
		Q3:     gstat.Quantile(0.75, gstat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Sum:    sum,
	}
}

// Ranking returns SolverSummaries sorted lexicographically by (solved count
// descending, PAR2 ascending): a solver that solves more instances always
// outranks one that solves fewer, regardless of PAR2; PAR2 only breaks ties
// among solvers with equal solved counts. Solver id ascending is the final
// tiebreak.
func (e *Engine) Ranking(experimentID int64, timeoutSeconds float64) ([]*SolverSummary, error) {
	summaries, err := e.SolverSummaries(experimentID, timeoutSeconds)
	if err != nil {
		return nil, err
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Solved != summaries[j].Solved {
			return summaries[i].Solved > summaries[j].Solved
		}
		if summaries[i].PAR2 != summaries[j].PAR2 {
			return summaries[i].PAR2 < summaries[j].PAR2
		}
		return summaries[i].SolverID < summaries[j].SolverID
	})
	return summaries, nil
}

// VBS computes the virtual-best-solver baseline: for each instance, the best
// observed outcome across every solver that attempted it (solved beats
// unsolved; among solved runs, the fastest wins), combined into one PAR2
// figure exactly as a single solver's would be.
func (e *Engine) VBS(experimentID int64, timeoutSeconds float64) (*VBSResult, error) {
	runs, _, err := e.runsAndInstances(experimentID)
	if err != nil {
		return nil, err
	}

	best := make(map[int64]*catalog.Run)
	for _, r := range runs {
		cur, ok := best[r.InstanceID]
		if !ok {
			best[r.InstanceID] = r
			continue
		}
		if betterRun(r, cur, timeoutSeconds) {
			best[r.InstanceID] = r
		}
	}

	result := &VBSResult{}
	for _, r := range best {
		result.Total++
		if r.Outcome.Solved() {
			result.Solved++
		}
		result.PAR2 += r.PAR2(timeoutSeconds)
	}
	if result.Total > 0 {
		result.PAR2 /= float64(result.Total)
	}
	return result, nil
}

// betterRun reports whether candidate beats incumbent for the VBS's
// per-instance selection: solved beats unsolved, and among solved runs the
// lower PAR2 (equivalently, lower wall time) wins.
func betterRun(candidate, incumbent *catalog.Run, timeoutSeconds float64) bool {
	cs, is := candidate.Outcome.Solved(), incumbent.Outcome.Solved()
	if cs != is {
		return cs
	}
	return candidate.PAR2(timeoutSeconds) < incumbent.PAR2(timeoutSeconds)
}

// SolveMatrix computes the experiment-wide solve matrix (§4.6): per solver,
// the count of instances it uniquely solved among every solver in the
// experiment, plus the instances every solver solved in common and the
// instances no solver solved.
func (e *Engine) SolveMatrix(experimentID int64) (*SolveMatrix, error) {
	runs, _, err := e.runsAndInstances(experimentID)
	if err != nil {
		return nil, err
	}

	keys := make(map[int64]string)
	attempted := make(map[int64]map[int64]bool) // instance -> solver -> attempted
	solvedBy := make(map[int64]map[int64]bool)   // instance -> solver -> solved
	for _, r := range runs {
		if _, ok := keys[r.SolverID]; !ok {
			key := ""
			if sol, err := e.store.GetSolver(r.SolverID); err == nil && sol != nil {
				key = sol.Key
			}
			keys[r.SolverID] = key
		}
		if attempted[r.InstanceID] == nil {
			attempted[r.InstanceID] = make(map[int64]bool)
		}
		attempted[r.InstanceID][r.SolverID] = true
		if r.Outcome.Solved() {
			if solvedBy[r.InstanceID] == nil {
				solvedBy[r.InstanceID] = make(map[int64]bool)
			}
			solvedBy[r.InstanceID][r.SolverID] = true
		}
	}
	numSolvers := len(keys)

	unique := make(map[int64]int)
	var commonlySolved, solvedByNone int
	for instanceID, attemptedSet := range attempted {
		solvedSet := solvedBy[instanceID]
		switch {
		case len(solvedSet) == 1:
			for solverID := range solvedSet {
				unique[solverID]++
			}
		case len(solvedSet) == 0:
			solvedByNone++
		}
		if numSolvers > 0 && len(attemptedSet) == numSolvers && len(solvedSet) == numSolvers {
			commonlySolved++
		}
	}

	matrix := &SolveMatrix{
		CommonlySolved: commonlySolved,
		SolvedByNone:   solvedByNone,
		TotalInstances: len(attempted),
	}
	for solverID, key := range keys {
		matrix.Solvers = append(matrix.Solvers, SolveMatrixEntry{
			SolverID:       solverID,
			SolverKey:      key,
			UniquelySolved: unique[solverID],
		})
	}
	sort.Slice(matrix.Solvers, func(i, j int) bool { return matrix.Solvers[i].SolverID < matrix.Solvers[j].SolverID })
	return matrix, nil
}

// FamilyBreakdown returns one entry per (solver, family) pair observed in
// the experiment's runs, each carrying that family's best solver by PAR-2.
func (e *Engine) FamilyBreakdown(experimentID int64, timeoutSeconds float64) ([]*FamilyBreakdown, error) {
	runs, instances, err := e.runsAndInstances(experimentID)
	if err != nil {
		return nil, err
	}

	type key struct {
		solverID int64
		family   string
	}
	byKey := make(map[key]*FamilyBreakdown)
	for _, r := range runs {
		inst := instances[r.InstanceID]
		family := "unknown"
		if inst != nil && inst.Family != "" {
			family = inst.Family
		}
		k := key{solverID: r.SolverID, family: family}
		fb, ok := byKey[k]
		if !ok {
			solverKey := ""
			if sol, err := e.store.GetSolver(r.SolverID); err == nil && sol != nil {
				solverKey = sol.Key
			}
			fb = &FamilyBreakdown{Family: family, SolverID: r.SolverID, SolverKey: solverKey}
			byKey[k] = fb
		}
		fb.Total++
		if r.Outcome.Solved() {
			fb.Solved++
		}
		fb.PAR2 += r.PAR2(timeoutSeconds)
	}

	out := make([]*FamilyBreakdown, 0, len(byKey))
	for _, fb := range byKey {
		if fb.Total > 0 {
			fb.PAR2 /= float64(fb.Total)
		}
		out = append(out, fb)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].SolverID < out[j].SolverID
	})

	best := make(map[string]string) // family -> best solver key by PAR2
	bestPAR2 := make(map[string]float64)
	for _, fb := range out {
		if cur, ok := bestPAR2[fb.Family]; !ok || fb.PAR2 < cur {
			bestPAR2[fb.Family] = fb.PAR2
			best[fb.Family] = fb.SolverKey
		}
	}
	for _, fb := range out {
		fb.BestSolverKey = best[fb.Family]
	}
	return out, nil
}
