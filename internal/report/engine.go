package report

import (
	"fmt"
	"sort"

	"github.com/jpequegn/satbench/internal/catalog"
)

// Engine builds presentation-ready data series from an experiment's
// recorded runs. It holds no state beyond a read handle on the catalogue
// store, mirroring internal/metrics.Engine.
type Engine struct {
	store catalog.Store
}

// NewEngine creates a report engine reading from store.
func NewEngine(store catalog.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) runsAndSolverKeys(experimentID int64) ([]*catalog.Run, map[int64]string, error) {
	runs, err := e.store.ListRuns(catalog.RunFilter{ExperimentID: experimentID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list runs for experiment %d: %w", experimentID, err)
	}
	keys := make(map[int64]string)
	for _, r := range runs {
		if _, ok := keys[r.SolverID]; ok {
			continue
		}
		sol, err := e.store.GetSolver(r.SolverID)
		if err == nil && sol != nil {
			keys[r.SolverID] = sol.Key
		}
	}
	return runs, keys, nil
}

func bySolver(runs []*catalog.Run) map[int64][]*catalog.Run {
	out := make(map[int64][]*catalog.Run)
	for _, r := range runs {
		out[r.SolverID] = append(out[r.SolverID], r)
	}
	return out
}

// Cactus returns, per solver, the sorted list of solved wall times.
func (e *Engine) Cactus(experimentID int64) ([]Series, error) {
	runs, keys, err := e.runsAndSolverKeys(experimentID)
	if err != nil {
		return nil, err
	}

	var out []Series
	for solverID, group := range bySolver(runs) {
		var solved []float64
		for _, r := range group {
			if r.Outcome.Solved() {
				solved = append(solved, r.WallSeconds)
			}
		}
		sort.Float64s(solved)
		x := make([]float64, len(solved))
		for i := range solved {
			x[i] = float64(i + 1)
		}
		out = append(out, Series{SolverID: solverID, SolverKey: keys[solverID], X: x, Y: solved})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolverID < out[j].SolverID })
	return out, nil
}

// ECDF returns, per solver, the step function (t, fraction of runs <= t)
// over all runs, with unsolved runs counted at t = timeoutSeconds.
func (e *Engine) ECDF(experimentID int64, timeoutSeconds float64) ([]Series, error) {
	return e.ecdfOrSurvival(experimentID, timeoutSeconds, false)
}

// Survival returns 1 - ECDF per solver.
func (e *Engine) Survival(experimentID int64, timeoutSeconds float64) ([]Series, error) {
	return e.ecdfOrSurvival(experimentID, timeoutSeconds, true)
}

func (e *Engine) ecdfOrSurvival(experimentID int64, timeoutSeconds float64, invert bool) ([]Series, error) {
	runs, keys, err := e.runsAndSolverKeys(experimentID)
	if err != nil {
		return nil, err
	}

	var out []Series
	for solverID, group := range bySolver(runs) {
		times := make([]float64, len(group))
		for i, r := range group {
			if r.Outcome.Solved() {
				times[i] = r.WallSeconds
			} else {
				times[i] = timeoutSeconds
			}
		}
		sort.Float64s(times)

		x := make([]float64, len(times))
		y := make([]float64, len(times))
		n := float64(len(times))
		for i, t := range times {
			x[i] = t
			frac := float64(i+1) / n
			if invert {
				frac = 1 - frac
			}
			y[i] = frac
		}
		out = append(out, Series{SolverID: solverID, SolverKey: keys[solverID], X: x, Y: y})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolverID < out[j].SolverID })
	return out, nil
}

// PerformanceProfile computes the Dolan-Moré performance profile: for each
// solver, rho_s(tau) = P(ratio_s <= tau) where ratio_s(i) is solver s's
// wall time on instance i divided by the fastest solver's time on that
// same instance. Unsolved runs are excluded from the ratio computation
// (they contribute no finite ratio).
func (e *Engine) PerformanceProfile(experimentID int64) ([]Series, error) {
	runs, keys, err := e.runsAndSolverKeys(experimentID)
	if err != nil {
		return nil, err
	}

	bestPerInstance := make(map[int64]float64)
	for _, r := range runs {
		if !r.Outcome.Solved() {
			continue
		}
		if best, ok := bestPerInstance[r.InstanceID]; !ok || r.WallSeconds < best {
			bestPerInstance[r.InstanceID] = r.WallSeconds
		}
	}

	ratiosBySolver := make(map[int64][]float64)
	for _, r := range runs {
		if !r.Outcome.Solved() {
			continue
		}
		best, ok := bestPerInstance[r.InstanceID]
		if !ok || best <= 0 {
			continue
		}
		ratiosBySolver[r.SolverID] = append(ratiosBySolver[r.SolverID], r.WallSeconds/best)
	}

	var out []Series
	for solverID, ratios := range ratiosBySolver {
		sort.Float64s(ratios)
		x := make([]float64, len(ratios))
		y := make([]float64, len(ratios))
		n := float64(len(ratios))
		for i, ratio := range ratios {
			x[i] = ratio
			y[i] = float64(i+1) / n
		}
		out = append(out, Series{SolverID: solverID, SolverKey: keys[solverID], X: x, Y: y})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolverID < out[j].SolverID })
	return out, nil
}

// Scatter returns, for every pair of solvers, the wall times each recorded
// on the instances they both attempted.
func (e *Engine) Scatter(experimentID int64) ([]ScatterSeries, error) {
	runs, keys, err := e.runsAndSolverKeys(experimentID)
	if err != nil {
		return nil, err
	}

	type cell struct {
		solverID int64
		wall     float64
	}
	byInstance := make(map[int64][]cell)
	for _, r := range runs {
		byInstance[r.InstanceID] = append(byInstance[r.InstanceID], cell{r.SolverID, r.WallSeconds})
	}

	type pairKey struct{ a, b int64 }
	points := make(map[pairKey][]ScatterPoint)
	for instanceID, cells := range byInstance {
		for i := 0; i < len(cells); i++ {
			for j := i + 1; j < len(cells); j++ {
				a, b := cells[i], cells[j]
				if a.solverID > b.solverID {
					a, b = b, a
				}
				k := pairKey{a.solverID, b.solverID}
				points[k] = append(points[k], ScatterPoint{InstanceID: instanceID, X: a.wall, Y: b.wall})
			}
		}
	}

	out := make([]ScatterSeries, 0, len(points))
	for k, pts := range points {
		sort.Slice(pts, func(i, j int) bool { return pts[i].InstanceID < pts[j].InstanceID })
		out = append(out, ScatterSeries{
			SolverAID:  k.a,
			SolverBID:  k.b,
			SolverAKey: keys[k.a],
			SolverBKey: keys[k.b],
			Points:     pts,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SolverAID != out[j].SolverAID {
			return out[i].SolverAID < out[j].SolverAID
		}
		return out[i].SolverBID < out[j].SolverBID
	})
	return out, nil
}

// Heatmap returns one cell per recorded run, in no particular order.
func (e *Engine) Heatmap(experimentID int64) ([]HeatmapCell, error) {
	runs, _, err := e.runsAndSolverKeys(experimentID)
	if err != nil {
		return nil, err
	}
	cells := make([]HeatmapCell, 0, len(runs))
	for _, r := range runs {
		cells = append(cells, HeatmapCell{
			SolverID:    r.SolverID,
			InstanceID:  r.InstanceID,
			WallSeconds: r.WallSeconds,
			Outcome:     string(r.Outcome),
		})
	}
	return cells, nil
}

// PAR2Bar returns one PAR-2 figure per solver.
func (e *Engine) PAR2Bar(experimentID int64, timeoutSeconds float64) ([]BarEntry, error) {
	runs, keys, err := e.runsAndSolverKeys(experimentID)
	if err != nil {
		return nil, err
	}

	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, r := range runs {
		sums[r.SolverID] += r.PAR2(timeoutSeconds)
		counts[r.SolverID]++
	}

	out := make([]BarEntry, 0, len(sums))
	for solverID, sum := range sums {
		out = append(out, BarEntry{
			SolverID:  solverID,
			SolverKey: keys[solverID],
			Value:     sum / float64(counts[solverID]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolverID < out[j].SolverID })
	return out, nil
}
