// Package report assembles labelled data series for presentation (component
// C10): cactus plots, ECDF/survival curves, Dolan-Moré performance
// profiles, pairwise scatter points, the instance×solver wall-time heatmap,
// a PAR-2 bar series, and critical-difference diagram data. Every series is
// a pure function of an experiment's stored runs plus the timeout; none of
// this renders to image bytes, matching spec.md §4.10's "rendering is a
// strict downstream concern and out of scope here."
package report

// Series is a single named data series, shaped to drop straight into a
// Chart.js-style dataset the way the teacher's reporter.ChartDataset does.
type Series struct {
	SolverID  int64
	SolverKey string
	X         []float64
	Y         []float64
}

// ScatterPoint is one (solver1 time, solver2 time) pair on a shared
// instance, for the pairwise scatter plot.
type ScatterPoint struct {
	InstanceID int64
	X          float64 // solver1's wall time
	Y          float64 // solver2's wall time
}

// ScatterSeries holds every common-instance point between two solvers.
type ScatterSeries struct {
	SolverAID  int64
	SolverBID  int64
	SolverAKey string
	SolverBKey string
	Points     []ScatterPoint
}

// HeatmapCell is one instance×solver wall-time observation.
type HeatmapCell struct {
	SolverID    int64
	InstanceID  int64
	WallSeconds float64
	Outcome     string
}

// BarEntry is one solver's value in a bar chart (used for PAR-2 bars).
type BarEntry struct {
	SolverID  int64
	SolverKey string
	Value     float64
}

// CDClique is one maximal set of solvers whose mean ranks lie within the
// critical difference of one another — i.e. not significantly different.
type CDClique struct {
	SolverIndices []int
}

// CDDiagram is the critical-difference diagram's full data: the solvers'
// mean ranks (lower is better) in the order the Friedman test computed
// them, the critical difference itself, and the cliques that connect
// statistically indistinguishable solvers.
type CDDiagram struct {
	SolverKeys []string
	MeanRanks  []float64
	CD         float64
	Cliques    []CDClique
}
