// Package metrics implements component C6: deriving per-solver summaries,
// the virtual-best-solver baseline, the solve matrix, family breakdowns and
// rankings from an experiment's recorded Runs. Every computation here is
// pure — degenerate input (zero runs) yields a zero-value document, never an
// error, per the error-handling design's rule that engines don't fail on
// empty input.
package metrics

// TimeStats is basic descriptive statistics over a set of wall-clock times
// (solved runs only, per §4.6's per-solver summary).
type TimeStats struct {
	Mean   float64
	Median float64
	StdDev float64
	Q1     float64
	Q3     float64
	Min    float64
	Max    float64
	Sum    float64
}

// SolverSummary is one solver's aggregate performance across an experiment.
type SolverSummary struct {
	SolverID     int64
	SolverKey    string
	CountSAT     int
	CountUNSAT   int
	CountTimeout int
	CountError   int
	Solved       int
	Total        int
	PAR2         float64
	PAR10        float64
	SolvedTime   TimeStats
}

// SolveRate is Solved/Total, or 0 when Total is 0.
func (s SolverSummary) SolveRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Total)
}

// VBSResult is the virtual-best-solver baseline (§4.6): for every instance,
// the best of any solver's outcome, combined the same way a SolverSummary is.
type VBSResult struct {
	Solved int
	Total  int
	PAR2   float64
}

// SolveMatrixEntry is one solver's row of the solve matrix (§4.6): how many
// instances it alone solved among solvers that attempted them, against the
// experiment-wide CommonlySolved/SolvedByNone figures it shares with every
// other row.
type SolveMatrixEntry struct {
	SolverID       int64
	SolverKey      string
	UniquelySolved int
}

// SolveMatrix is the experiment-wide solve matrix: per solver, the count of
// instances it uniquely solved, plus the instances every attempting solver
// solved in common and the instances no solver solved.
type SolveMatrix struct {
	Solvers        []SolveMatrixEntry
	CommonlySolved int
	SolvedByNone   int
	TotalInstances int
}

// FamilyBreakdown is a solver's summary restricted to one instance family,
// plus that family's best solver by PAR-2 (shared across every row of the
// same family).
type FamilyBreakdown struct {
	Family        string
	SolverID      int64
	SolverKey     string
	Solved        int
	Total         int
	PAR2          float64
	BestSolverKey string
}
