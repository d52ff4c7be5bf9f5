// Package facade implements component C12: a thin read-side surface for
// transports (CLI, and any future HTTP/gRPC layer) that mirrors the
// catalogue's queries (§4.5) and the metric/stats/bootstrap/report
// engines' pure functions (§4.6-§4.8, §4.10). It never mutates state other
// than by forwarding to the scheduler's explicit Create/Start/Stop/Delete
// operations (§4.12).
package facade

import "github.com/jpequegn/satbench/internal/stats"

// ComparisonResult bundles every statistical angle on a head-to-head
// between two solvers over the same experiment's common instances: the
// paired tests, the effect size, and a bootstrap confidence interval on
// the mean PAR-k difference.
type ComparisonResult struct {
	SolverAKey string
	SolverBKey string
	N          int

	Wilcoxon    stats.PairedTestResult
	SignTest    stats.PairedTestResult
	CohensD     stats.EffectSize
	MeanDiff    float64
	CILow       float64
	CIHigh      float64
	Significant bool
}
