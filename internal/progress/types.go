// Package progress implements component C11: a bounded, lossy-on-slow-consumer
// broadcast of run-completion events, scoped per experiment.
package progress

import "github.com/jpequegn/satbench/internal/catalog"

// EventKind classifies a progress Event.
type EventKind string

const (
	// EventRunStarted fires the instant a (solver, instance) pair is handed
	// to the run executor.
	EventRunStarted EventKind = "run_started"
	// EventRunCompleted fires once a Run has been persisted.
	EventRunCompleted EventKind = "run_completed"
	// EventExperimentCompleted fires once every scheduled run has been
	// attempted, whether it succeeded or failed.
	EventExperimentCompleted EventKind = "experiment_completed"
)

// Event is one update about an experiment's progress. Run and
// Completed/Failed/Total are populated only for EventRunCompleted, where the
// counters are the experiment's as read back after the run was persisted;
// the other kinds carry only Kind and ExperimentID.
type Event struct {
	Kind         EventKind
	ExperimentID int64
	Run          *catalog.Run
	Completed    int
	Failed       int
	Total        int
}

// busCapacity bounds each subscriber's event queue. A subscriber slower than
// the scheduler drops the oldest pending event rather than block a run.
const busCapacity = 64
