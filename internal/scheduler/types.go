// Package scheduler implements component C4: turning an ExperimentSpec into
// a bounded run of (solver, instance) pairs against the run executor,
// persisting each Run as it completes and advancing the owning experiment's
// counters atomically with it.
package scheduler

import (
	"context"

	"github.com/jpequegn/satbench/internal/catalog"
)

// Spec is the creation-time input for a new experiment (§6's ExperimentSpec).
type Spec struct {
	Name           string
	Description    string
	TimeoutSeconds int
	MemoryLimitMiB int
	Parallelism    int
	SolverIDs      []int64
	InstanceIDs    []int64
}

// Scheduler is the public contract of component C4.
type Scheduler interface {
	Create(spec Spec) (int64, error)
	Start(ctx context.Context, experimentID int64) error
	Stop(experimentID int64) error
	Delete(experimentID int64) error
	Get(experimentID int64) (*catalog.Experiment, error)
	List() ([]*catalog.Experiment, error)
}
