package catalog

// Store is the single-writer-per-experiment durable contract consumed by
// the scheduler (write side) and by everything else (read side), per §4.5.
//
// Isolation requirement: RecordRun must be atomic with the experiment's
// completed/failed counters from the scheduler's point of view. Store
// implementations satisfy this with RecordRun rather than exposing the two
// writes separately, per the design-notes redesign of addRun's overwrite
// semantics (§9: "make overwrite explicit at the API level").
type Store interface {
	Init() error
	Close() error

	UpsertSolver(s *Solver) (int64, error)
	GetSolver(id int64) (*Solver, error)
	GetSolverByKey(key string) (*Solver, error)
	ListSolvers(filter SolverFilter) ([]*Solver, error)

	// AddInstance inserts an instance, returning the existing id without
	// modification when Filename already exists (§4.5 "unique by filename;
	// returns existing id on conflict").
	AddInstance(i *Instance) (int64, error)
	GetInstance(id int64) (*Instance, error)
	ListInstances(filter InstanceFilter) ([]*Instance, error)

	CreateExperiment(e *Experiment) (int64, error)
	UpdateExperiment(id int64, patch func(*Experiment)) error
	GetExperiment(id int64) (*Experiment, error)
	ListExperiments() ([]*Experiment, error)
	DeleteExperiment(id int64) error

	// RecordRun upserts a run for (ExperimentID, SolverID, InstanceID) and
	// atomically advances the owning experiment's completed/failed counters
	// by the given deltas. Re-running the same triple overwrites the row
	// without double-counting the experiment's totals (callers pass zero
	// deltas on overwrite).
	RecordRun(run *Run, completedDelta, failedDelta int) error
	GetRun(experimentID, solverID, instanceID int64) (*Run, error)
	ListRuns(filter RunFilter) ([]*Run, error)

	DashboardStats() (*DashboardStats, error)
}
