// Package catalog is the durable mapping of solvers, instances, experiments
// and runs (component C5). It is the only component in this repository with
// shared mutable state; every other component either owns its own state or
// reads a snapshot through here.
package catalog

import "time"

// Category classifies a Solver for catalogue display.
type Category string

const (
	CategoryCompetition Category = "competition"
	CategoryEducational Category = "educational"
	CategorySpecialised Category = "specialised"
)

// Capabilities are the comparison-view flags from §4.2.
type Capabilities struct {
	Preprocessing bool
	Inprocessing  bool
	Parallel      bool
	Incremental   bool
}

// Solver is the immutable catalogue entry described in §3. ExecutablePath and
// DetectedVersion are populated by the solver adapter, not by administrative
// actions, and are not authoritative in storage — readiness (the adapter's
// Probe, surfaced as solver.View.Ready) depends on the filesystem at call
// time.
type Solver struct {
	ID              int64
	Key             string
	Name            string
	DefaultVersion  string
	DetectedVersion string
	Description     string
	Category        Category
	Features        []string
	Capabilities    Capabilities
	ExecutablePath  string
}

// Instance is a cataloged CNF benchmark (§3). Uniqueness key is Filename.
type Instance struct {
	ID         int64
	Filename   string
	Path       string
	Family     string
	Difficulty string
	SizeBytes  int64
	NumVars    int
	NumClauses int
	CVRatio    float64
	Checksum   string
}

// Status is an Experiment's lifecycle state (§4.4 state machine).
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
	StatusError     Status = "error"
)

// Experiment is the mutable configuration and progress record described in §3.
type Experiment struct {
	ID             int64
	Name           string
	Description    string
	TimeoutSeconds int
	MemoryLimitMiB int
	Parallelism    int
	Status         Status
	Total          int
	Completed      int
	Failed         int
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	SolverIDs      []int64
	InstanceIDs    []int64
}

// Outcome is a Run's classification (§3, §4.3).
type Outcome string

const (
	OutcomeSAT     Outcome = "SAT"
	OutcomeUNSAT   Outcome = "UNSAT"
	OutcomeTimeout Outcome = "TIMEOUT"
	OutcomeMemout  Outcome = "MEMOUT"
	OutcomeError   Outcome = "ERROR"
	OutcomeUnknown Outcome = "UNKNOWN"
)

// Solved reports whether the outcome is a definite SAT or UNSAT answer.
func (o Outcome) Solved() bool { return o == OutcomeSAT || o == OutcomeUNSAT }

// Run is the canonical per-(experiment,solver,instance) measurement (§3).
// Conflicts..DeletedClauses are nil when the adapter did not report them.
type Run struct {
	ID            int64
	ExperimentID  int64
	SolverID      int64
	InstanceID    int64
	Outcome       Outcome
	ExitCode      int
	WallSeconds   float64
	CPUSeconds    float64
	UserSeconds   float64
	SystemSeconds float64
	MaxMemKiB     int64
	AvgMemKiB     int64
	CtxVol        int64
	CtxInvol      int64
	PageFaults    int64
	Conflicts     *int64
	Decisions     *int64
	Propagations  *int64
	Restarts      *int64
	LearntClauses *int64
	DeletedClauses *int64
	Extra         map[string]float64
	StdoutPrefix  string
	ErrorMessage  string
	Timestamp     time.Time
}

// PAR2 computes the run's penalised average runtime contribution for a given
// timeout T, per invariant 5 of §3: PAR2 = wall if solved, else 2T. This is
// recomputed on read and is never stored as authoritative.
func (r *Run) PAR2(timeoutSeconds float64) float64 {
	if r.Outcome.Solved() {
		return r.WallSeconds
	}
	return 2 * timeoutSeconds
}

// PAR10 is PAR2's 10x-penalty sibling: wall if solved, else 10T.
func (r *Run) PAR10(timeoutSeconds float64) float64 {
	if r.Outcome.Solved() {
		return r.WallSeconds
	}
	return 10 * timeoutSeconds
}

// SolverFilter narrows ListSolvers; zero value matches everything.
type SolverFilter struct {
	// ReadyOnly is not applied by SQLiteStore.ListSolvers, since readiness
	// is not stored; solver.Registry.ReadyList filters on live readiness.
	ReadyOnly bool
	Category  Category
}

// InstanceFilter narrows ListInstances; zero value matches everything.
type InstanceFilter struct {
	Family     string
	Difficulty string
}

// RunFilter narrows ListRuns; zero fields are wildcards.
type RunFilter struct {
	ExperimentID int64
	SolverID     int64
	InstanceID   int64
}

// DashboardStats is the aggregate counters view from §4.5.
type DashboardStats struct {
	TotalSolvers     int
	TotalInstances   int
	TotalExperiments int
	TotalRuns        int
	RunningExperiments int
}
