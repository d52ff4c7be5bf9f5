package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/progress"
	"github.com/jpequegn/satbench/internal/runner"
	"github.com/jpequegn/satbench/internal/solver"
)

// pair is one (solver, instance) cell of the experiment's Cartesian product.
type pair struct {
	solverID   int64
	instanceID int64
}

// DefaultScheduler implements Scheduler by enumerating the Cartesian product
// of an experiment's solvers and instances and running each pair through the
// run executor, bounded to the experiment's declared parallelism (§4.4, §5).
type DefaultScheduler struct {
	store    catalog.Store
	registry *solver.Registry
	exec     runner.Executor
	bus      *progress.Bus

	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
}

// New creates a scheduler wired to the given catalogue store, solver
// registry, run executor and progress bus.
func New(store catalog.Store, registry *solver.Registry, exec runner.Executor, bus *progress.Bus) *DefaultScheduler {
	return &DefaultScheduler{
		store:    store,
		registry: registry,
		exec:     exec,
		bus:      bus,
		cancels:  make(map[int64]context.CancelFunc),
	}
}

// Create persists a new experiment in StatusPending, with Total computed as
// the size of the solver×instance Cartesian product.
func (s *DefaultScheduler) Create(spec Spec) (int64, error) {
	if len(spec.SolverIDs) == 0 || len(spec.InstanceIDs) == 0 {
		return 0, fmt.Errorf("experiment requires at least one solver and one instance")
	}
	parallelism := spec.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	e := &catalog.Experiment{
		Name:           spec.Name,
		Description:    spec.Description,
		TimeoutSeconds: spec.TimeoutSeconds,
		MemoryLimitMiB: spec.MemoryLimitMiB,
		Parallelism:    parallelism,
		Status:         catalog.StatusPending,
		Total:          len(spec.SolverIDs) * len(spec.InstanceIDs),
		SolverIDs:      spec.SolverIDs,
		InstanceIDs:    spec.InstanceIDs,
	}
	id, err := s.store.CreateExperiment(e)
	if err != nil {
		return 0, fmt.Errorf("failed to create experiment: %w", err)
	}
	return id, nil
}

// Start runs every not-yet-recorded (solver, instance) pair of experimentID
// through the run executor, bounded to its Parallelism. A pair that already
// has a Run row is skipped — restarting a stopped experiment resumes rather
// than re-executing completed work (§4.4's resume discipline).
func (s *DefaultScheduler) Start(ctx context.Context, experimentID int64) error {
	e, err := s.store.GetExperiment(experimentID)
	if err != nil {
		return fmt.Errorf("failed to load experiment %d: %w", experimentID, err)
	}
	if e == nil {
		return fmt.Errorf("experiment %d not found", experimentID)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancels[experimentID] = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.cancels, experimentID)
		s.mu.Unlock()
		cancel()
	}()

	now := time.Now().UTC()
	if err := s.store.UpdateExperiment(experimentID, func(exp *catalog.Experiment) {
		exp.Status = catalog.StatusRunning
		exp.StartedAt = &now
	}); err != nil {
		return fmt.Errorf("failed to mark experiment %d running: %w", experimentID, err)
	}

	pairs := make([]pair, 0, len(e.SolverIDs)*len(e.InstanceIDs))
	for _, sid := range e.SolverIDs {
		for _, iid := range e.InstanceIDs {
			pairs = append(pairs, pair{solverID: sid, instanceID: iid})
		}
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(e.Parallelism)

	for _, p := range pairs {
		p := p
		g.Go(func() error {
			return s.runPair(gctx, e, p)
		})
	}

	runErr := g.Wait()

	finalStatus := catalog.StatusCompleted
	switch {
	case runCtx.Err() != nil && ctx.Err() == nil:
		// Cancelled via Stop, not via the caller's own context.
		finalStatus = catalog.StatusStopped
	case runErr != nil:
		finalStatus = catalog.StatusError
	}

	completedAt := time.Now().UTC()
	if uerr := s.store.UpdateExperiment(experimentID, func(exp *catalog.Experiment) {
		exp.Status = finalStatus
		exp.CompletedAt = &completedAt
	}); uerr != nil {
		return fmt.Errorf("failed to finalize experiment %d: %w", experimentID, uerr)
	}

	s.bus.Publish(progress.Event{
		Kind:         progress.EventExperimentCompleted,
		ExperimentID: experimentID,
	})

	return runErr
}

func (s *DefaultScheduler) runPair(ctx context.Context, e *catalog.Experiment, p pair) error {
	if existing, err := s.store.GetRun(e.ID, p.solverID, p.instanceID); err == nil && existing != nil {
		return nil
	}

	sol, err := s.store.GetSolver(p.solverID)
	if err != nil || sol == nil {
		return fmt.Errorf("failed to resolve solver %d: %w", p.solverID, err)
	}
	inst, err := s.store.GetInstance(p.instanceID)
	if err != nil || inst == nil {
		return fmt.Errorf("failed to resolve instance %d: %w", p.instanceID, err)
	}
	a, err := s.registry.Adapter(sol.Key)
	if err != nil {
		return fmt.Errorf("failed to resolve adapter for %s: %w", sol.Key, err)
	}

	s.bus.Publish(progress.Event{Kind: progress.EventRunStarted, ExperimentID: e.ID})

	run := s.exec.Execute(ctx, a, inst.Path, runner.Config{
		TimeoutSeconds: e.TimeoutSeconds,
		MemoryLimitMiB: e.MemoryLimitMiB,
	})
	run.ExperimentID = e.ID
	run.SolverID = p.solverID
	run.InstanceID = p.instanceID

	completedDelta, failedDelta := 1, 0
	if run.Outcome == catalog.OutcomeError {
		completedDelta, failedDelta = 0, 1
	}

	if err := s.store.RecordRun(run, completedDelta, failedDelta); err != nil {
		return fmt.Errorf("failed to record run (solver=%d instance=%d): %w", p.solverID, p.instanceID, err)
	}

	exp, err := s.store.GetExperiment(e.ID)
	completed, failed, total := 0, 0, e.Total
	if err == nil && exp != nil {
		completed, failed = exp.Completed, exp.Failed
	}
	s.bus.Publish(progress.Event{
		Kind:         progress.EventRunCompleted,
		ExperimentID: e.ID,
		Run:          run,
		Completed:    completed,
		Failed:       failed,
		Total:        total,
	})

	return nil
}

// Stop cancels a running experiment's context, causing Start to return once
// in-flight runs finish; already-recorded runs are left intact for a
// subsequent Start to resume from.
func (s *DefaultScheduler) Stop(experimentID int64) error {
	s.mu.Lock()
	cancel, ok := s.cancels[experimentID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("experiment %d is not running", experimentID)
	}
	cancel()
	return nil
}

// Delete removes an experiment and its runs (cascade, per the catalogue
// store's schema).
func (s *DefaultScheduler) Delete(experimentID int64) error {
	return s.store.DeleteExperiment(experimentID)
}

// Get returns an experiment's current state.
func (s *DefaultScheduler) Get(experimentID int64) (*catalog.Experiment, error) {
	return s.store.GetExperiment(experimentID)
}

// List returns every experiment.
func (s *DefaultScheduler) List() ([]*catalog.Experiment, error) {
	return s.store.ListExperiments()
}
