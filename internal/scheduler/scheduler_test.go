package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/progress"
	"github.com/jpequegn/satbench/internal/runner"
	"github.com/jpequegn/satbench/internal/solver"
)

// fakeAdapter answers every run with a fixed exit code via a shell script,
// so the scheduler can be exercised without a real SAT solver on PATH.
type fakeAdapter struct {
	key    string
	script string
}

func (f *fakeAdapter) Key() string                                     { return f.key }
func (f *fakeAdapter) Name() string                                    { return f.key }
func (f *fakeAdapter) DefaultVersion() string                          { return "0" }
func (f *fakeAdapter) Description() string                             { return "" }
func (f *fakeAdapter) Category() catalog.Category                      { return catalog.CategoryEducational }
func (f *fakeAdapter) Features() []string                              { return nil }
func (f *fakeAdapter) Capabilities() catalog.Capabilities               { return catalog.Capabilities{} }
func (f *fakeAdapter) ExecutablePath() string                           { return "/bin/sh" }
func (f *fakeAdapter) Probe() error                                     { return nil }
func (f *fakeAdapter) DetectVersion(context.Context) (string, error)    { return "0", nil }
func (f *fakeAdapter) BuildCommand(cnfPath string) []string             { return []string{"/bin/sh", "-c", f.script} }
func (f *fakeAdapter) ParseStats(stdout []byte) solver.Stats            { return solver.Stats{} }
func (f *fakeAdapter) Install(context.Context) solver.InstallResult {
	return solver.InstallResult{Success: true}
}

func setupTestScheduler(t *testing.T) (*DefaultScheduler, *catalog.SQLiteStore, *solver.Registry, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "satbench_sched_test_*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	_ = tmpFile.Close()
	path := tmpFile.Name()

	store, err := catalog.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	registry := solver.NewRegistry(store)
	if err := registry.Discover(&fakeAdapter{key: "fake-sat", script: "echo SATISFIABLE; exit 10"}); err != nil {
		t.Fatalf("failed to discover fake adapter: %v", err)
	}

	bus := progress.NewBus()
	sched := New(store, registry, runner.NewExecutor(), bus)

	cleanup := func() {
		_ = store.Close()
		_ = os.Remove(path)
	}
	return sched, store, registry, cleanup
}

func writeInstance(t *testing.T, store catalog.Store) int64 {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.cnf")
	if err := os.WriteFile(path, []byte("p cnf 1 1\n1 0\n"), 0o644); err != nil {
		t.Fatalf("write cnf: %v", err)
	}
	id, err := store.AddInstance(&catalog.Instance{Filename: "a.cnf", Path: path})
	if err != nil {
		t.Fatalf("add instance: %v", err)
	}
	return id
}

func TestScheduler_CreateAndRunToCompletion(t *testing.T) {
	sched, store, registry, cleanup := setupTestScheduler(t)
	defer cleanup()

	sol, err := registry.GetByKey("fake-sat")
	if err != nil || sol == nil {
		t.Fatalf("expected discovered solver, got %v/%v", sol, err)
	}
	instID := writeInstance(t, store)

	expID, err := sched.Create(Spec{
		Name:           "smoke",
		TimeoutSeconds: 5,
		MemoryLimitMiB: 512,
		Parallelism:    1,
		SolverIDs:      []int64{sol.ID},
		InstanceIDs:    []int64{instID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := sched.Start(context.Background(), expID); err != nil {
		t.Fatalf("start: %v", err)
	}

	exp, err := sched.Get(expID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if exp.Status != catalog.StatusCompleted {
		t.Errorf("expected StatusCompleted, got %s", exp.Status)
	}
	if exp.Completed != 1 || exp.Failed != 0 {
		t.Errorf("expected 1 completed / 0 failed, got %d/%d", exp.Completed, exp.Failed)
	}

	run, err := store.GetRun(expID, sol.ID, instID)
	if err != nil || run == nil {
		t.Fatalf("expected a recorded run, got %v/%v", run, err)
	}
	if run.Outcome != catalog.OutcomeSAT {
		t.Errorf("expected SAT, got %s", run.Outcome)
	}
}

func TestScheduler_ResumeSkipsCompletedPairs(t *testing.T) {
	sched, store, registry, cleanup := setupTestScheduler(t)
	defer cleanup()

	sol, _ := registry.GetByKey("fake-sat")
	instID := writeInstance(t, store)

	expID, err := sched.Create(Spec{
		Name:        "resume",
		Parallelism: 1,
		SolverIDs:   []int64{sol.ID},
		InstanceIDs: []int64{instID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := sched.Start(context.Background(), expID); err != nil {
		t.Fatalf("first start: %v", err)
	}
	firstRun, _ := store.GetRun(expID, sol.ID, instID)

	// A second Start should find the pair already recorded and skip it,
	// leaving the experiment's counters untouched.
	if err := sched.Start(context.Background(), expID); err != nil {
		t.Fatalf("second start: %v", err)
	}
	exp, _ := sched.Get(expID)
	if exp.Completed != 1 {
		t.Errorf("expected resume to skip the already-recorded pair, completed=%d", exp.Completed)
	}
	secondRun, _ := store.GetRun(expID, sol.ID, instID)
	if secondRun.Timestamp != firstRun.Timestamp {
		t.Errorf("expected the resumed run to be left untouched")
	}
}

func TestScheduler_StopCancelsInFlightRuns(t *testing.T) {
	sched, store, registry, cleanup := setupTestScheduler(t)
	defer cleanup()

	if err := registry.Discover(&fakeAdapter{key: "fake-slow", script: "sleep 5"}); err != nil {
		t.Fatalf("discover: %v", err)
	}
	sol, _ := registry.GetByKey("fake-slow")
	instID := writeInstance(t, store)

	expID, err := sched.Create(Spec{
		Name:           "stoppable",
		TimeoutSeconds: 30,
		Parallelism:    1,
		SolverIDs:      []int64{sol.ID},
		InstanceIDs:    []int64{instID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- sched.Start(context.Background(), expID) }()

	time.Sleep(200 * time.Millisecond)
	if err := sched.Stop(expID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Start did not return after Stop")
	}

	exp, _ := sched.Get(expID)
	if exp.Status != catalog.StatusStopped {
		t.Errorf("expected StatusStopped, got %s", exp.Status)
	}
}
