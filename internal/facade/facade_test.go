package facade

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpequegn/satbench/internal/bootstrap"
	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/progress"
	"github.com/jpequegn/satbench/internal/runner"
	"github.com/jpequegn/satbench/internal/scheduler"
	"github.com/jpequegn/satbench/internal/solver"
)

// fakeAdapter answers every run with a fixed exit code via a shell script,
// so the facade can be exercised end-to-end without a real SAT solver.
type fakeAdapter struct {
	key    string
	script string
}

func (f *fakeAdapter) Key() string                                  { return f.key }
func (f *fakeAdapter) Name() string                                 { return f.key }
func (f *fakeAdapter) DefaultVersion() string                       { return "0" }
func (f *fakeAdapter) Description() string                          { return "" }
func (f *fakeAdapter) Category() catalog.Category                   { return catalog.CategoryEducational }
func (f *fakeAdapter) Features() []string                           { return nil }
func (f *fakeAdapter) Capabilities() catalog.Capabilities            { return catalog.Capabilities{} }
func (f *fakeAdapter) ExecutablePath() string                        { return "/bin/sh" }
func (f *fakeAdapter) Probe() error                                  { return nil }
func (f *fakeAdapter) DetectVersion(context.Context) (string, error) { return "0", nil }
func (f *fakeAdapter) BuildCommand(cnfPath string) []string          { return []string{"/bin/sh", "-c", f.script} }
func (f *fakeAdapter) ParseStats(stdout []byte) solver.Stats         { return solver.Stats{} }
func (f *fakeAdapter) Install(context.Context) solver.InstallResult {
	return solver.InstallResult{Success: true}
}

func setupTestFacade(t *testing.T) (*Facade, *catalog.SQLiteStore, *solver.Registry, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "satbench_facade_test_*.db")
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
	bus := progress.NewBus()
	sched := scheduler.New(store, registry, runner.NewExecutor(), bus)
	f := New(store, sched, bus)

	cleanup := func() {
		_ = store.Close()
		_ = os.Remove(path)
	}
	return f, store, registry, cleanup
}

func writeInstance(t *testing.T, store catalog.Store, name string) int64 {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("p cnf 1 1\n1 0\n"), 0o644); err != nil {
		t.Fatalf("write cnf: %v", err)
	}
	id, err := store.AddInstance(&catalog.Instance{Filename: name, Path: path})
	if err != nil {
		t.Fatalf("add instance: %v", err)
	}
	return id
}

func TestFacade_CreateStartAndQueryExperiment(t *testing.T) {
	f, store, registry, cleanup := setupTestFacade(t)
	defer cleanup()

	if err := registry.Discover(&fakeAdapter{key: "fake-sat", script: "echo SATISFIABLE; exit 10"}); err != nil {
		t.Fatalf("discover: %v", err)
	}
	sol, err := registry.GetByKey("fake-sat")
	if err != nil || sol == nil {
		t.Fatalf("expected discovered solver, got %v/%v", sol, err)
	}
	instID := writeInstance(t, store, "a.cnf")

	expID, err := f.CreateExperiment(scheduler.Spec{
		Name:           "facade-smoke",
		TimeoutSeconds: 5,
		Parallelism:    1,
		SolverIDs:      []int64{sol.ID},
		InstanceIDs:    []int64{instID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.StartExperiment(context.Background(), expID); err != nil {
		t.Fatalf("start: %v", err)
	}

	exp, err := f.Experiment(expID)
	if err != nil {
		t.Fatalf("experiment: %v", err)
	}
	if exp.Status != catalog.StatusCompleted {
		t.Errorf("expected StatusCompleted, got %s", exp.Status)
	}

	summaries, err := f.SolverSummaries(expID, 5)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Solved != 1 {
		t.Errorf("expected 1 solved summary, got %+v", summaries)
	}

	bars, err := f.PAR2Bar(expID, 5)
	if err != nil {
		t.Fatalf("par2 bar: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("expected 1 bar entry, got %d", len(bars))
	}

	stats, err := f.DashboardStats()
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}
	if stats.TotalExperiments < 1 {
		t.Errorf("expected at least 1 experiment counted, got %+v", stats)
	}
}

func TestFacade_CompareSolversOnCommonInstances(t *testing.T) {
	f, store, registry, cleanup := setupTestFacade(t)
	defer cleanup()

	if err := registry.Discover(&fakeAdapter{key: "fast", script: "echo SATISFIABLE; exit 10"}); err != nil {
		t.Fatalf("discover fast: %v", err)
	}
	if err := registry.Discover(&fakeAdapter{key: "slow", script: "sleep 1; echo SATISFIABLE; exit 10"}); err != nil {
		t.Fatalf("discover slow: %v", err)
	}
	fast, _ := registry.GetByKey("fast")
	slow, _ := registry.GetByKey("slow")

	var instIDs []int64
	for i := 0; i < 5; i++ {
		instIDs = append(instIDs, writeInstance(t, store, filepathName(i)))
	}

	expID, err := f.CreateExperiment(scheduler.Spec{
		Name:           "compare",
		TimeoutSeconds: 5,
		Parallelism:    2,
		SolverIDs:      []int64{fast.ID, slow.ID},
		InstanceIDs:    instIDs,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.StartExperiment(context.Background(), expID); err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := f.CompareSolvers(expID, fast.ID, slow.ID, 5, bootstrap.Config{B: 500, Level: 0.95, Seed: 1})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if result.N != 5 {
		t.Errorf("expected 5 common instances, got %d", result.N)
	}
	if result.SolverAKey != "fast" || result.SolverBKey != "slow" {
		t.Errorf("expected solver keys fast/slow, got %s/%s", result.SolverAKey, result.SolverBKey)
	}
	if result.MeanDiff >= 0 {
		t.Errorf("expected fast's PAR-2 to be lower than slow's (negative mean diff), got %v", result.MeanDiff)
	}
}

func TestFacade_SubscribeReceivesProgressEvents(t *testing.T) {
	f, store, registry, cleanup := setupTestFacade(t)
	defer cleanup()

	if err := registry.Discover(&fakeAdapter{key: "fake-sat", script: "echo SATISFIABLE; exit 10"}); err != nil {
		t.Fatalf("discover: %v", err)
	}
	sol, _ := registry.GetByKey("fake-sat")
	instID := writeInstance(t, store, "a.cnf")

	expID, err := f.CreateExperiment(scheduler.Spec{
		Name:        "watch",
		Parallelism: 1,
		SolverIDs:   []int64{sol.ID},
		InstanceIDs: []int64{instID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	events, token := f.Subscribe(expID)
	defer f.Unsubscribe(expID, token)

	if err := f.StartExperiment(context.Background(), expID); err != nil {
		t.Fatalf("start: %v", err)
	}

	sawCompletion := false
	for i := 0; i < 10; i++ {
		select {
		case ev := <-events:
			if ev.Kind == progress.EventExperimentCompleted {
				sawCompletion = true
			}
		default:
		}
		if sawCompletion {
			break
		}
	}
	if !sawCompletion {
		t.Error("expected to observe an experiment-completed event")
	}
}

func filepathName(i int) string {
	return "inst" + string(rune('a'+i)) + ".cnf"
}
