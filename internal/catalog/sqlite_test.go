package catalog

import (
	"os"
	"testing"
)

func setupTestStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "satbench_test_*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	_ = tmpFile.Close()
	path := tmpFile.Name()

	store, err := NewSQLiteStore(path)
	if err != nil {
		_ = os.Remove(path)
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	return store, func() {
		_ = store.Close()
		_ = os.Remove(path)
	}
}

func TestSQLiteStore_UpsertSolverAndLookup(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	sol := &Solver{
		Key:            "minisat",
		Name:           "MiniSat",
		DefaultVersion: "2.2.0",
		Category:       CategoryEducational,
		Features:       []string{"cdcl"},
		ExecutablePath: "/usr/bin/minisat",
	}
	id, err := store.UpsertSolver(sol)
	if err != nil {
		t.Fatalf("upsert solver: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	byKey, err := store.GetSolverByKey("minisat")
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if byKey == nil || byKey.Name != "MiniSat" {
		t.Fatalf("unexpected solver: %+v", byKey)
	}

	sol.Name = "MiniSat 2"
	if _, err := store.UpsertSolver(sol); err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	all, err := store.ListSolvers(SolverFilter{})
	if err != nil {
		t.Fatalf("list solvers: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 solver after update, got %d", len(all))
	}
	if all[0].Name != "MiniSat 2" {
		t.Errorf("expected updated name, got %s", all[0].Name)
	}
}

func TestSQLiteStore_AddInstanceDedup(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	inst := &Instance{Filename: "uf50-01.cnf", Path: "/data/uf50-01.cnf", Family: "uf50", NumVars: 50, NumClauses: 218}
	id1, err := store.AddInstance(inst)
	if err != nil {
		t.Fatalf("add instance: %v", err)
	}

	dup := &Instance{Filename: "uf50-01.cnf", Path: "/other/path.cnf"}
	id2, err := store.AddInstance(dup)
	if err != nil {
		t.Fatalf("add duplicate instance: %v", err)
	}
	if id1 != id2 {
		t.Errorf("expected dedup to return existing id %d, got %d", id1, id2)
	}

	got, err := store.GetInstance(id1)
	if err != nil {
		t.Fatalf("get instance: %v", err)
	}
	if got.Path != "/data/uf50-01.cnf" {
		t.Errorf("duplicate insert should not overwrite path, got %s", got.Path)
	}
}

func TestSQLiteStore_ExperimentLifecycleAndRunRecording(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	solID, _ := store.UpsertSolver(&Solver{Key: "cadical", Name: "CaDiCaL"})
	instID, _ := store.AddInstance(&Instance{Filename: "a.cnf", Path: "/a.cnf"})

	exp := &Experiment{
		Name:           "exp1",
		TimeoutSeconds: 5,
		MemoryLimitMiB: 1024,
		Parallelism:    1,
		Total:          1,
		SolverIDs:      []int64{solID},
		InstanceIDs:    []int64{instID},
	}
	expID, err := store.CreateExperiment(exp)
	if err != nil {
		t.Fatalf("create experiment: %v", err)
	}

	if err := store.UpdateExperiment(expID, func(e *Experiment) { e.Status = StatusRunning }); err != nil {
		t.Fatalf("update experiment: %v", err)
	}

	run := &Run{
		ExperimentID: expID,
		SolverID:     solID,
		InstanceID:   instID,
		Outcome:      OutcomeSAT,
		WallSeconds:  0.5,
	}
	if err := store.RecordRun(run, 1, 0); err != nil {
		t.Fatalf("record run: %v", err)
	}

	got, err := store.GetExperiment(expID)
	if err != nil {
		t.Fatalf("get experiment: %v", err)
	}
	if got.Completed != 1 {
		t.Errorf("expected completed=1, got %d", got.Completed)
	}
	if got.Status != StatusRunning {
		t.Errorf("expected status running, got %s", got.Status)
	}

	// Re-recording the same triple overwrites rather than duplicating (invariant 2).
	run.Outcome = OutcomeUNSAT
	if err := store.RecordRun(run, 0, 0); err != nil {
		t.Fatalf("re-record run: %v", err)
	}
	runs, err := store.ListRuns(RunFilter{ExperimentID: expID})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected exactly 1 run row, got %d", len(runs))
	}
	if runs[0].Outcome != OutcomeUNSAT {
		t.Errorf("expected overwritten outcome UNSAT, got %s", runs[0].Outcome)
	}

	if err := store.DeleteExperiment(expID); err != nil {
		t.Fatalf("delete experiment: %v", err)
	}
	runsAfterDelete, err := store.ListRuns(RunFilter{ExperimentID: expID})
	if err != nil {
		t.Fatalf("list runs after delete: %v", err)
	}
	if len(runsAfterDelete) != 0 {
		t.Errorf("expected cascade delete of runs, got %d remaining", len(runsAfterDelete))
	}
}
