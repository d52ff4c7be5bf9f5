package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/solver"
)

// scriptAdapter runs an arbitrary shell script in place of a real solver
// binary, so the watchdog/classification logic can be exercised without a
// real SAT solver on PATH.
type scriptAdapter struct{ script string }

func (s *scriptAdapter) Key() string                         { return "script" }
func (s *scriptAdapter) Name() string                        { return "script" }
func (s *scriptAdapter) DefaultVersion() string               { return "0" }
func (s *scriptAdapter) Description() string                  { return "" }
func (s *scriptAdapter) Category() catalog.Category            { return catalog.CategoryEducational }
func (s *scriptAdapter) Features() []string                   { return nil }
func (s *scriptAdapter) Capabilities() catalog.Capabilities    { return catalog.Capabilities{} }
func (s *scriptAdapter) ExecutablePath() string                { return "/bin/sh" }
func (s *scriptAdapter) Probe() error                          { return nil }
func (s *scriptAdapter) DetectVersion(context.Context) (string, error) { return "0", nil }
func (s *scriptAdapter) BuildCommand(cnfPath string) []string  { return []string{"/bin/sh", "-c", s.script} }
func (s *scriptAdapter) ParseStats(stdout []byte) solver.Stats { return solver.Stats{} }
func (s *scriptAdapter) Install(context.Context) solver.InstallResult {
	return solver.InstallResult{Success: true}
}

func writeCNF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.cnf")
	if err := os.WriteFile(path, []byte("p cnf 1 1\n1 0\n"), 0o644); err != nil {
		t.Fatalf("write cnf: %v", err)
	}
	return path
}

func TestExecute_SAT(t *testing.T) {
	a := &scriptAdapter{script: "echo SATISFIABLE; exit 10"}
	run := NewExecutor().Execute(context.Background(), a, writeCNF(t), Config{TimeoutSeconds: 5, MemoryLimitMiB: 512})

	if run.Outcome != catalog.OutcomeSAT {
		t.Fatalf("expected SAT, got %s (exit=%d stdout=%q)", run.Outcome, run.ExitCode, run.StdoutPrefix)
	}
	if run.WallSeconds >= 5 {
		t.Errorf("expected fast wall time, got %f", run.WallSeconds)
	}
}

func TestExecute_UNSAT(t *testing.T) {
	a := &scriptAdapter{script: "echo UNSATISFIABLE; exit 20"}
	run := NewExecutor().Execute(context.Background(), a, writeCNF(t), Config{TimeoutSeconds: 5, MemoryLimitMiB: 512})

	if run.Outcome != catalog.OutcomeUNSAT {
		t.Fatalf("expected UNSAT, got %s", run.Outcome)
	}
}

func TestExecute_Timeout(t *testing.T) {
	a := &scriptAdapter{script: "sleep 5"}
	start := time.Now()
	run := NewExecutor().Execute(context.Background(), a, writeCNF(t), Config{TimeoutSeconds: 1, MemoryLimitMiB: 512})
	elapsed := time.Since(start)

	if run.Outcome != catalog.OutcomeTimeout {
		t.Fatalf("expected TIMEOUT, got %s", run.Outcome)
	}
	if run.WallSeconds != 1 {
		t.Errorf("expected wall pinned to T=1, got %f", run.WallSeconds)
	}
	if elapsed > 1*time.Second+gracePeriod {
		t.Errorf("expected kill within grace period, took %v", elapsed)
	}
}

func TestExecute_ErrorOnNonzeroExitNoKeyword(t *testing.T) {
	a := &scriptAdapter{script: "echo oops 1>&2; exit 1"}
	run := NewExecutor().Execute(context.Background(), a, writeCNF(t), Config{TimeoutSeconds: 5, MemoryLimitMiB: 512})

	if run.Outcome != catalog.OutcomeError {
		t.Fatalf("expected ERROR, got %s", run.Outcome)
	}
	if run.ErrorMessage == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestExecute_UnknownOnZeroExitNoKeyword(t *testing.T) {
	a := &scriptAdapter{script: "echo nothing useful"}
	run := NewExecutor().Execute(context.Background(), a, writeCNF(t), Config{TimeoutSeconds: 5, MemoryLimitMiB: 512})

	if run.Outcome != catalog.OutcomeUnknown {
		t.Fatalf("expected UNKNOWN, got %s", run.Outcome)
	}
}

func TestExecute_CancellationYieldsError(t *testing.T) {
	a := &scriptAdapter{script: "sleep 5"}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	run := NewExecutor().Execute(ctx, a, writeCNF(t), Config{TimeoutSeconds: 30, MemoryLimitMiB: 512})
	if run.Outcome != catalog.OutcomeError || run.ErrorMessage != "cancelled" {
		t.Fatalf("expected cancelled error outcome, got %s/%q", run.Outcome, run.ErrorMessage)
	}
}

func TestClassify_UnsatBeatsSatSubstring(t *testing.T) {
	if got := classify(0, []byte("s UNSATISFIABLE")); got != catalog.OutcomeUNSAT {
		t.Errorf("expected UNSAT, got %s", got)
	}
}
