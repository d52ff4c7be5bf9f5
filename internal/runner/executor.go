package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/solver"
)

// DefaultExecutor implements Executor by spawning the solver in its own
// process group and racing a watchdog goroutine against process exit,
// following the algorithm in §4.3.
type DefaultExecutor struct{}

// NewExecutor creates a run executor.
func NewExecutor() *DefaultExecutor { return &DefaultExecutor{} }

// boundedBuffer caps how much of a stream is retained, matching §4.3 step 3
// ("Collect stdout and stderr up to a bounded prefix... further output is
// discarded").
type boundedBuffer struct {
	mu    sync.Mutex
	limit int
	buf   bytes.Buffer
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	remaining := b.limit - b.buf.Len()
	if remaining > 0 {
		if remaining < len(p) {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *boundedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}

// killReason records which bound (if any) the watchdog tripped first.
type killReason int32

const (
	killNone killReason = iota
	killTimeout
	killMemout
)

// Execute runs adapter on cnfPath under cfg's bounds and returns a fully
// populated RunRecord. It never returns an error to the caller except by
// reflecting cancellation in the record's Outcome (§4.3 step 4).
func (e *DefaultExecutor) Execute(ctx context.Context, a solver.Adapter, cnfPath string, cfg Config) *catalog.Run {
	argv := a.BuildCommand(cnfPath)
	// The context's deadline is enforced by our own watchdog (which must
	// kill the whole process group, not just the direct child), so the
	// process is started without exec.CommandContext's built-in timeout.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &boundedBuffer{limit: stdoutCap}
	stderr := &boundedBuffer{limit: stderrCap}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return &catalog.Run{
			Outcome:      catalog.OutcomeError,
			ErrorMessage: truncate(fmt.Sprintf("failed to start solver: %v", err), stderrCap),
			Timestamp:    time.Now().UTC(),
		}
	}

	var reason atomic.Int32
	var peakMemKiB atomic.Int64
	var memSampleSum, memSampleCount atomic.Int64

	watchdogDone := make(chan struct{})
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	memLimitKiB := int64(cfg.MemoryLimitMiB) * 1024

	go e.watchdog(cmd.Process.Pid, timeout, memLimitKiB, &reason, &peakMemKiB, &memSampleSum, &memSampleCount, watchdogDone)

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	var exitErr error
	var cancelled bool
	select {
	case exitErr = <-waitErr:
	case <-ctx.Done():
		cancelled = true
		killGroup(cmd.Process.Pid)
		select {
		case exitErr = <-waitErr:
		case <-time.After(gracePeriod):
		}
	}
	close(watchdogDone)

	wall := time.Since(start)
	run := &catalog.Run{
		WallSeconds: wall.Seconds(),
		MaxMemKiB:   peakMemKiB.Load(),
		Timestamp:   time.Now().UTC(),
	}
	if n := memSampleCount.Load(); n > 0 {
		run.AvgMemKiB = memSampleSum.Load() / n
	}

	if cancelled {
		run.Outcome = catalog.OutcomeError
		run.ErrorMessage = "cancelled"
		return run
	}

	fillRusage(run, cmd)

	exitCode := exitCodeOf(exitErr)
	run.ExitCode = exitCode
	run.StdoutPrefix = string(stdout.Bytes())

	// Stdout/exit-code classification takes priority over the watchdog's
	// decision: a solver that printed its answer in the instant before
	// being killed is still SAT/UNSAT, not TIMEOUT/MEMOUT (§4.3 step 5).
	switch outcome := classify(exitCode, stdout.Bytes()); outcome {
	case catalog.OutcomeSAT, catalog.OutcomeUNSAT:
		run.Outcome = outcome
	default:
		switch killReason(reason.Load()) {
		case killTimeout:
			run.Outcome = catalog.OutcomeTimeout
			run.WallSeconds = float64(cfg.TimeoutSeconds)
		case killMemout:
			run.Outcome = catalog.OutcomeMemout
		default:
			run.Outcome = outcome
			if run.Outcome == catalog.OutcomeError {
				run.ErrorMessage = truncate(strings.TrimSpace(string(stderr.Bytes())), stderrCap)
			}
		}
	}

	stats := a.ParseStats(stdout.Bytes())
	run.Conflicts = stats.Conflicts
	run.Decisions = stats.Decisions
	run.Propagations = stats.Propagations
	run.Restarts = stats.Restarts
	run.LearntClauses = stats.LearntClauses
	run.DeletedClauses = stats.DeletedClauses
	run.Extra = stats.Extra

	return run
}

// classify implements the outcome classification of §4.3 step 5: stdout
// content takes precedence over the exit code, per the open question in §9
// ("defer to stdout classification first, then to exit code as a
// tiebreaker... any deviation should be reported as UNKNOWN, never silently
// as SAT").
func classify(exitCode int, stdout []byte) catalog.Outcome {
	hasSAT := bytes.Contains(stdout, []byte("SATISFIABLE"))
	hasUNSAT := bytes.Contains(stdout, []byte("UNSATISFIABLE"))

	switch {
	case hasUNSAT:
		return catalog.OutcomeUNSAT
	case hasSAT:
		return catalog.OutcomeSAT
	case exitCode == 10:
		return catalog.OutcomeSAT
	case exitCode == 20:
		return catalog.OutcomeUNSAT
	case exitCode != 0:
		return catalog.OutcomeError
	default:
		return catalog.OutcomeUnknown
	}
}

// watchdog samples RSS at watchdogInterval and kills the process group the
// instant either bound is crossed (§4.3 step 2).
func (e *DefaultExecutor) watchdog(pid int, timeout time.Duration, memLimitKiB int64,
	reason *atomic.Int32, peakMemKiB, memSampleSum, memSampleCount *atomic.Int64, done <-chan struct{}) {

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(watchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			rss, err := readRSSKiB(pid)
			if err == nil {
				if rss > peakMemKiB.Load() {
					peakMemKiB.Store(rss)
				}
				memSampleSum.Add(rss)
				memSampleCount.Add(1)

				if memLimitKiB > 0 && rss > memLimitKiB {
					reason.Store(int32(killMemout))
					killGroup(pid)
					return
				}
			}

			if timeout > 0 && !now.Before(deadline) {
				reason.Store(int32(killTimeout))
				killGroup(pid)
				return
			}
		}
	}
}

// readRSSKiB reads VmRSS from /proc/<pid>/status, in KiB.
func readRSSKiB(pid int) (int64, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/status", pid))
	if err != nil {
		return 0, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "VmRSS:") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				return strconv.ParseInt(fields[1], 10, 64)
			}
		}
	}
	return 0, fmt.Errorf("VmRSS not found")
}

// killGroup terminates the entire process group so that a solver that
// forks helper processes cannot survive a timeout or memout (§4.3 step 1).
func killGroup(pid int) {
	if pid <= 0 {
		return
	}
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
		slog.Debug("failed to kill process group", "pid", pid, "error", err)
	}
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
	}
	return -1
}

func asExitError(err error, target **exec.ExitError) bool {
	if e, ok := err.(*exec.ExitError); ok {
		*target = e
		return true
	}
	return false
}

// fillRusage populates CPU/user/system timings and context-switch/page-fault
// counters from the OS accounting interface when available (§4.3 step 7).
func fillRusage(run *catalog.Run, cmd *exec.Cmd) {
	if cmd.ProcessState == nil {
		return
	}
	rusage, ok := cmd.ProcessState.SysUsage().(*syscall.Rusage)
	if !ok || rusage == nil {
		return
	}
	run.UserSeconds = timevalSeconds(rusage.Utime)
	run.SystemSeconds = timevalSeconds(rusage.Stime)
	run.CPUSeconds = run.UserSeconds + run.SystemSeconds
	run.CtxVol = rusage.Nvcsw
	run.CtxInvol = rusage.Nivcsw
	run.PageFaults = rusage.Majflt + rusage.Minflt
}

func timevalSeconds(tv syscall.Timeval) float64 {
	return float64(tv.Sec) + float64(tv.Usec)/1e6
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
