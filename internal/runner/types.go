// Package runner implements component C3: launching one (adapter, CNF) pair
// under wall-time and memory bounds and returning a canonical RunRecord.
//
// # Architecture
//
//	┌──────────┐   Execute(ctx, adapter, cnf, T, M)   ┌──────────────┐
//	│  Caller  │ ───────────────────────────────────▶ │  RunExecutor │
//	└──────────┘                                      └──────┬───────┘
//	                                                          │ spawn (own process group)
//	                                                          ▼
//	                                                   ┌──────────────┐
//	                                                   │ solver process│
//	                                                   └──────┬───────┘
//	                                              ┌────────────┼────────────┐
//	                                              ▼            ▼            ▼
//	                                         watchdog(RSS)  stdout cap   wait/kill
//
// The watchdog samples RSS at ≥5 Hz and kills the whole process group the
// instant either bound is crossed; Execute never raises to the caller
// except on the caller's own context cancellation (§4.3).
package runner

import (
	"context"
	"time"

	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/solver"
)

// Config bounds a single execution (§6's ExperimentSpec per-run fields).
type Config struct {
	TimeoutSeconds int
	MemoryLimitMiB int
}

// stdoutCap and stderrCap bound captured output per §4.3 step 3.
const (
	stdoutCap = 10 * 1024
	stderrCap = 5 * 1024
)

// watchdogInterval is the RSS sampling period; ≥5 Hz per §4.3 step 2.
const watchdogInterval = 150 * time.Millisecond

// gracePeriod bounds signal-delivery delay (§5's δ).
const gracePeriod = 2 * time.Second

// Executor is the public contract of component C3.
type Executor interface {
	Execute(ctx context.Context, adapter solver.Adapter, cnfPath string, cfg Config) *catalog.Run
}
