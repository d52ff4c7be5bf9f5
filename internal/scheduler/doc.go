// Package scheduler implements component C4. See SPEC_FULL.md §6: the
// worker pool is bounded to an experiment's declared parallelism using
// golang.org/x/sync/errgroup, replacing a hand-rolled channel pool while
// preserving the ordering guarantees of §5 — sequential persistence at
// parallelism=1, at-most-observed-at-persist-time counters otherwise.
package scheduler
