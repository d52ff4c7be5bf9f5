// Package catalog implements component C5: the durable mapping of solvers,
// instances, experiments and runs.
//
// It is deliberately the only component with shared mutable state (§5,
// "Shared-resource policy"). Everything else either owns private state
// (the run executor's process handle, the progress bus's channel) or reads
// a point-in-time snapshot through the Store interface here.
//
// RecordRun folds the write described by §4.5 ("addRun must be atomic with
// updateExperiment... from the scheduler's point of view") into a single
// transaction, rather than exposing the two writes as separate calls the
// scheduler has to sequence itself.
package catalog
