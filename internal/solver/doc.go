// Package solver implements the catalogue of SAT binaries (C1 adapter, C2
// registry).
//
// Discover assigns each adapter a stable numeric id — honouring a reserved
// legacy-id table for the four built-in solvers — and persists its metadata
// to the catalogue store. Readiness (Probe) is always computed live against
// the filesystem; it is never cached in storage, since a binary can appear
// or disappear between two calls to List.
package solver
