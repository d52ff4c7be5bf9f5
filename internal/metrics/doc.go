// Package metrics implements component C6: PAR-k scores, the virtual best
// solver and the solve matrix, computed over an experiment's stored runs.
package metrics
