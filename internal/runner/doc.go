// Package runner implements component C3. Execute spawns the solver in a
// private process group, watchdogs RSS and wall
// time at ≥5 Hz, classifies the outcome from stdout/exit-code with the
// watchdog's verdict as a fallback, and never propagates an error except for
// caller-supplied context cancellation.
package runner
