package solver

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strconv"
)

// runProbe executes argv and returns its combined output, used only for
// version detection (never for scored runs — those go through the run
// executor in package runner).
func runProbe(ctx context.Context, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	// Many solvers exit non-zero on --version/--help; the output is what
	// matters, not the exit code.
	_ = cmd.Run()
	return buf.Bytes(), nil
}

// DetectVersion implements Adapter.DetectVersion using the real process
// runner. It is safe to call concurrently: the last writer to
// detectedVersion wins, and every writer computes the same string for a
// fixed binary (§5 "Version-detection cache... idempotent").
func (b *BaseAdapter) DetectVersion(ctx context.Context) (string, error) {
	return b.detectVersionWith(ctx, runProbe)
}

var commonStatPatterns = map[string]*regexp.Regexp{
	"conflicts":    regexp.MustCompile(`(?i)conflicts\s*[:\s]+(\d+)`),
	"decisions":    regexp.MustCompile(`(?i)decisions\s*[:\s]+(\d+)`),
	"propagations": regexp.MustCompile(`(?i)propagations\s*[:\s]+(\d+)`),
	"restarts":     regexp.MustCompile(`(?i)restarts\s*[:\s]+(\d+)`),
}

// parseCommonStats extracts the four counters every competition solver's
// stderr/stdout banner tends to report, in the "key: value" or "key value"
// shape the original Python base class's parse_stats regexes assumed.
// Adapters with a richer banner call this first and overlay adapter-specific
// fields afterwards.
func parseCommonStats(output []byte) Stats {
	var s Stats
	if m := commonStatPatterns["conflicts"].FindSubmatch(output); len(m) > 1 {
		s.Conflicts = parseInt64(m[1])
	}
	if m := commonStatPatterns["decisions"].FindSubmatch(output); len(m) > 1 {
		s.Decisions = parseInt64(m[1])
	}
	if m := commonStatPatterns["propagations"].FindSubmatch(output); len(m) > 1 {
		s.Propagations = parseInt64(m[1])
	}
	if m := commonStatPatterns["restarts"].FindSubmatch(output); len(m) > 1 {
		s.Restarts = parseInt64(m[1])
	}
	return s
}

func parseInt64(b []byte) *int64 {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
