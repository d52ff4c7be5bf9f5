// Package solver implements components C1 (solver adapter) and C2 (solver
// registry): the catalogue of installable SAT binaries, their execution
// contract, and stats-parsing.
package solver

import (
	"context"
	"errors"
	"os"
	"regexp"

	"github.com/jpequegn/satbench/internal/catalog"
)

// ErrNotInstalled is returned by Adapter.Probe when the adapter's binary is
// absent or not executable (§4.1).
var ErrNotInstalled = errors.New("solver not installed")

// Stats are the solver-internal counters parsed from stdout (§3's "parsed
// solver statistics"). Fields are nil when the adapter's output didn't
// report them.
type Stats struct {
	Conflicts      *int64
	Decisions      *int64
	Propagations   *int64
	Restarts       *int64
	LearntClauses  *int64
	DeletedClauses *int64
	Extra          map[string]float64
}

// InstallResult is the outcome of Adapter.Install (§4.1).
type InstallResult struct {
	Success         bool
	Message         string
	DetectedVersion string
	DiagnosticLog   string
}

// Adapter represents one external SAT binary: metadata, installation,
// version probing, execution contract and output parsing (§4.1).
type Adapter interface {
	Key() string
	Name() string
	DefaultVersion() string
	Description() string
	Category() catalog.Category
	Features() []string
	Capabilities() catalog.Capabilities

	// ExecutablePath returns the path this adapter expects its binary at.
	ExecutablePath() string

	// Probe reports whether the binary exists and is runnable, returning
	// ErrNotInstalled otherwise.
	Probe() error

	// DetectVersion tries each of the adapter's version flags in order
	// against the binary, parses the first recognised output with its
	// version pattern, and memoises the answer for the process lifetime.
	DetectVersion(ctx context.Context) (string, error)

	// BuildCommand produces the argv to invoke the solver on cnfPath (§6).
	BuildCommand(cnfPath string) []string

	// ParseStats extracts solver-internal counters from captured stdout.
	ParseStats(stdout []byte) Stats

	// Install reports whether the adapter's binary is in place (§4.1). The
	// built-in adapters only probe for a binary already on disk; none of
	// them probes dependencies, fetches source or builds. It is async-safe:
	// the caller decides whether to run it in a goroutine.
	Install(ctx context.Context) InstallResult
}

// BaseAdapter provides the common plumbing (version probing/caching,
// executable-exists checks) that every concrete adapter embeds, mirroring
// how the original Python SolverPlugin base class centralises version
// detection and leaves build_command/parse_stats to subclasses.
type BaseAdapter struct {
	key             string
	name            string
	defaultVersion  string
	description     string
	category        catalog.Category
	features        []string
	capabilities    catalog.Capabilities
	executablePath  string
	versionFlags    []string
	versionPattern  *regexp.Regexp
	detectedVersion string
}

func (b *BaseAdapter) Key() string                         { return b.key }
func (b *BaseAdapter) Name() string                        { return b.name }
func (b *BaseAdapter) DefaultVersion() string               { return b.defaultVersion }
func (b *BaseAdapter) Description() string                  { return b.description }
func (b *BaseAdapter) Category() catalog.Category            { return b.category }
func (b *BaseAdapter) Features() []string                   { return b.features }
func (b *BaseAdapter) Capabilities() catalog.Capabilities    { return b.capabilities }
func (b *BaseAdapter) ExecutablePath() string                { return b.executablePath }

// Probe reports readiness: the executable must exist and carry an execute
// bit for at least one of owner/group/other.
func (b *BaseAdapter) Probe() error {
	info, err := os.Stat(b.executablePath)
	if err != nil {
		return ErrNotInstalled
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return ErrNotInstalled
	}
	return nil
}

// detectVersionWith runs the probing algorithm described in §4.1 using the
// supplied runner (swappable in tests), memoising the result on BaseAdapter.
func (b *BaseAdapter) detectVersionWith(ctx context.Context, run func(ctx context.Context, argv []string) ([]byte, error)) (string, error) {
	if b.detectedVersion != "" {
		return b.detectedVersion, nil
	}
	if err := b.Probe(); err != nil {
		return "", err
	}

	for _, flag := range b.versionFlags {
		out, err := run(ctx, []string{b.executablePath, flag})
		if err != nil {
			continue
		}
		if b.versionPattern != nil {
			if m := b.versionPattern.FindSubmatch(out); len(m) > 1 {
				b.detectedVersion = string(m[1])
				return b.detectedVersion, nil
			}
		}
	}
	b.detectedVersion = b.defaultVersion
	return b.detectedVersion, nil
}
