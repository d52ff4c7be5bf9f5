package solver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jpequegn/satbench/internal/catalog"
)

// minisatAdapter is the reference CDCL implementation: two-watched
// literals, VSIDS, no modern inprocessing.
type minisatAdapter struct{ BaseAdapter }

// NewMiniSat builds the MiniSat adapter, expecting its binary at execPath
// (e.g. "/usr/bin/minisat" or a solver-directory build output).
func NewMiniSat(execPath string) Adapter {
	return &minisatAdapter{BaseAdapter{
		key:            "minisat",
		name:           "MiniSat",
		defaultVersion: "2.2.0",
		description:    "Minimalistic reference CDCL solver with two-watched literals and VSIDS.",
		category:       catalog.CategoryEducational,
		features:       []string{"CDCL", "Conflict clause learning", "VSIDS", "Two-watched literals", "Phase saving"},
		capabilities:   catalog.Capabilities{Incremental: true},
		executablePath: execPath,
		versionFlags:   []string{"--help"},
		versionPattern: regexp.MustCompile(`(?i)MiniSat\s+([\d.]+)`),
	}}
}

func (a *minisatAdapter) BuildCommand(cnfPath string) []string {
	return []string{a.executablePath, cnfPath}
}

func (a *minisatAdapter) ParseStats(stdout []byte) Stats {
	return parseCommonStats(stdout)
}

func (a *minisatAdapter) Install(ctx context.Context) InstallResult {
	return probeOnlyInstall(a.BaseAdapter)
}

// cadicalAdapter is a modern competition-grade solver with chronological
// backtracking and inprocessing.
type cadicalAdapter struct{ BaseAdapter }

func NewCaDiCaL(execPath string) Adapter {
	return &cadicalAdapter{BaseAdapter{
		key:            "cadical",
		name:           "CaDiCaL",
		defaultVersion: "2.1.3",
		description:    "Competition-grade CDCL solver with chronological backtracking and inprocessing.",
		category:       catalog.CategoryCompetition,
		features:       []string{"CDCL", "Chronological backtracking", "Inprocessing", "Vivification"},
		capabilities:   catalog.Capabilities{Preprocessing: true, Inprocessing: true, Incremental: true},
		executablePath: execPath,
		versionFlags:   []string{"--version"},
		versionPattern: regexp.MustCompile(`([\d.]+)`),
	}}
}

func (a *cadicalAdapter) BuildCommand(cnfPath string) []string {
	return []string{a.executablePath, cnfPath}
}

func (a *cadicalAdapter) ParseStats(stdout []byte) Stats {
	s := parseCommonStats(stdout)
	if m := regexp.MustCompile(`(?i)learned\s*[:\s]+(\d+)`).FindSubmatch(stdout); len(m) > 1 {
		s.LearntClauses = parseInt64(m[1])
	}
	return s
}

func (a *cadicalAdapter) Install(ctx context.Context) InstallResult {
	return probeOnlyInstall(a.BaseAdapter)
}

// kissatAdapter is the fastest single-threaded competition solver in this
// catalogue, with heavy preprocessing/inprocessing.
type kissatAdapter struct{ BaseAdapter }

func NewKissat(execPath string) Adapter {
	return &kissatAdapter{BaseAdapter{
		key:            "kissat",
		name:           "Kissat",
		defaultVersion: "4.0.4",
		description:    "Competition-winning single-threaded CDCL solver with aggressive preprocessing.",
		category:       catalog.CategoryCompetition,
		features:       []string{"CDCL", "Preprocessing", "Inprocessing", "Bounded variable elimination"},
		capabilities:   catalog.Capabilities{Preprocessing: true, Inprocessing: true},
		executablePath: execPath,
		versionFlags:   []string{"--version"},
		versionPattern: regexp.MustCompile(`([\d.]+)`),
	}}
}

func (a *kissatAdapter) BuildCommand(cnfPath string) []string {
	return []string{a.executablePath, cnfPath}
}

func (a *kissatAdapter) ParseStats(stdout []byte) Stats {
	s := parseCommonStats(stdout)
	if m := regexp.MustCompile(`(?i)reduce(?:d|s)?\s*[:\s]+(\d+)`).FindSubmatch(stdout); len(m) > 1 {
		s.DeletedClauses = parseInt64(m[1])
	}
	return s
}

func (a *kissatAdapter) Install(ctx context.Context) InstallResult {
	return probeOnlyInstall(a.BaseAdapter)
}

// cryptoMiniSatAdapter adds XOR reasoning and Gaussian elimination on top
// of CDCL, and is the only built-in adapter declaring Parallel support.
type cryptoMiniSatAdapter struct{ BaseAdapter }

func NewCryptoMiniSat(execPath string) Adapter {
	return &cryptoMiniSatAdapter{BaseAdapter{
		key:            "cryptominisat",
		name:           "CryptoMiniSat",
		defaultVersion: "5.11.21",
		description:    "CDCL solver with XOR reasoning and Gaussian elimination, tuned for cryptographic instances.",
		category:       catalog.CategoryCompetition,
		features:       []string{"CDCL", "XOR reasoning", "Gaussian elimination", "Multi-threading"},
		capabilities:   catalog.Capabilities{Preprocessing: true, Parallel: true, Incremental: true},
		executablePath: execPath,
		versionFlags:   []string{"--version"},
		versionPattern: regexp.MustCompile(`([\d.]+)`),
	}}
}

func (a *cryptoMiniSatAdapter) BuildCommand(cnfPath string) []string {
	return []string{a.executablePath, cnfPath}
}

func (a *cryptoMiniSatAdapter) ParseStats(stdout []byte) Stats {
	return parseCommonStats(stdout)
}

func (a *cryptoMiniSatAdapter) Install(ctx context.Context) InstallResult {
	return probeOnlyInstall(a.BaseAdapter)
}

// probeOnlyInstall is shared by every built-in adapter: this repository
// does not fetch or build third-party solver source (solvers are black-box
// executables per spec.md's non-goals), so "install" is a post-condition
// probe against a binary the operator already placed on disk. The
// {success, message, detectedVersion?, diagnosticLog} contract from §4.1 is
// still honoured so a future adapter backed by a real builder can plug in
// without changing callers.
func probeOnlyInstall(b BaseAdapter) InstallResult {
	if err := b.Probe(); err != nil {
		return InstallResult{
			Success:       false,
			Message:       fmt.Sprintf("%s not found at %s", b.name, b.executablePath),
			DiagnosticLog: err.Error(),
		}
	}
	version, err := b.DetectVersion(context.Background())
	if err != nil {
		version = b.defaultVersion
	}
	return InstallResult{
		Success:         true,
		Message:         fmt.Sprintf("%s is already installed at %s", b.name, b.executablePath),
		DetectedVersion: version,
	}
}
