// Package stats implements component C7: the statistical test suite run
// over per-solver PAR-k (or other metric) samples — Wilcoxon signed-rank,
// Mann-Whitney/Vargha-Delaney A, the sign test, Friedman + Kendall's W with
// Nemenyi/Conover post-hoc tests, Bonferroni/Holm/Benjamini-Hochberg
// p-value corrections, Cohen's d, and normality diagnostics. Every test
// here is a pure function of its input samples: degenerate input (fewer
// than two samples, all-equal values) returns a documented sentinel
// result, never an error (§7).
package stats

// PairedTestResult is the outcome of a two-sample test over matched pairs
// (Wilcoxon signed-rank, sign test).
type PairedTestResult struct {
	Statistic float64
	PValue    float64
	N         int
	Valid     bool // false when N too small (ties removed every pair) to test
}

// RankSumResult is the outcome of an unpaired rank-based test (Mann-Whitney)
// plus its companion Vargha-Delaney A effect size.
type RankSumResult struct {
	UStatistic float64
	PValue     float64
	VDA        float64 // Vargha-Delaney A: P(sample1 > sample2) + .5*P(tie)
	N1, N2     int
}

// FriedmanResult is the outcome of the Friedman rank test across k
// solvers over n instances (§4.7's "omnibus" test).
type FriedmanResult struct {
	Statistic   float64
	PValue      float64
	DF          int
	KendallsW   float64
	K, N        int
	MeanRanks   []float64 // index i -> mean rank of solver i, lower is better
}

// PostHocPair is one pairwise comparison from a post-hoc test.
type PostHocPair struct {
	I, J        int // indices into the Friedman result's solver ordering
	PValue      float64
	AdjustedP   float64
	Significant bool
}

// EffectSize is Cohen's d between two independent samples.
type EffectSize struct {
	CohensD float64
	N1, N2  int
}

// NormalityReport summarises a sample's departure from normality via
// skewness and excess kurtosis (§5.1's supplemented normality diagnostic).
type NormalityReport struct {
	N              int
	Skewness       float64
	ExcessKurtosis float64
	LikelyNormal   bool
}

// CorrectionMethod selects a multiple-comparison p-value adjustment.
type CorrectionMethod int

const (
	Bonferroni CorrectionMethod = iota
	Holm
	BenjaminiHochberg
)
