package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpequegn/satbench/internal/bootstrap"
)

var (
	analyzeTimeout    float64
	compareSolverAKey string
	compareSolverBKey string
	bootstrapSamples  int
	bootstrapSeed     int64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute metrics and statistical comparisons over a finished experiment",
}

var analyzeSummaryCmd = &cobra.Command{
	Use:   "summary <experiment-id>",
	Short: "Print per-solver PAR-2, solve rate and the virtual best solver",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeSummary,
}

var analyzeCompareCmd = &cobra.Command{
	Use:   "compare <experiment-id>",
	Short: "Run paired significance tests and a bootstrap CI between two solvers",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeCompare,
}

func init() {
	analyzeSummaryCmd.Flags().Float64Var(&analyzeTimeout, "timeout", 60, "timeout in seconds used for PAR-2")

	analyzeCompareCmd.Flags().Float64Var(&analyzeTimeout, "timeout", 60, "timeout in seconds used for PAR-2")
	analyzeCompareCmd.Flags().StringVar(&compareSolverAKey, "solver-a", "", "first solver key")
	analyzeCompareCmd.Flags().StringVar(&compareSolverBKey, "solver-b", "", "second solver key")
	analyzeCompareCmd.Flags().IntVar(&bootstrapSamples, "bootstrap-samples", 10000, "number of bootstrap resamples")
	analyzeCompareCmd.Flags().Int64Var(&bootstrapSeed, "seed", 1, "bootstrap RNG seed")
	_ = analyzeCompareCmd.MarkFlagRequired("solver-a")
	_ = analyzeCompareCmd.MarkFlagRequired("solver-b")

	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeSummaryCmd, analyzeCompareCmd)
}

func runAnalyzeSummary(cmd *cobra.Command, args []string) error {
	expID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid experiment id %q: %w", args[0], err)
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ranking, err := a.facade.Ranking(expID, analyzeTimeout)
	if err != nil {
		return fmt.Errorf("failed to rank solvers: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSOLVER\tSOLVED\tTOTAL\tPAR-2\tPAR-10\tMEAN WALL (s)")
	for i, s := range ranking {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.3f\t%.3f\t%.3f\n", i+1, s.SolverKey, s.Solved, s.Total, s.PAR2, s.PAR10, s.SolvedTime.Mean)
	}
	w.Flush()

	vbs, err := a.facade.VBS(expID, analyzeTimeout)
	if err != nil {
		return fmt.Errorf("failed to compute virtual best solver: %w", err)
	}
	fmt.Printf("\nvirtual best solver: solved=%d/%d par2=%.3f\n", vbs.Solved, vbs.Total, vbs.PAR2)
	return nil
}

func runAnalyzeCompare(cmd *cobra.Command, args []string) error {
	expID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid experiment id %q: %w", args[0], err)
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	solverA, err := a.registry.GetByKey(compareSolverAKey)
	if err != nil || solverA == nil {
		return fmt.Errorf("failed to resolve solver %s: %w", compareSolverAKey, err)
	}
	solverB, err := a.registry.GetByKey(compareSolverBKey)
	if err != nil || solverB == nil {
		return fmt.Errorf("failed to resolve solver %s: %w", compareSolverBKey, err)
	}

	cfg := bootstrap.Config{B: bootstrapSamples, Level: 0.95, Seed: bootstrapSeed}
	result, err := a.facade.CompareSolvers(expID, solverA.ID, solverB.ID, analyzeTimeout, cfg)
	if err != nil {
		return fmt.Errorf("failed to compare solvers: %w", err)
	}

	fmt.Printf("%s vs %s over %d common instances\n", result.SolverAKey, result.SolverBKey, result.N)
	fmt.Printf("  Wilcoxon signed-rank: p=%.4f\n", result.Wilcoxon.PValue)
	fmt.Printf("  sign test:            p=%.4f\n", result.SignTest.PValue)
	fmt.Printf("  Cohen's d:            %.4f\n", result.CohensD.CohensD)
	fmt.Printf("  mean PAR-2 diff:      %.4f [%.4f, %.4f] (significant=%v)\n",
		result.MeanDiff, result.CILow, result.CIHigh, result.Significant)
	return nil
}
