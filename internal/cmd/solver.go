package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var solverCmd = &cobra.Command{
	Use:   "solver",
	Short: "Inspect and manage cataloged solvers",
}

var solverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every cataloged solver and its current readiness",
	RunE:  runSolverList,
}

var solverCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Print the feature/capability comparison matrix across all solvers",
	RunE:  runSolverCompare,
}

var solverInstallCmd = &cobra.Command{
	Use:   "install <key>",
	Short: "Run a solver adapter's install routine",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolverInstall,
}

func init() {
	rootCmd.AddCommand(solverCmd)
	solverCmd.AddCommand(solverListCmd, solverCompareCmd, solverInstallCmd)
}

func runSolverList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	views, err := a.registry.List()
	if err != nil {
		return fmt.Errorf("failed to list solvers: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ID\tKEY\tNAME\tCATEGORY\tREADY")
	for _, v := range views {
		ready := "no"
		if v.Ready {
			ready = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.Key, v.Name, v.Category, ready)
	}
	return nil
}

func runSolverCompare(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	views, err := a.registry.CompareAll()
	if err != nil {
		return fmt.Errorf("failed to build comparison matrix: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "KEY\tPREPROCESS\tINPROCESS\tPARALLEL\tINCREMENTAL\tFEATURES")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%v\t%v\t%v\t%v\t%v\n",
			v.Key, v.Capabilities.Preprocessing, v.Capabilities.Inprocessing,
			v.Capabilities.Parallel, v.Capabilities.Incremental, v.Features)
	}
	return nil
}

func runSolverInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	key := args[0]
	result, err := a.registry.Install(context.Background(), key)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", key, err)
	}
	if !result.Success {
		logger.Error("solver install failed", "key", key, "message", result.Message)
		return fmt.Errorf("install of %s did not succeed: %s", key, result.Message)
	}
	logger.Info("solver installed", "key", key, "version", result.DetectedVersion)
	fmt.Printf("installed %s (version %s)\n", key, result.DetectedVersion)
	return nil
}
