package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpequegn/satbench/internal/progress"
	"github.com/jpequegn/satbench/internal/scheduler"
)

var (
	experimentName        string
	experimentDescription string
	experimentTimeout     int
	experimentMemLimit    int
	experimentParallelism int
	experimentSolverKeys  []string
	experimentInstanceIDs []int64
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Create, run and inspect benchmarking experiments",
}

var experimentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a pending experiment over a solver x instance Cartesian product",
	RunE:  runExperimentCreate,
}

var experimentStartCmd = &cobra.Command{
	Use:   "start <experiment-id>",
	Short: "Run every not-yet-recorded pair of an experiment, blocking until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE:  runExperimentStart,
}

var experimentStopCmd = &cobra.Command{
	Use:   "stop <experiment-id>",
	Short: "Cancel a running experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  runExperimentStop,
}

var experimentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every experiment",
	RunE:  runExperimentList,
}

var experimentStatusCmd = &cobra.Command{
	Use:   "status <experiment-id>",
	Short: "Show an experiment's current progress counters",
	Args:  cobra.ExactArgs(1),
	RunE:  runExperimentStatus,
}

func init() {
	experimentCreateCmd.Flags().StringVar(&experimentName, "name", "", "experiment name")
	experimentCreateCmd.Flags().StringVar(&experimentDescription, "description", "", "experiment description")
	experimentCreateCmd.Flags().IntVar(&experimentTimeout, "timeout", 60, "per-run timeout in seconds")
	experimentCreateCmd.Flags().IntVar(&experimentMemLimit, "memory-limit", 0, "per-run memory limit in MiB (0 = unbounded)")
	experimentCreateCmd.Flags().IntVar(&experimentParallelism, "parallel", 1, "number of runs to execute concurrently")
	experimentCreateCmd.Flags().StringSliceVar(&experimentSolverKeys, "solver", nil, "solver key to include (repeatable)")
	experimentCreateCmd.Flags().Int64SliceVar(&experimentInstanceIDs, "instance", nil, "instance id to include (repeatable)")
	_ = experimentCreateCmd.MarkFlagRequired("name")
	_ = experimentCreateCmd.MarkFlagRequired("solver")
	_ = experimentCreateCmd.MarkFlagRequired("instance")

	rootCmd.AddCommand(experimentCmd)
	experimentCmd.AddCommand(experimentCreateCmd, experimentStartCmd, experimentStopCmd, experimentListCmd, experimentStatusCmd)
}

func runExperimentCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	solverIDs := make([]int64, 0, len(experimentSolverKeys))
	for _, key := range experimentSolverKeys {
		v, err := a.registry.GetByKey(key)
		if err != nil {
			return fmt.Errorf("failed to resolve solver %s: %w", key, err)
		}
		if v == nil {
			return fmt.Errorf("no cataloged solver with key %s", key)
		}
		solverIDs = append(solverIDs, v.ID)
	}

	expID, err := a.facade.CreateExperiment(scheduler.Spec{
		Name:           experimentName,
		Description:    experimentDescription,
		TimeoutSeconds: experimentTimeout,
		MemoryLimitMiB: experimentMemLimit,
		Parallelism:    experimentParallelism,
		SolverIDs:      solverIDs,
		InstanceIDs:    experimentInstanceIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}
	logger.Info("experiment created", "id", expID, "name", experimentName)
	fmt.Println(expID)
	return nil
}

func runExperimentStart(cmd *cobra.Command, args []string) error {
	expID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid experiment id %q: %w", args[0], err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	events, token := a.facade.Subscribe(expID)
	defer a.facade.Unsubscribe(expID, token)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			switch ev.Kind {
			case progress.EventRunCompleted:
				fmt.Fprintf(os.Stderr, "  [%d/%d] completed (%d failed)\n", ev.Completed, ev.Total, ev.Failed)
			case progress.EventExperimentCompleted:
				fmt.Fprintln(os.Stderr, "  experiment finished")
			}
		}
	}()

	startErr := a.facade.StartExperiment(ctx, expID)
	a.facade.Unsubscribe(expID, token)
	<-done

	if startErr != nil {
		return fmt.Errorf("experiment %d did not complete cleanly: %w", expID, startErr)
	}
	return runExperimentStatus(cmd, args)
}

func runExperimentStop(cmd *cobra.Command, args []string) error {
	expID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid experiment id %q: %w", args[0], err)
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.facade.StopExperiment(expID); err != nil {
		return fmt.Errorf("failed to stop experiment %d: %w", expID, err)
	}
	fmt.Printf("stop requested for experiment %d\n", expID)
	return nil
}

func runExperimentList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	experiments, err := a.facade.Experiments()
	if err != nil {
		return fmt.Errorf("failed to list experiments: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCOMPLETED\tFAILED\tTOTAL")
	for _, e := range experiments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n", e.ID, e.Name, e.Status, e.Completed, e.Failed, e.Total)
	}
	return nil
}

func runExperimentStatus(cmd *cobra.Command, args []string) error {
	expID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid experiment id %q: %w", args[0], err)
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	exp, err := a.facade.Experiment(expID)
	if err != nil {
		return fmt.Errorf("failed to load experiment %d: %w", expID, err)
	}
	if exp == nil {
		return fmt.Errorf("no experiment with id %d", expID)
	}

	fmt.Printf("experiment %d (%s): %s\n", exp.ID, exp.Name, exp.Status)
	fmt.Printf("  completed=%d failed=%d total=%d\n", exp.Completed, exp.Failed, exp.Total)
	return nil
}
