package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var reportKind string
var reportTimeout float64

var reportCmd = &cobra.Command{
	Use:   "report <experiment-id>",
	Short: "Emit a named plot series (cactus, ecdf, survival, profile, scatter, heatmap, par2bar) as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportKind, "kind", "cactus", "series kind: cactus|ecdf|survival|profile|scatter|heatmap|par2bar")
	reportCmd.Flags().Float64Var(&reportTimeout, "timeout", 60, "timeout in seconds, used by ecdf/survival/par2bar")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	expID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid experiment id %q: %w", args[0], err)
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var payload interface{}
	switch reportKind {
	case "cactus":
		payload, err = a.facade.Cactus(expID)
	case "ecdf":
		payload, err = a.facade.ECDF(expID, reportTimeout)
	case "survival":
		payload, err = a.facade.Survival(expID, reportTimeout)
	case "profile":
		payload, err = a.facade.PerformanceProfile(expID)
	case "scatter":
		payload, err = a.facade.Scatter(expID)
	case "heatmap":
		payload, err = a.facade.Heatmap(expID)
	case "par2bar":
		payload, err = a.facade.PAR2Bar(expID, reportTimeout)
	default:
		return fmt.Errorf("unknown report kind %q", reportKind)
	}
	if err != nil {
		return fmt.Errorf("failed to build %s series: %w", reportKind, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
