package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpequegn/satbench/internal/model"
)

var modelOutputPath string

var modelCompileCmd = &cobra.Command{
	Use:   "model-compile <source>",
	Short: "Compile a modelling-language source file to DIMACS CNF",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelCompile,
}

func init() {
	modelCompileCmd.Flags().StringVarP(&modelOutputPath, "output", "o", "", "output path (default: stdout)")
	rootCmd.AddCommand(modelCompileCmd)
}

func runModelCompile(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	m, err := model.Parse(string(src))
	if err != nil {
		return fmt.Errorf("failed to parse model: %w", err)
	}
	cnf, err := model.Compile(m)
	if err != nil {
		return fmt.Errorf("failed to compile model: %w", err)
	}

	out := cnf.String()
	if modelOutputPath == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(modelOutputPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", modelOutputPath, err)
	}
	logger.Info("compiled model", "source", args[0], "output", modelOutputPath, "vars", cnf.NumVars, "clauses", len(cnf.Clauses))
	return nil
}
