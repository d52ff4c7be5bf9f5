package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/model"
)

var (
	instanceFamily     string
	instanceDifficulty string
)

var instanceCmd = &cobra.Command{
	Use:   "instance",
	Short: "Manage cataloged CNF benchmark instances",
}

var instanceAddCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Catalogue one or more DIMACS CNF files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInstanceAdd,
}

var instanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged instances",
	RunE:  runInstanceList,
}

func init() {
	instanceAddCmd.Flags().StringVar(&instanceFamily, "family", "", "instance family label")
	instanceAddCmd.Flags().StringVar(&instanceDifficulty, "difficulty", "", "instance difficulty label")
	instanceListCmd.Flags().StringVar(&instanceFamily, "family", "", "filter by family")
	instanceListCmd.Flags().StringVar(&instanceDifficulty, "difficulty", "", "filter by difficulty")

	rootCmd.AddCommand(instanceCmd)
	instanceCmd.AddCommand(instanceAddCmd, instanceListCmd)
}

func runInstanceAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		cnf, err := model.ParseDIMACS(string(raw))
		if err != nil {
			logger.Warn("failed to parse DIMACS header, cataloguing with zero stats", "path", path, "error", err)
			cnf = &model.CNF{}
		}

		sum := sha256.Sum256(raw)
		inst := &catalog.Instance{
			Filename:   filepath.Base(path),
			Path:       path,
			Family:     instanceFamily,
			Difficulty: instanceDifficulty,
			SizeBytes:  int64(len(raw)),
			NumVars:    cnf.NumVars,
			NumClauses: len(cnf.Clauses),
			Checksum:   hex.EncodeToString(sum[:]),
		}
		if cnf.NumVars > 0 {
			inst.CVRatio = float64(len(cnf.Clauses)) / float64(cnf.NumVars)
		}

		id, err := a.store.AddInstance(inst)
		if err != nil {
			return fmt.Errorf("failed to add instance %s: %w", path, err)
		}
		logger.Info("cataloged instance", "id", id, "filename", inst.Filename)
		fmt.Printf("%d\t%s\n", id, inst.Filename)
	}
	return nil
}

func runInstanceList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	instances, err := a.store.ListInstances(catalog.InstanceFilter{
		Family:     instanceFamily,
		Difficulty: instanceDifficulty,
	})
	if err != nil {
		return fmt.Errorf("failed to list instances: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ID\tFILENAME\tFAMILY\tDIFFICULTY\tVARS\tCLAUSES")
	for _, i := range instances {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n", i.ID, i.Filename, i.Family, i.Difficulty, i.NumVars, i.NumClauses)
	}
	return nil
}
