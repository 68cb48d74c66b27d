package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sspedowski/justice-document-pip/internal/archive"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a statement file into the local case archive",
	Long: `Load reads a JSON statement file and stores it in the archive under a
case id, replacing any statements previously loaded for that case.
Analyze the case afterwards with: justice-pip analyze --case <id>`,
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	caseID, _ := cmd.Flags().GetString("case")
	archiveDir, _ := cmd.Flags().GetString("archive-dir")

	if input == "" || caseID == "" {
		return fmt.Errorf("--input and --case are required")
	}

	statements, err := readStatementsFile(input)
	if err != nil {
		return err
	}

	arch, err := archive.Open(archiveDir)
	if err != nil {
		return err
	}
	defer arch.Close()

	if err := arch.LoadStatements(context.Background(), caseID, statements); err != nil {
		return err
	}

	fmt.Printf("Loaded %d statements into case %s\n", len(statements), caseID)
	return nil
}

func init() {
	loadCmd.Flags().String("input", "", "input statements JSON file")
	loadCmd.Flags().String("case", "", "case id to load statements under")

	rootCmd.AddCommand(loadCmd)
}
