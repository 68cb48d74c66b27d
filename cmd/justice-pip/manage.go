package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sspedowski/justice-document-pip/internal/archive"
)

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Curate contradiction findings for an archived case",
	Long: `Manage lets a reviewer work through a case's latest analysis run:
list findings, suppress false positives, restore suppressed ones, and
attach notes. Curation never touches the stored run; a suppressed
contradiction reappears the moment it is unsuppressed.`,
	RunE: runManage,
}

func runManage(cmd *cobra.Command, args []string) error {
	caseID, _ := cmd.Flags().GetString("case")
	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	list, _ := cmd.Flags().GetBool("list")
	suppress, _ := cmd.Flags().GetString("suppress")
	unsuppress, _ := cmd.Flags().GetString("unsuppress")
	annotate, _ := cmd.Flags().GetString("annotate")
	note, _ := cmd.Flags().GetString("note")
	listNotes, _ := cmd.Flags().GetBool("annotations")

	if caseID == "" {
		return fmt.Errorf("--case is required")
	}

	arch, err := archive.Open(archiveDir)
	if err != nil {
		return err
	}
	defer arch.Close()

	ctx := context.Background()

	switch {
	case suppress != "":
		if err := arch.Suppress(ctx, caseID, suppress); err != nil {
			return err
		}
		fmt.Printf("Suppressed %s\n", suppress)
		return nil

	case unsuppress != "":
		if err := arch.Unsuppress(ctx, caseID, unsuppress); err != nil {
			return err
		}
		fmt.Printf("Unsuppressed %s\n", unsuppress)
		return nil

	case annotate != "":
		if note == "" {
			return fmt.Errorf("--note is required with --annotate")
		}
		if err := arch.Annotate(ctx, caseID, annotate, note); err != nil {
			return err
		}
		fmt.Printf("Annotated %s\n", annotate)
		return nil

	case listNotes:
		annotations, err := arch.Annotations(ctx, caseID)
		if err != nil {
			return err
		}
		if len(annotations) == 0 {
			fmt.Println("No annotations.")
			return nil
		}
		for _, a := range annotations {
			fmt.Printf("%s  %s\n  %s\n", a.ContradictionID, a.UpdatedAt, a.Note)
		}
		return nil

	case list:
		return listFindings(ctx, arch, caseID)

	default:
		return fmt.Errorf("specify one of --list, --suppress, --unsuppress, --annotate, or --annotations")
	}
}

func listFindings(ctx context.Context, arch *archive.Archive, caseID string) error {
	runID, err := arch.LatestRunID(ctx, caseID)
	if err != nil {
		return err
	}
	if runID == "" {
		return fmt.Errorf("no analysis run for case %s: run analyze --case %s first", caseID, caseID)
	}

	records, err := arch.Records(ctx, runID)
	if err != nil {
		return err
	}

	suppressedIDs, err := arch.Suppressions(ctx, caseID)
	if err != nil {
		return err
	}
	suppressed := make(map[string]bool, len(suppressedIDs))
	for _, id := range suppressedIDs {
		suppressed[id] = true
	}

	fmt.Printf("%-18s  %-6s  %-8s  %-28s  %s\n", "ID", "Score", "Severity", "Rule", "Rationale")
	fmt.Println(strings.Repeat("-", 110))

	for _, r := range records {
		marker := " "
		if suppressed[r.ContradictionID] {
			marker = "S"
		}
		rationale := r.Rationale
		if len(rationale) > 40 {
			rationale = rationale[:37] + "..."
		}
		fmt.Printf("%-16s %s  %6.1f  %-8s  %-28s  %s\n",
			r.ContradictionID, marker, r.Score, r.Severity, r.Rule, rationale)
	}

	fmt.Printf("\n%d findings, %d suppressed\n", len(records), len(suppressedIDs))
	return nil
}

func init() {
	manageCmd.Flags().String("case", "", "case id to curate")
	manageCmd.Flags().Bool("list", false, "list the latest run's findings")
	manageCmd.Flags().String("suppress", "", "contradiction id to suppress")
	manageCmd.Flags().String("unsuppress", "", "contradiction id to restore")
	manageCmd.Flags().String("annotate", "", "contradiction id to annotate (requires --note)")
	manageCmd.Flags().String("note", "", "note text for --annotate")
	manageCmd.Flags().Bool("annotations", false, "list all annotations for the case")

	rootCmd.AddCommand(manageCmd)
}
