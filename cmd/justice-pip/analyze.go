package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sspedowski/justice-document-pip/internal/archive"
	"github.com/sspedowski/justice-document-pip/internal/contradiction"
	"github.com/sspedowski/justice-document-pip/internal/export"
	"github.com/sspedowski/justice-document-pip/internal/report"
	"github.com/sspedowski/justice-document-pip/internal/rules"
	"github.com/sspedowski/justice-document-pip/pkg/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run contradiction detection over a statement set",
	Long: `Analyze evaluates every registered rule against a statement set and
writes the ranked contradiction records. Statements come from --input,
from a previously loaded archive case via --case, or from built-in demo
data via --demo.

The command exits non-zero when any rule fails during the run, after
writing the partial results.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	demo, _ := cmd.Flags().GetBool("demo")
	input, _ := cmd.Flags().GetString("input")
	caseID, _ := cmd.Flags().GetString("case")
	outputDir, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	metaPath, _ := cmd.Flags().GetString("rule-meta")
	salient, _ := cmd.Flags().GetStringSlice("salient-party")
	archiveDir, _ := cmd.Flags().GetString("archive-dir")

	ctx := context.Background()

	var statements []models.Statement
	var err error
	switch {
	case demo:
		fmt.Println("Running analysis with demo data...")
		statements = demoStatements()
	case input != "":
		statements, err = readStatementsFile(input)
		if err != nil {
			return err
		}
	case caseID != "":
		arch, err := archive.Open(archiveDir)
		if err != nil {
			return err
		}
		defer arch.Close()
		statements, err = arch.Statements(ctx, caseID)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("one of --demo, --input, or --case must be specified")
	}

	meta := contradiction.DefaultMetaTable()
	if metaPath != "" {
		meta, err = contradiction.LoadMetaTable(metaPath)
		if err != nil {
			return err
		}
	}

	scorer := contradiction.NewScorer(meta, salient)
	pipeline := contradiction.NewPipeline(rules.DefaultRegistry(), scorer, contradiction.DefaultConfig())

	fmt.Printf("Processing %d statements...\n", len(statements))
	result := pipeline.Run(ctx, statements)

	var sinks []contradiction.Sink
	switch format {
	case "json", "":
		sinks = append(sinks, export.NewJSONSink(filepath.Join(outputDir, "contradictions.json")))
	case "csv":
		sinks = append(sinks, export.NewCSVSink(filepath.Join(outputDir, "contradictions.csv")))
	case "both":
		sinks = append(sinks,
			export.NewJSONSink(filepath.Join(outputDir, "contradictions.json")),
			export.NewCSVSink(filepath.Join(outputDir, "contradictions.csv")))
	default:
		return fmt.Errorf("unsupported format %q: use json, csv, or both", format)
	}

	for _, sink := range sinks {
		if err := sink.Write(result.Records, result.Metadata); err != nil {
			return err
		}
	}

	// Save to the archive when analyzing an archived case.
	if caseID != "" {
		arch, err := archive.Open(archiveDir)
		if err != nil {
			return err
		}
		defer arch.Close()
		runID, err := arch.SaveRun(ctx, caseID, result.Records, result.Metadata)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s saved to archive\n", runID)
	}

	summary := report.Summarize(result.Records)
	fmt.Printf("Found %d contradictions (%d high priority)\n",
		result.Metadata.NumContradictions, summary.HighPriority)

	if result.Metadata.NumErrors > 0 {
		fmt.Printf("WARNING: %d engine errors occurred:\n", result.Metadata.NumErrors)
		for _, rec := range result.Records {
			if rec.IsEngineError() {
				fmt.Printf("  - %s\n", rec.Rationale)
			}
		}
		return fmt.Errorf("%d rule(s) failed during analysis", result.Metadata.NumErrors)
	}

	fmt.Printf("Analysis complete. Results written to %s/\n", outputDir)
	return nil
}

func init() {
	analyzeCmd.Flags().Bool("demo", false, "run with built-in demo data")
	analyzeCmd.Flags().String("input", "", "input statements JSON file")
	analyzeCmd.Flags().String("case", "", "analyze a case previously loaded into the archive")
	analyzeCmd.Flags().String("output", "public/data", "output directory for result files")
	analyzeCmd.Flags().String("format", "json", "output format: json, csv, or both")
	analyzeCmd.Flags().String("rule-meta", "", "YAML file overriding rule titles and weights")
	analyzeCmd.Flags().StringSlice("salient-party", nil, "party name whose involvement raises scores (repeatable)")

	rootCmd.AddCommand(analyzeCmd)
}
