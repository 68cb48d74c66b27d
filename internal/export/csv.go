package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// csvHeader mirrors the record contract; nested statements flatten to their
// ids.
var csvHeader = []string{
	"contradiction_id", "rule", "severity", "group_key", "score",
	"confidence", "rationale", "statement_a_id", "statement_b_id",
}

// CSVSink writes a run's records as CSV rows.
type CSVSink struct {
	path string
}

// NewCSVSink creates a sink writing to the given file path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Write serializes the run. Metadata is not representable in CSV and is
// dropped; pair with the JSON sink when metadata matters.
func (s *CSVSink) Write(records []models.Record, _ models.RunMetadata) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ContradictionID,
			r.Rule,
			string(r.Severity),
			r.GroupKey,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
			r.Rationale,
			r.StatementA.ID,
			r.StatementB.ID,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing record %s: %w", r.ContradictionID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", s.path, err)
	}
	return nil
}
