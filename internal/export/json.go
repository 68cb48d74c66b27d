// Package export provides file sinks for the contradiction pipeline. Field
// names in the serialized output follow the record contract verbatim so
// downstream report generators keep working across runs.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// JSONSink writes a run's records and metadata to a single JSON document.
type JSONSink struct {
	path string
}

// NewJSONSink creates a sink writing to the given file path.
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

type jsonDocument struct {
	Metadata       models.RunMetadata `json:"metadata"`
	Contradictions []models.Record    `json:"contradictions"`
}

// Write serializes the run. The parent directory is created if missing.
func (s *JSONSink) Write(records []models.Record, meta models.RunMetadata) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	doc := jsonDocument{Metadata: meta, Contradictions: records}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
