package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// readStatementsFile loads statements from a JSON array of flat objects.
// Each object carries an "id" key and optionally "source_document_id";
// every other key lands in the open field map.
func readStatementsFile(path string) ([]models.Statement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	statements := make([]models.Statement, 0, len(raw))
	for i, fields := range raw {
		id, _ := fields["id"].(string)
		documentID, _ := fields["source_document_id"].(string)
		delete(fields, "id")
		delete(fields, "source_document_id")

		stmt, err := models.NewStatement(id, documentID, fields)
		if err != nil {
			return nil, fmt.Errorf("statement %d in %s: %w", i, path, err)
		}
		statements = append(statements, stmt)
	}

	return statements, nil
}

// demoStatements returns a small statement set that trips every rule type.
func demoStatements() []models.Statement {
	raw := []map[string]any{
		// Presence/absence conflict
		{"type": "PRESENCE", "event_id": "evt1", "party": "Noel", "present": true, "id": "s1"},
		{"type": "PRESENCE", "event_id": "evt1", "party": "Noel", "present": false, "id": "s2"},

		// Event date disagreement
		{"type": "EVENT_DATE", "event_id": "evtX", "date": "2025-01-01", "id": "d1"},
		{"type": "EVENT_DATE", "event_id": "evtX", "date": "2025-01-05", "id": "d2"},

		// Numeric amount mismatch
		{"type": "AMOUNT", "event_id": "evt$", "value": 5000.0, "currency": "USD", "id": "a1"},
		{"type": "AMOUNT", "event_id": "evt$", "value": 12000.0, "currency": "USD", "id": "a2"},

		// Status flip without transition
		{"type": "STATUS", "target": "motion1", "status": "granted", "id": "t1"},
		{"type": "STATUS", "target": "motion1", "status": "denied", "id": "t2"},

		// Location mismatch
		{"type": "LOCATION", "event_id": "evtL", "location": "Los Angeles", "id": "l1"},
		{"type": "LOCATION", "event_id": "evtL", "location": "San Diego", "id": "l2"},

		// Additional test cases
		{"type": "PRESENCE", "event_id": "evt2", "party": "Andy Maki", "present": true, "id": "s3"},
		{"type": "STATUS", "case_id": "case42", "status": "open", "id": "t3"},
		{"type": "STATUS", "case_id": "case42", "status": "closed", "id": "t4"},
	}

	statements := make([]models.Statement, 0, len(raw))
	for _, fields := range raw {
		id := fields["id"].(string)
		delete(fields, "id")
		stmt, _ := models.NewStatement(id, "", fields)
		statements = append(statements, stmt)
	}
	return statements
}
