package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

func sampleRun(t *testing.T) ([]models.Record, models.RunMetadata) {
	t.Helper()

	a, err := models.NewStatement("s1", "doc1", map[string]any{"event_id": "evt1", "present": true})
	require.NoError(t, err)
	b, err := models.NewStatement("s2", "doc2", map[string]any{"event_id": "evt1", "present": false})
	require.NoError(t, err)

	records := []models.Record{
		{
			ContradictionID: "aaaa111122223333",
			Rule:            "presence_absence_conflict",
			Severity:        models.SeverityMedium,
			GroupKey:        "evt1:Noel",
			Rationale:       "conflicting presence claims",
			Score:           25,
			Confidence:      0.67,
			StatementA:      a,
			StatementB:      b,
		},
		{
			ContradictionID: "bbbb444455556666",
			Rule:            "event_date_disagreement",
			Severity:        models.SeverityHigh,
			GroupKey:        "evtX",
			Rationale:       "dates differ by 4 days",
			Score:           39,
			Confidence:      0.83,
			StatementA:      a,
			StatementB:      b,
		},
	}

	meta := models.RunMetadata{
		Timestamp:         time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		RulesFingerprint:  "abcdef012345",
		NumStatements:     2,
		NumContradictions: 2,
	}
	return records, meta
}

func TestJSONSink_Write(t *testing.T) {
	records, meta := sampleRun(t)
	path := filepath.Join(t.TempDir(), "out", "contradictions.json")

	require.NoError(t, NewJSONSink(path).Write(records, meta))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Metadata       models.RunMetadata `json:"metadata"`
		Contradictions []models.Record    `json:"contradictions"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "abcdef012345", doc.Metadata.RulesFingerprint)
	assert.Equal(t, 2, doc.Metadata.NumContradictions)
	require.Len(t, doc.Contradictions, 2)
	assert.Equal(t, "aaaa111122223333", doc.Contradictions[0].ContradictionID)
	assert.Equal(t, 39.0, doc.Contradictions[1].Score)
	assert.Equal(t, "s1", doc.Contradictions[0].StatementA.ID)
}

func TestJSONSink_EmptyRun(t *testing.T) {
	_, meta := sampleRun(t)
	path := filepath.Join(t.TempDir(), "contradictions.json")

	require.NoError(t, NewJSONSink(path).Write(nil, meta))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "metadata")
	assert.Contains(t, doc, "contradictions")
}

func TestCSVSink_Write(t *testing.T) {
	records, meta := sampleRun(t)
	path := filepath.Join(t.TempDir(), "out", "contradictions.csv")

	require.NoError(t, NewCSVSink(path).Write(records, meta))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"contradiction_id", "rule", "severity", "group_key", "score",
		"confidence", "rationale", "statement_a_id", "statement_b_id",
	}, rows[0])

	assert.Equal(t, []string{
		"aaaa111122223333", "presence_absence_conflict", "medium", "evt1:Noel",
		"25.00", "0.67", "conflicting presence claims", "s1", "s2",
	}, rows[1])
	assert.Equal(t, "bbbb444455556666", rows[2][0])
}

func TestCSVSink_HeaderOnlyForEmptyRun(t *testing.T) {
	_, meta := sampleRun(t)
	path := filepath.Join(t.TempDir(), "contradictions.csv")

	require.NoError(t, NewCSVSink(path).Write(nil, meta))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "contradiction_id", rows[0][0])
}
