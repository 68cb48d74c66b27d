package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func statement(t *testing.T, id, docID string, fields map[string]any) models.Statement {
	t.Helper()
	s, err := models.NewStatement(id, docID, fields)
	require.NoError(t, err)
	return s
}

func TestArchive_OpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	// Reopening an existing archive must not fail on schema creation.
	a, err = Open(dir)
	require.NoError(t, err)
	require.NoError(t, a.Close())
}

func TestArchive_StatementsRoundTrip(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	statements := []models.Statement{
		statement(t, "s1", "doc1", map[string]any{"type": "PRESENCE", "event_id": "evt1", "present": true}),
		statement(t, "s2", "", map[string]any{"type": "AMOUNT", "value": 5000.0, "currency": "USD"}),
	}

	require.NoError(t, a.LoadStatements(ctx, "case-1", statements))

	got, err := a.Statements(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, "doc1", got[0].DocumentID)
	assert.Equal(t, "evt1", got[0].Fields["event_id"])
	assert.Equal(t, true, got[0].Fields["present"])
	assert.Equal(t, 5000.0, got[1].Fields["value"])
}

func TestArchive_LoadStatementsReplaces(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	require.NoError(t, a.LoadStatements(ctx, "case-1", []models.Statement{
		statement(t, "s1", "", map[string]any{"event_id": "evt1"}),
		statement(t, "s2", "", map[string]any{"event_id": "evt1"}),
	}))
	require.NoError(t, a.LoadStatements(ctx, "case-1", []models.Statement{
		statement(t, "s3", "", map[string]any{"event_id": "evt2"}),
	}))

	got, err := a.Statements(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, got, 1, "a reload replaces the previous statement set")
	assert.Equal(t, "s3", got[0].ID)
}

func TestArchive_StatementsScopedByCase(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	require.NoError(t, a.LoadStatements(ctx, "case-1", []models.Statement{
		statement(t, "s1", "", map[string]any{"event_id": "evt1"}),
	}))
	require.NoError(t, a.LoadStatements(ctx, "case-2", []models.Statement{
		statement(t, "s9", "", map[string]any{"event_id": "evt9"}),
	}))

	got, err := a.Statements(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestArchive_SaveRunAndRecords(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	records := []models.Record{
		{
			ContradictionID: "aaaa111122223333",
			Rule:            "presence_absence_conflict",
			Severity:        models.SeverityMedium,
			GroupKey:        "evt1:Noel",
			Rationale:       "conflicting presence claims",
			Title:           "Presence vs Absence",
			SuggestedAction: "Re-interview",
			Score:           25,
			Confidence:      0.67,
			StatementA:      statement(t, "s1", "doc1", map[string]any{"event_id": "evt1", "present": true}),
			StatementB:      statement(t, "s2", "doc2", map[string]any{"event_id": "evt1", "present": false}),
		},
		{
			ContradictionID: "bbbb444455556666",
			Rule:            "event_date_disagreement",
			Severity:        models.SeverityHigh,
			GroupKey:        "evtX",
			Rationale:       "dates differ by 4 days",
			Score:           39,
			Confidence:      0.83,
			StatementA:      statement(t, "d1", "", map[string]any{"date": "2025-01-01"}),
			StatementB:      statement(t, "d2", "", map[string]any{"date": "2025-01-05"}),
		},
	}
	meta := models.RunMetadata{
		Timestamp:         time.Now().UTC(),
		RulesFingerprint:  "abcdef012345",
		NumStatements:     4,
		NumContradictions: 2,
	}

	runID, err := a.SaveRun(ctx, "case-1", records, meta)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	latest, err := a.LatestRunID(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, runID, latest)

	got, err := a.Records(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Stored rank order: score descending.
	assert.Equal(t, "bbbb444455556666", got[0].ContradictionID)
	assert.Equal(t, models.SeverityHigh, got[0].Severity)
	assert.Equal(t, "aaaa111122223333", got[1].ContradictionID)
	assert.Equal(t, "Presence vs Absence", got[1].Title)
	assert.Equal(t, "s1", got[1].StatementA.ID)
	assert.Equal(t, true, got[1].StatementA.Fields["present"])
}

func TestArchive_LatestRunID_Empty(t *testing.T) {
	a := openArchive(t)

	id, err := a.LatestRunID(context.Background(), "case-never-analyzed")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestArchive_LatestRunID_PicksNewest(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	first := models.RunMetadata{Timestamp: time.Now().UTC().Add(-time.Hour), RulesFingerprint: "abcdef012345"}
	second := models.RunMetadata{Timestamp: time.Now().UTC(), RulesFingerprint: "abcdef012345"}

	_, err := a.SaveRun(ctx, "case-1", nil, first)
	require.NoError(t, err)
	secondID, err := a.SaveRun(ctx, "case-1", nil, second)
	require.NoError(t, err)

	latest, err := a.LatestRunID(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, secondID, latest)
}

func TestArchive_Suppressions(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	require.NoError(t, a.Suppress(ctx, "case-1", "bbbb444455556666"))
	require.NoError(t, a.Suppress(ctx, "case-1", "aaaa111122223333"))
	require.NoError(t, a.Suppress(ctx, "case-1", "aaaa111122223333"), "suppressing twice is a no-op")

	ids, err := a.Suppressions(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa111122223333", "bbbb444455556666"}, ids)

	require.NoError(t, a.Unsuppress(ctx, "case-1", "aaaa111122223333"))

	ids, err = a.Suppressions(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bbbb444455556666"}, ids)
}

func TestArchive_Annotations(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	require.NoError(t, a.Annotate(ctx, "case-1", "aaaa111122223333", "checked against exhibit 4"))
	require.NoError(t, a.Annotate(ctx, "case-1", "aaaa111122223333", "confirmed with the clerk"))

	annotations, err := a.Annotations(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, annotations, 1, "annotating again replaces the note")
	assert.Equal(t, "confirmed with the clerk", annotations[0].Note)
	assert.NotEmpty(t, annotations[0].UpdatedAt)
}
