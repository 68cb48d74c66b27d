package contradiction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sspedowski/justice-document-pip/internal/rules"
	"github.com/sspedowski/justice-document-pip/pkg/models"
)

func conflictingPresence(t *testing.T) []models.Statement {
	t.Helper()
	return []models.Statement{
		stmt(t, "s1", map[string]any{"type": "PRESENCE", "event_id": "evt1", "party": "Noel", "present": true}),
		stmt(t, "s2", map[string]any{"type": "PRESENCE", "event_id": "evt1", "party": "Noel", "present": false}),
	}
}

func TestPipeline_Run(t *testing.T) {
	p := NewPipeline(rules.DefaultRegistry(), nil, DefaultConfig())

	result := p.Run(context.Background(), conflictingPresence(t))

	require.Len(t, result.Records, 1)
	rec := result.Records[0]
	assert.Equal(t, "presence_absence_conflict", rec.Rule)
	assert.Len(t, rec.ContradictionID, 16)
	assert.Equal(t, "Presence vs Absence", rec.Title)
	assert.NotEmpty(t, rec.SuggestedAction)
	assert.Greater(t, rec.Score, 0.0)
	assert.Greater(t, rec.Confidence, 0.0)

	assert.Equal(t, 2, result.Metadata.NumStatements)
	assert.Equal(t, 1, result.Metadata.NumContradictions)
	assert.Equal(t, 0, result.Metadata.NumErrors)
	assert.Len(t, result.Metadata.RulesFingerprint, 12)
}

func TestPipeline_EmptyInput(t *testing.T) {
	p := NewPipeline(rules.DefaultRegistry(), nil, DefaultConfig())

	result := p.Run(context.Background(), nil)

	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.Metadata.NumStatements)
	assert.Equal(t, 0, result.Metadata.NumContradictions)
}

func TestPipeline_Deterministic(t *testing.T) {
	statements := []models.Statement{
		stmt(t, "s1", map[string]any{"type": "PRESENCE", "event_id": "evt1", "party": "Noel", "present": true}),
		stmt(t, "s2", map[string]any{"type": "PRESENCE", "event_id": "evt1", "party": "Noel", "present": false}),
		stmt(t, "d1", map[string]any{"type": "EVENT_DATE", "event_id": "evtX", "date": "2025-01-01"}),
		stmt(t, "d2", map[string]any{"type": "EVENT_DATE", "event_id": "evtX", "date": "2025-01-05"}),
		stmt(t, "a1", map[string]any{"type": "AMOUNT", "event_id": "evt$", "value": 5000.0, "currency": "USD"}),
		stmt(t, "a2", map[string]any{"type": "AMOUNT", "event_id": "evt$", "value": 12000.0, "currency": "USD"}),
		stmt(t, "t1", map[string]any{"type": "STATUS", "target": "motion1", "status": "granted"}),
		stmt(t, "t2", map[string]any{"type": "STATUS", "target": "motion1", "status": "denied"}),
	}

	p := NewPipeline(rules.DefaultRegistry(), nil, DefaultConfig())

	first := p.Run(context.Background(), statements)
	second := p.Run(context.Background(), statements)

	assert.Equal(t, first.Records, second.Records,
		"identical input and rule set must reproduce identical records")
	assert.Equal(t, first.Metadata.RulesFingerprint, second.Metadata.RulesFingerprint)
}

func TestPipeline_SortedByScoreThenID(t *testing.T) {
	statements := []models.Statement{
		stmt(t, "s1", map[string]any{"type": "PRESENCE", "event_id": "evt1", "party": "Noel", "present": true}),
		stmt(t, "s2", map[string]any{"type": "PRESENCE", "event_id": "evt1", "party": "Noel", "present": false}),
		stmt(t, "t1", map[string]any{"type": "STATUS", "target": "motion1", "status": "granted"}),
		stmt(t, "t2", map[string]any{"type": "STATUS", "target": "motion1", "status": "denied"}),
		stmt(t, "d1", map[string]any{"type": "EVENT_DATE", "event_id": "evtX", "date": "2025-01-01"}),
		stmt(t, "d2", map[string]any{"type": "EVENT_DATE", "event_id": "evtX", "date": "2025-01-05"}),
	}

	p := NewPipeline(rules.DefaultRegistry(), nil, DefaultConfig())
	result := p.Run(context.Background(), statements)

	require.Len(t, result.Records, 3)
	for i := 1; i < len(result.Records); i++ {
		prev, cur := result.Records[i-1], result.Records[i]
		if prev.Score == cur.Score {
			assert.Less(t, prev.ContradictionID, cur.ContradictionID)
		} else {
			assert.Greater(t, prev.Score, cur.Score)
		}
	}
}

func TestPipeline_PanickingRuleIsIsolated(t *testing.T) {
	registry := rules.NewRegistry()
	require.NoError(t, registry.Register(rules.Rule{
		Name: "exploding_rule",
		Eval: func([]models.Statement) []models.Candidate {
			panic("boom")
		},
	}))
	require.NoError(t, registry.Register(rules.Rule{
		Name: "presence_absence_conflict",
		Eval: rules.PresenceAbsenceConflict,
	}))

	p := NewPipeline(registry, nil, DefaultConfig())
	result := p.Run(context.Background(), conflictingPresence(t))

	require.Len(t, result.Records, 2, "healthy rules keep running after a failure")

	var errRec, okRec *models.Record
	for i := range result.Records {
		if result.Records[i].IsEngineError() {
			errRec = &result.Records[i]
		} else {
			okRec = &result.Records[i]
		}
	}

	require.NotNil(t, errRec, "failed rule must surface as a record")
	assert.Equal(t, models.SeverityLow, errRec.Severity)
	assert.Equal(t, 0.0, errRec.Score)
	assert.Equal(t, 0.0, errRec.Confidence)
	assert.Contains(t, errRec.Rationale, "exploding_rule")
	assert.Contains(t, errRec.Rationale, "boom")

	require.NotNil(t, okRec)
	assert.Equal(t, "presence_absence_conflict", okRec.Rule)

	assert.Equal(t, 1, result.Metadata.NumErrors)
	assert.Equal(t, 1, result.Metadata.NumContradictions)
}

func TestPipeline_RuleTimeout(t *testing.T) {
	registry := rules.NewRegistry()
	require.NoError(t, registry.Register(rules.Rule{
		Name: "sleepy_rule",
		Eval: func([]models.Statement) []models.Candidate {
			time.Sleep(500 * time.Millisecond)
			return nil
		},
	}))

	config := DefaultConfig()
	config.RuleTimeout = 20 * time.Millisecond

	p := NewPipeline(registry, nil, config)
	result := p.Run(context.Background(), nil)

	require.Len(t, result.Records, 1)
	assert.True(t, result.Records[0].IsEngineError())
	assert.Contains(t, result.Records[0].Rationale, "sleepy_rule")
	assert.Contains(t, result.Records[0].Rationale, "timed out")
}

func TestPipeline_DedupKeepsLastSeen(t *testing.T) {
	// Two rules registered under names that sort deterministically both
	// emit a candidate with identical identity inputs; the later one in
	// rule-name order must win.
	a := stmt(t, "s1", map[string]any{"event_id": "evt1"})
	b := stmt(t, "s2", map[string]any{"event_id": "evt1"})

	registry := rules.NewRegistry()
	require.NoError(t, registry.Register(rules.Rule{
		Name: "rule_one",
		Eval: func([]models.Statement) []models.Candidate {
			return []models.Candidate{{
				Rule: "shared_rule", Severity: models.SeverityLow,
				GroupKey: "g", Rationale: "first emission",
				StatementA: a, StatementB: b,
			}}
		},
	}))
	require.NoError(t, registry.Register(rules.Rule{
		Name: "rule_two",
		Eval: func([]models.Statement) []models.Candidate {
			return []models.Candidate{{
				Rule: "shared_rule", Severity: models.SeverityLow,
				GroupKey: "g", Rationale: "second emission",
				StatementA: b, StatementB: a,
			}}
		},
	}))

	p := NewPipeline(registry, nil, DefaultConfig())
	result := p.Run(context.Background(), nil)

	require.Len(t, result.Records, 1, "identical identity inputs collapse to one record")
	assert.Equal(t, "second emission", result.Records[0].Rationale)
}
