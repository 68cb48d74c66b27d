package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

func record(rule string, severity models.Severity, score float64) models.Record {
	return models.Record{
		ContradictionID: rule + "-id",
		Rule:            rule,
		Severity:        severity,
		Score:           score,
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalRecords)
	assert.Equal(t, 0, s.EngineErrors)
	assert.Empty(t, s.BySeverity)
	assert.Equal(t, 0.0, s.ScoreMean)
	assert.Equal(t, 0.0, s.HighPriorityPct)
}

func TestSummarize_Buckets(t *testing.T) {
	records := []models.Record{
		record("presence_absence_conflict", models.SeverityMedium, 25),
		record("event_date_disagreement", models.SeverityHigh, 39),
		record("event_date_disagreement", models.SeverityHigh, 52),
		record("status_flip_without_transition", models.SeverityCritical, 80),
	}

	s := Summarize(records)

	assert.Equal(t, 4, s.TotalRecords)
	assert.Equal(t, map[string]int{"medium": 1, "high": 2, "critical": 1}, s.BySeverity)
	assert.Equal(t, map[string]int{
		"presence_absence_conflict":      1,
		"event_date_disagreement":        2,
		"status_flip_without_transition": 1,
	}, s.ByRule)
}

func TestSummarize_ScoreStatistics(t *testing.T) {
	records := []models.Record{
		record("a", models.SeverityLow, 10),
		record("b", models.SeverityLow, 20),
		record("c", models.SeverityLow, 60),
	}

	s := Summarize(records)

	assert.Equal(t, 10.0, s.ScoreMin)
	assert.Equal(t, 60.0, s.ScoreMax)
	assert.InDelta(t, 30.0, s.ScoreMean, 1e-9)
	assert.Equal(t, 20.0, s.ScoreMedian)
	assert.Greater(t, s.ScoreStdDev, 0.0)
}

func TestSummarize_SingleRecordHasZeroStdDev(t *testing.T) {
	s := Summarize([]models.Record{record("a", models.SeverityLow, 14)})

	assert.Equal(t, 14.0, s.ScoreMin)
	assert.Equal(t, 14.0, s.ScoreMax)
	assert.Equal(t, 14.0, s.ScoreMean)
	assert.Equal(t, 0.0, s.ScoreStdDev)
}

func TestSummarize_HighPriority(t *testing.T) {
	records := []models.Record{
		record("a", models.SeverityLow, 14),
		record("b", models.SeverityHigh, 39),
		record("c", models.SeverityCritical, 95),
		record("d", models.SeverityMedium, 25),
	}

	s := Summarize(records)

	assert.Equal(t, 2, s.HighPriority)
	assert.InDelta(t, 50.0, s.HighPriorityPct, 1e-9)
}

func TestSummarize_EngineErrorsExcludedFromStats(t *testing.T) {
	records := []models.Record{
		record("presence_absence_conflict", models.SeverityMedium, 25),
		record(models.EngineErrorRule, models.SeverityLow, 0),
	}

	s := Summarize(records)

	assert.Equal(t, 2, s.TotalRecords)
	assert.Equal(t, 1, s.EngineErrors)
	assert.Equal(t, map[string]int{"medium": 1}, s.BySeverity)
	assert.NotContains(t, s.ByRule, models.EngineErrorRule)
	assert.Equal(t, 25.0, s.ScoreMin, "error scores must not drag the minimum to zero")
}

func TestSummarize_OnlyEngineErrors(t *testing.T) {
	records := []models.Record{
		record(models.EngineErrorRule, models.SeverityLow, 0),
	}

	s := Summarize(records)

	assert.Equal(t, 1, s.EngineErrors)
	assert.Equal(t, 0.0, s.ScoreMean)
	assert.Equal(t, 0.0, s.HighPriorityPct)
}
