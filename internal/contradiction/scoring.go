package contradiction

import (
	"math"
	"strings"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

const (
	minScore = 0
	maxScore = 100

	// dateDeltaCapDays bounds the date-disagreement adjuster.
	dateDeltaCapDays = 30
	dateDeltaFactor  = 0.5

	amountDeltaFactor = 2

	salienceBonus = 5
)

var severityWeights = map[models.Severity]float64{
	models.SeverityLow:      1,
	models.SeverityMedium:   2,
	models.SeverityHigh:     3,
	models.SeverityCritical: 4,
}

// Scorer converts candidates into ranked scores. All adjusters are pure and
// operate only on fields the owning rule already validated; a missing input
// falls back to the unmodified base score.
type Scorer struct {
	meta    *MetaTable
	salient map[string]struct{}
}

// NewScorer builds a scorer over the given metadata table. salientParties
// names the parties whose presence/role findings get a flat bonus.
func NewScorer(meta *MetaTable, salientParties []string) *Scorer {
	if meta == nil {
		meta = DefaultMetaTable()
	}
	salient := make(map[string]struct{}, len(salientParties))
	for _, p := range salientParties {
		salient[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return &Scorer{meta: meta, salient: salient}
}

// Score returns the candidate's score, clamped to [0, 100]. Engine-error
// candidates always score zero.
func (s *Scorer) Score(c models.Candidate) float64 {
	if c.IsEngineError() {
		return 0
	}

	weight, ok := severityWeights[c.Severity]
	if !ok {
		weight = severityWeights[models.SeverityLow]
	}

	score := weight*10 + s.meta.BaseWeight(c.Rule) + s.adjust(c)
	return math.Max(minScore, math.Min(maxScore, score))
}

// Meta exposes the scorer's metadata table for record enrichment.
func (s *Scorer) Meta() *MetaTable {
	return s.meta
}

func (s *Scorer) adjust(c models.Candidate) float64 {
	switch c.Rule {
	case "event_date_disagreement":
		return dateDeltaAdjuster(c, "date")
	case "date_range_overlap_conflict":
		return dateDeltaAdjuster(c, "start_date")
	case "numeric_amount_mismatch":
		return amountDeltaAdjuster(c)
	case "presence_absence_conflict", "role_responsibility_conflict":
		return s.salienceAdjuster(c)
	}
	return 0
}

// dateDeltaAdjuster grows with the disagreement's day span, capped so a
// wildly wrong date does not dominate the severity signal.
func dateDeltaAdjuster(c models.Candidate, field string) float64 {
	dateA, okA := c.StatementA.GetDate(field)
	dateB, okB := c.StatementB.GetDate(field)
	if !okA || !okB {
		return 0
	}
	deltaDays := math.Abs(dateA.Sub(dateB).Hours() / 24)
	return math.Min(deltaDays, dateDeltaCapDays) * dateDeltaFactor
}

// amountDeltaAdjuster applies diminishing returns to large amount gaps.
func amountDeltaAdjuster(c models.Candidate) float64 {
	valueA, okA := c.StatementA.GetNumber("value")
	valueB, okB := c.StatementB.GetNumber("value")
	if !okA || !okB {
		return 0
	}
	return math.Log10(math.Abs(valueA-valueB)+1) * amountDeltaFactor
}

func (s *Scorer) salienceAdjuster(c models.Candidate) float64 {
	if len(s.salient) == 0 {
		return 0
	}
	for _, stmt := range []models.Statement{c.StatementA, c.StatementB} {
		for _, field := range []string{"party", "person"} {
			if party, ok := stmt.GetString(field); ok {
				if _, hit := s.salient[strings.ToLower(party)]; hit {
					return salienceBonus
				}
			}
		}
	}
	return 0
}
