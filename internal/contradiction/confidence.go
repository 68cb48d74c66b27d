package contradiction

import (
	"strings"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// confidenceSeverityWeights feed the confidence base. They are a separate
// table from the scoring weights: confidence is an independent axis and must
// never influence ranking.
var confidenceSeverityWeights = map[models.Severity]float64{
	models.SeverityCritical: 3.0,
	models.SeverityHigh:     2.5,
	models.SeverityMedium:   2.0,
	models.SeverityLow:      1.5,
}

// partyIndicators are tokens suggesting the rationale names a concrete
// person or party rather than an abstract condition.
var partyIndicators = []string{
	"name", "person", "individual", "party", "plaintiff", "defendant",
	"witness", "victim", "suspect", "officer", "agent", "subject",
}

const longRationaleLen = 50

// Confidence estimates how well-supported a finding's rationale is, in
// [0, 1]. Heuristic: severity weight / 3 as the base, +0.2 when the
// rationale carries a party-like token, +0.3 when it is longer than 50
// characters, clamped.
func Confidence(c models.Candidate) float64 {
	if c.IsEngineError() {
		return 0
	}

	weight, ok := confidenceSeverityWeights[c.Severity]
	if !ok {
		weight = 1.0
	}
	confidence := weight / 3

	lower := strings.ToLower(c.Rationale)
	for _, indicator := range partyIndicators {
		if strings.Contains(lower, indicator) {
			confidence += 0.2
			break
		}
	}

	if len(c.Rationale) > longRationaleLen {
		confidence += 0.3
	}

	if confidence > 1 {
		return 1
	}
	if confidence < 0 {
		return 0
	}
	return confidence
}
