package rules

import (
	"fmt"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// LocationMismatch flags the same event, or the same party at an event,
// described in different locations.
//
// Statement shape:
//
//	{"type":"LOCATION","event_id":"evt1","location":"Los Angeles"}
//	{"type":"LOCATION","event_id":"evt1","location":"San Diego"}
func LocationMismatch(statements []models.Statement) []models.Candidate {
	idx := newStatementIndex()
	for _, s := range statements {
		if !typeMatches(s, "LOCATION") {
			continue
		}
		eventID, ok := s.GetString("event_id")
		if !ok || eventID == "" {
			continue
		}
		location, ok := s.GetString("location")
		if !ok || location == "" {
			continue
		}
		party, _ := firstString(s, "party", "person")
		idx.add(eventID+"|"+party, location, s)
	}

	var candidates []models.Candidate
	for _, key := range idx.groupKeys() {
		locations := idx.values(key)
		for i := 0; i < len(locations); i++ {
			for j := i + 1; j < len(locations); j++ {
				candidates = append(candidates, models.Candidate{
					Rule:       "location_mismatch",
					Severity:   models.SeverityMedium,
					GroupKey:   key,
					Rationale:  fmt.Sprintf("Location mismatch for %s: %s vs %s.", key, locations[i], locations[j]),
					StatementA: idx.statement(key, locations[i]),
					StatementB: idx.statement(key, locations[j]),
				})
			}
		}
	}
	return candidates
}
