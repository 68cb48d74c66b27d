package rules

import (
	"fmt"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// PresenceAbsenceConflict flags a party recorded both present and absent at
// the same event.
//
// Statement shape:
//
//	{"type":"PRESENCE","event_id":"evt1","party":"Noel","present":true}
//	{"type":"PRESENCE","event_id":"evt1","party":"Noel","present":false}
func PresenceAbsenceConflict(statements []models.Statement) []models.Candidate {
	idx := newStatementIndex()
	for _, s := range statements {
		if !typeMatches(s, "PRESENCE") {
			continue
		}
		eventID, ok := s.GetString("event_id")
		if !ok || eventID == "" {
			continue
		}
		party, ok := firstString(s, "party", "person")
		if !ok {
			continue
		}
		present, ok := s.GetBool("present")
		if !ok {
			continue
		}
		key := eventID + ":" + party
		idx.add(key, fmt.Sprintf("%t", present), s)
	}

	var candidates []models.Candidate
	for _, key := range idx.groupKeys() {
		values := idx.values(key)
		if len(values) < 2 {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Rule:       "presence_absence_conflict",
			Severity:   models.SeverityMedium,
			GroupKey:   key,
			Rationale:  fmt.Sprintf("Party marked both present and absent for %s.", key),
			StatementA: idx.statement(key, "true"),
			StatementB: idx.statement(key, "false"),
		})
	}
	return candidates
}
