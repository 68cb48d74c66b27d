package rules

import (
	"fmt"
	"strings"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// contradictoryStatuses are terminal status pairs that cannot both hold for
// the same target without a recorded transition.
var contradictoryStatuses = [][2]string{
	{"GRANTED", "DENIED"},
	{"ACTIVE", "CLOSED"},
	{"OPEN", "CLOSED"},
	{"SUBSTANTIATED", "UNSUBSTANTIATED"},
	{"FOUNDED", "UNFOUNDED"},
}

// StatusFlipWithoutTransition flags the same target recorded with opposite
// terminal statuses.
//
// Statement shape:
//
//	{"type":"STATUS","target":"motion1","status":"granted"}
//	{"type":"STATUS","target":"motion1","status":"denied"}
func StatusFlipWithoutTransition(statements []models.Statement) []models.Candidate {
	idx := newStatementIndex()
	for _, s := range statements {
		if !typeMatches(s, "STATUS") {
			continue
		}
		target, ok := firstString(s, "target", "case_id", "event_id", "case")
		if !ok {
			continue
		}
		status, ok := s.GetString("status")
		if !ok || status == "" {
			continue
		}
		idx.add(target, strings.ToUpper(status), s)
	}

	var candidates []models.Candidate
	for _, target := range idx.groupKeys() {
		seen := make(map[string]bool, len(idx.values(target)))
		for _, status := range idx.values(target) {
			seen[status] = true
		}
		for _, pair := range contradictoryStatuses {
			if !seen[pair[0]] || !seen[pair[1]] {
				continue
			}
			candidates = append(candidates, models.Candidate{
				Rule:       "status_flip_without_transition",
				Severity:   models.SeverityHigh,
				GroupKey:   target,
				Rationale:  fmt.Sprintf("Target %s has contradictory statuses: %s vs %s.", target, pair[0], pair[1]),
				StatementA: idx.statement(target, pair[0]),
				StatementB: idx.statement(target, pair[1]),
			})
		}
	}
	return candidates
}
