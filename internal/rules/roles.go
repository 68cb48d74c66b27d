package rules

import (
	"fmt"
	"strings"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// contradictoryRoles are role pairs that cannot describe the same person in
// the same context.
var contradictoryRoles = [][2]string{
	{"victim", "perpetrator"},
	{"witness", "suspect"},
	{"compliant", "non-compliant"},
	{"cooperative", "uncooperative"},
}

// RoleResponsibilityConflict flags the same person assigned contradictory
// roles within one context.
//
// Statement shape:
//
//	{"type":"ROLE","party":"Andy","event_id":"evt1","role":"witness"}
//	{"type":"ROLE","party":"Andy","event_id":"evt1","role":"suspect"}
func RoleResponsibilityConflict(statements []models.Statement) []models.Candidate {
	idx := newStatementIndex()
	for _, s := range statements {
		if !typeMatches(s, "ROLE") {
			continue
		}
		person, ok := firstString(s, "party", "person")
		if !ok {
			continue
		}
		context, ok := firstString(s, "context", "event_id")
		if !ok {
			continue
		}
		role, ok := s.GetString("role")
		if !ok || role == "" {
			continue
		}
		idx.add(person+"|"+context, strings.ToLower(role), s)
	}

	var candidates []models.Candidate
	for _, key := range idx.groupKeys() {
		roles := idx.values(key)
		for i := 0; i < len(roles); i++ {
			for j := i + 1; j < len(roles); j++ {
				if !rolesContradict(roles[i], roles[j]) {
					continue
				}
				candidates = append(candidates, models.Candidate{
					Rule:       "role_responsibility_conflict",
					Severity:   models.SeverityMedium,
					GroupKey:   key,
					Rationale:  fmt.Sprintf("Role conflict for %s: %s vs %s.", key, roles[i], roles[j]),
					StatementA: idx.statement(key, roles[i]),
					StatementB: idx.statement(key, roles[j]),
				})
			}
		}
	}
	return candidates
}

func rolesContradict(a, b string) bool {
	for _, pair := range contradictoryRoles {
		if (a == pair[0] && b == pair[1]) || (a == pair[1] && b == pair[0]) {
			return true
		}
	}
	return false
}
