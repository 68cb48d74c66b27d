package rules

import (
	"fmt"
	"strconv"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// NumericAmountMismatch flags different amounts reported for the same event
// and currency.
//
// Statement shape:
//
//	{"type":"AMOUNT","event_id":"evt1","value":5000,"currency":"USD"}
//	{"type":"AMOUNT","event_id":"evt1","value":12000,"currency":"USD"}
func NumericAmountMismatch(statements []models.Statement) []models.Candidate {
	idx := newStatementIndex()
	for _, s := range statements {
		if !typeMatches(s, "AMOUNT") {
			continue
		}
		eventID, ok := s.GetString("event_id")
		if !ok || eventID == "" {
			continue
		}
		value, ok := s.GetNumber("value")
		if !ok {
			continue
		}
		currency, ok := s.GetString("currency")
		if !ok || currency == "" {
			currency = "USD"
		}
		key := eventID + ":" + currency
		idx.add(key, strconv.FormatFloat(value, 'f', -1, 64), s)
	}

	var candidates []models.Candidate
	for _, key := range idx.groupKeys() {
		values := idx.values(key)
		for i := 0; i < len(values); i++ {
			for j := i + 1; j < len(values); j++ {
				candidates = append(candidates, models.Candidate{
					Rule:       "numeric_amount_mismatch",
					Severity:   models.SeverityMedium,
					GroupKey:   key,
					Rationale:  fmt.Sprintf("Amount mismatch for %s: %s vs %s.", key, values[i], values[j]),
					StatementA: idx.statement(key, values[i]),
					StatementB: idx.statement(key, values[j]),
				})
			}
		}
	}
	return candidates
}
