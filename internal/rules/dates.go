package rules

import (
	"fmt"
	"time"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// EventDateDisagreement flags an event asserted to have happened on more
// than one date. Every unordered pair of distinct dates yields one candidate.
//
// Statement shape:
//
//	{"type":"EVENT_DATE","event_id":"evt1","date":"2025-01-01"}
//	{"type":"EVENT_DATE","event_id":"evt1","date":"2025-01-05"}
func EventDateDisagreement(statements []models.Statement) []models.Candidate {
	idx := newStatementIndex()
	for _, s := range statements {
		if !typeMatches(s, "EVENT_DATE") {
			continue
		}
		eventID, ok := s.GetString("event_id")
		if !ok || eventID == "" {
			continue
		}
		date, ok := s.GetString("date")
		if !ok || date == "" {
			continue
		}
		idx.add(eventID, date, s)
	}

	var candidates []models.Candidate
	for _, eventID := range idx.groupKeys() {
		dates := idx.values(eventID)
		for i := 0; i < len(dates); i++ {
			for j := i + 1; j < len(dates); j++ {
				candidates = append(candidates, models.Candidate{
					Rule:       "event_date_disagreement",
					Severity:   models.SeverityHigh,
					GroupKey:   eventID,
					Rationale:  fmt.Sprintf("Event %s has conflicting dates: %s vs %s.", eventID, dates[i], dates[j]),
					StatementA: idx.statement(eventID, dates[i]),
					StatementB: idx.statement(eventID, dates[j]),
				})
			}
		}
	}
	return candidates
}

type dateRange struct {
	statement models.Statement
	start     time.Time
	end       time.Time
	label     string
}

// DateRangeOverlapConflict flags overlapping but non-identical date ranges
// claimed for the same event and party.
//
// Statement shape:
//
//	{"type":"DATE_RANGE","event_id":"evt1","party":"Noel","start_date":"2025-01-01","end_date":"2025-01-10"}
func DateRangeOverlapConflict(statements []models.Statement) []models.Candidate {
	groups := make(map[string][]dateRange)
	var order []string
	for _, s := range statements {
		if !typeMatches(s, "DATE_RANGE") {
			continue
		}
		eventID, ok := s.GetString("event_id")
		if !ok || eventID == "" {
			continue
		}
		party, _ := firstString(s, "party", "person")
		start, okStart := s.GetDate("start_date")
		end, okEnd := s.GetDate("end_date")
		if !okStart || !okEnd {
			continue
		}
		startStr, _ := s.GetString("start_date")
		endStr, _ := s.GetString("end_date")

		key := eventID + "|" + party
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], dateRange{
			statement: s,
			start:     start,
			end:       end,
			label:     startStr + " to " + endStr,
		})
	}

	var candidates []models.Candidate
	for _, key := range order {
		ranges := groups[key]
		for i := 0; i < len(ranges); i++ {
			for j := i + 1; j < len(ranges); j++ {
				if !rangesConflict(ranges[i], ranges[j]) {
					continue
				}
				candidates = append(candidates, models.Candidate{
					Rule:       "date_range_overlap_conflict",
					Severity:   models.SeverityMedium,
					GroupKey:   key,
					Rationale:  fmt.Sprintf("Conflicting date ranges for %s: %s vs %s.", key, ranges[i].label, ranges[j].label),
					StatementA: ranges[i].statement,
					StatementB: ranges[j].statement,
				})
			}
		}
	}
	return candidates
}

// rangesConflict reports overlap between two non-identical ranges.
func rangesConflict(a, b dateRange) bool {
	if a.start.Equal(b.start) && a.end.Equal(b.end) {
		return false
	}
	return !a.start.After(b.end) && !b.start.After(a.end)
}
