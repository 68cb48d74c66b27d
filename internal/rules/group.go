package rules

import (
	"strings"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// statementIndex groups statements first by a grouping key (an event, a
// case, an event+party pair) and then by a distinguishing value (a date, an
// amount, a status). It remembers insertion order so rule output is
// deterministic for a given statement order, and keeps the first statement
// seen per value as the representative for candidate pairs.
type statementIndex struct {
	groupOrder []string
	groups     map[string]*valueIndex
}

type valueIndex struct {
	valueOrder []string
	first      map[string]models.Statement
}

func newStatementIndex() *statementIndex {
	return &statementIndex{groups: make(map[string]*valueIndex)}
}

func (x *statementIndex) add(group, value string, s models.Statement) {
	vi, ok := x.groups[group]
	if !ok {
		vi = &valueIndex{first: make(map[string]models.Statement)}
		x.groups[group] = vi
		x.groupOrder = append(x.groupOrder, group)
	}
	if _, seen := vi.first[value]; !seen {
		vi.first[value] = s
		vi.valueOrder = append(vi.valueOrder, value)
	}
}

func (x *statementIndex) groupKeys() []string {
	return x.groupOrder
}

func (x *statementIndex) values(group string) []string {
	if vi, ok := x.groups[group]; ok {
		return vi.valueOrder
	}
	return nil
}

func (x *statementIndex) statement(group, value string) models.Statement {
	return x.groups[group].first[value]
}

// typeMatches filters statements by their declared type. Statements that
// carry no type field pass: extraction sources differ on whether they tag
// statement shapes, and a rule's real requirements are its data fields.
func typeMatches(s models.Statement, want string) bool {
	t, ok := s.GetString("type")
	return !ok || strings.EqualFold(t, want)
}

// firstString returns the first present field among the given names.
func firstString(s models.Statement, fields ...string) (string, bool) {
	for _, f := range fields {
		if v, ok := s.GetString(f); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
