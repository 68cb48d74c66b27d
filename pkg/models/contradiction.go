package models

import "time"

// Severity is a coarse, rule-assigned importance bucket.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// EngineErrorRule is the synthetic rule name used for candidates produced by
// the pipeline itself when a real rule panics or times out.
const EngineErrorRule = "__engine_error__"

// Candidate is an unscored, unidentified pair of statements flagged by a
// single rule invocation.
type Candidate struct {
	Rule       string    `json:"rule"`
	Severity   Severity  `json:"severity"`
	GroupKey   string    `json:"group_key"`
	Rationale  string    `json:"rationale"`
	StatementA Statement `json:"statement_a"`
	StatementB Statement `json:"statement_b"`
}

// IsEngineError reports whether the candidate was synthesized for a failed
// rule rather than produced by one.
func (c Candidate) IsEngineError() bool {
	return c.Rule == EngineErrorRule
}

// Record is a candidate after identity assignment and scoring; the terminal
// output unit of a pipeline run. Records are created once per run and never
// mutated; a later run supersedes them with a new full set, and the stable
// contradiction id is what lets consumers diff two runs.
type Record struct {
	ContradictionID string    `json:"contradiction_id"`
	Rule            string    `json:"rule"`
	Severity        Severity  `json:"severity"`
	GroupKey        string    `json:"group_key"`
	Rationale       string    `json:"rationale"`
	Title           string    `json:"title,omitempty"`
	Description     string    `json:"description,omitempty"`
	SuggestedAction string    `json:"suggested_action,omitempty"`
	Score           float64   `json:"score"`
	Confidence      float64   `json:"confidence"`
	StatementA      Statement `json:"statement_a"`
	StatementB      Statement `json:"statement_b"`
}

// IsEngineError reports whether the record carries a rule failure.
func (r Record) IsEngineError() bool {
	return r.Rule == EngineErrorRule
}

// RunMetadata describes one pipeline run.
type RunMetadata struct {
	Timestamp         time.Time `json:"timestamp"`
	RulesFingerprint  string    `json:"rules_fingerprint"`
	NumStatements     int       `json:"num_statements"`
	NumContradictions int       `json:"num_contradictions"`
	NumErrors         int       `json:"num_errors"`
}
