// Package archive persists cases locally in SQLite for the CLI workflow.
// It mirrors the server's Postgres schema so a case curated offline can be
// reasoned about the same way: statements in, runs and curation state out.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

const dbFile = "case.db"

// Archive manages the case archive SQLite database.
type Archive struct {
	db *sql.DB
}

// Open opens or creates the archive database under dir, creating the
// schema if it does not exist.
func Open(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return a, nil
}

// Close releases the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS statements (
			id TEXT NOT NULL,
			case_id TEXT NOT NULL,
			document_id TEXT,
			fields TEXT NOT NULL,
			PRIMARY KEY (case_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			rules_fingerprint TEXT NOT NULL,
			num_statements INTEGER NOT NULL,
			num_contradictions INTEGER NOT NULL,
			num_errors INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_case_id ON analysis_runs(case_id)`,
		`CREATE TABLE IF NOT EXISTS contradictions (
			run_id TEXT NOT NULL REFERENCES analysis_runs(id),
			contradiction_id TEXT NOT NULL,
			rule TEXT NOT NULL,
			severity TEXT NOT NULL,
			group_key TEXT NOT NULL,
			rationale TEXT NOT NULL,
			title TEXT,
			description TEXT,
			suggested_action TEXT,
			score REAL NOT NULL,
			confidence REAL NOT NULL,
			statement_a TEXT NOT NULL,
			statement_b TEXT NOT NULL,
			PRIMARY KEY (run_id, contradiction_id)
		)`,
		`CREATE TABLE IF NOT EXISTS suppressions (
			case_id TEXT NOT NULL,
			contradiction_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (case_id, contradiction_id)
		)`,
		`CREATE TABLE IF NOT EXISTS annotations (
			case_id TEXT NOT NULL,
			contradiction_id TEXT NOT NULL,
			note TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (case_id, contradiction_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := a.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// LoadStatements replaces a case's statements with the given set in one
// transaction. Reloading a case is how corrected source data lands.
func (a *Archive) LoadStatements(ctx context.Context, caseID string, statements []models.Statement) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM statements WHERE case_id = ?`, caseID); err != nil {
		return fmt.Errorf("deleting old statements: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO statements (id, case_id, document_id, fields) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range statements {
		fields, err := json.Marshal(s.Fields)
		if err != nil {
			return fmt.Errorf("encoding fields for statement %s: %w", s.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, s.ID, caseID, s.DocumentID, string(fields)); err != nil {
			return fmt.Errorf("inserting statement %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// Statements returns a case's statements ordered by id.
func (a *Archive) Statements(ctx context.Context, caseID string) ([]models.Statement, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, document_id, fields FROM statements WHERE case_id = ? ORDER BY id ASC`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []models.Statement
	for rows.Next() {
		var (
			id         string
			documentID sql.NullString
			rawFields  string
		)
		if err := rows.Scan(&id, &documentID, &rawFields); err != nil {
			return nil, err
		}

		var fields map[string]any
		if err := json.Unmarshal([]byte(rawFields), &fields); err != nil {
			return nil, fmt.Errorf("decoding fields for statement %s: %w", id, err)
		}

		s, err := models.NewStatement(id, documentID.String, fields)
		if err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statements, nil
}

// SaveRun records a run's metadata and records, returning the run id.
func (a *Archive) SaveRun(ctx context.Context, caseID string, records []models.Record, meta models.RunMetadata) (string, error) {
	runID := uuid.New().String()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, case_id, created_at, rules_fingerprint, num_statements, num_contradictions, num_errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, caseID, meta.Timestamp.Format(time.RFC3339Nano), meta.RulesFingerprint,
		meta.NumStatements, meta.NumContradictions, meta.NumErrors,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contradictions (run_id, contradiction_id, rule, severity, group_key, rationale, title, description, suggested_action, score, confidence, statement_a, statement_b)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		stmtA, err := json.Marshal(rec.StatementA)
		if err != nil {
			return "", fmt.Errorf("encoding statement_a for %s: %w", rec.ContradictionID, err)
		}
		stmtB, err := json.Marshal(rec.StatementB)
		if err != nil {
			return "", fmt.Errorf("encoding statement_b for %s: %w", rec.ContradictionID, err)
		}

		_, err = stmt.ExecContext(ctx,
			runID, rec.ContradictionID, rec.Rule, string(rec.Severity), rec.GroupKey,
			rec.Rationale, rec.Title, rec.Description, rec.SuggestedAction,
			rec.Score, rec.Confidence, string(stmtA), string(stmtB),
		)
		if err != nil {
			return "", fmt.Errorf("inserting record %s: %w", rec.ContradictionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// LatestRunID returns the id of the most recent run for a case, or empty
// string if none exists.
func (a *Archive) LatestRunID(ctx context.Context, caseID string) (string, error) {
	var id string
	err := a.db.QueryRowContext(ctx,
		`SELECT id FROM analysis_runs WHERE case_id = ? ORDER BY created_at DESC LIMIT 1`, caseID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// Records retrieves a run's records in stored rank order.
func (a *Archive) Records(ctx context.Context, runID string) ([]models.Record, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT contradiction_id, rule, severity, group_key, rationale, title, description, suggested_action, score, confidence, statement_a, statement_b
		 FROM contradictions
		 WHERE run_id = ?
		 ORDER BY score DESC, contradiction_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var (
			rec          models.Record
			severity     string
			stmtA, stmtB string
		)
		err := rows.Scan(
			&rec.ContradictionID, &rec.Rule, &severity, &rec.GroupKey,
			&rec.Rationale, &rec.Title, &rec.Description, &rec.SuggestedAction,
			&rec.Score, &rec.Confidence, &stmtA, &stmtB,
		)
		if err != nil {
			return nil, err
		}
		rec.Severity = models.Severity(severity)

		if err := json.Unmarshal([]byte(stmtA), &rec.StatementA); err != nil {
			return nil, fmt.Errorf("decoding statement_a for %s: %w", rec.ContradictionID, err)
		}
		if err := json.Unmarshal([]byte(stmtB), &rec.StatementB); err != nil {
			return nil, fmt.Errorf("decoding statement_b for %s: %w", rec.ContradictionID, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Suppress hides a contradiction id from listings for a case.
func (a *Archive) Suppress(ctx context.Context, caseID, contradictionID string) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO suppressions (case_id, contradiction_id, created_at) VALUES (?, ?, ?)`,
		caseID, contradictionID, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Unsuppress restores a contradiction id to listings.
func (a *Archive) Unsuppress(ctx context.Context, caseID, contradictionID string) error {
	_, err := a.db.ExecContext(ctx,
		`DELETE FROM suppressions WHERE case_id = ? AND contradiction_id = ?`,
		caseID, contradictionID)
	return err
}

// Suppressions lists suppressed contradiction ids for a case.
func (a *Archive) Suppressions(ctx context.Context, caseID string) ([]string, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT contradiction_id FROM suppressions WHERE case_id = ? ORDER BY contradiction_id ASC`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Annotate adds or replaces a reviewer note for a contradiction id.
func (a *Archive) Annotate(ctx context.Context, caseID, contradictionID, note string) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO annotations (case_id, contradiction_id, note, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(case_id, contradiction_id) DO UPDATE SET note=excluded.note, updated_at=excluded.updated_at`,
		caseID, contradictionID, note, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Annotation holds a reviewer note on a contradiction.
type Annotation struct {
	ContradictionID string `json:"contradiction_id"`
	Note            string `json:"note"`
	UpdatedAt       string `json:"updated_at"`
}

// Annotations lists all notes for a case, most recently updated first.
func (a *Archive) Annotations(ctx context.Context, caseID string) ([]Annotation, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT contradiction_id, note, updated_at FROM annotations WHERE case_id = ? ORDER BY updated_at DESC`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []Annotation
	for rows.Next() {
		var ann Annotation
		if err := rows.Scan(&ann.ContradictionID, &ann.Note, &ann.UpdatedAt); err != nil {
			return nil, err
		}
		annotations = append(annotations, ann)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return annotations, nil
}
