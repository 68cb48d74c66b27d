package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// AnalysisRun identifies one persisted pipeline run. Runs supersede each
// other: every run stores a full record set, and the stable contradiction
// ids let consumers diff consecutive runs.
type AnalysisRun struct {
	ID       uuid.UUID
	CaseID   string
	Metadata models.RunMetadata
}

// Annotation is a reviewer note attached to a contradiction id.
type Annotation struct {
	ContradictionID string    `json:"contradiction_id"`
	Note            string    `json:"note"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ContradictionRepository defines persistence for analysis output,
// suppressions, and annotations.
type ContradictionRepository interface {
	SaveRun(ctx context.Context, caseID string, records []models.Record, meta models.RunMetadata) (uuid.UUID, error)
	LatestRun(ctx context.Context, caseID string) (*AnalysisRun, error)
	ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Record, error)
	Search(ctx context.Context, runID uuid.UUID, term string) ([]models.Record, error)
	Suppress(ctx context.Context, caseID, contradictionID string) error
	Unsuppress(ctx context.Context, caseID, contradictionID string) error
	Suppressions(ctx context.Context, caseID string) ([]string, error)
	Annotate(ctx context.Context, caseID, contradictionID, note string) error
	Annotations(ctx context.Context, caseID string) ([]Annotation, error)
}

// PostgresContradictionRepository implements ContradictionRepository using
// PostgreSQL.
type PostgresContradictionRepository struct {
	db *sql.DB
}

// NewPostgresContradictionRepository creates a new PostgresContradictionRepository.
func NewPostgresContradictionRepository(db *sql.DB) *PostgresContradictionRepository {
	return &PostgresContradictionRepository{db: db}
}

// SaveRun persists a run's metadata and full record set in one transaction
// and returns the new run id.
func (r *PostgresContradictionRepository) SaveRun(ctx context.Context, caseID string, records []models.Record, meta models.RunMetadata) (uuid.UUID, error) {
	runID := uuid.New()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, case_id, created_at, rules_fingerprint, num_statements, num_contradictions, num_errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		runID,
		caseID,
		meta.Timestamp,
		meta.RulesFingerprint,
		meta.NumStatements,
		meta.NumContradictions,
		meta.NumErrors,
	)
	if err != nil {
		return uuid.Nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contradictions (run_id, contradiction_id, rule, severity, group_key, rationale, title, description, suggested_action, score, confidence, statement_a, statement_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`)
	if err != nil {
		return uuid.Nil, err
	}
	defer stmt.Close()

	for _, rec := range records {
		stmtA, err := json.Marshal(rec.StatementA)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encoding statement_a for %s: %w", rec.ContradictionID, err)
		}
		stmtB, err := json.Marshal(rec.StatementB)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encoding statement_b for %s: %w", rec.ContradictionID, err)
		}

		_, err = stmt.ExecContext(ctx,
			runID,
			rec.ContradictionID,
			rec.Rule,
			string(rec.Severity),
			rec.GroupKey,
			rec.Rationale,
			rec.Title,
			rec.Description,
			rec.SuggestedAction,
			rec.Score,
			rec.Confidence,
			stmtA,
			stmtB,
		)
		if err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return runID, nil
}

// LatestRun returns the most recent run for a case, or nil if none exists.
func (r *PostgresContradictionRepository) LatestRun(ctx context.Context, caseID string) (*AnalysisRun, error) {
	query := `
		SELECT id, case_id, created_at, rules_fingerprint, num_statements, num_contradictions, num_errors
		FROM analysis_runs
		WHERE case_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	run := &AnalysisRun{}
	err := r.db.QueryRowContext(ctx, query, caseID).Scan(
		&run.ID,
		&run.CaseID,
		&run.Metadata.Timestamp,
		&run.Metadata.RulesFingerprint,
		&run.Metadata.NumStatements,
		&run.Metadata.NumContradictions,
		&run.Metadata.NumErrors,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListByRun retrieves a run's records in stored rank order.
func (r *PostgresContradictionRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Record, error) {
	query := recordSelect + `
		WHERE run_id = $1
		ORDER BY score DESC, contradiction_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Search filters a run's records by a term matched against rationale, group
// key, and rule name, highest score first.
func (r *PostgresContradictionRepository) Search(ctx context.Context, runID uuid.UUID, term string) ([]models.Record, error) {
	query := recordSelect + `
		WHERE run_id = $1
		  AND (rationale ILIKE $2 OR group_key ILIKE $2 OR rule ILIKE $2)
		ORDER BY score DESC, contradiction_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, runID, "%"+term+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

const recordSelect = `
	SELECT contradiction_id, rule, severity, group_key, rationale, title, description, suggested_action, score, confidence, statement_a, statement_b
	FROM contradictions
`

func scanRecords(rows *sql.Rows) ([]models.Record, error) {
	var records []models.Record
	for rows.Next() {
		var (
			rec          models.Record
			severity     string
			stmtA, stmtB []byte
		)
		err := rows.Scan(
			&rec.ContradictionID,
			&rec.Rule,
			&severity,
			&rec.GroupKey,
			&rec.Rationale,
			&rec.Title,
			&rec.Description,
			&rec.SuggestedAction,
			&rec.Score,
			&rec.Confidence,
			&stmtA,
			&stmtB,
		)
		if err != nil {
			return nil, err
		}
		rec.Severity = models.Severity(severity)

		if err := json.Unmarshal(stmtA, &rec.StatementA); err != nil {
			return nil, fmt.Errorf("decoding statement_a for %s: %w", rec.ContradictionID, err)
		}
		if err := json.Unmarshal(stmtB, &rec.StatementB); err != nil {
			return nil, fmt.Errorf("decoding statement_b for %s: %w", rec.ContradictionID, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Suppress hides a contradiction id from listings without deleting records.
func (r *PostgresContradictionRepository) Suppress(ctx context.Context, caseID, contradictionID string) error {
	query := `
		INSERT INTO suppressions (case_id, contradiction_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (case_id, contradiction_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, caseID, contradictionID, time.Now())
	return err
}

// Unsuppress restores a contradiction id to listings.
func (r *PostgresContradictionRepository) Unsuppress(ctx context.Context, caseID, contradictionID string) error {
	query := `DELETE FROM suppressions WHERE case_id = $1 AND contradiction_id = $2`
	_, err := r.db.ExecContext(ctx, query, caseID, contradictionID)
	return err
}

// Suppressions lists the suppressed contradiction ids for a case.
func (r *PostgresContradictionRepository) Suppressions(ctx context.Context, caseID string) ([]string, error) {
	query := `SELECT contradiction_id FROM suppressions WHERE case_id = $1 ORDER BY contradiction_id ASC`

	rows, err := r.db.QueryContext(ctx, query, caseID)
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

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Annotate adds or replaces the reviewer note for a contradiction id.
func (r *PostgresContradictionRepository) Annotate(ctx context.Context, caseID, contradictionID, note string) error {
	query := `
		INSERT INTO annotations (case_id, contradiction_id, note, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (case_id, contradiction_id)
		DO UPDATE SET note = EXCLUDED.note, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, caseID, contradictionID, note, time.Now())
	return err
}

// Annotations lists all notes for a case.
func (r *PostgresContradictionRepository) Annotations(ctx context.Context, caseID string) ([]Annotation, error) {
	query := `
		SELECT contradiction_id, note, updated_at
		FROM annotations
		WHERE case_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []Annotation
	for rows.Next() {
		var a Annotation
		if err := rows.Scan(&a.ContradictionID, &a.Note, &a.UpdatedAt); err != nil {
			return nil, err
		}
		annotations = append(annotations, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return annotations, nil
}
