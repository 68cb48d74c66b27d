package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// StatementRepository defines statement persistence operations. Statements
// are stored with their open field map serialized as JSONB.
type StatementRepository interface {
	CreateBatch(ctx context.Context, caseID string, statements []models.Statement) error
	ListByCase(ctx context.Context, caseID string) ([]models.Statement, error)
	DeleteByCase(ctx context.Context, caseID string) error
}

// PostgresStatementRepository implements StatementRepository using PostgreSQL.
type PostgresStatementRepository struct {
	db *sql.DB
}

// NewPostgresStatementRepository creates a new PostgresStatementRepository.
func NewPostgresStatementRepository(db *sql.DB) *PostgresStatementRepository {
	return &PostgresStatementRepository{db: db}
}

// CreateBatch inserts statements for a case in a single transaction.
func (r *PostgresStatementRepository) CreateBatch(ctx context.Context, caseID string, statements []models.Statement) error {
	if len(statements) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO statements (id, case_id, document_id, fields, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, s := range statements {
		fields, err := json.Marshal(s.Fields)
		if err != nil {
			return fmt.Errorf("encoding fields for statement %s: %w", s.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			s.ID,
			caseID,
			s.DocumentID,
			fields,
			now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByCase retrieves all statements for a case, ordered by id.
func (r *PostgresStatementRepository) ListByCase(ctx context.Context, caseID string) ([]models.Statement, error) {
	query := `
		SELECT id, document_id, fields
		FROM statements
		WHERE case_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []models.Statement
	for rows.Next() {
		var (
			id         string
			documentID string
			rawFields  []byte
		)
		if err := rows.Scan(&id, &documentID, &rawFields); err != nil {
			return nil, err
		}

		var fields map[string]any
		if err := json.Unmarshal(rawFields, &fields); err != nil {
			return nil, fmt.Errorf("decoding fields for statement %s: %w", id, err)
		}

		s, err := models.NewStatement(id, documentID, fields)
		if err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return statements, nil
}

// DeleteByCase removes all statements for a case.
func (r *PostgresStatementRepository) DeleteByCase(ctx context.Context, caseID string) error {
	query := `DELETE FROM statements WHERE case_id = $1`
	_, err := r.db.ExecContext(ctx, query, caseID)
	return err
}
