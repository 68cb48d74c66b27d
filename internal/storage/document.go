// Package storage provides PostgreSQL repositories for documents,
// statements, and analysis output.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Document records the provenance of an ingested source file. Content never
// lands here; only the hash, for tamper checks against re-uploads.
type Document struct {
	ID         uuid.UUID
	CaseID     string
	Filename   string
	Hash       string
	Category   string
	UploadedAt time.Time
}

// DocumentRepository defines document persistence operations.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByCase(ctx context.Context, caseID string) ([]*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresDocumentRepository implements DocumentRepository using PostgreSQL.
type PostgresDocumentRepository struct {
	db *sql.DB
}

// NewPostgresDocumentRepository creates a new PostgresDocumentRepository.
func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// Create inserts a new document record.
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}

	query := `
		INSERT INTO documents (id, case_id, filename, hash, category, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.CaseID,
		doc.Filename,
		doc.Hash,
		doc.Category,
		doc.UploadedAt,
	)
	return err
}

// GetByID retrieves a document by its ID.
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	query := `
		SELECT id, case_id, filename, hash, category, uploaded_at
		FROM documents
		WHERE id = $1
	`

	doc := &Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.CaseID,
		&doc.Filename,
		&doc.Hash,
		&doc.Category,
		&doc.UploadedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByCase retrieves all documents for a case, ordered by filename.
func (r *PostgresDocumentRepository) ListByCase(ctx context.Context, caseID string) ([]*Document, error) {
	query := `
		SELECT id, case_id, filename, hash, category, uploaded_at
		FROM documents
		WHERE case_id = $1
		ORDER BY filename ASC
	`

	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc := &Document{}
		err := rows.Scan(
			&doc.ID,
			&doc.CaseID,
			&doc.Filename,
			&doc.Hash,
			&doc.Category,
			&doc.UploadedAt,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes a document record.
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
