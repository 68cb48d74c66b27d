package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	reviewer := &Reviewer{
		Email:        "reviewer@example.com",
		Name:         "Case Reviewer",
		Role:         RoleReviewer,
		PasswordHash: "hashed_password",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectExec("INSERT INTO reviewers").
		WithArgs(sqlmock.AnyArg(), reviewer.Email, reviewer.Name, reviewer.Role, reviewer.PasswordHash, reviewer.CreatedAt, reviewer.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), reviewer)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if reviewer.ID == "" {
		t.Error("expected reviewer ID to be generated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	reviewerID := "123e4567-e89b-12d3-a456-426614174000"
	email := "reviewer@example.com"
	createdAt := time.Now()
	updatedAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash", "created_at", "updated_at"}).
		AddRow(reviewerID, email, "Case Reviewer", RoleReviewer, "hashed_password", createdAt, updatedAt)

	mock.ExpectQuery("SELECT (.+) FROM reviewers WHERE id").
		WithArgs(reviewerID).
		WillReturnRows(rows)

	reviewer, err := repo.GetByID(context.Background(), reviewerID)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if reviewer == nil {
		t.Fatal("expected reviewer to be returned")
	}

	if reviewer.ID != reviewerID {
		t.Errorf("expected ID %s, got %s", reviewerID, reviewer.ID)
	}

	if reviewer.Email != email {
		t.Errorf("expected email %s, got %s", email, reviewer.Email)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	reviewerID := "nonexistent"

	mock.ExpectQuery("SELECT (.+) FROM reviewers WHERE id").
		WithArgs(reviewerID).
		WillReturnError(sql.ErrNoRows)

	reviewer, err := repo.GetByID(context.Background(), reviewerID)
	if err != ErrReviewerNotFound {
		t.Errorf("expected ErrReviewerNotFound, got %v", err)
	}

	if reviewer != nil {
		t.Error("expected nil reviewer")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	reviewerID := "123e4567-e89b-12d3-a456-426614174000"
	email := "reviewer@example.com"
	createdAt := time.Now()
	updatedAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash", "created_at", "updated_at"}).
		AddRow(reviewerID, email, "Case Reviewer", RoleReviewer, "hashed_password", createdAt, updatedAt)

	mock.ExpectQuery("SELECT (.+) FROM reviewers WHERE email").
		WithArgs(email).
		WillReturnRows(rows)

	reviewer, err := repo.GetByEmail(context.Background(), email)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if reviewer == nil {
		t.Fatal("expected reviewer to be returned")
	}

	if reviewer.ID != reviewerID {
		t.Errorf("expected ID %s, got %s", reviewerID, reviewer.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	email := "nonexistent@example.com"

	mock.ExpectQuery("SELECT (.+) FROM reviewers WHERE email").
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)

	reviewer, err := repo.GetByEmail(context.Background(), email)
	if err != ErrReviewerNotFound {
		t.Errorf("expected ErrReviewerNotFound, got %v", err)
	}

	if reviewer != nil {
		t.Error("expected nil reviewer")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
