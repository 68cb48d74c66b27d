package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statementPayload is the wire shape for an incoming statement: the id and
// source document sit beside an open field map.
type statementPayload struct {
	ID               string         `json:"id"`
	SourceDocumentID string         `json:"source_document_id"`
	Fields           map[string]any `json:"fields"`
}

// handleLoadStatements replaces a case's statement set.
func (s *Server) handleLoadStatements(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "case id is required")
		return
	}

	var payloads []statementPayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	statements := make([]models.Statement, 0, len(payloads))
	for _, p := range payloads {
		stmt, err := models.NewStatement(p.ID, p.SourceDocumentID, p.Fields)
		if err != nil {
			respondError(w, http.StatusBadRequest, "every statement needs an id")
			return
		}
		statements = append(statements, stmt)
	}

	if err := s.statementRepo.DeleteByCase(r.Context(), caseID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear statements")
		return
	}
	if err := s.statementRepo.CreateBatch(r.Context(), caseID, statements); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save statements")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int{"loaded": len(statements)})
}

// handleListStatements returns a case's statements.
func (s *Server) handleListStatements(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "case id is required")
		return
	}

	statements, err := s.statementRepo.ListByCase(r.Context(), caseID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch statements")
		return
	}
	if statements == nil {
		statements = []models.Statement{}
	}

	respondJSON(w, http.StatusOK, statements)
}

// handleListAnnotations returns all reviewer notes for a case.
func (s *Server) handleListAnnotations(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "case id is required")
		return
	}

	annotations, err := s.recordRepo.Annotations(r.Context(), caseID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch annotations")
		return
	}

	respondJSON(w, http.StatusOK, annotations)
}
