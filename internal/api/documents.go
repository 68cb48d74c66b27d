package api

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/sspedowski/justice-document-pip/internal/storage"
)

const maxUploadSize = 10 << 20 // 10 MB

// UploadResponse represents the response after a document upload
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Hash       string `json:"hash"`
	Status     string `json:"status"`
}

// handleUploadDocument records provenance for an uploaded source file. The
// file content is hashed, not stored; statements arrive separately through
// the statements endpoint referencing the returned document id.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "case id is required")
		return
	}

	// Limit upload size
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	allowedExts := map[string]bool{".pdf": true, ".md": true, ".txt": true, ".json": true, ".csv": true}
	if !allowedExts[ext] {
		respondError(w, http.StatusBadRequest, "only .pdf, .md, .txt, .json, and .csv files are allowed")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])

	doc := &storage.Document{
		CaseID:   caseID,
		Filename: header.Filename,
		Hash:     hashStr,
		Category: r.FormValue("category"),
	}

	if err := s.documentRepo.Create(r.Context(), doc); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save document")
		return
	}

	respondJSON(w, http.StatusCreated, UploadResponse{
		DocumentID: doc.ID.String(),
		Filename:   doc.Filename,
		Hash:       hashStr,
		Status:     "created",
	})
}

// handleListDocuments lists all documents recorded for a case
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "case id is required")
		return
	}

	docs, err := s.documentRepo.ListByCase(r.Context(), caseID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch documents")
		return
	}

	type DocumentResponse struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
		Hash     string `json:"hash"`
		Category string `json:"category,omitempty"`
	}

	response := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		response = append(response, DocumentResponse{
			ID:       doc.ID.String(),
			Filename: doc.Filename,
			Hash:     doc.Hash,
			Category: doc.Category,
		})
	}

	respondJSON(w, http.StatusOK, response)
}
