package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sspedowski/justice-document-pip/internal/report"
	"github.com/sspedowski/justice-document-pip/pkg/models"
)

// AnalyzeResponse reports a completed run.
type AnalyzeResponse struct {
	RunID    string             `json:"run_id"`
	Metadata models.RunMetadata `json:"metadata"`
}

// handleAnalyze runs the contradiction pipeline over a case's statements
// and persists the result as a new run.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
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

	result := s.pipeline.Run(r.Context(), statements)

	runID, err := s.recordRepo.SaveRun(r.Context(), caseID, result.Records, result.Metadata)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save run")
		return
	}

	respondJSON(w, http.StatusCreated, AnalyzeResponse{
		RunID:    runID.String(),
		Metadata: result.Metadata,
	})
}

// ContradictionListResponse wraps a run's records with its identity so
// clients can tell which run they are looking at.
type ContradictionListResponse struct {
	RunID          string          `json:"run_id"`
	Contradictions []models.Record `json:"contradictions"`
	Suppressed     []string        `json:"suppressed,omitempty"`
}

// handleListContradictions returns the latest run's records for a case.
// Suppressed contradictions are excluded unless ?include_suppressed=true;
// ?q= filters by rationale, group key, or rule name.
func (s *Server) handleListContradictions(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "case id is required")
		return
	}

	run, err := s.recordRepo.LatestRun(r.Context(), caseID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch runs")
		return
	}
	if run == nil {
		respondError(w, http.StatusNotFound, "no analysis run for case")
		return
	}

	var records []models.Record
	if q := r.URL.Query().Get("q"); q != "" {
		records, err = s.recordRepo.Search(r.Context(), run.ID, q)
	} else {
		records, err = s.recordRepo.ListByRun(r.Context(), run.ID)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch contradictions")
		return
	}

	suppressed, err := s.recordRepo.Suppressions(r.Context(), caseID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch suppressions")
		return
	}

	response := ContradictionListResponse{RunID: run.ID.String(), Suppressed: suppressed}

	if r.URL.Query().Get("include_suppressed") == "true" {
		response.Contradictions = records
	} else {
		hidden := make(map[string]bool, len(suppressed))
		for _, id := range suppressed {
			hidden[id] = true
		}
		response.Contradictions = make([]models.Record, 0, len(records))
		for _, rec := range records {
			if !hidden[rec.ContradictionID] {
				response.Contradictions = append(response.Contradictions, rec)
			}
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// SummaryResponse pairs run identity and metadata with the aggregate
// statistics.
type SummaryResponse struct {
	RunID    string             `json:"run_id"`
	Metadata models.RunMetadata `json:"metadata"`
	Summary  report.Summary     `json:"summary"`
}

// handleSummary returns aggregate statistics for a case's latest run.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "case id is required")
		return
	}

	run, err := s.recordRepo.LatestRun(r.Context(), caseID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch runs")
		return
	}
	if run == nil {
		respondError(w, http.StatusNotFound, "no analysis run for case")
		return
	}

	records, err := s.recordRepo.ListByRun(r.Context(), run.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch contradictions")
		return
	}

	respondJSON(w, http.StatusOK, SummaryResponse{
		RunID:    run.ID.String(),
		Metadata: run.Metadata,
		Summary:  report.Summarize(records),
	})
}

// handleSuppress hides a contradiction id from listings.
func (s *Server) handleSuppress(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	contradictionID := chi.URLParam(r, "contradictionID")
	if caseID == "" || contradictionID == "" {
		respondError(w, http.StatusBadRequest, "case id and contradiction id are required")
		return
	}

	if err := s.recordRepo.Suppress(r.Context(), caseID, contradictionID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to suppress contradiction")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "suppressed"})
}

// handleUnsuppress restores a contradiction id to listings.
func (s *Server) handleUnsuppress(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	contradictionID := chi.URLParam(r, "contradictionID")
	if caseID == "" || contradictionID == "" {
		respondError(w, http.StatusBadRequest, "case id and contradiction id are required")
		return
	}

	if err := s.recordRepo.Unsuppress(r.Context(), caseID, contradictionID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to unsuppress contradiction")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "unsuppressed"})
}

// AnnotateRequest carries the reviewer note body.
type AnnotateRequest struct {
	Note string `json:"note"`
}

// handleAnnotate attaches or replaces a reviewer note.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	contradictionID := chi.URLParam(r, "contradictionID")
	if caseID == "" || contradictionID == "" {
		respondError(w, http.StatusBadRequest, "case id and contradiction id are required")
		return
	}

	var req AnnotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Note == "" {
		respondError(w, http.StatusBadRequest, "note is required")
		return
	}

	if err := s.recordRepo.Annotate(r.Context(), caseID, contradictionID, req.Note); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save annotation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "annotated"})
}
