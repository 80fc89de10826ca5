package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/draft-assistant/internal/ingestion"
	"github.com/jonathan/draft-assistant/internal/server/middleware"
	"github.com/jonathan/draft-assistant/internal/types"
)

// ingestJobRequest asks the server to fetch and parse a job posting URL.
type ingestJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// handleIngestJob fetches a posting, stores it, and returns it with its
// draft link.
func (s *Server) handleIngestJob(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ingestJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := types.ValidateStruct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	posting, err := ingestion.FetchJobPosting(r.Context(), req.URL, nil)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := s.postings.SaveJobPosting(r.Context(), userID, posting); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save job posting")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"posting": posting,
		"link":    posting.Link(),
	})
}

// handleGetJobPosting returns a previously ingested posting.
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	posting, err := s.postings.GetJobPosting(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get job posting")
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "job posting not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, posting)
}

// handleGetProfile returns the user's stored candidate profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := s.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "no profile stored")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(profile)
}

// handlePutProfile stores or replaces the user's candidate profile.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if !json.Valid(body) {
		s.errorResponse(w, http.StatusBadRequest, "profile must be valid JSON")
		return
	}

	if err := s.profiles.UpsertProfile(r.Context(), userID, body); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "saved"})
}
