package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/draft-assistant/internal/draftstore"
	"github.com/jonathan/draft-assistant/internal/server/middleware"
	"github.com/jonathan/draft-assistant/internal/types"
)

// handleListDrafts returns all drafts for the authenticated user.
func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	drafts, err := s.store.ListDrafts(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list drafts")
		return
	}
	if drafts == nil {
		drafts = []*types.Draft{}
	}

	s.jsonResponse(w, http.StatusOK, drafts)
}

// handleCreateDraft creates a new draft record.
func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := types.ValidateStruct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	draft := types.NewDraft(req.Name, req.TemplateID, nil)
	created, err := s.store.CreateDraft(r.Context(), userID, draft)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to create draft")
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

// handleGetDraft returns a single draft by id.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	draftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid draft id")
		return
	}

	draft, err := s.store.GetDraft(r.Context(), userID, draftID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get draft")
		return
	}
	if draft == nil {
		notFound := &ErrDraftNotFound{DraftID: draftID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, draft)
}

// handleUpdateDraft applies a partial update and returns the stored record.
func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	draftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid draft id")
		return
	}

	var patch draftstore.DraftPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if patch.Name != nil && *patch.Name == "" {
		validationErr := &ErrValidation{Field: "name", Message: "must not be empty"}
		s.errorResponse(w, HTTPStatus(validationErr), validationErr.Error())
		return
	}

	updated, err := s.store.UpdateDraft(r.Context(), userID, draftID, patch)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to update draft")
		return
	}
	if updated == nil {
		notFound := &ErrDraftNotFound{DraftID: draftID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteDraft removes a draft.
func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	draftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid draft id")
		return
	}

	if err := s.store.DeleteDraft(r.Context(), userID, draftID); err != nil {
		if errors.Is(err, draftstore.ErrNotFound) {
			notFound := &ErrDraftNotFound{DraftID: draftID}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete draft")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
