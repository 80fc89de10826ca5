package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/draft-assistant/internal/types"
)

func doJSON(t *testing.T, handler http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth_NoAuthRequired(t *testing.T) {
	_, handler := newTestServer(t, newFakeStore(), &fakeGen{})

	rec := doJSON(t, handler, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDrafts_RequireAuth(t *testing.T) {
	_, handler := newTestServer(t, newFakeStore(), &fakeGen{})

	rec := doJSON(t, handler, "GET", "/drafts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, handler, "GET", "/drafts", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndListDrafts(t *testing.T) {
	s, handler := newTestServer(t, newFakeStore(), &fakeGen{})
	userID := uuid.New()
	auth := authHeader(t, s, userID)

	rec := doJSON(t, handler, "POST", "/drafts", auth, types.CreateDraftRequest{Name: "Backend role"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Draft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Backend role", created.Name)
	assert.Len(t, created.Metadata.Sections, 5)

	rec = doJSON(t, handler, "GET", "/drafts", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []*types.Draft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestCreateDraft_ValidationError(t *testing.T) {
	s, handler := newTestServer(t, newFakeStore(), &fakeGen{})
	auth := authHeader(t, s, uuid.New())

	rec := doJSON(t, handler, "POST", "/drafts", auth, types.CreateDraftRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDraft(t *testing.T) {
	store := newFakeStore()
	s, handler := newTestServer(t, store, &fakeGen{})
	userID := uuid.New()
	auth := authHeader(t, s, userID)

	draft, err := store.CreateDraft(nil, userID, types.NewDraft("Role A", "", nil))
	require.NoError(t, err)

	rec := doJSON(t, handler, "GET", fmt.Sprintf("/drafts/%s", draft.ID), auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, "GET", fmt.Sprintf("/drafts/%s", uuid.New()), auth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, "GET", "/drafts/not-a-uuid", auth, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDraft_UserScoped(t *testing.T) {
	store := newFakeStore()
	s, handler := newTestServer(t, store, &fakeGen{})

	owner := uuid.New()
	draft, err := store.CreateDraft(nil, owner, types.NewDraft("Mine", "", nil))
	require.NoError(t, err)

	otherAuth := authHeader(t, s, uuid.New())
	rec := doJSON(t, handler, "GET", fmt.Sprintf("/drafts/%s", draft.ID), otherAuth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateDraft(t *testing.T) {
	store := newFakeStore()
	s, handler := newTestServer(t, store, &fakeGen{})
	userID := uuid.New()
	auth := authHeader(t, s, userID)

	draft, err := store.CreateDraft(nil, userID, types.NewDraft("Old name", "", nil))
	require.NoError(t, err)

	rec := doJSON(t, handler, "PUT", fmt.Sprintf("/drafts/%s", draft.ID), auth,
		map[string]any{"name": "New name"})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Draft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "New name", updated.Name)
}

func TestUpdateDraft_EmptyNameRejected(t *testing.T) {
	store := newFakeStore()
	s, handler := newTestServer(t, store, &fakeGen{})
	userID := uuid.New()
	auth := authHeader(t, s, userID)

	draft, err := store.CreateDraft(nil, userID, types.NewDraft("Keep", "", nil))
	require.NoError(t, err)

	rec := doJSON(t, handler, "PUT", fmt.Sprintf("/drafts/%s", draft.ID), auth,
		map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDraft(t *testing.T) {
	store := newFakeStore()
	s, handler := newTestServer(t, store, &fakeGen{})
	userID := uuid.New()
	auth := authHeader(t, s, userID)

	draft, err := store.CreateDraft(nil, userID, types.NewDraft("Doomed", "", nil))
	require.NoError(t, err)

	rec := doJSON(t, handler, "DELETE", fmt.Sprintf("/drafts/%s", draft.ID), auth, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, "DELETE", fmt.Sprintf("/drafts/%s", draft.ID), auth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDraft_StoreFailureIsNot404(t *testing.T) {
	store := newFakeStore()
	s, handler := newTestServer(t, store, &fakeGen{})
	userID := uuid.New()
	auth := authHeader(t, s, userID)

	draft, err := store.CreateDraft(nil, userID, types.NewDraft("Stuck", "", nil))
	require.NoError(t, err)

	store.fail = errors.New("connection refused")
	rec := doJSON(t, handler, "DELETE", fmt.Sprintf("/drafts/%s", draft.ID), auth, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to delete draft")
}
