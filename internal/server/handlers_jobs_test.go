package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/draft-assistant/internal/ingestion"
	"github.com/jonathan/draft-assistant/internal/types"
)

func TestIngestJob(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Go Engineer</title></head><body><main>Write Go services.</main></body></html>`))
	}))
	defer posting.Close()

	s, handler := newTestServer(t, newFakeStore(), &fakeGen{})
	userID := uuid.New()
	auth := authHeader(t, s, userID)

	rec := doJSON(t, handler, "POST", "/jobs/ingest", auth, map[string]string{"url": posting.URL})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Posting ingestion.JobPosting `json:"posting"`
		Link    types.JobLink        `json:"link"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Go Engineer", resp.Posting.Title)
	assert.Equal(t, ingestion.JobID(posting.URL), resp.Link.JobID)

	// The posting is stored and can be fetched back by job id
	rec = doJSON(t, handler, "GET", "/jobs/"+resp.Link.JobID, auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestIngestJob_InvalidURL(t *testing.T) {
	s, handler := newTestServer(t, newFakeStore(), &fakeGen{})
	auth := authHeader(t, s, uuid.New())

	rec := doJSON(t, handler, "POST", "/jobs/ingest", auth, map[string]string{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobPosting_NotFound(t *testing.T) {
	s, handler := newTestServer(t, newFakeStore(), &fakeGen{})
	auth := authHeader(t, s, uuid.New())

	rec := doJSON(t, handler, "GET", "/jobs/deadbeef1234", auth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	s, handler := newTestServer(t, newFakeStore(), &fakeGen{})
	userID := uuid.New()
	auth := authHeader(t, s, userID)

	rec := doJSON(t, handler, "GET", "/profile", auth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, "PUT", "/profile", auth, map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, "GET", "/profile", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name": "Alice"}`, rec.Body.String())
}

func TestPutProfile_InvalidJSON(t *testing.T) {
	s, handler := newTestServer(t, newFakeStore(), &fakeGen{})
	auth := authHeader(t, s, uuid.New())

	req := httptest.NewRequest("PUT", "/profile", nil)
	req.Header.Set("Authorization", auth)
	req.Body = http.NoBody
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
