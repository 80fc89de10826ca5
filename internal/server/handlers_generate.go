package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/draft-assistant/internal/events"
	"github.com/jonathan/draft-assistant/internal/orchestrator"
	"github.com/jonathan/draft-assistant/internal/server/middleware"
	"github.com/jonathan/draft-assistant/internal/types"
)

// handleGenerateStream starts a generation run and streams its lifecycle
// events as SSE until the run finishes.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := types.ValidateStruct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	run := s.runFor(userID)
	if run.orch.Generating() {
		conflict := &ErrRunInProgress{}
		s.errorResponse(w, HTTPStatus(conflict), conflict.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Forward bus events to the stream for the duration of the run.
	subID := run.bus.Subscribe(func(ev events.Event) {
		sse.WriteEvent(string(ev.Type), ev) //nolint:errcheck
	})
	defer run.bus.Unsubscribe(subID)

	runErr := run.orch.Run(r.Context(), userID, req.JobID, req.Options())
	switch {
	case runErr == orchestrator.ErrAborted:
		sse.WriteComplete(req.JobID, "aborted")
	case runErr != nil:
		sse.WriteError(runErr.Error())
	default:
		sse.WriteComplete(req.JobID, "success")
	}
}

// handleGenerateAbort aborts the user's in-flight run, if any.
func (s *Server) handleGenerateAbort(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	run := s.runFor(userID)
	run.orch.Abort()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "aborted"})
}

// handleGenerateReset returns every segment to idle and drops run results.
func (s *Server) handleGenerateReset(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	run := s.runFor(userID)
	if run.orch.Generating() {
		conflict := &ErrRunInProgress{}
		s.errorResponse(w, HTTPStatus(conflict), conflict.Error())
		return
	}
	run.orch.Reset()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleRetrySegment re-runs one segment of the previous run.
func (s *Server) handleRetrySegment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	segment := types.SegmentKey(r.PathValue("segment"))
	switch segment {
	case types.SegmentBase, types.SegmentSkills, types.SegmentExperience:
	default:
		s.errorResponse(w, http.StatusBadRequest, "unknown segment")
		return
	}

	run := s.runFor(userID)
	if err := run.orch.RetrySegment(r.Context(), segment); err != nil {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, generateStatus(run.orch))
}

// handleGenerateStatus reports per-segment state and the merged result.
func (s *Server) handleGenerateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	run := s.runFor(userID)
	s.jsonResponse(w, http.StatusOK, generateStatus(run.orch))
}

// generateStatusResponse is the wire shape for run status queries.
type generateStatusResponse struct {
	Generating bool                                    `json:"generating"`
	Segments   map[types.SegmentKey]types.SegmentStatus `json:"segments"`
	Error      string                                  `json:"error,omitempty"`
	Result     *types.MergedContent                    `json:"result,omitempty"`
}

func generateStatus(orch *orchestrator.Orchestrator) generateStatusResponse {
	return generateStatusResponse{
		Generating: orch.Generating(),
		Segments:   orch.State(),
		Error:      orch.LastError(),
		Result:     orch.Result(),
	}
}
