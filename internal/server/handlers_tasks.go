package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/server/middleware"
	"github.com/jonathan/career-tracker/internal/types"
)

// maxBodyBytes caps request bodies on write endpoints.
const maxBodyBytes = 64 << 10

// handleListTasks returns the task projection for ?date=, or for today.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)

	var day types.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := types.ParseDate(raw)
		if err != nil {
			errorResponse(w, r, &ErrValidation{Field: "date", Message: "must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	projection, err := s.engine.TodayTasks(r.Context(), userID, day)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, projection)
}

// handleCompleteTask records a completion marker.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	var req types.CompleteTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.engine.Complete(r.Context(), requestUser(r), req); err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"task_key":        req.TaskKey,
		"occurrence_date": req.OccurrenceDate,
		"completed":       true,
	})
}

// handleUncompleteTask removes a completion marker.
func (s *Server) handleUncompleteTask(w http.ResponseWriter, r *http.Request) {
	var req types.UncompleteTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.engine.Uncomplete(r.Context(), requestUser(r), req); err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"task_key":        req.TaskKey,
		"occurrence_date": req.OccurrenceDate,
		"completed":       false,
	})
}

// decodeBody reads a JSON body into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		errorResponse(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return false
	}
	return true
}

// requestUser returns the authenticated user, or uuid.Nil so the engine
// rejects the call as unauthenticated.
func requestUser(r *http.Request) uuid.UUID {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil
	}
	return userID
}
