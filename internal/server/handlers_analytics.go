package server

import (
	"net/http"

	"github.com/jonathan/career-tracker/internal/types"
)

// handleAnalytics returns the analytics bundle for ?start=&end=.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := optionalDate(query.Get("start"), "start")
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	end, err := optionalDate(query.Get("end"), "end")
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	bundle, err := s.engine.Analytics(r.Context(), requestUser(r), start, end)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, bundle)
}

// optionalDate parses raw, leaving the zero date when it is empty so the
// engine reports the missing bound.
func optionalDate(raw, field string) (types.Date, error) {
	if raw == "" {
		return types.Date{}, nil
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return types.Date{}, &ErrValidation{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return d, nil
}
