package server

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/tracker"
)

// handleEvents streams cache invalidations for the caller until the client
// disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	if userID == uuid.Nil {
		errorResponse(w, r, &tracker.ErrNotAuthenticated{})
		return
	}

	stream, err := newInvalidationStream(w)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	ch, cancel := s.events.Subscribe(userID)
	defer cancel()

	if err := stream.ready(userID); err != nil {
		return
	}

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := stream.invalidate(ev); err != nil {
				log.Printf("[events] stream to %s closed: %v", userID, err)
				return
			}
		case <-ticker.C:
			if err := stream.keepAlive(); err != nil {
				return
			}
		}
	}
}
