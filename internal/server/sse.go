package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/events"
)

// Reconnect delay suggested to EventSource clients, in milliseconds.
const sseRetryMillis = 3000

// invalidationStream writes the /v1/events wire format: one "ready" frame,
// then numbered "invalidate" frames, with comment lines as keepalives.
type invalidationStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

func newInvalidationStream(w http.ResponseWriter) (*invalidationStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &invalidationStream{w: w, flusher: flusher}, nil
}

func (s *invalidationStream) ready(userID uuid.UUID) error {
	if _, err := fmt.Fprintf(s.w, "retry: %d\n", sseRetryMillis); err != nil {
		return err
	}
	return s.frame("", "ready", map[string]string{"user_id": userID.String()})
}

// invalidate tells the client that cached results of ev.Query for ev.Date are stale.
func (s *invalidationStream) invalidate(ev events.Event) error {
	s.seq++
	return s.frame(fmt.Sprint(s.seq), "invalidate", ev)
}

func (s *invalidationStream) keepAlive() error {
	if _, err := fmt.Fprint(s.w, ": keepalive\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *invalidationStream) frame(id, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if id != "" {
		if _, err := fmt.Fprintf(s.w, "id: %s\n", id); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
