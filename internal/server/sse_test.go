package server

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-tracker/internal/events"
	"github.com/jonathan/career-tracker/internal/types"
)

func TestInvalidationStream_Frames(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := newInvalidationStream(rec)
	require.NoError(t, err)

	userID := uuid.MustParse("7d3f0c7e-9a51-4a4f-8a49-2f0c8f5f6b11")
	require.NoError(t, stream.ready(userID))
	require.NoError(t, stream.invalidate(events.Event{Query: events.QueryTasks, UserID: userID, Date: types.MustParseDate("2024-01-03")}))
	require.NoError(t, stream.keepAlive())
	require.NoError(t, stream.invalidate(events.Event{Query: events.QueryAnalytics, UserID: userID, Date: types.MustParseDate("2024-01-03")}))

	want := "retry: 3000\n" +
		"event: ready\ndata: {\"user_id\":\"" + userID.String() + "\"}\n\n" +
		"id: 1\nevent: invalidate\ndata: {\"query\":\"tasks\",\"user_id\":\"" + userID.String() + "\",\"date\":\"2024-01-03\"}\n\n" +
		": keepalive\n\n" +
		"id: 2\nevent: invalidate\ndata: {\"query\":\"analytics\",\"user_id\":\"" + userID.String() + "\",\"date\":\"2024-01-03\"}\n\n"
	assert.Equal(t, want, rec.Body.String())
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))
	assert.True(t, rec.Flushed)
}
