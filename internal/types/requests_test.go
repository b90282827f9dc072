package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteTaskRequest_Validate(t *testing.T) {
	id := uuid.New()
	valid := func() CompleteTaskRequest {
		return CompleteTaskRequest{
			TaskKey:        TaskKey(SourceManual, id, Date{}),
			OccurrenceDate: MustParseDate("2024-01-03"),
			SourceKind:     SourceManual,
			SourceID:       &id,
		}
	}

	t.Run("valid", func(t *testing.T) {
		req := valid()
		assert.NoError(t, req.Validate())
	})

	t.Run("missing key", func(t *testing.T) {
		req := valid()
		req.TaskKey = ""
		err := req.Validate()
		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "TaskKey", fe.Field)
		assert.Equal(t, "required", fe.Tag)
	})

	t.Run("unknown kind", func(t *testing.T) {
		req := valid()
		req.SourceKind = "habit"
		err := req.Validate()
		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "SourceKind", fe.Field)
	})

	t.Run("missing date", func(t *testing.T) {
		req := valid()
		req.OccurrenceDate = Date{}
		assert.Error(t, req.Validate())
	})

	t.Run("missing source id", func(t *testing.T) {
		req := valid()
		req.SourceID = nil
		assert.Error(t, req.Validate())
	})
}

func TestAnalyticsRequest_Validate(t *testing.T) {
	req := AnalyticsRequest{Start: MustParseDate("2024-01-01")}
	assert.Error(t, req.Validate())

	req.End = MustParseDate("2024-01-31")
	assert.NoError(t, req.Validate())
}
