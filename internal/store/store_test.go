package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/career-tracker/internal/types"
)

func TestFilterMatch_DateBounds(t *testing.T) {
	id := uuid.New()
	day := types.MustParseDate("2024-01-03")

	tests := []struct {
		name   string
		filter Filter
		date   types.Date
		want   bool
	}{
		{"no bounds", Filter{}, day, true},
		{"no bounds undated", Filter{}, types.Date{}, true},
		{"on or before", DateLessOrEqual(day), types.MustParseDate("2024-01-02"), true},
		{"after bound", DateLessOrEqual(day), types.MustParseDate("2024-01-04"), false},
		{"undated fails on or before", DateLessOrEqual(day), types.Date{}, false},
		{"undated fails equals", DateEquals(day), types.Date{}, false},
		{"undated fails between", DateBetween(day, day.AddDays(7)), types.Date{}, false},
		{"between", DateBetween(day, day.AddDays(7)), day.AddDays(7), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(id, tt.date, ""))
		})
	}
}

func TestFilterMatch_IDAndStatus(t *testing.T) {
	id := uuid.New()
	assert.True(t, IDEquals(id).Match(id, types.Date{}, "active"))
	assert.False(t, IDEquals(id).Match(uuid.New(), types.Date{}, "active"))
	assert.False(t, StatusNotEquals("done").Match(id, types.Date{}, "done"))
}

func TestFilter_WithoutDateBounds(t *testing.T) {
	id := uuid.New()
	f := DateLessOrEqual(types.MustParseDate("2024-01-03"))
	f.ID = &id
	f.StatusNot = "done"

	stripped := f.WithoutDateBounds()
	assert.True(t, f.HasDateBound())
	assert.False(t, stripped.HasDateBound())
	assert.Equal(t, &id, stripped.ID)
	assert.Equal(t, "done", stripped.StatusNot)
	assert.True(t, stripped.Match(id, types.Date{}, "active"))
}
