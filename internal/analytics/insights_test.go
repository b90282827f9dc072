package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-tracker/internal/types"
)

func d(s string) types.Date { return types.MustParseDate(s) }

func series(start string, values ...float64) []types.SeriesPoint {
	out := make([]types.SeriesPoint, len(values))
	for i, v := range values {
		out[i] = types.SeriesPoint{Date: d(start).AddDays(i), Value: v}
	}
	return out
}

func TestRate(t *testing.T) {
	assert.Equal(t, 50, Rate(5, 10))
	assert.Equal(t, 33, Rate(1, 3))
	assert.Equal(t, 67, Rate(2, 3))
	assert.Equal(t, 50, Rate(1, 2))
	assert.Equal(t, 0, Rate(0, 0))
	assert.Equal(t, 0, Rate(7, 0))
}

func TestLearningStreak(t *testing.T) {
	today := d("2024-03-10")

	t.Run("three consecutive days", func(t *testing.T) {
		dates := []types.Date{today, today.AddDays(-1), today.AddDays(-2), today.AddDays(-4)}
		assert.Equal(t, 3, LearningStreak(dates, today, DefaultStreakWindow))
	})

	t.Run("no session today", func(t *testing.T) {
		dates := []types.Date{today.AddDays(-1), today.AddDays(-2), today.AddDays(-3)}
		assert.Equal(t, 0, LearningStreak(dates, today, DefaultStreakWindow))
	})

	t.Run("multiple sessions a day count once", func(t *testing.T) {
		dates := []types.Date{today, today, today.AddDays(-1)}
		assert.Equal(t, 2, LearningStreak(dates, today, DefaultStreakWindow))
	})

	t.Run("capped by window", func(t *testing.T) {
		var dates []types.Date
		for i := 0; i < 10; i++ {
			dates = append(dates, today.AddDays(-i))
		}
		assert.Equal(t, 5, LearningStreak(dates, today, 5))
	})
}

func TestLastDelta(t *testing.T) {
	assert.Nil(t, LastDelta(nil))
	assert.Nil(t, LastDelta(series("2024-01-01", 4)))

	delta := LastDelta(series("2024-01-01", 1, 5, 2))
	require.NotNil(t, delta)
	assert.Equal(t, -3, *delta)
}

func TestGoalAchievement(t *testing.T) {
	t.Run("three of four days", func(t *testing.T) {
		got := GoalAchievement(types.GoalMetricLearning, series("2024-01-01", 1, 1, 0, 1), 1, 0.8)
		assert.Equal(t, 3, got.AchievedDays)
		assert.Equal(t, 4, got.TotalDays)
		assert.Equal(t, 75, got.AchievementRate)
		assert.Equal(t, InsightGood, got.Insight)
	})

	t.Run("threshold scales target", func(t *testing.T) {
		// target 5 * 0.8 = 4
		got := GoalAchievement(types.GoalMetricApplications, series("2024-01-01", 4.5, 3, 5), 5, 0.8)
		assert.Equal(t, 2, got.AchievedDays)
		assert.Equal(t, 67, got.AchievementRate)
	})

	t.Run("default threshold", func(t *testing.T) {
		got := GoalAchievement(types.GoalMetricTasks, series("2024-01-01", 1), 1, 0)
		assert.Equal(t, DefaultGoalThreshold, got.Threshold)
	})

	t.Run("empty series", func(t *testing.T) {
		got := GoalAchievement(types.GoalMetricTasks, nil, 3, 0.8)
		assert.Equal(t, 0, got.AchievementRate)
		assert.Equal(t, InsightStart, got.Insight)
	})
}

func TestAchievementInsight(t *testing.T) {
	tests := []struct {
		rate int
		want string
	}{
		{100, InsightExcellent},
		{80, InsightExcellent},
		{79, InsightGood},
		{60, InsightGood},
		{59, InsightFocus},
		{1, InsightFocus},
		{0, InsightStart},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, achievementInsight(tt.rate), "rate %d", tt.rate)
	}
}

func TestWeeklyPattern(t *testing.T) {
	// Mon, Tue, Wed
	got := WeeklyPattern("tasks", series("2024-01-01", 2, 5, 1))
	require.NotNil(t, got.BestDay)
	require.NotNil(t, got.WorstDay)
	assert.Equal(t, d("2024-01-02"), got.BestDay.Date)
	assert.Equal(t, 5.0, got.BestDay.Value)
	assert.Equal(t, d("2024-01-03"), got.WorstDay.Date)
	assert.Equal(t, 1.0, got.WorstDay.Value)
	assert.Equal(t, 8.0, got.AveragePerWeek)
}

func TestWeeklyPattern_MultipleWeeks(t *testing.T) {
	// 8 points span 2 weeks: sum 10 / 2
	got := WeeklyPattern("learning", series("2024-01-01", 1, 1, 1, 1, 1, 1, 1, 3))
	assert.Equal(t, 5.0, got.AveragePerWeek)

	// 10 / 3 weeks rounds to one decimal
	got = WeeklyPattern("learning", series("2024-01-01", append(make([]float64, 14), 10)...))
	assert.Equal(t, 3.3, got.AveragePerWeek)
}

func TestWeeklyPattern_TiesKeepFirst(t *testing.T) {
	got := WeeklyPattern("applications", series("2024-01-01", 3, 1, 3, 1))
	assert.Equal(t, d("2024-01-01"), got.BestDay.Date)
	assert.Equal(t, d("2024-01-02"), got.WorstDay.Date)
}

func TestWeeklyPattern_Empty(t *testing.T) {
	got := WeeklyPattern("tasks", nil)
	assert.Nil(t, got.BestDay)
	assert.Nil(t, got.WorstDay)
	assert.Equal(t, 0.0, got.AveragePerWeek)
}
