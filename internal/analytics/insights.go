package analytics

import (
	"math"

	"github.com/jonathan/career-tracker/internal/types"
)

// DefaultGoalThreshold is the share of a target that counts as meeting it.
const DefaultGoalThreshold = 0.8

// DefaultStreakWindow caps how far back a streak is searched.
const DefaultStreakWindow = 365

// Insight buckets for goal achievement
const (
	InsightExcellent = "excellent consistency"
	InsightGood      = "good progress"
	InsightFocus     = "focus on consistency"
	InsightStart     = "start tracking"
)

// Rate returns round(100 * num / den), or 0 when den is 0.
func Rate(num, den int) int {
	if den == 0 {
		return 0
	}
	return roundHalfUp(100 * float64(num) / float64(den))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func roundOneDecimal(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// LearningStreak counts consecutive days with a session, walking back from
// today inclusive for at most window days. No session today means 0.
func LearningStreak(sessionDates []types.Date, today types.Date, window int) int {
	logged := make(map[string]bool, len(sessionDates))
	for _, d := range sessionDates {
		logged[d.String()] = true
	}

	streak := 0
	for i := 0; i < window; i++ {
		if !logged[today.AddDays(-i).String()] {
			break
		}
		streak++
	}
	return streak
}

// LastDelta returns the last value minus the second-to-last value, or nil
// when the series has fewer than two points.
func LastDelta(series []types.SeriesPoint) *int {
	if len(series) < 2 {
		return nil
	}
	delta := roundHalfUp(series[len(series)-1].Value - series[len(series)-2].Value)
	return &delta
}

// GoalAchievement scores a series against target. A day is achieved when its
// value reaches target*threshold. A threshold <= 0 falls back to
// DefaultGoalThreshold.
func GoalAchievement(metric string, series []types.SeriesPoint, target, threshold float64) types.GoalAchievement {
	if threshold <= 0 {
		threshold = DefaultGoalThreshold
	}
	achieved := 0
	for _, p := range series {
		if p.Value >= target*threshold {
			achieved++
		}
	}
	rate := Rate(achieved, len(series))
	return types.GoalAchievement{
		Metric:          metric,
		Target:          target,
		Threshold:       threshold,
		AchievedDays:    achieved,
		TotalDays:       len(series),
		AchievementRate: rate,
		Insight:         achievementInsight(rate),
	}
}

func achievementInsight(rate int) string {
	switch {
	case rate >= 80:
		return InsightExcellent
	case rate >= 60:
		return InsightGood
	case rate > 0:
		return InsightFocus
	default:
		return InsightStart
	}
}

// WeeklyPattern finds the best and worst points of a series and its average
// per week. Ties keep the first point encountered.
func WeeklyPattern(metric string, series []types.SeriesPoint) types.WeeklyPattern {
	pattern := types.WeeklyPattern{Metric: metric}
	if len(series) == 0 {
		return pattern
	}

	best, worst := series[0], series[0]
	sum := 0.0
	for _, p := range series {
		if p.Value > best.Value {
			best = p
		}
		if p.Value < worst.Value {
			worst = p
		}
		sum += p.Value
	}

	weeks := math.Ceil(float64(len(series)) / 7)
	pattern.BestDay = &best
	pattern.WorstDay = &worst
	pattern.AveragePerWeek = roundOneDecimal(sum / weeks)
	return pattern
}
