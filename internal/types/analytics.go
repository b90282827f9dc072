package types

// DateRange is an inclusive window of calendar days.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains reports whether d falls inside the window.
func (r DateRange) Contains(d Date) bool {
	return d.Between(r.Start, r.End)
}

// Funnel counts job applications by pipeline stage.
type Funnel struct {
	Applied  int `json:"applied"`
	Screener int `json:"screener"`
	Tech     int `json:"tech"`
	Offer    int `json:"offer"`
	Rejected int `json:"rejected"`
}

// TimelinePoint is the number of applications sent on one day.
type TimelinePoint struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// RecruiterWeek aggregates recruiter outreach for an ISO week (Monday start).
type RecruiterWeek struct {
	WeekStart    Date `json:"week_start"`
	Contacts     int  `json:"contacts"`
	Responses    int  `json:"responses"`
	ResponseRate int  `json:"response_rate"`
}

// CategoryCount is a learning-session count for one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StatusCount is a project count for one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// PlatformContent splits a platform's content into published and in-pipeline.
type PlatformContent struct {
	Platform   string `json:"platform"`
	Published  int    `json:"published"`
	InPipeline int    `json:"in_pipeline"`
}

// TaskDay is the created/completed task count for one day.
type TaskDay struct {
	Date      Date `json:"date"`
	Created   int  `json:"created"`
	Completed int  `json:"completed"`
}

// SeriesPoint is a generic (date, value) sample fed to the pattern calculators.
type SeriesPoint struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}

// SummaryStats holds headline totals and rates for the window.
type SummaryStats struct {
	TotalApplications      int `json:"total_applications"`
	TotalRecruiterContacts int `json:"total_recruiter_contacts"`
	TotalResponses         int `json:"total_responses"`
	TotalLearningSessions  int `json:"total_learning_sessions"`
	TotalLearningMinutes   int `json:"total_learning_minutes"`
	TotalTasksCompleted    int `json:"total_tasks_completed"`
	ActiveProjects         int `json:"active_projects"`
	PublishedContent       int `json:"published_content"`
	InterviewRate          int `json:"interview_rate"`
	OfferRate              int `json:"offer_rate"`
	ResponseRate           int `json:"response_rate"`
	LearningStreak         int `json:"learning_streak"`
}

// Trends holds period-over-period deltas; nil means not enough data.
type Trends struct {
	Applications *int `json:"applications"`
	Learning     *int `json:"learning"`
	Tasks        *int `json:"tasks"`
}

// GoalAchievement is the share of days a metric met its scaled target.
type GoalAchievement struct {
	Metric          string  `json:"metric"`
	Target          float64 `json:"target"`
	Threshold       float64 `json:"threshold"`
	AchievedDays    int     `json:"achieved_days"`
	TotalDays       int     `json:"total_days"`
	AchievementRate int     `json:"achievement_rate"`
	Insight         string  `json:"insight"`
}

// WeeklyPattern summarizes best/worst days and weekly average of a series.
type WeeklyPattern struct {
	Metric         string       `json:"metric"`
	BestDay        *SeriesPoint `json:"best_day"`
	WorstDay       *SeriesPoint `json:"worst_day"`
	AveragePerWeek float64      `json:"average_per_week"`
}

// AnalyticsBundle is every derived metric for one window. It is never stored.
type AnalyticsBundle struct {
	Range             DateRange         `json:"range"`
	Funnel            Funnel            `json:"funnel"`
	Timeline          []TimelinePoint   `json:"timeline"`
	RecruiterSeries   []RecruiterWeek   `json:"recruiter_series"`
	LearningBreakdown []CategoryCount   `json:"learning_breakdown"`
	ProjectBreakdown  []StatusCount     `json:"project_breakdown"`
	ContentBreakdown  []PlatformContent `json:"content_breakdown"`
	TaskSeries        []TaskDay         `json:"task_series"`
	Summary           SummaryStats      `json:"summary"`
	Trends            Trends            `json:"trends"`
	GoalAchievements  []GoalAchievement `json:"goal_achievements"`
	WeeklyPatterns    []WeeklyPattern   `json:"weekly_patterns"`
	Warnings          []SourceWarning   `json:"warnings,omitempty"`
}
