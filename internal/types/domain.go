// Package types provides the domain rows, projections and analytics shapes shared across the career tracker.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Job application pipeline statuses
const (
	JobStatusApplied  = "applied"
	JobStatusScreener = "screener"
	JobStatusTech     = "tech"
	JobStatusOffer    = "offer"
	JobStatusRejected = "rejected"
)

// JobStatuses lists the funnel stages in pipeline order.
var JobStatuses = []string{
	JobStatusApplied,
	JobStatusScreener,
	JobStatusTech,
	JobStatusOffer,
	JobStatusRejected,
}

// RecruiterStatusMessaged is the initial state of a recruiter contact.
// Any other status counts as a response.
const RecruiterStatusMessaged = "messaged"

// Project statuses
const (
	ProjectStatusIdea   = "idea"
	ProjectStatusActive = "active"
	ProjectStatusPaused = "paused"
	ProjectStatusDone   = "done"
)

// Content statuses
const (
	ContentStatusIdea      = "idea"
	ContentStatusDrafting  = "drafting"
	ContentStatusScheduled = "scheduled"
	ContentStatusPublished = "published"
)

// Job is a tracked job application.
type Job struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Company     string    `json:"company"`
	RoleTitle   string    `json:"role_title"`
	Status      string    `json:"status"`
	AppliedDate Date      `json:"applied_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecruiterContact is one outreach to a recruiter.
type RecruiterContact struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Company     string    `json:"company,omitempty"`
	Status      string    `json:"status"`
	ContactDate Date      `json:"contact_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Responded reports whether the recruiter moved past the initial outreach.
func (r RecruiterContact) Responded() bool {
	return r.Status != RecruiterStatusMessaged
}

// LearningSession is a logged block of study.
type LearningSession struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Topic           string    `json:"topic"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	Date            Date      `json:"date"`
	CreatedAt       time.Time `json:"created_at"`
}

// Project is a side project with an optional next action.
type Project struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	NextAction string    `json:"next_action,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Active reports whether the project still generates daily tasks.
func (p Project) Active() bool {
	return p.Status != ProjectStatusDone && p.NextAction != ""
}

// ContentItem is a piece of content scheduled for a platform.
type ContentItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Platform  string    `json:"platform"`
	Status    string    `json:"status"`
	Date      Date      `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// Published reports whether the item has gone out.
func (c ContentItem) Published() bool {
	return c.Status == ContentStatusPublished
}

// ManualTask is an ad-hoc task entered by the user.
type ManualTask struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	DueDate   Date      `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Goal metrics
const (
	GoalMetricApplications = "applications"
	GoalMetricLearning     = "learning"
	GoalMetricTasks        = "tasks"
)

// Goal periods
const (
	GoalPeriodDaily  = "daily"
	GoalPeriodWeekly = "weekly"
)

// Goal is a user-defined target for one tracked metric.
type Goal struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Metric    string    `json:"metric"`
	Period    string    `json:"period"`
	Target    float64   `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyTarget normalizes the goal's target to a per-day value.
func (g Goal) DailyTarget() float64 {
	if g.Period == GoalPeriodWeekly {
		return g.Target / 7
	}
	return g.Target
}

// CompletionRecord marks one task key as done for one occurrence date.
type CompletionRecord struct {
	UserID         uuid.UUID  `json:"user_id"`
	TaskKey        string     `json:"task_key"`
	OccurrenceDate Date       `json:"occurrence_date"`
	Label          string     `json:"label,omitempty"`
	SourceKind     SourceKind `json:"source_kind,omitempty"`
	SourceID       *uuid.UUID `json:"source_id,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}
