// Package seed builds a demo dataset for one user and writes it through any
// backend that can create domain rows.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/types"
)

// Writer creates domain rows. Both the PostgreSQL and in-memory stores
// implement it.
type Writer interface {
	CreateJob(ctx context.Context, j types.Job) (*types.Job, error)
	CreateRecruiterContact(ctx context.Context, r types.RecruiterContact) (*types.RecruiterContact, error)
	CreateLearningSession(ctx context.Context, l types.LearningSession) (*types.LearningSession, error)
	CreateProject(ctx context.Context, p types.Project) (*types.Project, error)
	CreateContentItem(ctx context.Context, c types.ContentItem) (*types.ContentItem, error)
	CreateManualTask(ctx context.Context, m types.ManualTask) (*types.ManualTask, error)
	CreateGoal(ctx context.Context, g types.Goal) (*types.Goal, error)
}

// Dataset is a set of rows for one user.
type Dataset struct {
	Jobs        []types.Job
	Recruiters  []types.RecruiterContact
	Learning    []types.LearningSession
	Projects    []types.Project
	Content     []types.ContentItem
	ManualTasks []types.ManualTask
	Goals       []types.Goal
}

// Size returns the total number of rows.
func (d Dataset) Size() int {
	return len(d.Jobs) + len(d.Recruiters) + len(d.Learning) + len(d.Projects) +
		len(d.Content) + len(d.ManualTasks) + len(d.Goals)
}

// Demo returns two weeks of activity ending on today: a job search in
// progress, a three-day learning streak, two active side projects, content in
// every pipeline state and a couple of manual tasks.
func Demo(userID uuid.UUID, today types.Date) Dataset {
	ago := func(n int) types.Date { return today.AddDays(-n) }

	jobs := []struct {
		company, role, status string
		daysAgo               int
	}{
		{"Acme", "Backend Engineer", types.JobStatusTech, 13},
		{"Globex", "Platform Engineer", types.JobStatusRejected, 12},
		{"Initech", "Go Developer", types.JobStatusScreener, 9},
		{"Umbrella", "SRE", types.JobStatusApplied, 6},
		{"Hooli", "Staff Engineer", types.JobStatusOffer, 5},
		{"Stark Industries", "Backend Engineer", types.JobStatusApplied, 2},
		{"Wayne Enterprises", "Infrastructure Engineer", types.JobStatusApplied, 1},
	}
	recruiters := []struct {
		name, company, status string
		daysAgo               int
	}{
		{"Dana", "Acme", "replied", 11},
		{"Sam", "Hooli", "call_scheduled", 8},
		{"Alex", "", types.RecruiterStatusMessaged, 4},
		{"Robin", "Initech", types.RecruiterStatusMessaged, 1},
	}
	learning := []struct {
		topic, category string
		minutes, daysAgo int
	}{
		{"Go generics", "languages", 45, 0},
		{"pgx connection pooling", "databases", 30, 1},
		{"Distributed tracing", "observability", 60, 2},
		{"Raft paper", "distributed systems", 90, 4},
		{"SQL window functions", "databases", 40, 8},
	}

	var ds Dataset
	for _, j := range jobs {
		ds.Jobs = append(ds.Jobs, types.Job{
			UserID: userID, Company: j.company, RoleTitle: j.role, Status: j.status, AppliedDate: ago(j.daysAgo),
		})
	}
	for _, r := range recruiters {
		ds.Recruiters = append(ds.Recruiters, types.RecruiterContact{
			UserID: userID, Name: r.name, Company: r.company, Status: r.status, ContactDate: ago(r.daysAgo),
		})
	}
	for _, l := range learning {
		ds.Learning = append(ds.Learning, types.LearningSession{
			UserID: userID, Topic: l.topic, Category: l.category, DurationMinutes: l.minutes, Date: ago(l.daysAgo),
		})
	}

	ds.Projects = []types.Project{
		{UserID: userID, Name: "career-tracker", Status: types.ProjectStatusActive, NextAction: "Ship the analytics page"},
		{UserID: userID, Name: "dotfiles", Status: types.ProjectStatusPaused, NextAction: "Split the shell config"},
		{UserID: userID, Name: "blog engine", Status: types.ProjectStatusDone},
	}
	ds.Content = []types.ContentItem{
		{UserID: userID, Title: "What I learned from 50 applications", Platform: "blog", Status: types.ContentStatusPublished, Date: ago(7)},
		{UserID: userID, Title: "Postgres upserts in Go", Platform: "blog", Status: types.ContentStatusDrafting, Date: ago(1)},
		{UserID: userID, Title: "Job search thread", Platform: "linkedin", Status: types.ContentStatusScheduled, Date: today.AddDays(2)},
	}
	ds.ManualTasks = []types.ManualTask{
		{UserID: userID, Title: "Update CV with the tracker project", DueDate: ago(1)},
		{UserID: userID, Title: "Prepare system design notes", DueDate: today},
	}
	ds.Goals = []types.Goal{
		{UserID: userID, Metric: types.GoalMetricApplications, Period: types.GoalPeriodDaily, Target: 1},
		{UserID: userID, Metric: types.GoalMetricLearning, Period: types.GoalPeriodWeekly, Target: 5},
		{UserID: userID, Metric: types.GoalMetricTasks, Period: types.GoalPeriodDaily, Target: 2},
	}
	return ds
}

// Load writes every row of ds through w and returns how many were written.
// It stops at the first failure.
func Load(ctx context.Context, w Writer, ds Dataset) (int, error) {
	written := 0
	for _, j := range ds.Jobs {
		if _, err := w.CreateJob(ctx, j); err != nil {
			return written, fmt.Errorf("failed to seed job %s: %w", j.Company, err)
		}
		written++
	}
	for _, r := range ds.Recruiters {
		if _, err := w.CreateRecruiterContact(ctx, r); err != nil {
			return written, fmt.Errorf("failed to seed recruiter contact %s: %w", r.Name, err)
		}
		written++
	}
	for _, l := range ds.Learning {
		if _, err := w.CreateLearningSession(ctx, l); err != nil {
			return written, fmt.Errorf("failed to seed learning session %s: %w", l.Topic, err)
		}
		written++
	}
	for _, p := range ds.Projects {
		if _, err := w.CreateProject(ctx, p); err != nil {
			return written, fmt.Errorf("failed to seed project %s: %w", p.Name, err)
		}
		written++
	}
	for _, c := range ds.Content {
		if _, err := w.CreateContentItem(ctx, c); err != nil {
			return written, fmt.Errorf("failed to seed content %s: %w", c.Title, err)
		}
		written++
	}
	for _, m := range ds.ManualTasks {
		if _, err := w.CreateManualTask(ctx, m); err != nil {
			return written, fmt.Errorf("failed to seed manual task %s: %w", m.Title, err)
		}
		written++
	}
	for _, g := range ds.Goals {
		if _, err := w.CreateGoal(ctx, g); err != nil {
			return written, fmt.Errorf("failed to seed goal %s: %w", g.Metric, err)
		}
		written++
	}
	return written, nil
}
