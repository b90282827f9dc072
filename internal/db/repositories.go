package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/types"
)

var (
	jobsTable        = tableSpec{dateColumn: "applied_date", statusColumn: "status"}
	recruitersTable  = tableSpec{dateColumn: "contact_date", statusColumn: "status"}
	learningTable    = tableSpec{dateColumn: "session_date"}
	projectsTable    = tableSpec{statusColumn: "status"}
	contentTable     = tableSpec{dateColumn: "content_date", nullableDate: true, statusColumn: "status"}
	manualTasksTable = tableSpec{dateColumn: "due_date"}
	goalsTable       = tableSpec{}
)

// Sources exposes the domain tables through the store repository contracts.
func (db *DB) Sources() store.Sources {
	return store.Sources{
		Jobs:        store.RepositoryFunc[types.Job](db.FindJobs),
		Recruiters:  store.RepositoryFunc[types.RecruiterContact](db.FindRecruiterContacts),
		Learning:    store.RepositoryFunc[types.LearningSession](db.FindLearningSessions),
		Projects:    store.RepositoryFunc[types.Project](db.FindProjects),
		Content:     store.RepositoryFunc[types.ContentItem](db.FindContentItems),
		ManualTasks: store.RepositoryFunc[types.ManualTask](db.FindManualTasks),
		Goals:       store.RepositoryFunc[types.Goal](db.FindGoals),
	}
}

// findRows runs a filtered SELECT and scans every row with scan.
func findRows[T any](ctx context.Context, db *DB, table, columns string, spec tableSpec,
	userID uuid.UUID, filter store.Filter, scan func(pgx.Rows) (T, error)) ([]T, error) {
	where, args := buildWhere(userID, filter, spec)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", columns, table, where, orderBy(spec, filter))

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return out, nil
}

// FindJobs returns the user's job applications matching filter.
func (db *DB) FindJobs(ctx context.Context, userID uuid.UUID, filter store.Filter) ([]types.Job, error) {
	return findRows(ctx, db, "jobs",
		"id, user_id, company, role_title, status, applied_date, created_at",
		jobsTable, userID, filter,
		func(rows pgx.Rows) (types.Job, error) {
			var j types.Job
			var applied time.Time
			err := rows.Scan(&j.ID, &j.UserID, &j.Company, &j.RoleTitle, &j.Status, &applied, &j.CreatedAt)
			j.AppliedDate = types.DateOf(applied)
			return j, err
		})
}

// FindRecruiterContacts returns the user's recruiter contacts matching filter.
func (db *DB) FindRecruiterContacts(ctx context.Context, userID uuid.UUID, filter store.Filter) ([]types.RecruiterContact, error) {
	return findRows(ctx, db, "recruiter_contacts",
		"id, user_id, name, company, status, contact_date, created_at",
		recruitersTable, userID, filter,
		func(rows pgx.Rows) (types.RecruiterContact, error) {
			var r types.RecruiterContact
			var contacted time.Time
			err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Company, &r.Status, &contacted, &r.CreatedAt)
			r.ContactDate = types.DateOf(contacted)
			return r, err
		})
}

// FindLearningSessions returns the user's learning sessions matching filter.
func (db *DB) FindLearningSessions(ctx context.Context, userID uuid.UUID, filter store.Filter) ([]types.LearningSession, error) {
	return findRows(ctx, db, "learning_sessions",
		"id, user_id, topic, category, duration_minutes, session_date, created_at",
		learningTable, userID, filter,
		func(rows pgx.Rows) (types.LearningSession, error) {
			var l types.LearningSession
			var day time.Time
			err := rows.Scan(&l.ID, &l.UserID, &l.Topic, &l.Category, &l.DurationMinutes, &day, &l.CreatedAt)
			l.Date = types.DateOf(day)
			return l, err
		})
}

// FindProjects returns the user's projects matching filter. Date bounds do
// not apply to projects.
func (db *DB) FindProjects(ctx context.Context, userID uuid.UUID, filter store.Filter) ([]types.Project, error) {
	return findRows(ctx, db, "projects",
		"id, user_id, name, status, next_action, created_at, updated_at",
		projectsTable, userID, filter,
		func(rows pgx.Rows) (types.Project, error) {
			var p types.Project
			err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Status, &p.NextAction, &p.CreatedAt, &p.UpdatedAt)
			return p, err
		})
}

// FindContentItems returns the user's content items matching filter.
func (db *DB) FindContentItems(ctx context.Context, userID uuid.UUID, filter store.Filter) ([]types.ContentItem, error) {
	return findRows(ctx, db, "content_items",
		"id, user_id, title, platform, status, content_date, created_at",
		contentTable, userID, filter,
		func(rows pgx.Rows) (types.ContentItem, error) {
			var c types.ContentItem
			var day *time.Time
			err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Platform, &c.Status, &day, &c.CreatedAt)
			c.Date = dateFromNullable(day)
			return c, err
		})
}

// FindManualTasks returns the user's manual tasks matching filter.
func (db *DB) FindManualTasks(ctx context.Context, userID uuid.UUID, filter store.Filter) ([]types.ManualTask, error) {
	return findRows(ctx, db, "manual_tasks",
		"id, user_id, title, due_date, created_at",
		manualTasksTable, userID, filter,
		func(rows pgx.Rows) (types.ManualTask, error) {
			var m types.ManualTask
			var due time.Time
			err := rows.Scan(&m.ID, &m.UserID, &m.Title, &due, &m.CreatedAt)
			m.DueDate = types.DateOf(due)
			return m, err
		})
}

// FindGoals returns the user's goals, oldest first.
func (db *DB) FindGoals(ctx context.Context, userID uuid.UUID, filter store.Filter) ([]types.Goal, error) {
	return findRows(ctx, db, "goals",
		"id, user_id, metric, period, target, created_at",
		goalsTable, userID, filter,
		func(rows pgx.Rows) (types.Goal, error) {
			var g types.Goal
			err := rows.Scan(&g.ID, &g.UserID, &g.Metric, &g.Period, &g.Target, &g.CreatedAt)
			return g, err
		})
}
