package db

import (
	"context"
	"fmt"

	"github.com/jonathan/career-tracker/internal/types"
)

// The tracker only reads domain rows; these inserts back the seed command
// and the integration tests.

// CreateJob inserts a job application and returns it with its generated fields.
func (db *DB) CreateJob(ctx context.Context, j types.Job) (*types.Job, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (user_id, company, role_title, status, applied_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		j.UserID, j.Company, j.RoleTitle, j.Status, dateArg(j.AppliedDate),
	).Scan(&j.ID, &j.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &j, nil
}

// CreateRecruiterContact inserts a recruiter contact.
func (db *DB) CreateRecruiterContact(ctx context.Context, r types.RecruiterContact) (*types.RecruiterContact, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO recruiter_contacts (user_id, name, company, status, contact_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		r.UserID, r.Name, r.Company, r.Status, dateArg(r.ContactDate),
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create recruiter contact: %w", err)
	}
	return &r, nil
}

// CreateLearningSession inserts a learning session.
func (db *DB) CreateLearningSession(ctx context.Context, l types.LearningSession) (*types.LearningSession, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO learning_sessions (user_id, topic, category, duration_minutes, session_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		l.UserID, l.Topic, l.Category, l.DurationMinutes, dateArg(l.Date),
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create learning session: %w", err)
	}
	return &l, nil
}

// CreateProject inserts a project.
func (db *DB) CreateProject(ctx context.Context, p types.Project) (*types.Project, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO projects (user_id, name, status, next_action)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		p.UserID, p.Name, p.Status, p.NextAction,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &p, nil
}

// CreateContentItem inserts a content item. A zero date is stored as NULL.
func (db *DB) CreateContentItem(ctx context.Context, c types.ContentItem) (*types.ContentItem, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO content_items (user_id, title, platform, status, content_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.UserID, c.Title, c.Platform, c.Status, nullableDate(c.Date),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create content item: %w", err)
	}
	return &c, nil
}

// CreateManualTask inserts a manual task.
func (db *DB) CreateManualTask(ctx context.Context, m types.ManualTask) (*types.ManualTask, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO manual_tasks (user_id, title, due_date)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.UserID, m.Title, dateArg(m.DueDate),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create manual task: %w", err)
	}
	return &m, nil
}

// CreateGoal inserts a goal.
func (db *DB) CreateGoal(ctx context.Context, g types.Goal) (*types.Goal, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO goals (user_id, metric, period, target)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		g.UserID, g.Metric, g.Period, g.Target,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return &g, nil
}
