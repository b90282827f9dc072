// Package memory provides an in-process implementation of every store contract.
// It backs the tests and the demo mode of the server.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/types"
)

type completionKey struct {
	userID  uuid.UUID
	taskKey string
	date    string
}

// Store holds domain rows and completion records in memory.
type Store struct {
	mu          sync.RWMutex
	jobs        []types.Job
	recruiters  []types.RecruiterContact
	learning    []types.LearningSession
	projects    []types.Project
	content     []types.ContentItem
	manualTasks []types.ManualTask
	goals       []types.Goal
	completions map[completionKey]types.CompletionRecord
	now         func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		completions: make(map[completionKey]types.CompletionRecord),
		now:         time.Now,
	}
}

// AddJob inserts a job, assigning an id when missing.
func (s *Store) AddJob(j types.Job) types.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	s.jobs = append(s.jobs, j)
	return j
}

// AddRecruiter inserts a recruiter contact.
func (s *Store) AddRecruiter(r types.RecruiterContact) types.RecruiterContact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	s.recruiters = append(s.recruiters, r)
	return r
}

// AddLearning inserts a learning session.
func (s *Store) AddLearning(l types.LearningSession) types.LearningSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	s.learning = append(s.learning, l)
	return l
}

// AddProject inserts a project.
func (s *Store) AddProject(p types.Project) types.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.projects = append(s.projects, p)
	return p
}

// AddContent inserts a content item.
func (s *Store) AddContent(c types.ContentItem) types.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.content = append(s.content, c)
	return c
}

// AddManualTask inserts a manual task.
func (s *Store) AddManualTask(m types.ManualTask) types.ManualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.manualTasks = append(s.manualTasks, m)
	return m
}

// AddGoal inserts a goal.
func (s *Store) AddGoal(g types.Goal) types.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	s.goals = append(s.goals, g)
	return g
}

// CreateJob stores j and returns the stored copy.
func (s *Store) CreateJob(_ context.Context, j types.Job) (*types.Job, error) {
	j = s.AddJob(j)
	return &j, nil
}

// CreateRecruiterContact stores r and returns the stored copy.
func (s *Store) CreateRecruiterContact(_ context.Context, r types.RecruiterContact) (*types.RecruiterContact, error) {
	r = s.AddRecruiter(r)
	return &r, nil
}

// CreateLearningSession stores l and returns the stored copy.
func (s *Store) CreateLearningSession(_ context.Context, l types.LearningSession) (*types.LearningSession, error) {
	l = s.AddLearning(l)
	return &l, nil
}

// CreateProject stores p and returns the stored copy.
func (s *Store) CreateProject(_ context.Context, p types.Project) (*types.Project, error) {
	p = s.AddProject(p)
	return &p, nil
}

// CreateContentItem stores c and returns the stored copy.
func (s *Store) CreateContentItem(_ context.Context, c types.ContentItem) (*types.ContentItem, error) {
	c = s.AddContent(c)
	return &c, nil
}

// CreateManualTask stores m and returns the stored copy.
func (s *Store) CreateManualTask(_ context.Context, m types.ManualTask) (*types.ManualTask, error) {
	m = s.AddManualTask(m)
	return &m, nil
}

// CreateGoal stores g and returns the stored copy.
func (s *Store) CreateGoal(_ context.Context, g types.Goal) (*types.Goal, error) {
	g = s.AddGoal(g)
	return &g, nil
}

// Sources exposes the stored rows through the repository contracts.
func (s *Store) Sources() store.Sources {
	return store.Sources{
		Jobs: store.RepositoryFunc[types.Job](func(_ context.Context, userID uuid.UUID, f store.Filter) ([]types.Job, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filterRows(s.jobs, func(j types.Job) bool {
				return j.UserID == userID && f.Match(j.ID, j.AppliedDate, j.Status)
			}), nil
		}),
		Recruiters: store.RepositoryFunc[types.RecruiterContact](func(_ context.Context, userID uuid.UUID, f store.Filter) ([]types.RecruiterContact, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filterRows(s.recruiters, func(r types.RecruiterContact) bool {
				return r.UserID == userID && f.Match(r.ID, r.ContactDate, r.Status)
			}), nil
		}),
		Learning: store.RepositoryFunc[types.LearningSession](func(_ context.Context, userID uuid.UUID, f store.Filter) ([]types.LearningSession, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filterRows(s.learning, func(l types.LearningSession) bool {
				return l.UserID == userID && f.Match(l.ID, l.Date, "")
			}), nil
		}),
		Projects: store.RepositoryFunc[types.Project](func(_ context.Context, userID uuid.UUID, f store.Filter) ([]types.Project, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filterRows(s.projects, func(p types.Project) bool {
				return p.UserID == userID && f.WithoutDateBounds().Match(p.ID, types.Date{}, p.Status)
			}), nil
		}),
		Content: store.RepositoryFunc[types.ContentItem](func(_ context.Context, userID uuid.UUID, f store.Filter) ([]types.ContentItem, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filterRows(s.content, func(c types.ContentItem) bool {
				return c.UserID == userID && f.Match(c.ID, c.Date, c.Status)
			}), nil
		}),
		ManualTasks: store.RepositoryFunc[types.ManualTask](func(_ context.Context, userID uuid.UUID, f store.Filter) ([]types.ManualTask, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filterRows(s.manualTasks, func(m types.ManualTask) bool {
				return m.UserID == userID && f.Match(m.ID, m.DueDate, "")
			}), nil
		}),
		Goals: store.RepositoryFunc[types.Goal](func(_ context.Context, userID uuid.UUID, f store.Filter) ([]types.Goal, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filterRows(s.goals, func(g types.Goal) bool {
				return g.UserID == userID && f.WithoutDateBounds().Match(g.ID, types.Date{}, "")
			}), nil
		}),
	}
}

func filterRows[T any](rows []T, keep func(T) bool) []T {
	out := []T{}
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// UpsertCompletion inserts a completion record unless one already exists.
func (s *Store) UpsertCompletion(_ context.Context, rec types.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(rec)
	return nil
}

func (s *Store) upsertLocked(rec types.CompletionRecord) {
	k := completionKey{userID: rec.UserID, taskKey: rec.TaskKey, date: rec.OccurrenceDate.String()}
	if _, exists := s.completions[k]; exists {
		return
	}
	if rec.CompletedAt == nil {
		now := s.now()
		rec.CompletedAt = &now
	}
	s.completions[k] = rec
}

// DeleteCompletion removes a completion record if present.
func (s *Store) DeleteCompletion(_ context.Context, userID uuid.UUID, taskKey string, date types.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.completions, completionKey{userID: userID, taskKey: taskKey, date: date.String()})
	return nil
}

// ListCompletedKeys returns the task keys completed on date.
func (s *Store) ListCompletedKeys(_ context.Context, userID uuid.UUID, date types.Date) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make(map[string]bool)
	day := date.String()
	for k := range s.completions {
		if k.userID == userID && k.date == day {
			keys[k.taskKey] = true
		}
	}
	return keys, nil
}

// ListCompletions returns records with occurrence dates in [start, end], oldest first.
func (s *Store) ListCompletions(_ context.Context, userID uuid.UUID, start, end types.Date) ([]types.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []types.CompletionRecord{}
	for k, rec := range s.completions {
		if k.userID == userID && rec.OccurrenceDate.Between(start, end) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurrenceDate.Equal(out[j].OccurrenceDate) {
			return out[i].OccurrenceDate.Before(out[j].OccurrenceDate)
		}
		return out[i].TaskKey < out[j].TaskKey
	})
	return out, nil
}

// PublishContent marks the content item published and writes every record
// under one lock, so readers never observe a partial result.
func (s *Store) PublishContent(_ context.Context, userID, contentID uuid.UUID, records []types.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.content {
		if s.content[i].ID == contentID && s.content[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("content not found: %s", contentID)
	}

	s.content[idx].Status = types.ContentStatusPublished
	for _, rec := range records {
		s.upsertLocked(rec)
	}
	return nil
}

// CompletionCount returns the number of stored records, for assertions.
func (s *Store) CompletionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.completions)
}

var (
	_ store.CompletionStore  = (*Store)(nil)
	_ store.ContentPublisher = (*Store)(nil)
)
