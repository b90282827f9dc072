// Package store defines the read and write contracts the engine needs from persistent storage.
//
// Domain rows are owned by the CRUD layer; the engine reads them through
// Repository and writes only completion markers and, for content tasks, the
// published status transition.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/types"
)

// Filter narrows a repository read. Zero-valued fields are ignored and all
// set fields are combined with AND. Date bounds apply to the row's primary
// date (applied date, contact date, session date, content date, due date).
type Filter struct {
	ID             *uuid.UUID
	DateOnOrBefore *types.Date
	DateOn         *types.Date
	DateFrom       *types.Date
	DateTo         *types.Date
	StatusNot      string
}

// DateLessOrEqual matches rows dated on or before d.
func DateLessOrEqual(d types.Date) Filter {
	return Filter{DateOnOrBefore: &d}
}

// DateEquals matches rows dated exactly d.
func DateEquals(d types.Date) Filter {
	return Filter{DateOn: &d}
}

// DateBetween matches rows dated within [start, end].
func DateBetween(start, end types.Date) Filter {
	return Filter{DateFrom: &start, DateTo: &end}
}

// StatusNotEquals matches rows whose status differs from status.
func StatusNotEquals(status string) Filter {
	return Filter{StatusNot: status}
}

// IDEquals matches the single row with the given id.
func IDEquals(id uuid.UUID) Filter {
	return Filter{ID: &id}
}

// HasDateBound reports whether any date field is set.
func (f Filter) HasDateBound() bool {
	return f.DateOnOrBefore != nil || f.DateOn != nil || f.DateFrom != nil || f.DateTo != nil
}

// WithoutDateBounds drops the date fields, for kinds that have no date.
func (f Filter) WithoutDateBounds() Filter {
	return Filter{ID: f.ID, StatusNot: f.StatusNot}
}

// Match reports whether a row with the given id, date and status passes the
// filter. A zero date never satisfies a date bound, like a NULL column.
func (f Filter) Match(id uuid.UUID, date types.Date, status string) bool {
	if f.ID != nil && *f.ID != id {
		return false
	}
	if f.StatusNot != "" && status == f.StatusNot {
		return false
	}
	if !f.HasDateBound() {
		return true
	}
	if date.IsZero() {
		return false
	}
	if f.DateOnOrBefore != nil && date.After(*f.DateOnOrBefore) {
		return false
	}
	if f.DateOn != nil && !date.Equal(*f.DateOn) {
		return false
	}
	if f.DateFrom != nil && date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && date.After(*f.DateTo) {
		return false
	}
	return true
}

// Repository reads one kind of domain row for a user. It returns an empty
// slice, not an error, when nothing matches.
type Repository[T any] interface {
	Find(ctx context.Context, userID uuid.UUID, filter Filter) ([]T, error)
}

// RepositoryFunc adapts a function to Repository.
type RepositoryFunc[T any] func(ctx context.Context, userID uuid.UUID, filter Filter) ([]T, error)

// Find calls f.
func (f RepositoryFunc[T]) Find(ctx context.Context, userID uuid.UUID, filter Filter) ([]T, error) {
	return f(ctx, userID, filter)
}

// Sources bundles every domain repository the engine reads.
type Sources struct {
	Jobs        Repository[types.Job]
	Recruiters  Repository[types.RecruiterContact]
	Learning    Repository[types.LearningSession]
	Projects    Repository[types.Project]
	Content     Repository[types.ContentItem]
	ManualTasks Repository[types.ManualTask]
	Goals       Repository[types.Goal]
}

// CompletionStore persists completion markers. Implementations must keep at
// most one record per (user, task key, occurrence date): a duplicate upsert
// is a successful no-op, and deleting a missing record is a no-op.
type CompletionStore interface {
	UpsertCompletion(ctx context.Context, rec types.CompletionRecord) error
	DeleteCompletion(ctx context.Context, userID uuid.UUID, taskKey string, date types.Date) error
	ListCompletedKeys(ctx context.Context, userID uuid.UUID, date types.Date) (map[string]bool, error)
	ListCompletions(ctx context.Context, userID uuid.UUID, start, end types.Date) ([]types.CompletionRecord, error)
}

// ContentPublisher performs the single cross-aggregate write the engine is
// allowed: marking a content item published together with its completion
// markers. Implementations apply the status change and every record in one
// transaction.
type ContentPublisher interface {
	PublishContent(ctx context.Context, userID, contentID uuid.UUID, records []types.CompletionRecord) error
}

// Ledger is the write side the completion ledger needs.
type Ledger interface {
	CompletionStore
	ContentPublisher
}
