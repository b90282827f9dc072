// Package tracker is the entry point to the task and analytics engine. It
// gates every call on an authenticated user, resolves "today" in the user's
// timezone, and wires the projector, ledger and aggregator to one storage
// backend.
package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/analytics"
	"github.com/jonathan/career-tracker/internal/events"
	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/tasks"
	"github.com/jonathan/career-tracker/internal/types"
)

// Options configures an Engine. Zero values pick defaults.
type Options struct {
	// Location is the timezone "today" is computed in. Defaults to UTC.
	Location         *time.Location
	GoalThreshold    float64
	StreakWindowDays int
	// Publisher receives invalidation events after every write.
	Publisher events.Publisher
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine serves task lists, completion changes and analytics for a user.
type Engine struct {
	projector  *tasks.Projector
	ledger     *tasks.Ledger
	aggregator *analytics.Aggregator
	location   *time.Location
	now        func() time.Time
}

// New creates an engine over sources (domain reads) and ledger (completion writes).
func New(sources store.Sources, ledger store.Ledger, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		projector: tasks.NewProjector(sources, ledger),
		ledger:    tasks.NewLedger(sources.Content, ledger, opts.Publisher),
		aggregator: analytics.NewAggregator(sources, ledger, analytics.Options{
			GoalThreshold:    opts.GoalThreshold,
			StreakWindowDays: opts.StreakWindowDays,
		}),
		location: opts.Location,
		now:      opts.Now,
	}
}

// Today returns the current civil date in the engine's timezone.
func (e *Engine) Today() types.Date {
	return types.DateOf(e.now().In(e.location))
}

// TodayTasks returns the task list for day, or for today when day is zero.
func (e *Engine) TodayTasks(ctx context.Context, userID uuid.UUID, day types.Date) (*types.Projection, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if day.IsZero() {
		day = e.Today()
	}
	return e.projector.Project(ctx, userID, day)
}

// Complete marks a task done for one occurrence date.
func (e *Engine) Complete(ctx context.Context, userID uuid.UUID, req types.CompleteTaskRequest) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return e.ledger.Complete(ctx, userID, req)
}

// Uncomplete removes a task's completion for one occurrence date.
func (e *Engine) Uncomplete(ctx context.Context, userID uuid.UUID, req types.UncompleteTaskRequest) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return e.ledger.Uncomplete(ctx, userID, req)
}

// Analytics computes the bundle for [start, end]. start == end is a valid
// one-day window.
func (e *Engine) Analytics(ctx context.Context, userID uuid.UUID, start, end types.Date) (*types.AnalyticsBundle, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	req := types.AnalyticsRequest{Start: start, End: end}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &ErrInvalidRange{Start: start, End: end}
	}
	return e.aggregator.Compute(ctx, userID, types.DateRange{Start: start, End: end}, e.Today())
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return &ErrNotAuthenticated{}
	}
	return nil
}
