package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/events"
	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/types"
)

// Ledger records which virtual tasks are done on which day.
//
// Per (task key, occurrence date) there are two states: incomplete (no
// record) and complete (one record). Every write publishes invalidation
// events for the task list and analytics of the dates it touched.
type Ledger struct {
	content   store.Repository[types.ContentItem]
	store     store.Ledger
	publisher events.Publisher
	now       func() time.Time
}

// NewLedger creates a ledger. A nil publisher discards events.
func NewLedger(content store.Repository[types.ContentItem], ledger store.Ledger, publisher events.Publisher) *Ledger {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Ledger{
		content:   content,
		store:     ledger,
		publisher: publisher,
		now:       time.Now,
	}
}

// Complete marks the task done for req.OccurrenceDate. Completing an already
// completed task is a no-op. Content tasks go through CompleteContentTask.
func (l *Ledger) Complete(ctx context.Context, userID uuid.UUID, req types.CompleteTaskRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := checkKey(req); err != nil {
		return err
	}
	if req.SourceKind == types.SourceContent {
		return l.CompleteContentTask(ctx, userID, req)
	}

	if err := l.store.UpsertCompletion(ctx, l.record(userID, req, req.OccurrenceDate)); err != nil {
		return fmt.Errorf("failed to complete task %s: %w", req.TaskKey, err)
	}
	l.publisher.Publish(events.Invalidations(userID, req.OccurrenceDate)...)
	return nil
}

// CompleteContentTask is the one write that reaches into another aggregate.
// If the content item is not yet published it is marked published, and the
// task is recorded done both on req.OccurrenceDate and on the item's own
// date, all in one transaction. Without the second record the task would
// read as incomplete when viewed on the content's scheduled day.
func (l *Ledger) CompleteContentTask(ctx context.Context, userID uuid.UUID, req types.CompleteTaskRequest) error {
	if req.SourceID == nil {
		return &KeyMismatchError{Key: req.TaskKey, Message: "content task requires a source id"}
	}
	contentID := *req.SourceID

	items, err := l.content.Find(ctx, userID, store.IDEquals(contentID))
	if err != nil {
		return fmt.Errorf("failed to load content %s: %w", contentID, err)
	}
	if len(items) == 0 {
		return &ContentNotFoundError{ContentID: contentID}
	}
	item := items[0]

	if item.Published() {
		if err := l.store.UpsertCompletion(ctx, l.record(userID, req, req.OccurrenceDate)); err != nil {
			return fmt.Errorf("failed to complete task %s: %w", req.TaskKey, err)
		}
		l.publisher.Publish(events.Invalidations(userID, req.OccurrenceDate)...)
		return nil
	}

	dates := []types.Date{req.OccurrenceDate}
	if !item.Date.IsZero() && !item.Date.Equal(req.OccurrenceDate) {
		dates = append(dates, item.Date)
	}
	records := make([]types.CompletionRecord, 0, len(dates))
	for _, d := range dates {
		records = append(records, l.record(userID, req, d))
	}

	if err := l.store.PublishContent(ctx, userID, contentID, records); err != nil {
		return fmt.Errorf("failed to publish content %s: %w", contentID, err)
	}
	log.Printf("[ledger] content %s published via task completion (%d markers)", contentID, len(records))
	l.publisher.Publish(events.Invalidations(userID, dates...)...)
	return nil
}

// Uncomplete removes the marker for req.OccurrenceDate; a missing marker is
// a no-op. Content stays published: the transition made by
// CompleteContentTask is one-directional.
func (l *Ledger) Uncomplete(ctx context.Context, userID uuid.UUID, req types.UncompleteTaskRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := l.store.DeleteCompletion(ctx, userID, req.TaskKey, req.OccurrenceDate); err != nil {
		return fmt.Errorf("failed to uncomplete task %s: %w", req.TaskKey, err)
	}
	l.publisher.Publish(events.Invalidations(userID, req.OccurrenceDate)...)
	return nil
}

func (l *Ledger) record(userID uuid.UUID, req types.CompleteTaskRequest, date types.Date) types.CompletionRecord {
	now := l.now()
	return types.CompletionRecord{
		UserID:         userID,
		TaskKey:        req.TaskKey,
		OccurrenceDate: date,
		Label:          req.Label,
		SourceKind:     req.SourceKind,
		SourceID:       req.SourceID,
		CompletedAt:    &now,
	}
}

// checkKey rejects requests whose key names a different kind or source id
// than the request carries.
func checkKey(req types.CompleteTaskRequest) error {
	parsed, err := types.ParseTaskKey(req.TaskKey)
	if err != nil {
		return &KeyMismatchError{Key: req.TaskKey, Message: err.Error()}
	}
	if parsed.Kind != req.SourceKind {
		return &KeyMismatchError{Key: req.TaskKey, Message: fmt.Sprintf("key kind %s does not match source kind %s", parsed.Kind, req.SourceKind)}
	}
	if req.SourceID != nil && parsed.SourceID != *req.SourceID {
		return &KeyMismatchError{Key: req.TaskKey, Message: "key does not match source id"}
	}
	return nil
}
