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

const insertCompletionSQL = `INSERT INTO task_completions
	(user_id, task_key, occurrence_date, label, source_kind, source_id, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	ON CONFLICT (user_id, task_key, occurrence_date) DO NOTHING`

func completionArgs(rec types.CompletionRecord) []any {
	return []any{
		rec.UserID, rec.TaskKey, dateArg(rec.OccurrenceDate),
		rec.Label, string(rec.SourceKind), rec.SourceID, rec.CompletedAt,
	}
}

// UpsertCompletion records a completion. A record that already exists for
// the same (user, key, date) is left untouched.
func (db *DB) UpsertCompletion(ctx context.Context, rec types.CompletionRecord) error {
	_, err := db.pool.Exec(ctx, insertCompletionSQL, completionArgs(rec)...)
	if err != nil {
		return fmt.Errorf("failed to upsert completion %s: %w", rec.TaskKey, err)
	}
	return nil
}

// DeleteCompletion removes the completion for (user, key, date), if any.
func (db *DB) DeleteCompletion(ctx context.Context, userID uuid.UUID, taskKey string, date types.Date) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM task_completions
		 WHERE user_id = $1 AND task_key = $2 AND occurrence_date = $3`,
		userID, taskKey, dateArg(date),
	)
	if err != nil {
		return fmt.Errorf("failed to delete completion %s: %w", taskKey, err)
	}
	return nil
}

// ListCompletedKeys returns the task keys completed on date.
func (db *DB) ListCompletedKeys(ctx context.Context, userID uuid.UUID, date types.Date) (map[string]bool, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT task_key FROM task_completions
		 WHERE user_id = $1 AND occurrence_date = $2`,
		userID, dateArg(date),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan completed key: %w", err)
		}
		keys[key] = true
	}
	return keys, rows.Err()
}

// ListCompletions returns completion records dated within [start, end], oldest first.
func (db *DB) ListCompletions(ctx context.Context, userID uuid.UUID, start, end types.Date) ([]types.CompletionRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, task_key, occurrence_date, label, source_kind, source_id, completed_at
		 FROM task_completions
		 WHERE user_id = $1 AND occurrence_date BETWEEN $2 AND $3
		 ORDER BY occurrence_date, task_key`,
		userID, dateArg(start), dateArg(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	records := []types.CompletionRecord{}
	for rows.Next() {
		var rec types.CompletionRecord
		var occurred, completedAt time.Time
		var kind string
		if err := rows.Scan(&rec.UserID, &rec.TaskKey, &occurred, &rec.Label, &kind, &rec.SourceID, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		rec.OccurrenceDate = types.DateOf(occurred)
		rec.SourceKind = types.SourceKind(kind)
		rec.CompletedAt = &completedAt
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PublishContent marks a content item published and inserts records, in one
// transaction.
func (db *DB) PublishContent(ctx context.Context, userID, contentID uuid.UUID, records []types.CompletionRecord) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE content_items SET status = $3 WHERE id = $1 AND user_id = $2`,
		contentID, userID, types.ContentStatusPublished,
	)
	if err != nil {
		return fmt.Errorf("failed to publish content %s: %w", contentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("content not found: %s", contentID)
	}

	for _, rec := range records {
		if _, err := tx.Exec(ctx, insertCompletionSQL, completionArgs(rec)...); err != nil {
			return fmt.Errorf("failed to upsert completion %s: %w", rec.TaskKey, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ store.Ledger = (*DB)(nil)
