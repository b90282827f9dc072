package tasks

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-tracker/internal/events"
	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/store/memory"
	"github.com/jonathan/career-tracker/internal/types"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(evs ...events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evs...)
}

func setupLedger(t *testing.T) (*memory.Store, *Projector, *Ledger, *recordingPublisher) {
	t.Helper()
	mem := memory.New()
	pub := &recordingPublisher{}
	sources := mem.Sources()
	return mem, NewProjector(sources, mem), NewLedger(sources.Content, mem, pub), pub
}

func findTask(t *testing.T, proj *types.Projection, key string) types.VirtualTask {
	t.Helper()
	for _, task := range proj.Tasks {
		if task.Key == key {
			return task
		}
	}
	t.Fatalf("task %s not in projection", key)
	return types.VirtualTask{}
}

func TestManualTaskLifecycle(t *testing.T) {
	mem, projector, ledger, _ := setupLedger(t)
	ctx := context.Background()
	user := uuid.New()
	task := mem.AddManualTask(types.ManualTask{UserID: user, Title: "Email references", DueDate: d("2024-01-01")})
	today := d("2024-01-03")

	proj, err := projector.Project(ctx, user, today)
	require.NoError(t, err)
	vt := findTask(t, proj, "manual:"+task.ID.String())
	assert.Equal(t, today, vt.OccursOn)
	assert.False(t, vt.Completed)

	require.NoError(t, ledger.Complete(ctx, user, types.CompleteTaskRequest{
		TaskKey:        vt.Key,
		OccurrenceDate: today,
		Label:          vt.Label,
		SourceKind:     vt.SourceKind,
		SourceID:       vt.SourceID,
	}))

	proj, err = projector.Project(ctx, user, today)
	require.NoError(t, err)
	assert.True(t, findTask(t, proj, vt.Key).Completed)
	assert.Equal(t, []string{vt.Key}, proj.CompletedKeys)

	require.NoError(t, ledger.Uncomplete(ctx, user, types.UncompleteTaskRequest{TaskKey: vt.Key, OccurrenceDate: today}))

	proj, err = projector.Project(ctx, user, today)
	require.NoError(t, err)
	assert.False(t, findTask(t, proj, vt.Key).Completed)
	assert.Empty(t, proj.CompletedKeys)
}

func TestComplete_Idempotent(t *testing.T) {
	mem, _, ledger, _ := setupLedger(t)
	ctx := context.Background()
	user := uuid.New()
	task := mem.AddManualTask(types.ManualTask{UserID: user, Title: "x", DueDate: d("2024-01-01")})
	req := types.CompleteTaskRequest{
		TaskKey:        types.TaskKey(types.SourceManual, task.ID, types.Date{}),
		OccurrenceDate: d("2024-01-02"),
		SourceKind:     types.SourceManual,
		SourceID:       &task.ID,
	}

	require.NoError(t, ledger.Complete(ctx, user, req))
	require.NoError(t, ledger.Complete(ctx, user, req))
	assert.Equal(t, 1, mem.CompletionCount())
}

func TestComplete_ConcurrentDuplicatesCollapse(t *testing.T) {
	mem, _, ledger, _ := setupLedger(t)
	ctx := context.Background()
	user := uuid.New()
	task := mem.AddManualTask(types.ManualTask{UserID: user, Title: "x", DueDate: d("2024-01-01")})
	req := types.CompleteTaskRequest{
		TaskKey:        types.TaskKey(types.SourceManual, task.ID, types.Date{}),
		OccurrenceDate: d("2024-01-02"),
		SourceKind:     types.SourceManual,
		SourceID:       &task.ID,
	}

	const workers = 50
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.Complete(ctx, user, req)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, 1, mem.CompletionCount())
}

func TestUncomplete_MissingRecordIsNoop(t *testing.T) {
	_, _, ledger, _ := setupLedger(t)
	err := ledger.Uncomplete(context.Background(), uuid.New(), types.UncompleteTaskRequest{
		TaskKey:        "manual:" + uuid.NewString(),
		OccurrenceDate: d("2024-01-02"),
	})
	assert.NoError(t, err)
}

func TestCompleteContentTask_DualWrite(t *testing.T) {
	mem, projector, ledger, pub := setupLedger(t)
	ctx := context.Background()
	user := uuid.New()
	item := mem.AddContent(types.ContentItem{UserID: user, Title: "Launch post", Platform: "linkedin", Status: types.ContentStatusScheduled, Date: d("2024-01-01")})
	today := d("2024-01-03")
	key := types.TaskKey(types.SourceContent, item.ID, today)

	require.NoError(t, ledger.Complete(ctx, user, types.CompleteTaskRequest{
		TaskKey:        key,
		OccurrenceDate: today,
		SourceKind:     types.SourceContent,
		SourceID:       &item.ID,
	}))

	assert.Equal(t, 2, mem.CompletionCount())

	rows, err := mem.Sources().Content.Find(ctx, user, store.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.ContentStatusPublished, rows[0].Status)

	for _, day := range []types.Date{today, item.Date} {
		proj, err := projector.Project(ctx, user, day)
		require.NoError(t, err)
		assert.True(t, findTask(t, proj, key).Completed, "content task should be done on %s", day)
	}

	assert.Len(t, pub.events, 4)
}

func TestCompleteContentTask_SameDaySingleRecord(t *testing.T) {
	mem, _, ledger, _ := setupLedger(t)
	user := uuid.New()
	item := mem.AddContent(types.ContentItem{UserID: user, Title: "t", Platform: "x", Status: types.ContentStatusIdea, Date: d("2024-01-03")})

	require.NoError(t, ledger.Complete(context.Background(), user, types.CompleteTaskRequest{
		TaskKey:        types.TaskKey(types.SourceContent, item.ID, types.Date{}),
		OccurrenceDate: d("2024-01-03"),
		SourceKind:     types.SourceContent,
		SourceID:       &item.ID,
	}))
	assert.Equal(t, 1, mem.CompletionCount())
}

func TestCompleteContentTask_AlreadyPublished(t *testing.T) {
	mem, _, ledger, _ := setupLedger(t)
	user := uuid.New()
	item := mem.AddContent(types.ContentItem{UserID: user, Title: "t", Platform: "x", Status: types.ContentStatusPublished, Date: d("2024-01-01")})

	require.NoError(t, ledger.Complete(context.Background(), user, types.CompleteTaskRequest{
		TaskKey:        types.TaskKey(types.SourceContent, item.ID, types.Date{}),
		OccurrenceDate: d("2024-01-03"),
		SourceKind:     types.SourceContent,
		SourceID:       &item.ID,
	}))
	assert.Equal(t, 1, mem.CompletionCount())
}

func TestCompleteContentTask_MissingContent(t *testing.T) {
	_, _, ledger, _ := setupLedger(t)
	id := uuid.New()
	err := ledger.Complete(context.Background(), uuid.New(), types.CompleteTaskRequest{
		TaskKey:        types.TaskKey(types.SourceContent, id, types.Date{}),
		OccurrenceDate: d("2024-01-03"),
		SourceKind:     types.SourceContent,
		SourceID:       &id,
	})
	var notFound *ContentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, id, notFound.ContentID)
}

func TestUncompleteContent_StaysPublished(t *testing.T) {
	mem, _, ledger, _ := setupLedger(t)
	ctx := context.Background()
	user := uuid.New()
	item := mem.AddContent(types.ContentItem{UserID: user, Title: "t", Platform: "x", Status: types.ContentStatusDrafting, Date: d("2024-01-03")})
	key := types.TaskKey(types.SourceContent, item.ID, types.Date{})

	require.NoError(t, ledger.Complete(ctx, user, types.CompleteTaskRequest{
		TaskKey: key, OccurrenceDate: d("2024-01-03"), SourceKind: types.SourceContent, SourceID: &item.ID,
	}))
	require.NoError(t, ledger.Uncomplete(ctx, user, types.UncompleteTaskRequest{TaskKey: key, OccurrenceDate: d("2024-01-03")}))

	assert.Equal(t, 0, mem.CompletionCount())
	rows, err := mem.Sources().Content.Find(ctx, user, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, types.ContentStatusPublished, rows[0].Status)
}

func TestComplete_RejectsMismatchedKey(t *testing.T) {
	_, _, ledger, _ := setupLedger(t)
	id := uuid.New()

	err := ledger.Complete(context.Background(), uuid.New(), types.CompleteTaskRequest{
		TaskKey:        types.TaskKey(types.SourceManual, id, types.Date{}),
		OccurrenceDate: d("2024-01-03"),
		SourceKind:     types.SourceLearning,
		SourceID:       &id,
	})
	var mismatch *KeyMismatchError
	assert.ErrorAs(t, err, &mismatch)

	other := uuid.New()
	err = ledger.Complete(context.Background(), uuid.New(), types.CompleteTaskRequest{
		TaskKey:        types.TaskKey(types.SourceManual, id, types.Date{}),
		OccurrenceDate: d("2024-01-03"),
		SourceKind:     types.SourceManual,
		SourceID:       &other,
	})
	assert.ErrorAs(t, err, &mismatch)
}
