package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/store/memory"
	"github.com/jonathan/career-tracker/internal/types"
)

func d(s string) types.Date { return types.MustParseDate(s) }

// seedAllKinds stores one row of every kind, all sharing the same source id.
func seedAllKinds(t *testing.T, mem *memory.Store, userID, shared uuid.UUID) {
	t.Helper()
	mem.AddManualTask(types.ManualTask{ID: shared, UserID: userID, Title: "Update resume", DueDate: d("2024-01-01")})
	mem.AddLearning(types.LearningSession{ID: shared, UserID: userID, Topic: "Go generics", Category: "backend", Date: d("2024-01-02")})
	mem.AddContent(types.ContentItem{ID: shared, UserID: userID, Title: "Weekly notes", Platform: "blog", Status: types.ContentStatusDrafting, Date: d("2024-01-03")})
	mem.AddProject(types.Project{ID: shared, UserID: userID, Name: "tracker", Status: types.ProjectStatusActive, NextAction: "ship v1"})
}

func TestManualTasks(t *testing.T) {
	early := types.ManualTask{ID: uuid.New(), Title: "early", DueDate: d("2024-01-01")}
	future := types.ManualTask{ID: uuid.New(), Title: "future", DueDate: d("2024-01-05")}

	got := ManualTasks(d("2024-01-03"), []types.ManualTask{future, early})
	require.Len(t, got, 1)
	assert.Equal(t, "manual:"+early.ID.String(), got[0].Key)
	assert.Equal(t, d("2024-01-03"), got[0].OccursOn)
	assert.Equal(t, "early", got[0].Label)
	assert.Equal(t, early.ID, *got[0].SourceID)
}

func TestLearningTasks_OccurOnSessionDate(t *testing.T) {
	s := types.LearningSession{ID: uuid.New(), Topic: "SQL", Category: "data", Date: d("2024-01-01")}
	got := LearningTasks(d("2024-01-03"), []types.LearningSession{s})
	require.Len(t, got, 1)
	assert.Equal(t, d("2024-01-01"), got[0].OccursOn)
	assert.Equal(t, "learning:"+s.ID.String(), got[0].Key)
	assert.Equal(t, "Learn: SQL (data)", got[0].Label)
}

func TestContentTasks_IncludesPublished(t *testing.T) {
	published := types.ContentItem{ID: uuid.New(), Title: "a", Platform: "blog", Status: types.ContentStatusPublished, Date: d("2024-01-01")}
	later := types.ContentItem{ID: uuid.New(), Title: "b", Platform: "blog", Status: types.ContentStatusIdea, Date: d("2024-01-09")}

	got := ContentTasks(d("2024-01-03"), []types.ContentItem{published, later})
	require.Len(t, got, 1)
	assert.Equal(t, "content:"+published.ID.String(), got[0].Key)
	assert.Equal(t, d("2024-01-03"), got[0].OccursOn)
}

func TestContentTasks_SkipsUndated(t *testing.T) {
	idea := types.ContentItem{ID: uuid.New(), Title: "someday", Platform: "blog", Status: types.ContentStatusIdea}
	assert.Empty(t, ContentTasks(d("2024-06-01"), []types.ContentItem{idea}))
}

func TestProjector_UndatedContentNeverProjected(t *testing.T) {
	mem := memory.New()
	user := uuid.New()
	mem.AddContent(types.ContentItem{UserID: user, Title: "someday", Platform: "blog", Status: types.ContentStatusIdea})
	p := NewProjector(mem.Sources(), mem)

	for _, day := range []string{"2000-01-01", "2024-06-01"} {
		proj, err := p.Project(context.Background(), user, d(day))
		require.NoError(t, err)
		assert.Empty(t, proj.Tasks, day)
	}
}

func TestProjectTasks_DateInKey(t *testing.T) {
	active := types.Project{ID: uuid.New(), Name: "site", Status: types.ProjectStatusActive, NextAction: "fix nav"}
	done := types.Project{ID: uuid.New(), Name: "old", Status: types.ProjectStatusDone, NextAction: "nothing"}
	idle := types.Project{ID: uuid.New(), Name: "idle", Status: types.ProjectStatusPaused}

	day1 := ProjectTasks(d("2024-01-03"), []types.Project{active, done, idle})
	day2 := ProjectTasks(d("2024-01-04"), []types.Project{active, done, idle})
	require.Len(t, day1, 1)
	require.Len(t, day2, 1)
	assert.Equal(t, "project:"+active.ID.String()+":2024-01-03", day1[0].Key)
	assert.NotEqual(t, day1[0].Key, day2[0].Key)
	assert.Equal(t, "site: fix nav", day1[0].Label)
}

func TestProjector_StableAcrossCalls(t *testing.T) {
	mem := memory.New()
	user := uuid.New()
	for i := 0; i < 5; i++ {
		mem.AddManualTask(types.ManualTask{UserID: user, Title: "task", DueDate: d("2024-01-01")})
		mem.AddProject(types.Project{UserID: user, Name: "p", Status: types.ProjectStatusActive, NextAction: "next"})
	}
	p := NewProjector(mem.Sources(), mem)
	ctx := context.Background()

	first, err := p.Project(ctx, user, d("2024-01-03"))
	require.NoError(t, err)
	second, err := p.Project(ctx, user, d("2024-01-03"))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("projection changed between calls (-first +second):\n%s", diff)
	}
}

func TestProjector_KindOrderAndNoCollision(t *testing.T) {
	mem := memory.New()
	user, shared := uuid.New(), uuid.New()
	seedAllKinds(t, mem, user, shared)

	proj, err := NewProjector(mem.Sources(), mem).Project(context.Background(), user, d("2024-01-03"))
	require.NoError(t, err)
	require.Len(t, proj.Tasks, 4)
	assert.False(t, proj.Partial())

	keys := map[string]bool{}
	for i, kind := range types.SourceKinds {
		assert.Equal(t, kind, proj.Tasks[i].SourceKind)
		assert.False(t, keys[proj.Tasks[i].Key], "duplicate key %s", proj.Tasks[i].Key)
		keys[proj.Tasks[i].Key] = true
	}
}

func TestProjector_OtherUsersRowsIgnored(t *testing.T) {
	mem := memory.New()
	user := uuid.New()
	seedAllKinds(t, mem, uuid.New(), uuid.New())

	proj, err := NewProjector(mem.Sources(), mem).Project(context.Background(), user, d("2024-01-03"))
	require.NoError(t, err)
	assert.Empty(t, proj.Tasks)
}

func TestProjector_DegradesFailingSource(t *testing.T) {
	mem := memory.New()
	user, shared := uuid.New(), uuid.New()
	seedAllKinds(t, mem, user, shared)

	sources := mem.Sources()
	sources.Projects = store.RepositoryFunc[types.Project](func(context.Context, uuid.UUID, store.Filter) ([]types.Project, error) {
		return nil, errors.New("connection reset")
	})

	proj, err := NewProjector(sources, mem).Project(context.Background(), user, d("2024-01-03"))
	require.NoError(t, err)
	assert.True(t, proj.Partial())
	require.Len(t, proj.Warnings, 1)
	assert.Equal(t, "project", proj.Warnings[0].Source)
	assert.Contains(t, proj.Warnings[0].Message, "connection reset")

	require.Len(t, proj.Tasks, 3)
	for _, task := range proj.Tasks {
		assert.NotEqual(t, types.SourceProject, task.SourceKind)
	}
}

type failingCompletions struct{ *memory.Store }

func (failingCompletions) ListCompletedKeys(context.Context, uuid.UUID, types.Date) (map[string]bool, error) {
	return nil, errors.New("ledger offline")
}

func TestProjector_LedgerFailureIsFatal(t *testing.T) {
	mem := memory.New()
	_, err := NewProjector(mem.Sources(), failingCompletions{mem}).Project(context.Background(), uuid.New(), d("2024-01-03"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger offline")
}
