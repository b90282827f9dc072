// Package tasks merges every task-producing domain into one daily task list
// and records which of those tasks are done.
package tasks

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/types"
)

// fetchFunc reads one source and projects it for day.
type fetchFunc func(ctx context.Context, userID uuid.UUID, day types.Date) ([]types.VirtualTask, error)

type kindProjector struct {
	kind  types.SourceKind
	fetch fetchFunc
}

// Projector builds the task list for a day from every source repository.
type Projector struct {
	completions store.CompletionStore
	dispatch    []kindProjector
}

// NewProjector wires one projector per source kind, in emission order.
func NewProjector(sources store.Sources, completions store.CompletionStore) *Projector {
	return &Projector{
		completions: completions,
		dispatch: []kindProjector{
			{kind: types.SourceManual, fetch: func(ctx context.Context, userID uuid.UUID, day types.Date) ([]types.VirtualTask, error) {
				rows, err := sources.ManualTasks.Find(ctx, userID, store.DateLessOrEqual(day))
				if err != nil {
					return nil, err
				}
				return ManualTasks(day, rows), nil
			}},
			{kind: types.SourceLearning, fetch: func(ctx context.Context, userID uuid.UUID, day types.Date) ([]types.VirtualTask, error) {
				rows, err := sources.Learning.Find(ctx, userID, store.DateLessOrEqual(day))
				if err != nil {
					return nil, err
				}
				return LearningTasks(day, rows), nil
			}},
			{kind: types.SourceContent, fetch: func(ctx context.Context, userID uuid.UUID, day types.Date) ([]types.VirtualTask, error) {
				rows, err := sources.Content.Find(ctx, userID, store.DateLessOrEqual(day))
				if err != nil {
					return nil, err
				}
				return ContentTasks(day, rows), nil
			}},
			{kind: types.SourceProject, fetch: func(ctx context.Context, userID uuid.UUID, day types.Date) ([]types.VirtualTask, error) {
				rows, err := sources.Projects.Find(ctx, userID, store.StatusNotEquals(types.ProjectStatusDone))
				if err != nil {
					return nil, err
				}
				return ProjectTasks(day, rows), nil
			}},
		},
	}
}

// Project returns the tasks available on day with their completion state.
// A failing source contributes no tasks and a warning; only a failure to
// read the completion ledger fails the call.
func (p *Projector) Project(ctx context.Context, userID uuid.UUID, day types.Date) (*types.Projection, error) {
	results := make([][]types.VirtualTask, len(p.dispatch))
	failures := make([]error, len(p.dispatch))

	g, gCtx := errgroup.WithContext(ctx)
	for i, kp := range p.dispatch {
		g.Go(func() error {
			tasks, err := kp.fetch(gCtx, userID, day)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = tasks
			return nil
		})
	}

	var completed map[string]bool
	g.Go(func() error {
		keys, err := p.completions.ListCompletedKeys(gCtx, userID, day)
		if err != nil {
			return fmt.Errorf("failed to list completed tasks: %w", err)
		}
		completed = keys
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	projection := &types.Projection{
		Date:          day,
		Tasks:         []types.VirtualTask{},
		CompletedKeys: []string{},
	}
	for i, kp := range p.dispatch {
		if failures[i] != nil {
			log.Printf("[tasks] %s source unavailable for %s: %v", kp.kind, day, failures[i])
			projection.Warnings = append(projection.Warnings, types.SourceWarning{
				Source:  string(kp.kind),
				Message: failures[i].Error(),
			})
			continue
		}
		projection.Tasks = append(projection.Tasks, results[i]...)
	}

	for i := range projection.Tasks {
		if completed[projection.Tasks[i].Key] {
			projection.Tasks[i].Completed = true
		}
	}
	for key := range completed {
		projection.CompletedKeys = append(projection.CompletedKeys, key)
	}
	sort.Strings(projection.CompletedKeys)

	return projection, nil
}

// ManualTasks projects manual tasks due on or before day. A manual task
// stays visible every day until it is deleted, so it occurs on day itself.
func ManualTasks(day types.Date, rows []types.ManualTask) []types.VirtualTask {
	rows = sortedBy(rows, func(m types.ManualTask) (types.Date, string) { return m.DueDate, m.ID.String() })
	out := make([]types.VirtualTask, 0, len(rows))
	for _, m := range rows {
		if m.DueDate.After(day) {
			continue
		}
		out = append(out, virtualTask(types.SourceManual, m.ID, day, m.Title))
	}
	return out
}

// LearningTasks projects learning sessions logged on or before day. Each
// occurs on the day it was logged.
func LearningTasks(day types.Date, rows []types.LearningSession) []types.VirtualTask {
	rows = sortedBy(rows, func(l types.LearningSession) (types.Date, string) { return l.Date, l.ID.String() })
	out := make([]types.VirtualTask, 0, len(rows))
	for _, l := range rows {
		if l.Date.After(day) {
			continue
		}
		task := virtualTask(types.SourceLearning, l.ID, l.Date, learningLabel(l))
		out = append(out, task)
	}
	return out
}

// ContentTasks projects content dated on or before day, published or not,
// so published items still show up as done. Undated ideas are not tasks.
func ContentTasks(day types.Date, rows []types.ContentItem) []types.VirtualTask {
	rows = sortedBy(rows, func(c types.ContentItem) (types.Date, string) { return c.Date, c.ID.String() })
	out := make([]types.VirtualTask, 0, len(rows))
	for _, c := range rows {
		if c.Date.IsZero() || c.Date.After(day) {
			continue
		}
		label := fmt.Sprintf("Publish %q on %s", c.Title, c.Platform)
		out = append(out, virtualTask(types.SourceContent, c.ID, day, label))
	}
	return out
}

// ProjectTasks projects every unfinished project with a next action into a
// fresh task for day.
func ProjectTasks(day types.Date, rows []types.Project) []types.VirtualTask {
	rows = sortedBy(rows, func(p types.Project) (types.Date, string) { return types.Date{}, p.Name + "\x00" + p.ID.String() })
	out := make([]types.VirtualTask, 0, len(rows))
	for _, p := range rows {
		if !p.Active() {
			continue
		}
		label := fmt.Sprintf("%s: %s", p.Name, p.NextAction)
		out = append(out, virtualTask(types.SourceProject, p.ID, day, label))
	}
	return out
}

func learningLabel(l types.LearningSession) string {
	if l.Category == "" {
		return "Learn: " + l.Topic
	}
	return fmt.Sprintf("Learn: %s (%s)", l.Topic, l.Category)
}

func virtualTask(kind types.SourceKind, id uuid.UUID, occursOn types.Date, label string) types.VirtualTask {
	sourceID := id
	return types.VirtualTask{
		Key:        types.TaskKey(kind, id, occursOn),
		OccursOn:   occursOn,
		Label:      label,
		SourceKind: kind,
		SourceID:   &sourceID,
	}
}

// sortedBy returns a copy of rows ordered by (date, tiebreak).
func sortedBy[T any](rows []T, key func(T) (types.Date, string)) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		di, ti := key(out[i])
		dj, tj := key(out[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return ti < tj
	})
	return out
}
