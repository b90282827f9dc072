// Package analytics derives funnel, series, breakdown and pattern metrics
// from the domain rows inside a date window.
package analytics

import (
	"context"
	"log"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/types"
)

// Options tunes the aggregator.
type Options struct {
	GoalThreshold    float64
	StreakWindowDays int
}

// Aggregator computes AnalyticsBundles. It holds no per-query state and is
// safe for concurrent use.
type Aggregator struct {
	sources     store.Sources
	completions store.CompletionStore
	opts        Options
}

// NewAggregator creates an aggregator, filling zero options with defaults.
func NewAggregator(sources store.Sources, completions store.CompletionStore, opts Options) *Aggregator {
	if opts.GoalThreshold <= 0 {
		opts.GoalThreshold = DefaultGoalThreshold
	}
	if opts.StreakWindowDays <= 0 {
		opts.StreakWindowDays = DefaultStreakWindow
	}
	return &Aggregator{sources: sources, completions: completions, opts: opts}
}

// rows is everything one analytics query reads.
type rows struct {
	jobs         []types.Job
	recruiters   []types.RecruiterContact
	learning     []types.LearningSession
	streakDays   []types.LearningSession
	projects     []types.Project
	contentRange []types.ContentItem
	contentToEnd []types.ContentItem
	manualToEnd  []types.ManualTask
	goals        []types.Goal
	completions  []types.CompletionRecord
	warnings     []types.SourceWarning
}

// Compute builds the bundle for rng. today anchors the learning streak.
// Sources that fail to load are treated as empty and reported in Warnings.
// The caller is responsible for rejecting inverted ranges.
func (a *Aggregator) Compute(ctx context.Context, userID uuid.UUID, rng types.DateRange, today types.Date) (*types.AnalyticsBundle, error) {
	r := a.load(ctx, userID, rng, today)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bundle := &types.AnalyticsBundle{
		Range:             rng,
		Funnel:            BuildFunnel(r.jobs),
		Timeline:          BuildTimeline(r.jobs),
		RecruiterSeries:   BuildRecruiterSeries(r.recruiters),
		LearningBreakdown: BuildLearningBreakdown(r.learning),
		ProjectBreakdown:  BuildProjectBreakdown(r.projects),
		ContentBreakdown:  BuildContentBreakdown(r.contentRange),
		TaskSeries:        BuildTaskSeries(rng, r.manualToEnd, r.learning, r.contentToEnd, r.projects, r.completions),
		Warnings:          r.warnings,
	}

	learningSeries := LearningSeries(r.learning)
	applicationSeries := TimelineSeries(bundle.Timeline)
	taskSeries := CompletedTaskSeries(bundle.TaskSeries)

	bundle.Summary = a.summary(bundle, r, today)
	bundle.Trends = types.Trends{
		Applications: ApplicationTrend(r.jobs, bundle.Timeline, rng.End),
		Learning:     LastDelta(learningSeries),
		Tasks:        LastDelta(taskSeries),
	}

	// goals and patterns score every day of the window, idle days included
	applicationDaily := FillDays(rng, applicationSeries)
	learningDaily := FillDays(rng, learningSeries)
	taskDaily := FillDays(rng, taskSeries)

	seriesByMetric := map[string][]types.SeriesPoint{
		types.GoalMetricApplications: applicationDaily,
		types.GoalMetricLearning:     learningDaily,
		types.GoalMetricTasks:        taskDaily,
	}
	bundle.GoalAchievements = []types.GoalAchievement{}
	for _, goal := range latestGoals(r.goals) {
		series, ok := seriesByMetric[goal.Metric]
		if !ok {
			continue
		}
		bundle.GoalAchievements = append(bundle.GoalAchievements,
			GoalAchievement(goal.Metric, series, goal.DailyTarget(), a.opts.GoalThreshold))
	}

	bundle.WeeklyPatterns = []types.WeeklyPattern{
		WeeklyPattern(types.GoalMetricApplications, applicationDaily),
		WeeklyPattern(types.GoalMetricLearning, learningDaily),
		WeeklyPattern(types.GoalMetricTasks, taskDaily),
	}

	return bundle, nil
}

func (a *Aggregator) load(ctx context.Context, userID uuid.UUID, rng types.DateRange, today types.Date) *rows {
	r := &rows{}
	window := store.DateBetween(rng.Start, rng.End)
	upToEnd := store.DateLessOrEqual(rng.End)
	streakStart := today.AddDays(-(a.opts.StreakWindowDays - 1))

	type loader struct {
		source string
		load   func(ctx context.Context) error
	}
	loaders := []loader{
		{"jobs", func(ctx context.Context) (err error) {
			r.jobs, err = a.sources.Jobs.Find(ctx, userID, window)
			return err
		}},
		{"recruiters", func(ctx context.Context) (err error) {
			r.recruiters, err = a.sources.Recruiters.Find(ctx, userID, window)
			return err
		}},
		{"learning", func(ctx context.Context) (err error) {
			r.learning, err = a.sources.Learning.Find(ctx, userID, window)
			return err
		}},
		{"learning_streak", func(ctx context.Context) (err error) {
			r.streakDays, err = a.sources.Learning.Find(ctx, userID, store.DateBetween(streakStart, today))
			return err
		}},
		{"projects", func(ctx context.Context) (err error) {
			r.projects, err = a.sources.Projects.Find(ctx, userID, store.Filter{})
			return err
		}},
		{"content", func(ctx context.Context) (err error) {
			r.contentToEnd, err = a.sources.Content.Find(ctx, userID, upToEnd)
			return err
		}},
		{"manual", func(ctx context.Context) (err error) {
			r.manualToEnd, err = a.sources.ManualTasks.Find(ctx, userID, upToEnd)
			return err
		}},
		{"goals", func(ctx context.Context) (err error) {
			r.goals, err = a.sources.Goals.Find(ctx, userID, store.Filter{})
			return err
		}},
		{"completions", func(ctx context.Context) (err error) {
			r.completions, err = a.completions.ListCompletions(ctx, userID, rng.Start, rng.End)
			return err
		}},
	}

	failures := make([]error, len(loaders))
	g, gCtx := errgroup.WithContext(ctx)
	for i, l := range loaders {
		g.Go(func() error {
			failures[i] = l.load(gCtx)
			return nil
		})
	}
	_ = g.Wait()

	for i, l := range loaders {
		if failures[i] == nil {
			continue
		}
		log.Printf("[analytics] %s source unavailable for %s..%s: %v", l.source, rng.Start, rng.End, failures[i])
		r.warnings = append(r.warnings, types.SourceWarning{Source: l.source, Message: failures[i].Error()})
	}

	for _, c := range r.contentToEnd {
		if rng.Contains(c.Date) {
			r.contentRange = append(r.contentRange, c)
		}
	}
	return r
}

func (a *Aggregator) summary(bundle *types.AnalyticsBundle, r *rows, today types.Date) types.SummaryStats {
	f := bundle.Funnel
	stats := types.SummaryStats{
		TotalApplications:      f.Applied,
		TotalRecruiterContacts: len(r.recruiters),
		TotalLearningSessions:  len(r.learning),
		TotalTasksCompleted:    len(r.completions),
		InterviewRate:          Rate(f.Screener+f.Tech, f.Applied),
		OfferRate:              Rate(f.Offer, f.Applied),
	}
	for _, rc := range r.recruiters {
		if rc.Responded() {
			stats.TotalResponses++
		}
	}
	stats.ResponseRate = Rate(stats.TotalResponses, stats.TotalRecruiterContacts)

	for _, l := range r.learning {
		stats.TotalLearningMinutes += l.DurationMinutes
	}
	for _, p := range r.projects {
		if p.Status == types.ProjectStatusActive {
			stats.ActiveProjects++
		}
	}
	for _, c := range r.contentRange {
		if c.Published() {
			stats.PublishedContent++
		}
	}

	dates := make([]types.Date, 0, len(r.streakDays))
	for _, s := range r.streakDays {
		dates = append(dates, s.Date)
	}
	stats.LearningStreak = LearningStreak(dates, today, a.opts.StreakWindowDays)
	return stats
}

// BuildFunnel counts jobs by stage. Every job passed through "applied", so
// Applied is the total; the other stages count jobs currently there.
func BuildFunnel(jobs []types.Job) types.Funnel {
	f := types.Funnel{Applied: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case types.JobStatusScreener:
			f.Screener++
		case types.JobStatusTech:
			f.Tech++
		case types.JobStatusOffer:
			f.Offer++
		case types.JobStatusRejected:
			f.Rejected++
		}
	}
	return f
}

// BuildTimeline groups jobs by applied date, ascending.
func BuildTimeline(jobs []types.Job) []types.TimelinePoint {
	counts := map[string]int{}
	dates := map[string]types.Date{}
	for _, j := range jobs {
		k := j.AppliedDate.String()
		counts[k]++
		dates[k] = j.AppliedDate
	}

	points := make([]types.TimelinePoint, 0, len(counts))
	for k, n := range counts {
		points = append(points, types.TimelinePoint{Date: dates[k], Count: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// BuildRecruiterSeries groups contacts by the Monday of their contact week.
func BuildRecruiterSeries(contacts []types.RecruiterContact) []types.RecruiterWeek {
	weeks := map[string]*types.RecruiterWeek{}
	for _, c := range contacts {
		start := c.ContactDate.WeekStart()
		w, ok := weeks[start.String()]
		if !ok {
			w = &types.RecruiterWeek{WeekStart: start}
			weeks[start.String()] = w
		}
		w.Contacts++
		if c.Responded() {
			w.Responses++
		}
	}

	series := make([]types.RecruiterWeek, 0, len(weeks))
	for _, w := range weeks {
		w.ResponseRate = Rate(w.Responses, w.Contacts)
		series = append(series, *w)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].WeekStart.Before(series[j].WeekStart) })
	return series
}

// BuildLearningBreakdown counts sessions per category, largest first.
func BuildLearningBreakdown(sessions []types.LearningSession) []types.CategoryCount {
	counts := map[string]int{}
	for _, s := range sessions {
		category := s.Category
		if category == "" {
			category = "uncategorized"
		}
		counts[category]++
	}

	out := make([]types.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, types.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// BuildProjectBreakdown counts projects per status, largest first.
func BuildProjectBreakdown(projects []types.Project) []types.StatusCount {
	counts := map[string]int{}
	for _, p := range projects {
		counts[p.Status]++
	}

	out := make([]types.StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, types.StatusCount{Status: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// BuildContentBreakdown splits each platform's items into published and in-pipeline.
func BuildContentBreakdown(items []types.ContentItem) []types.PlatformContent {
	platforms := map[string]*types.PlatformContent{}
	for _, c := range items {
		p, ok := platforms[c.Platform]
		if !ok {
			p = &types.PlatformContent{Platform: c.Platform}
			platforms[c.Platform] = p
		}
		if c.Published() {
			p.Published++
		} else {
			p.InPipeline++
		}
	}

	out := make([]types.PlatformContent, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out
}

// BuildTaskSeries evaluates, for every day in rng, how many tasks were
// available that day and how many completion markers it has. Days with
// neither are omitted.
func BuildTaskSeries(
	rng types.DateRange,
	manual []types.ManualTask,
	learning []types.LearningSession,
	content []types.ContentItem,
	projects []types.Project,
	completions []types.CompletionRecord,
) []types.TaskDay {
	activeProjects := 0
	for _, p := range projects {
		if p.Active() {
			activeProjects++
		}
	}

	completedOn := map[string]int{}
	for _, c := range completions {
		completedOn[c.OccurrenceDate.String()]++
	}
	learnedOn := map[string]int{}
	for _, l := range learning {
		learnedOn[l.Date.String()]++
	}

	series := []types.TaskDay{}
	for _, day := range types.DaysInRange(rng.Start, rng.End) {
		created := activeProjects + learnedOn[day.String()]
		for _, m := range manual {
			if m.DueDate.OnOrBefore(day) {
				created++
			}
		}
		for _, c := range content {
			if !c.Date.IsZero() && c.Date.OnOrBefore(day) && !c.Published() {
				created++
			}
		}

		completed := completedOn[day.String()]
		if created > 0 || completed > 0 {
			series = append(series, types.TaskDay{Date: day, Created: created, Completed: completed})
		}
	}
	return series
}

// ApplicationTrend compares applications in the last 7 days of the window
// with the 7 days before. It is nil when the timeline has fewer than two points.
func ApplicationTrend(jobs []types.Job, timeline []types.TimelinePoint, end types.Date) *int {
	if len(timeline) < 2 {
		return nil
	}
	recent := types.DateRange{Start: end.AddDays(-6), End: end}
	prior := types.DateRange{Start: end.AddDays(-13), End: end.AddDays(-7)}

	delta := 0
	for _, j := range jobs {
		switch {
		case recent.Contains(j.AppliedDate):
			delta++
		case prior.Contains(j.AppliedDate):
			delta--
		}
	}
	return &delta
}

// TimelineSeries converts the application timeline into a generic series.
func TimelineSeries(timeline []types.TimelinePoint) []types.SeriesPoint {
	out := make([]types.SeriesPoint, 0, len(timeline))
	for _, p := range timeline {
		out = append(out, types.SeriesPoint{Date: p.Date, Value: float64(p.Count)})
	}
	return out
}

// LearningSeries counts sessions per logged day, ascending.
func LearningSeries(sessions []types.LearningSession) []types.SeriesPoint {
	counts := map[string]int{}
	dates := map[string]types.Date{}
	for _, s := range sessions {
		counts[s.Date.String()]++
		dates[s.Date.String()] = s.Date
	}
	out := make([]types.SeriesPoint, 0, len(counts))
	for k, n := range counts {
		out = append(out, types.SeriesPoint{Date: dates[k], Value: float64(n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// FillDays returns one point per day of rng, taking values from series and
// zero for days it has no point for.
func FillDays(rng types.DateRange, series []types.SeriesPoint) []types.SeriesPoint {
	values := make(map[string]float64, len(series))
	for _, p := range series {
		values[p.Date.String()] += p.Value
	}
	days := types.DaysInRange(rng.Start, rng.End)
	out := make([]types.SeriesPoint, 0, len(days))
	for _, day := range days {
		out = append(out, types.SeriesPoint{Date: day, Value: values[day.String()]})
	}
	return out
}

// CompletedTaskSeries extracts the completed counts of the task series.
func CompletedTaskSeries(days []types.TaskDay) []types.SeriesPoint {
	out := make([]types.SeriesPoint, 0, len(days))
	for _, d := range days {
		out = append(out, types.SeriesPoint{Date: d.Date, Value: float64(d.Completed)})
	}
	return out
}

// latestGoals keeps the most recently created goal per metric, in metric order.
func latestGoals(goals []types.Goal) []types.Goal {
	latest := map[string]types.Goal{}
	for _, g := range goals {
		if cur, ok := latest[g.Metric]; !ok || g.CreatedAt.After(cur.CreatedAt) {
			latest[g.Metric] = g
		}
	}
	out := []types.Goal{}
	for _, metric := range []string{types.GoalMetricApplications, types.GoalMetricLearning, types.GoalMetricTasks} {
		if g, ok := latest[metric]; ok {
			out = append(out, g)
		}
	}
	return out
}
