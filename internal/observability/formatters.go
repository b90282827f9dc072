// Package observability renders task lists and analytics for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintProjection outputs the task list for a day with completion marks.
func (p *Printer) PrintProjection(projection *types.Projection) {
	if projection == nil {
		return
	}

	var sb strings.Builder
	done := 0
	for _, task := range projection.Tasks {
		mark := "[ ]"
		if task.Completed {
			mark = "[x]"
			done++
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, task.Label))
		sb.WriteString(fmt.Sprintf("    %s\n", task.Key))
	}
	if len(projection.Tasks) == 0 {
		sb.WriteString("Nothing to do.\n")
	}
	sb.WriteString(fmt.Sprintf("\n%d/%d done", done, len(projection.Tasks)))

	p.printBox(fmt.Sprintf("TASKS FOR %s", projection.Date), sb.String())
	p.PrintWarnings(projection.Warnings)
}

// PrintAnalytics outputs the headline numbers of an analytics bundle.
func (p *Printer) PrintAnalytics(bundle *types.AnalyticsBundle) {
	if bundle == nil {
		return
	}

	var sb strings.Builder
	f := bundle.Funnel
	s := bundle.Summary
	sb.WriteString(fmt.Sprintf("Applications:  %d (applied %d, screener %d, tech %d, offer %d, rejected %d)\n",
		s.TotalApplications, f.Applied, f.Screener, f.Tech, f.Offer, f.Rejected))
	sb.WriteString(fmt.Sprintf("Interview rate: %d%%   Offer rate: %d%%\n", s.InterviewRate, s.OfferRate))
	sb.WriteString(fmt.Sprintf("Recruiters:    %d contacted, %d responded (%d%%)\n",
		s.TotalRecruiterContacts, s.TotalResponses, s.ResponseRate))
	sb.WriteString(fmt.Sprintf("Learning:      %d sessions, %d min, streak %d\n",
		s.TotalLearningSessions, s.TotalLearningMinutes, s.LearningStreak))
	sb.WriteString(fmt.Sprintf("Projects:      %d active\n", s.ActiveProjects))
	sb.WriteString(fmt.Sprintf("Content:       %d published\n", s.PublishedContent))
	sb.WriteString(fmt.Sprintf("Tasks done:    %d\n", s.TotalTasksCompleted))
	sb.WriteString("\nTrends: ")
	sb.WriteString(fmt.Sprintf("applications %s, learning %s, tasks %s",
		formatTrend(bundle.Trends.Applications), formatTrend(bundle.Trends.Learning), formatTrend(bundle.Trends.Tasks)))

	p.printBox(fmt.Sprintf("ANALYTICS %s .. %s", bundle.Range.Start, bundle.Range.End), sb.String())
	p.PrintGoals(bundle.GoalAchievements)
	p.PrintWarnings(bundle.Warnings)
}

func formatTrend(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+d", *v)
}

// PrintGoals outputs goal achievement rates.
func (p *Printer) PrintGoals(goals []types.GoalAchievement) {
	if len(goals) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(goals), maxItemsToShow)
	for i := 0; i < count; i++ {
		g := goals[i]
		sb.WriteString(fmt.Sprintf("%-13s %3d%%  %d/%d days  %s\n",
			g.Metric, g.AchievementRate, g.AchievedDays, g.TotalDays, g.Insight))
	}
	if len(goals) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(goals)-maxItemsToShow))
	}

	p.printBox("GOALS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs degraded sources.
func (p *Printer) PrintWarnings(warnings []types.SourceWarning) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d sources unavailable, shown as empty:\n\n", len(warnings)))
	for i, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w.Source))
		sb.WriteString(fmt.Sprintf("  %s", w.Message))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PARTIAL RESULT", sb.String())
}
