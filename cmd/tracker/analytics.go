package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-tracker/internal/observability"
	"github.com/jonathan/career-tracker/internal/types"
)

var (
	analyticsStart  string
	analyticsEnd    string
	analyticsDays   int
	analyticsOutput outputOptions
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Compute analytics over a date window",
	Long:  "Computes the job funnel, recruiter response rates, learning and content breakdowns, task series, streaks, trends, goal achievement and weekly patterns for a window (default: the last 30 days).",
	RunE:  runAnalytics,
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsStart, "start", "", "First day of the window (YYYY-MM-DD)")
	analyticsCmd.Flags().StringVar(&analyticsEnd, "end", "", "Last day of the window (YYYY-MM-DD, default: today)")
	analyticsCmd.Flags().IntVar(&analyticsDays, "days", 30, "Window length when --start is not given")
	analyticsCmd.Flags().BoolVar(&analyticsOutput.json, "json", false, "Print the bundle as JSON")
	analyticsCmd.Flags().StringVarP(&analyticsOutput.out, "out", "o", "", "Write the bundle as JSON to this file")
	rootCmd.AddCommand(analyticsCmd)
}

// resolveWindow fills a missing end with today and a missing start with the
// window of days ending at end.
func resolveWindow(start, end, today types.Date, days int) (types.Date, types.Date, error) {
	if end.IsZero() {
		end = today
	}
	if start.IsZero() {
		if days < 1 {
			return types.Date{}, types.Date{}, fmt.Errorf("--days must be at least 1, got %d", days)
		}
		start = end.AddDays(-(days - 1))
	}
	return start, end, nil
}

func runAnalytics(cmd *cobra.Command, _ []string) error {
	start, err := parseDateFlag("start", analyticsStart)
	if err != nil {
		return err
	}
	end, err := parseDateFlag("end", analyticsEnd)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	start, end, err = resolveWindow(start, end, s.engine.Today(), analyticsDays)
	if err != nil {
		return err
	}
	bundle, err := s.engine.Analytics(cmd.Context(), s.userID, start, end)
	if err != nil {
		return err
	}

	return emit(cmd.OutOrStdout(), analyticsOutput, bundle, func() {
		observability.NewPrinter(cmd.OutOrStdout()).PrintAnalytics(bundle)
	})
}
