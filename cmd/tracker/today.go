package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/career-tracker/internal/observability"
)

var (
	todayDate   string
	todayOutput outputOptions
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the task list for a day",
	Long:  "Projects manual tasks, learning sessions, content and active projects into the task list for a day (default: today in the configured timezone) and marks the ones already done.",
	RunE:  runToday,
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Day to show (YYYY-MM-DD, default: today)")
	todayCmd.Flags().BoolVar(&todayOutput.json, "json", false, "Print the projection as JSON")
	todayCmd.Flags().StringVarP(&todayOutput.out, "out", "o", "", "Write the projection as JSON to this file")
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, _ []string) error {
	day, err := parseDateFlag("date", todayDate)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	projection, err := s.engine.TodayTasks(cmd.Context(), s.userID, day)
	if err != nil {
		return err
	}

	return emit(cmd.OutOrStdout(), todayOutput, projection, func() {
		observability.NewPrinter(cmd.OutOrStdout()).PrintProjection(projection)
	})
}
