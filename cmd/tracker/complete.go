package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-tracker/internal/types"
)

var (
	completeDate  string
	completeLabel string
)

var completeCmd = &cobra.Command{
	Use:   "complete <task-key>",
	Short: "Mark a task done",
	Long: `Mark a task done for one day (default: today).

Completing a content task also publishes the content item and marks the task
done on the item's own date.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

var uncompleteCmd = &cobra.Command{
	Use:   "uncomplete <task-key>",
	Short: "Mark a task not done",
	Args:  cobra.ExactArgs(1),
	RunE:  runUncomplete,
}

func init() {
	completeCmd.Flags().StringVar(&completeDate, "date", "", "Occurrence date (YYYY-MM-DD, default: today)")
	completeCmd.Flags().StringVar(&completeLabel, "label", "", "Label stored with the completion")
	uncompleteCmd.Flags().StringVar(&completeDate, "date", "", "Occurrence date (YYYY-MM-DD, default: today)")
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(uncompleteCmd)
}

// completeRequest derives the kind and source id of a completion from its key.
func completeRequest(key string, day types.Date, label string) (types.CompleteTaskRequest, error) {
	parsed, err := types.ParseTaskKey(key)
	if err != nil {
		return types.CompleteTaskRequest{}, err
	}
	sourceID := parsed.SourceID
	return types.CompleteTaskRequest{
		TaskKey:        key,
		OccurrenceDate: day,
		Label:          label,
		SourceKind:     parsed.Kind,
		SourceID:       &sourceID,
	}, nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	day, err := parseDateFlag("date", completeDate)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if day.IsZero() {
		day = s.engine.Today()
	}
	req, err := completeRequest(args[0], day, completeLabel)
	if err != nil {
		return err
	}
	if err := s.engine.Complete(cmd.Context(), s.userID, req); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed %s on %s\n", req.TaskKey, day)
	return nil
}

func runUncomplete(cmd *cobra.Command, args []string) error {
	day, err := parseDateFlag("date", completeDate)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if day.IsZero() {
		day = s.engine.Today()
	}
	req := types.UncompleteTaskRequest{TaskKey: args[0], OccurrenceDate: day}
	if err := s.engine.Uncomplete(cmd.Context(), s.userID, req); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Uncompleted %s on %s\n", req.TaskKey, day)
	return nil
}
