package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-tracker/internal/seed"
)

var seedDate string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a demo dataset for the configured user",
	Long:  "Inserts two weeks of demo jobs, recruiter contacts, learning sessions, projects, content, manual tasks and goals ending on --date (default: today).",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDate, "date", "", "Last day of the demo data (YYYY-MM-DD, default: today)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	anchor, err := parseDateFlag("date", seedDate)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if anchor.IsZero() {
		anchor = s.engine.Today()
	}
	n, err := seed.Load(cmd.Context(), s.backend.writer, seed.Demo(s.userID, anchor))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rows for %s ending %s\n", n, s.userID, anchor)
	return nil
}
