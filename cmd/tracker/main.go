// Package main provides the tracker CLI: the HTTP API server plus commands
// to inspect and complete today's tasks and compute analytics.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	userFlag   string
)

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "Career tracker task and analytics engine",
	Long:          "Tracker merges job applications, recruiter outreach, learning, side projects and content into one daily task list, and derives analytics over any date window.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: tracker.json if present)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "User id to act as (overrides user_id and TRACKER_USER_ID)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
