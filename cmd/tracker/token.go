package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-tracker/internal/config"
	"github.com/jonathan/career-tracker/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long:  "Signs a JWT for the configured user with JWT_SECRET. Pass it to the API as 'Authorization: Bearer <token>'.",
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

// issueToken signs a token for userID with the JWT settings read through getenv.
func issueToken(getenv func(string) string, userID uuid.UUID) (string, error) {
	jwtCfg, err := config.JWTConfigFrom(getenv)
	if err != nil {
		return "", err
	}
	return server.NewJWTService(jwtCfg).GenerateToken(userID)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	userID, err := cfg.User()
	if err != nil {
		return err
	}

	signed, err := issueToken(os.Getenv, userID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
