package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-tracker/internal/config"
	"github.com/jonathan/career-tracker/internal/events"
	"github.com/jonathan/career-tracker/internal/server"
	"github.com/jonathan/career-tracker/internal/types"
)

var (
	servePort   int
	serveMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing the task list, completion and analytics endpoints
under /v1, plus an event stream of cache invalidations at /v1/events.

With --memory the server runs on an in-memory store seeded with demo data and
logs a bearer token for the demo user.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: config port)")
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Serve a seeded in-memory store instead of PostgreSQL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	jwtService := server.NewJWTService(jwtCfg)

	var b *backend
	if serveMemory {
		userID, err := cfg.User()
		if err != nil {
			userID = uuid.New()
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		b, err = demoBackend(cmd.Context(), userID, types.DateOf(time.Now().In(loc)))
		if err != nil {
			return err
		}
		token, err := jwtService.GenerateToken(userID)
		if err != nil {
			return err
		}
		log.Printf("[serve] demo user %s, token: %s", userID, token)
	} else {
		b, err = openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
	}

	bus := events.NewBus()
	engine, err := newEngine(cfg, b, bus)
	if err != nil {
		b.close()
		return err
	}

	port := servePort
	if port == 0 {
		port = cfg.Port
	}
	srv := server.New(server.Config{Port: port}, engine, bus, jwtService)
	srv.OnShutdown(b.close)

	if err := srv.Start(); err != nil {
		b.close()
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
