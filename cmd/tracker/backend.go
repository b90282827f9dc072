package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/config"
	"github.com/jonathan/career-tracker/internal/db"
	"github.com/jonathan/career-tracker/internal/events"
	"github.com/jonathan/career-tracker/internal/seed"
	"github.com/jonathan/career-tracker/internal/store"
	"github.com/jonathan/career-tracker/internal/store/memory"
	"github.com/jonathan/career-tracker/internal/tracker"
	"github.com/jonathan/career-tracker/internal/types"
)

// backend is one storage implementation behind the engine.
type backend struct {
	sources store.Sources
	ledger  store.Ledger
	writer  seed.Writer
	close   func()
}

// openDatabase connects to cfg.DatabaseURL.
func openDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url or DATABASE_URL is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return database, nil
}

// openBackend is swapped out by tests.
var openBackend = func(ctx context.Context, cfg *config.Config) (*backend, error) {
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &backend{
		sources: database.Sources(),
		ledger:  database,
		writer:  database,
		close:   database.Close,
	}, nil
}

// demoBackend returns an in-memory backend seeded with the demo dataset for userID.
func demoBackend(ctx context.Context, userID uuid.UUID, today types.Date) (*backend, error) {
	mem := memory.New()
	n, err := seed.Load(ctx, mem, seed.Demo(userID, today))
	if err != nil {
		return nil, err
	}
	log.Printf("[seed] loaded %d demo rows for %s", n, userID)
	return &backend{
		sources: mem.Sources(),
		ledger:  mem,
		writer:  mem,
		close:   func() {},
	}, nil
}

// loadConfig reads the config file and applies the --user flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if userFlag != "" {
		cfg.UserID = userFlag
	}
	return cfg, nil
}

// newEngine builds an engine over b with the configured timezone and thresholds.
func newEngine(cfg *config.Config, b *backend, publisher events.Publisher) (*tracker.Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return tracker.New(b.sources, b.ledger, tracker.Options{
		Location:         loc,
		GoalThreshold:    cfg.GoalThreshold,
		StreakWindowDays: cfg.StreakWindowDays,
		Publisher:        publisher,
	}), nil
}

// session is the common setup of commands acting as one user.
type session struct {
	cfg     *config.Config
	userID  uuid.UUID
	backend *backend
	engine  *tracker.Engine
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	userID, err := cfg.User()
	if err != nil {
		return nil, err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cfg, b, nil)
	if err != nil {
		b.close()
		return nil, err
	}
	return &session{cfg: cfg, userID: userID, backend: b, engine: engine}, nil
}

func (s *session) Close() {
	s.backend.close()
}
