// Package config loads the tracker configuration: a JSONC file checked against
// an embedded JSON Schema, defaults, and environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tailscale/hujson"

	"github.com/jonathan/career-tracker/internal/schemas"
)

// DefaultPath is read when no config path is given. A missing default file is not an error.
const DefaultPath = "tracker.json"

// Config represents the tracker configuration.
// All fields are optional in the file; Default fills the rest.
type Config struct {
	DatabaseURL      string  `json:"database_url,omitempty"`                                 // PostgreSQL connection URL
	UserID           string  `json:"user_id,omitempty" validate:"omitempty,uuid"`            // User the CLI acts as
	Timezone         string  `json:"timezone,omitempty" validate:"required"`                 // IANA zone "today" is computed in
	Port             int     `json:"port,omitempty" validate:"min=1,max=65535"`              // HTTP listen port
	GoalThreshold    float64 `json:"goal_threshold,omitempty" validate:"gt=0,lte=1"`         // Share of a goal target that counts as met
	StreakWindowDays int     `json:"streak_window_days,omitempty" validate:"min=1,max=3650"` // How far back streaks are searched
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timezone:         "UTC",
		Port:             8080,
		GoalThreshold:    0.8,
		StreakWindowDays: 365,
	}
}

// Load reads path (or DefaultPath when empty), fills defaults, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	switch {
	case path != "":
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		loaded, err := LoadConfig(DefaultPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if loaded != nil {
			cfg = loaded
		}
	}

	merged := cfg.MergeWithDefaults(Default())
	if err := merged.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfig loads configuration from a JSONC file (comments and trailing
// commas allowed) and checks it against the config schema.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and schema-checks JSONC config content.
func ParseConfig(data []byte) (*Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config JSONC: %w", err)
	}

	if err := schemas.Validate(schemas.Config, standardized); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from DATABASE_URL, TRACKER_USER_ID,
// TRACKER_TIMEZONE and PORT when they are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("TRACKER_USER_ID"); v != "" {
		c.UserID = v
	}
	if v := getenv("TRACKER_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return fmt.Errorf("config error: '%s' failed '%s'", ve[0].Field(), ve[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config error: unknown timezone %q", c.Timezone)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.GoalThreshold == 0 {
		result.GoalThreshold = defaults.GoalThreshold
	}
	if result.StreakWindowDays == 0 {
		result.StreakWindowDays = defaults.StreakWindowDays
	}

	return result
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// User returns the configured user id, or an error when none is set.
func (c *Config) User() (uuid.UUID, error) {
	if c.UserID == "" {
		return uuid.Nil, fmt.Errorf("no user configured: set user_id or TRACKER_USER_ID")
	}
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user_id: %w", err)
	}
	return id, nil
}
