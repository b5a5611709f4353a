package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace config file.
const FileName = "faktury.yaml"

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config represents the top-level faktury.yaml configuration.
type Config struct {
	Business      BusinessConfig      `yaml:"business"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Storage       StorageConfig       `yaml:"storage"`
	Git           GitConfig           `yaml:"git"`
	Log           LogConfig           `yaml:"log"`
}

// BusinessConfig identifies the company running the workspace.
type BusinessConfig struct {
	Name string `yaml:"name"`
	NIP  string `yaml:"nip,omitempty"`
}

// NotificationsConfig controls the overdue/due-soon banner.
type NotificationsConfig struct {
	DueSoonDays  int `yaml:"due_soon_days"`
	DisplayLimit int `yaml:"display_limit"`
}

// ScoringConfig sets the company score change per paid invoice.
type ScoringConfig struct {
	OnTimePoints int `yaml:"on_time_points"`
	LatePoints   int `yaml:"late_points"`
}

// StorageConfig selects where records live.
type StorageConfig struct {
	Backend    string `yaml:"backend"`               // "csv" or "sqlite"
	SQLitePath string `yaml:"sqlite_path,omitempty"` // relative to the workspace
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Load reads a faktury.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadWithEnv loads the optional .env file at envPath, reads path and
// applies environment overrides.
func LoadWithEnv(path, envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envPath, err)
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from FAKTURY_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("FAKTURY_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("FAKTURY_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("FAKTURY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FAKTURY_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string
	switch c.Storage.Backend {
	case BackendCSV:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, "storage.sqlite_path is required for the sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.backend %q is not one of csv, sqlite", c.Storage.Backend))
	}
	if c.Notifications.DueSoonDays < 0 {
		errs = append(errs, "notifications.due_soon_days must not be negative")
	}
	if c.Notifications.DisplayLimit < 1 {
		errs = append(errs, "notifications.display_limit must be at least 1")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Notifications: NotificationsConfig{
			DueSoonDays:  3,
			DisplayLimit: 5,
		},
		Scoring: ScoringConfig{
			OnTimePoints: 10,
			LatePoints:   -5,
		},
		Storage: StorageConfig{
			Backend:    BackendCSV,
			SQLitePath: "data/faktury.db",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Faktury",
			AuthorEmail: "faktury@localhost",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
