// Package config resolves the runtime settings of capplan from defaults, an
// optional YAML file and CAPPLAN_* environment variables, in that order.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config models capplan.yml.
type Config struct {
	DBPath     string           `yaml:"db"`
	DataDir    string           `yaml:"data_dir"`
	Actor      string           `yaml:"actor"`
	Recurrence RecurrenceConfig `yaml:"recurrence"`
	Log        LogConfig        `yaml:"log"`
}

type RecurrenceConfig struct {
	HorizonYears int `yaml:"horizon_years"`
	// LegacyYearStepping advances month intervals by whole years, the way
	// plans created by the earlier tool were expanded.
	LegacyYearStepping bool `yaml:"legacy_year_stepping"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration. The store lives under
// ~/.capplan unless the home directory cannot be determined.
func Default() Config {
	dbPath := "capplan.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".capplan", "capplan.db")
	}
	return Config{
		DBPath:     dbPath,
		DataDir:    "data",
		Actor:      domain.DefaultActor,
		Recurrence: RecurrenceConfig{HorizonYears: 10},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// CAPPLAN_CONFIG is consulted, and when that is empty too no file is read.
// A named file that does not exist is an error. Environment variables are
// applied last; invalid values are ignored.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CAPPLAN_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CAPPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CAPPLAN_DATA"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CAPPLAN_ACTOR"); v != "" {
		cfg.Actor = v
	}
	if v := os.Getenv("CAPPLAN_HORIZON_YEARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Recurrence.HorizonYears = n
		}
	}
	if v := os.Getenv("CAPPLAN_LEGACY_YEAR_STEPPING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Recurrence.LegacyYearStepping = b
		}
	}
	if v := os.Getenv("CAPPLAN_LOG_LEVEL"); v != "" {
		if _, ok := parseLevel(v); ok {
			cfg.Log.Level = v
		}
	}
	if v := os.Getenv("CAPPLAN_LOG_FORMAT"); v != "" {
		if v == "text" || v == "json" {
			cfg.Log.Format = v
		}
	}
}

// Validate reports settings the application cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config.data_dir is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("config.db is required")
	}
	if c.Recurrence.HorizonYears <= 0 {
		return fmt.Errorf("config.recurrence.horizon_years must be positive, got %d", c.Recurrence.HorizonYears)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return fmt.Errorf("config.log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("config.log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the application logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, ok := parseLevel(l.Level)
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
