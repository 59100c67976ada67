// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/moodplan/internal/conflict"
)

// Storage drivers.
const (
	DriverSQLite  = "sqlite"
	DriverBackend = "backend"
)

const envPrefix = "MOODPLAN_"

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Conflict ConflictConfig `toml:"conflict"`
	Storage  StorageConfig  `toml:"storage"`
	Backend  BackendConfig  `toml:"backend"`
	LLM      LLMConfig      `toml:"llm"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

// ScheduleConfig bounds the part of the day plans are suggested in.
type ScheduleConfig struct {
	DayStart   string `toml:"day_start"`   // e.g., "06:00"
	DayEnd     string `toml:"day_end"`     // e.g., "23:59"
	RejectPast bool   `toml:"reject_past"` // refuse start times already gone today
}

// ConflictConfig tunes the overlap resolver.
type ConflictConfig struct {
	MaxIterations int  `toml:"max_iterations"`
	AutoShift     bool `toml:"auto_shift"` // push later plans instead of failing
}

// StorageConfig selects where plans live.
type StorageConfig struct {
	Driver string `toml:"driver"` // "sqlite" or "backend"
	DBPath string `toml:"db_path"`
}

// BackendConfig points at the remote plans API.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DayStart:   "06:00",
			DayEnd:     "23:59",
			RejectPast: true,
		},
		Conflict: ConflictConfig{
			MaxIterations: conflict.DefaultMaxIterations,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			DBPath: defaultDataPath("moodplan.db"),
		},
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
		},
		Log: LogConfig{
			Dir: defaultDataPath("logs"),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "moodplan", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "moodplan", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.Dir = expandPath(cfg.Log.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies MOODPLAN_* environment variables on top of the file.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"DAY_START":    &cfg.Schedule.DayStart,
		"DAY_END":      &cfg.Schedule.DayEnd,
		"DRIVER":       &cfg.Storage.Driver,
		"DB_PATH":      &cfg.Storage.DBPath,
		"BACKEND_URL":  &cfg.Backend.BaseURL,
		"LLM_PROVIDER": &cfg.LLM.Provider,
		"LLM_MODEL":    &cfg.LLM.Model,
		"LLM_BASE_URL": &cfg.LLM.BaseURL,
		"LOG_DIR":      &cfg.Log.Dir,
		"UI_THEME":     &cfg.UI.Theme,
	}
	for name, dst := range strs {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"REJECT_PAST": &cfg.Schedule.RejectPast,
		"AUTO_SHIFT":  &cfg.Conflict.AutoShift,
		"DEBUG":       &cfg.Log.Debug,
	}
	for name, dst := range bools {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = b
	}

	ints := map[string]*int{
		"MAX_ITERATIONS":  &cfg.Conflict.MaxIterations,
		"BACKEND_TIMEOUT": &cfg.Backend.TimeoutSeconds,
	}
	for name, dst := range ints {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	start, err := validateTime(c.Schedule.DayStart, "day_start")
	if err != nil {
		return err
	}
	end, err := validateTime(c.Schedule.DayEnd, "day_end")
	if err != nil {
		return err
	}
	if start >= end {
		return errors.New("day_start must be before day_end")
	}

	if c.Conflict.MaxIterations <= 0 {
		return errors.New("max_iterations must be positive")
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case DriverBackend:
		if c.Backend.BaseURL == "" {
			return errors.New("backend base_url must be set")
		}
	default:
		return fmt.Errorf("storage driver must be %q or %q, got %q", DriverSQLite, DriverBackend, c.Storage.Driver)
	}

	if c.Backend.TimeoutSeconds < 0 {
		return errors.New("timeout_seconds cannot be negative")
	}
	return nil
}

// validateTime checks a strict 24-hour HH:MM value and returns its minute of day.
func validateTime(t, field string) (int, error) {
	m, ok := conflict.ParseTimeToMinutes(t)
	if !ok || len(t) != 5 {
		return 0, fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return m, nil
}

// DayStartMinutes returns the configured day start as minutes since midnight.
func (c *Config) DayStartMinutes() int {
	m, _ := conflict.ParseTimeToMinutes(c.Schedule.DayStart)
	return m
}

// DayEndMinutes returns the configured day end as minutes since midnight.
func (c *Config) DayEndMinutes() int {
	m, _ := conflict.ParseTimeToMinutes(c.Schedule.DayEnd)
	return m
}

// BackendTimeout returns the HTTP timeout for the backend client.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
