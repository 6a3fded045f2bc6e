// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/salon/internal/grid"
)

// Config holds the application configuration.
type Config struct {
	Calendar CalendarConfig `toml:"calendar"`
	Branch   BranchConfig   `toml:"branch"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// CalendarConfig holds the default calendar layout.
type CalendarConfig struct {
	DayStartHour int    `toml:"day_start_hour"` // 0..23
	DayEndHour   int    `toml:"day_end_hour"`   // 1..24
	Granularity  int    `toml:"granularity"`    // minutes: 15, 30, 45, 60 or 120
	HiddenHours  []int  `toml:"hidden_hours"`   // e.g. [13] for a lunch break
	Orientation  string `toml:"orientation"`    // "time-major" or "staff-major"
}

// BranchConfig identifies the branch new bookings are recorded against.
type BranchConfig struct {
	Name string `toml:"name"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "ollama" or "openai"
	Model    string `toml:"model"`    // e.g., "llama3.1"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	Driver string `toml:"driver"`  // "sqlite" or "postgres"
	DBPath string `toml:"db_path"` // sqlite file
	DSN    string `toml:"dsn"`     // postgres connection string
}

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme     string `toml:"theme"`      // "mocha", "macchiato", "frappe", "latte"
	ThemeFile string `toml:"theme_file"` // optional TOML file overriding theme colors
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // empty disables logging unless --debug is set
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Calendar: CalendarConfig{
			DayStartHour: grid.DefaultStartHour,
			DayEndHour:   grid.DefaultEndHour,
			Granularity:  grid.DefaultGranularity,
			HiddenHours:  []int{},
			Orientation:  string(grid.TimeMajor),
		},
		Branch: BranchConfig{
			Name: "Main",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "salon.db"
	}
	return filepath.Join(home, ".local", "share", "salon", "salon.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "salon", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.UI.ThemeFile = expandPath(cfg.UI.ThemeFile)
	cfg.Log.File = expandPath(cfg.Log.File)

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
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// Calendar overrides
	if err := envInt("SALON_DAY_START_HOUR", &cfg.Calendar.DayStartHour); err != nil {
		return err
	}
	if err := envInt("SALON_DAY_END_HOUR", &cfg.Calendar.DayEndHour); err != nil {
		return err
	}
	if err := envInt("SALON_GRANULARITY", &cfg.Calendar.Granularity); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("SALON_HIDDEN_HOURS"); ok {
		hours, err := ParseHourList(v)
		if err != nil {
			return fmt.Errorf("SALON_HIDDEN_HOURS: %w", err)
		}
		cfg.Calendar.HiddenHours = hours
	}
	if v := os.Getenv("SALON_ORIENTATION"); v != "" {
		cfg.Calendar.Orientation = v
	}

	if v := os.Getenv("SALON_BRANCH"); v != "" {
		cfg.Branch.Name = v
	}

	// LLM overrides
	if v := os.Getenv("SALON_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("SALON_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("SALON_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	// Storage overrides
	if v := os.Getenv("SALON_DB_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("SALON_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("SALON_DB_DSN"); v != "" {
		cfg.Storage.DSN = v
	}

	// UI overrides
	if v := os.Getenv("SALON_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	// Log overrides
	if v := os.Getenv("SALON_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SALON_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	return nil
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	*dst = n
	return nil
}

// ParseHourList parses a comma separated list of hours, e.g. "12,13".
// An empty string yields an empty list.
func ParseHourList(s string) ([]int, error) {
	hours := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid hour %q", part)
		}
		hours = append(hours, h)
	}
	return hours, nil
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

var validLogLevels = []string{"debug", "info", "warn", "error"}

var validProviders = []string{"ollama", "openai"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	cal := c.Calendar
	if cal.DayStartHour < 0 || cal.DayStartHour > 23 {
		return fmt.Errorf("day_start_hour must be between 0 and 23, got %d", cal.DayStartHour)
	}
	if cal.DayEndHour < 1 || cal.DayEndHour > 24 {
		return fmt.Errorf("day_end_hour must be between 1 and 24, got %d", cal.DayEndHour)
	}
	if cal.DayStartHour >= cal.DayEndHour {
		return errors.New("day_start_hour must be before day_end_hour")
	}
	if !grid.ValidGranularity(cal.Granularity) {
		return fmt.Errorf("granularity must be one of %v, got %d", grid.Granularities, cal.Granularity)
	}
	for _, h := range cal.HiddenHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("hidden hour must be between 0 and 23, got %d", h)
		}
	}
	if _, err := grid.ParseOrientation(cal.Orientation); err != nil {
		return err
	}

	if !slices.Contains(validProviders, strings.ToLower(c.LLM.Provider)) {
		return fmt.Errorf("invalid llm provider: %s", c.LLM.Provider)
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case DriverSQLite, "":
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("dsn must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}
	return nil
}

// GridConfig returns the layout configuration for the given day.
func (c CalendarConfig) GridConfig(date time.Time) grid.Config {
	orientation, err := grid.ParseOrientation(c.Orientation)
	if err != nil {
		orientation = grid.TimeMajor
	}
	cfg := grid.DefaultConfig(date).
		WithHours(c.DayStartHour, c.DayEndHour).
		WithGranularity(c.Granularity).
		WithOrientation(orientation)
	for _, h := range c.HiddenHours {
		if !cfg.IsHidden(h) {
			cfg = cfg.ToggleHidden(h)
		}
	}
	return cfg
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
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
