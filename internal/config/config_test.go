package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/javiermolinar/salon/internal/grid"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Calendar.DayStartHour != 9 {
		t.Errorf("expected day_start_hour 9, got %d", cfg.Calendar.DayStartHour)
	}
	if cfg.Calendar.DayEndHour != 18 {
		t.Errorf("expected day_end_hour 18, got %d", cfg.Calendar.DayEndHour)
	}
	if cfg.Calendar.Granularity != 30 {
		t.Errorf("expected granularity 30, got %d", cfg.Calendar.Granularity)
	}
	if cfg.Calendar.Orientation != "time-major" {
		t.Errorf("expected orientation time-major, got %s", cfg.Calendar.Orientation)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434" {
		t.Errorf("expected base_url http://localhost:11434, got %s", cfg.LLM.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Calendar.DayStartHour != 9 {
		t.Errorf("expected default day_start_hour, got %d", cfg.Calendar.DayStartHour)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[calendar]
day_start_hour = 8
day_end_hour = 20
granularity = 15
hidden_hours = [13, 14]
orientation = "staff-major"

[branch]
name = "Downtown"

[llm]
provider = "openai"
model = "qwen2.5"
base_url = "http://localhost:1234/v1"

[storage]
db_path = "/tmp/test.db"

[log]
level = "debug"
file = "/tmp/salon.log"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Calendar.DayStartHour != 8 || cfg.Calendar.DayEndHour != 20 {
		t.Errorf("expected hours 8-20, got %d-%d", cfg.Calendar.DayStartHour, cfg.Calendar.DayEndHour)
	}
	if cfg.Calendar.Granularity != 15 {
		t.Errorf("expected granularity 15, got %d", cfg.Calendar.Granularity)
	}
	if !reflect.DeepEqual(cfg.Calendar.HiddenHours, []int{13, 14}) {
		t.Errorf("expected hidden hours [13 14], got %v", cfg.Calendar.HiddenHours)
	}
	if cfg.Branch.Name != "Downtown" {
		t.Errorf("expected branch Downtown, got %s", cfg.Branch.Name)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", cfg.LLM.Provider)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/salon.log" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
	// Values not in the file keep their defaults
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected default theme mocha, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[calendar\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[calendar]
day_start_hour = 8
day_end_hour = 16

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("SALON_DAY_START_HOUR", "10")
	t.Setenv("SALON_GRANULARITY", "60")
	t.Setenv("SALON_HIDDEN_HOURS", "12, 13")
	t.Setenv("SALON_ORIENTATION", "staff-major")
	t.Setenv("SALON_LLM_MODEL", "mistral")
	t.Setenv("SALON_DB_PATH", "/tmp/env.db")
	t.Setenv("SALON_BRANCH", "Uptown")
	t.Setenv("SALON_DB_DRIVER", "postgres")
	t.Setenv("SALON_DB_DSN", "postgres://salon@localhost/salon")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Calendar.DayStartHour != 10 {
		t.Errorf("expected day_start_hour 10 from env, got %d", cfg.Calendar.DayStartHour)
	}
	// File value should be kept when no env override
	if cfg.Calendar.DayEndHour != 16 {
		t.Errorf("expected day_end_hour 16 from file, got %d", cfg.Calendar.DayEndHour)
	}
	if cfg.Calendar.Granularity != 60 {
		t.Errorf("expected granularity 60 from env, got %d", cfg.Calendar.Granularity)
	}
	if !reflect.DeepEqual(cfg.Calendar.HiddenHours, []int{12, 13}) {
		t.Errorf("expected hidden hours [12 13], got %v", cfg.Calendar.HiddenHours)
	}
	if cfg.Calendar.Orientation != "staff-major" {
		t.Errorf("expected orientation from env, got %s", cfg.Calendar.Orientation)
	}
	if cfg.LLM.Model != "mistral" {
		t.Errorf("expected model mistral from env, got %s", cfg.LLM.Model)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected db_path from env, got %s", cfg.Storage.DBPath)
	}
	if cfg.Branch.Name != "Uptown" {
		t.Errorf("expected branch Uptown, got %s", cfg.Branch.Name)
	}
	if cfg.Storage.Driver != DriverPostgres || cfg.Storage.DSN != "postgres://salon@localhost/salon" {
		t.Errorf("expected postgres storage from env, got %+v", cfg.Storage)
	}
}

func TestLoadFrom_InvalidEnv(t *testing.T) {
	tests := map[string]string{
		"SALON_DAY_START_HOUR": "nine",
		"SALON_GRANULARITY":    "half-hour",
		"SALON_HIDDEN_HOURS":   "12,lunch",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := LoadFrom("/nonexistent/config.toml"); err == nil {
				t.Errorf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"start after end", func(c *Config) { c.Calendar.DayStartHour, c.Calendar.DayEndHour = 18, 9 }},
		{"start equals end", func(c *Config) { c.Calendar.DayStartHour, c.Calendar.DayEndHour = 12, 12 }},
		{"start out of range", func(c *Config) { c.Calendar.DayStartHour = -1 }},
		{"end out of range", func(c *Config) { c.Calendar.DayEndHour = 25 }},
		{"granularity", func(c *Config) { c.Calendar.Granularity = 20 }},
		{"hidden hour", func(c *Config) { c.Calendar.HiddenHours = []int{24} }},
		{"orientation", func(c *Config) { c.Calendar.Orientation = "diagonal" }},
		{"provider", func(c *Config) { c.LLM.Provider = "copilot" }},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"storage driver", func(c *Config) { c.Storage.Driver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_Postgres(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = DriverPostgres
	cfg.Storage.DSN = "postgres://salon@localhost/salon"
	cfg.Storage.DBPath = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected a postgres config without db_path to be valid, got: %v", err)
	}
}

func TestValidate_EndOfDay(t *testing.T) {
	cfg := Default()
	cfg.Calendar.DayStartHour = 0
	cfg.Calendar.DayEndHour = 24
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected 0-24 to be valid, got: %v", err)
	}
}

func TestGridConfig(t *testing.T) {
	cal := CalendarConfig{
		DayStartHour: 10,
		DayEndHour:   14,
		Granularity:  60,
		HiddenHours:  []int{12, 12},
		Orientation:  "staff-major",
	}
	day := time.Date(2025, 3, 10, 15, 30, 0, 0, time.Local)

	got := cal.GridConfig(day)
	if got.StartHour != 10 || got.EndHour != 14 || got.Granularity != 60 {
		t.Errorf("unexpected grid config %+v", got)
	}
	if got.Orientation != grid.StaffMajor {
		t.Errorf("expected staff-major, got %s", got.Orientation)
	}
	if !reflect.DeepEqual(got.HiddenHours, []int{12}) {
		t.Errorf("expected hidden [12], got %v", got.HiddenHours)
	}
	if got.Date.Hour() != 0 || got.Date.Day() != 10 {
		t.Errorf("expected midnight of the 10th, got %v", got.Date)
	}
	if n := len(grid.GenerateSlots(got)); n != 3 {
		t.Errorf("expected 3 slots, got %d", n)
	}

	// The config value is not shared with the grid config
	cal.HiddenHours[0] = 11
	if got.IsHidden(11) {
		t.Error("grid config must not alias the calendar hidden hours")
	}
}

func TestParseHourList(t *testing.T) {
	got, err := ParseHourList(" 9, 13,,17 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{9, 13, 17}) {
		t.Errorf("got %v", got)
	}
	if got, _ := ParseHourList(""); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Calendar.DayStartHour = 7
	cfg.Calendar.DayEndHour = 15
	cfg.Calendar.HiddenHours = []int{11}
	cfg.Branch.Name = "Harbor"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Calendar.DayStartHour != 7 || loaded.Calendar.DayEndHour != 15 {
		t.Errorf("expected hours 7-15, got %d-%d", loaded.Calendar.DayStartHour, loaded.Calendar.DayEndHour)
	}
	if !reflect.DeepEqual(loaded.Calendar.HiddenHours, []int{11}) {
		t.Errorf("expected hidden [11], got %v", loaded.Calendar.HiddenHours)
	}
	if loaded.Branch.Name != "Harbor" {
		t.Errorf("expected branch Harbor, got %s", loaded.Branch.Name)
	}
}
