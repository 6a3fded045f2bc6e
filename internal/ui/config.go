package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/salon/internal/config"
	"github.com/javiermolinar/salon/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.`,
		Example: `  salon config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return a.runConfigInteractive(cmd.OutOrStdout(), path)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Config file (default: "+config.DefaultConfigPath()+")")
	return cmd
}

func (a *App) runConfigInteractive(out io.Writer, path string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", path)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", path)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(a.in)
	if !promptYesNo(out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cal := &cfg.Calendar
	cal.DayStartHour = promptInt(out, reader, "Day start hour", cal.DayStartHour)
	cal.DayEndHour = promptInt(out, reader, "Day end hour", cal.DayEndHour)
	cal.Granularity = promptInt(out, reader, "Slot minutes (15, 30, 45, 60, 120)", cal.Granularity)
	cal.HiddenHours = promptHours(out, reader, "Hidden hours (comma-separated)", cal.HiddenHours)
	cal.Orientation = promptValue(out, reader, "Orientation (time-major, staff-major)", cal.Orientation)
	cfg.Branch.Name = promptValue(out, reader, "Branch name", cfg.Branch.Name)
	cfg.LLM.Provider = promptValue(out, reader, "LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(out, reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(out, reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = promptValue(out, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(out, reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[calendar]")
	fmt.Fprintf(out, "  day_start_hour = %d\n", cfg.Calendar.DayStartHour)
	fmt.Fprintf(out, "  day_end_hour   = %d\n", cfg.Calendar.DayEndHour)
	fmt.Fprintf(out, "  granularity    = %d\n", cfg.Calendar.Granularity)
	if len(cfg.Calendar.HiddenHours) > 0 {
		fmt.Fprintf(out, "  hidden_hours   = %s\n", hourList(cfg.Calendar.HiddenHours))
	}
	fmt.Fprintf(out, "  orientation    = %s\n", cfg.Calendar.Orientation)
	fmt.Fprintln(out, "\n[branch]")
	fmt.Fprintf(out, "  name           = %s\n", cfg.Branch.Name)
	fmt.Fprintln(out, "\n[llm]")
	fmt.Fprintf(out, "  provider       = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  model          = %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "  base_url       = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  driver         = %s\n", cfg.Storage.Driver)
	fmt.Fprintf(out, "  db_path        = %s\n", cfg.Storage.DBPath)
	if cfg.Storage.DSN != "" {
		fmt.Fprintln(out, "  dsn            = (set)")
	}
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme          = %s\n", cfg.UI.Theme)
	if cfg.UI.ThemeFile != "" {
		fmt.Fprintf(out, "  theme_file     = %s\n", cfg.UI.ThemeFile)
	}
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level          = %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(out, "  file           = %s\n", cfg.Log.File)
	}
}

func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(out io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(out io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(out, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptHours(out io.Writer, reader *bufio.Reader, label string, current []int) []int {
	for {
		value := promptValue(out, reader, label, hourList(current))
		hours, err := config.ParseHourList(value)
		if err == nil {
			return hours
		}
		fmt.Fprintf(out, "  %v\n", err)
	}
}

func promptTheme(out io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(out, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		if value == strings.ToLower(current) {
			// An unknown theme left unchanged falls back to the default.
			return theme.DefaultName
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
