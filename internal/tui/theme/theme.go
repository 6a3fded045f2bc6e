// Package theme provides color themes for the TUI.
package theme

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "mocha"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Headers, subtle highlight
	BgSelection string `toml:"bg_selection"` // Cursor
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Empty cells, hidden hours
	Accent      string `toml:"accent"`       // Title, borders
	Warning     string `toml:"warning"`      // Overlaps, errors

	// Appointment status colors
	Completed  string `toml:"completed"`
	InProgress string `toml:"in_progress"`
	Scheduled  string `toml:"scheduled"`
	Approved   string `toml:"approved"`
	Pending    string `toml:"pending"`
	Cancelled  string `toml:"cancelled"`
	Rejected   string `toml:"rejected"`

	// Modal palette (can override base theme values)
	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

var builtin = map[string]Theme{
	"mocha": {
		Name: "mocha", Bg: "#1e1e2e", BgHighlight: "#313244", BgSelection: "#45475a",
		Fg: "#cdd6f4", FgMuted: "#6c7086", Accent: "#cba6f7", Warning: "#fab387",
		Completed: "#a6e3a1", InProgress: "#89dceb", Scheduled: "#89b4fa", Approved: "#94e2d5",
		Pending: "#f9e2af", Cancelled: "#7f849c", Rejected: "#f38ba8",
	},
	"macchiato": {
		Name: "macchiato", Bg: "#24273a", BgHighlight: "#363a4f", BgSelection: "#494d64",
		Fg: "#cad3f5", FgMuted: "#6e738d", Accent: "#c6a0f6", Warning: "#f5a97f",
		Completed: "#a6da95", InProgress: "#91d7e3", Scheduled: "#8aadf4", Approved: "#8bd5ca",
		Pending: "#eed49f", Cancelled: "#8087a2", Rejected: "#ed8796",
	},
	"frappe": {
		Name: "frappe", Bg: "#303446", BgHighlight: "#414559", BgSelection: "#51576d",
		Fg: "#c6d0f5", FgMuted: "#737994", Accent: "#ca9ee6", Warning: "#ef9f76",
		Completed: "#a6d189", InProgress: "#99d1db", Scheduled: "#8caaee", Approved: "#81c8be",
		Pending: "#e5c890", Cancelled: "#838ba7", Rejected: "#e78284",
	},
	"latte": {
		Name: "latte", Bg: "#eff1f5", BgHighlight: "#ccd0da", BgSelection: "#bcc0cc",
		Fg: "#4c4f69", FgMuted: "#8c8fa1", Accent: "#8839ef", Warning: "#fe640b",
		Completed: "#40a02b", InProgress: "#04a5e5", Scheduled: "#1e66f5", Approved: "#179299",
		Pending: "#df8e1d", Cancelled: "#9ca0b0", Rejected: "#d20f39",
	},
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load returns a built-in theme by name.
// Falls back to mocha if the theme is not found.
func Load(name string) *Theme {
	name = strings.ToLower(strings.TrimSpace(name))
	t, ok := builtin[name]
	if !ok {
		t = builtin[DefaultName]
	}
	t.applyDefaults()
	return &t
}

// LoadFile reads a TOML theme file on top of the named built-in theme.
// Colors the file leaves out keep the built-in values.
func LoadFile(path, base string) (*Theme, error) {
	t := Load(base)
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}
	if err := toml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parsing theme file %q: %w", path, err)
	}
	t.applyDefaults()
	return t, nil
}

// ModalPalette provides the modal-specific colors derived from the theme.
type ModalPalette struct {
	BaseBg      string
	ModalBorder string
	TextPrimary string
	TextMuted   string
	Highlight   string
}

// Modal returns the modal palette, falling back to base theme colors when needed.
func (t *Theme) Modal() ModalPalette {
	return ModalPalette{
		BaseBg:      coalesce(t.BaseBg, t.BgHighlight, t.Bg),
		ModalBorder: coalesce(t.ModalBorder, t.Accent),
		TextPrimary: coalesce(t.TextPrimary, t.Fg),
		TextMuted:   coalesce(t.TextMuted, t.FgMuted),
		Highlight:   coalesce(t.Highlight, t.BgSelection, t.Accent),
	}
}

func (t *Theme) applyDefaults() {
	m := t.Modal()
	t.BaseBg = m.BaseBg
	t.ModalBorder = m.ModalBorder
	t.TextPrimary = m.TextPrimary
	t.TextMuted = m.TextMuted
	t.Highlight = m.Highlight

	// Rejected bookings look like cancelled ones unless the theme says otherwise.
	t.Rejected = coalesce(t.Rejected, t.Cancelled, t.FgMuted)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
