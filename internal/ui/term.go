package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/javiermolinar/salon/internal/booking"
)

// Color definitions for consistent styling across the CLI.
var (
	colorHeader = color.New(color.Bold)
	colorMuted  = color.New(color.FgWhite, color.Faint)
	colorWarn   = color.New(color.FgYellow)
	colorOK     = color.New(color.FgGreen)

	statusColors = map[booking.Status]*color.Color{
		booking.StatusCompleted:  color.New(color.FgGreen),
		booking.StatusInProgress: color.New(color.FgCyan, color.Bold),
		booking.StatusScheduled:  color.New(color.FgBlue),
		booking.StatusApproved:   color.New(color.FgMagenta),
		booking.StatusPending:    color.New(color.FgYellow),
		booking.StatusCancelled:  color.New(color.FgRed, color.Faint),
		booking.StatusRejected:   color.New(color.FgRed, color.Faint),
	}
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 100
	}
	return width
}

// DisableColor disables color output for both fatih/color and lipgloss.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatOK(s string) string {
	return colorOK.Sprint(s)
}

// formatStatus colors a status label. Unknown statuses are printed plain.
func formatStatus(s booking.Status) string {
	c, ok := statusColors[s]
	if !ok {
		return string(s)
	}
	return c.Sprint(s.Label())
}

// statusSymbol returns a one-character marker for a status.
func statusSymbol(s booking.Status) string {
	switch s {
	case booking.StatusCompleted:
		return "✓"
	case booking.StatusInProgress:
		return "▶"
	case booking.StatusCancelled, booking.StatusRejected:
		return "✗"
	case booking.StatusPending:
		return "?"
	default:
		return "○"
	}
}
