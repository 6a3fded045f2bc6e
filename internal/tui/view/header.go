package view

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderViewState holds the title bar content.
type HeaderViewState struct {
	Width      int
	Branch     string
	Date       time.Time
	Today      time.Time
	Info       string // right-aligned: granularity, orientation, filter
	TitleStyle lipgloss.Style
	InfoStyle  lipgloss.Style
	Bg         lipgloss.Color
}

// DayTitle formats the viewed day, marking today.
func DayTitle(branch string, date, today time.Time) string {
	title := date.Format("Mon Jan 2 2006")
	if sameDay(date, today) {
		title = "*" + title + "*"
	}
	if branch != "" {
		title = branch + " · " + title
	}
	return title
}

// RenderHeader renders the one-line title bar.
func RenderHeader(state HeaderViewState) string {
	if state.Width <= 0 {
		return ""
	}
	title := state.TitleStyle.Render(DayTitle(state.Branch, state.Date, state.Today))
	info := state.InfoStyle.Render(state.Info)

	gap := state.Width - lipgloss.Width(title) - lipgloss.Width(info)
	if gap < 1 {
		return PadLinesWithBackground(Truncate(title, state.Width), state.Width, 1, state.Bg)
	}
	spacer := lipgloss.NewStyle().Background(state.Bg).Render(spaces(gap))
	return title + spacer + info
}

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
