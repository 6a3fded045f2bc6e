package view

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/salon/internal/grid"
)

// Markers drawn inside grid cells.
const (
	ContinuationMark = "┆"
	ClippedMark      = "…"
	EmptyMark        = "·"
)

// CellText returns the text of one grid cell, cut to width columns.
// Start cells show the booking title, continuation cells a thin marker so
// a block reads as one run across its span.
func CellText(c grid.Cell, width int) string {
	var text string
	switch c.Kind {
	case grid.Start:
		text = c.Appointment.Title()
		if c.Clipped {
			text = ClippedMark + text
		}
	case grid.Continuation:
		text = ContinuationMark
	default:
		text = EmptyMark
	}
	return Truncate(text, width)
}

// Truncate cuts s to width visible columns, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return ansi.Truncate(s, 1, "")
	}
	return ansi.Truncate(s, width, "…")
}

// Legend renders "label label label" entries separated by two spaces.
func Legend(entries ...string) string {
	return strings.Join(entries, "  ")
}
