package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableContent contains table rows and cell styles.
type TableContent struct {
	Rows       [][]string
	CellStyles [][]lipgloss.Style
}

// TableViewState holds data needed to render the appointment grid.
type TableViewState struct {
	InnerW       int
	GridH        int
	Headers      []string
	HeaderStyles []lipgloss.Style
	Content      TableContent
	BorderStyle  lipgloss.Style
	VAlign       lipgloss.Position
	Bg           lipgloss.Color
	Render       bool
}

// RenderTable renders the grid using a lipgloss table and places it in an
// InnerW x GridH box.
func RenderTable(state TableViewState) string {
	if !state.Render || state.GridH <= 0 {
		return ""
	}

	t := NewTable(state.Headers, state.Content, state.HeaderStyles).
		Width(max(state.InnerW-2, 0)).
		Height(state.GridH).
		BorderStyle(state.BorderStyle)

	return PlaceBox(state.InnerW, state.GridH, state.VAlign, t.Render(), state.Bg)
}

// NewTable builds the bordered grid table shared by the TUI and the plain
// CLI output. The first column holds the row headers.
func NewTable(headers []string, content TableContent, headerStyles []lipgloss.Style) *table.Table {
	return table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		Rows(content.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col >= 0 && col < len(headerStyles) {
					return headerStyles[col]
				}
				return lipgloss.NewStyle()
			}
			if row < 0 || row >= len(content.CellStyles) || col < 0 || col >= len(content.CellStyles[row]) {
				return lipgloss.NewStyle()
			}
			return content.CellStyles[row][col]
		})
}
