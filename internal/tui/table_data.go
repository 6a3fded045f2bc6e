package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/tui/view"
)

// tableViewState builds the visible window of the layout as table rows.
// The window follows m.scroll so the cursor is always inside it.
func (m Model) tableViewState() view.TableViewState {
	rowHeaders := m.layout.RowHeaders()
	colHeaders := m.layout.ColumnHeaders()

	visCols, colW := m.columnLayout()
	rowW := m.rowHeaderWidth()

	r0, c0 := m.scroll.Row, m.scroll.Col
	r1 := min(r0+m.visibleRows(), len(rowHeaders))
	c1 := min(c0+visCols, len(colHeaders))

	// The slot axis is columns in time-major and rows in staff-major.
	nowSlot := m.nowSlotIndex()
	nowRow, nowCol := -1, -1
	if nowSlot >= 0 {
		if m.gridCfg.Orientation == grid.StaffMajor {
			nowRow = nowSlot
		} else {
			nowCol = nowSlot
		}
	}

	headers := make([]string, 0, c1-c0+1)
	headerStyles := make([]lipgloss.Style, 0, c1-c0+1)
	headers = append(headers, m.cornerLabel())
	headerStyles = append(headerStyles, m.styles.CornerStyle.Width(rowW))
	for c := c0; c < c1; c++ {
		style := m.styles.ColumnHeaderStyle
		if c == nowCol {
			style = m.styles.NowHeaderStyle
		}
		headers = append(headers, view.Truncate(colHeaders[c], colW))
		headerStyles = append(headerStyles, style.Width(colW))
	}

	rows := make([][]string, 0, r1-r0)
	cellStyles := make([][]lipgloss.Style, 0, r1-r0)
	for r := r0; r < r1; r++ {
		rowStyle := m.styles.RowHeaderStyle
		if r == nowRow {
			rowStyle = m.styles.NowHeaderStyle.Align(lipgloss.Left)
		}
		row := []string{view.Truncate(rowHeaders[r], rowW)}
		styles := []lipgloss.Style{rowStyle.Width(rowW)}

		for c := c0; c < c1; c++ {
			cell := m.layout.At(r, c)
			selected := r == m.cursor.Row && c == m.cursor.Col
			row = append(row, view.CellText(cell, colW))
			styles = append(styles, m.styles.CellStyle(cell, selected, colW))
		}
		rows = append(rows, row)
		cellStyles = append(cellStyles, styles)
	}

	return view.TableViewState{
		InnerW:       m.width,
		GridH:        m.gridHeight(),
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content: view.TableContent{
			Rows:       rows,
			CellStyles: cellStyles,
		},
		BorderStyle: m.styles.BorderStyle,
		VAlign:      lipgloss.Top,
		Bg:          m.styles.colorBg,
		Render:      true,
	}
}
