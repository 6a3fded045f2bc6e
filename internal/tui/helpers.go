package tui

import (
	"strings"

	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/tui/view"
)

const (
	minColWidth       = 10
	maxColWidth       = 28
	minRowHeaderWidth = 5
	maxRowHeaderWidth = 16

	headerHeight = 1
	promptHeight = 1
	// Top border, column headers, header separator and bottom border.
	tableChrome = 4
)

// rebuild recomputes the layout from the current config and loaded day.
func (m *Model) rebuild() {
	m.layout = grid.Build(m.gridCfg, m.appointments, m.staff)
	m.clampCursor()
	m.ensureCursorVisible()
}

// applyConfig swaps in a new grid config and keeps the cursor on the same
// staff member and time when they are still visible.
func (m *Model) applyConfig(cfg grid.Config, reason string) {
	staffName, minutes := m.cursorTarget()

	m.gridCfg = cfg
	m.layout = grid.Build(m.gridCfg, m.appointments, m.staff)
	m.placeCursor(staffName, minutes)

	m.logger.Debug("grid config changed",
		zap.String("reason", reason),
		zap.String("date", dateutil.FormatISO(cfg.Date)),
		zap.Int("granularity", cfg.Granularity),
		zap.Int("start_hour", cfg.StartHour),
		zap.Int("end_hour", cfg.EndHour),
		zap.Ints("hidden_hours", cfg.HiddenHours),
		zap.String("staff_filter", cfg.StaffFilter),
		zap.String("orientation", string(cfg.Orientation)))
}

// cursorIndexes converts the cursor to (staff, slot) indexes.
func (m *Model) cursorIndexes() (staffIdx, slotIdx int) {
	if m.gridCfg.Orientation == grid.StaffMajor {
		return m.cursor.Col, m.cursor.Row
	}
	return m.cursor.Row, m.cursor.Col
}

// cursorCell returns the cell under the cursor, if the grid has any.
func (m *Model) cursorCell() (grid.Cell, bool) {
	rows, cols := m.layout.Dims()
	if rows == 0 || cols == 0 {
		return grid.Cell{}, false
	}
	return m.layout.At(m.cursor.Row, m.cursor.Col), true
}

func (m *Model) cursorTarget() (staffName string, minutes int) {
	staffIdx, slotIdx := m.cursorIndexes()
	if staffIdx >= 0 && staffIdx < len(m.layout.Staff) {
		staffName = m.layout.Staff[staffIdx].Name
	}
	minutes = -1
	if slotIdx >= 0 && slotIdx < len(m.layout.Slots) {
		minutes = m.layout.Slots[slotIdx].Minutes
	}
	return staffName, minutes
}

// placeCursor moves the cursor to the named staff member and the last
// visible slot starting at or before minutes.
func (m *Model) placeCursor(staffName string, minutes int) {
	oldStaff, _ := m.cursorIndexes()

	staffIdx := -1
	for i, s := range m.layout.Staff {
		if strings.EqualFold(s.Name, staffName) {
			staffIdx = i
			break
		}
	}
	if staffIdx < 0 {
		staffIdx = min(max(oldStaff, 0), max(len(m.layout.Staff)-1, 0))
	}

	slotIdx := 0
	for j, s := range m.layout.Slots {
		if s.Minutes > minutes {
			break
		}
		slotIdx = j
	}

	row, col := m.layout.Locate(staffIdx, slotIdx)
	m.cursor = Position{Row: row, Col: col}
	m.clampCursor()
	m.ensureCursorVisible()
}

// focusNow puts the cursor on the current time when viewing today.
func (m *Model) focusNow() {
	now := m.now()
	if !dateutil.SameDay(now, m.gridCfg.Date) {
		return
	}
	staffName, _ := m.cursorTarget()
	m.placeCursor(staffName, now.Hour()*60+now.Minute())
}

func (m *Model) moveCursor(dRow, dCol int) {
	m.cursor.Row += dRow
	m.cursor.Col += dCol
	m.clampCursor()
	m.ensureCursorVisible()
}

func (m *Model) clampCursor() {
	rows, cols := m.layout.Dims()
	m.cursor.Row = min(max(m.cursor.Row, 0), max(rows-1, 0))
	m.cursor.Col = min(max(m.cursor.Col, 0), max(cols-1, 0))
}

// rowHeaderWidth is the width of the first table column.
func (m *Model) rowHeaderWidth() int {
	w := len(m.cornerLabel())
	for _, h := range m.layout.RowHeaders() {
		w = max(w, len(h))
	}
	return min(max(w, minRowHeaderWidth), maxRowHeaderWidth)
}

func (m *Model) cornerLabel() string {
	if m.gridCfg.Orientation == grid.StaffMajor {
		return "Time"
	}
	return "Staff"
}

// gridHeight is the number of terminal lines available to the table.
func (m *Model) gridHeight() int {
	return m.height - headerHeight - promptHeight - view.FooterHeight
}

// visibleRows returns how many grid rows fit; all of them when the
// terminal size is not known yet.
func (m *Model) visibleRows() int {
	rows, _ := m.layout.Dims()
	if m.height <= 0 {
		return rows
	}
	return min(max(m.gridHeight()-tableChrome, 0), rows)
}

// columnLayout returns how many grid columns fit and their width.
func (m *Model) columnLayout() (visible, width int) {
	_, cols := m.layout.Dims()
	if cols == 0 {
		return 0, minColWidth
	}
	if m.width <= 0 {
		return cols, minColWidth
	}

	avail := m.width - m.rowHeaderWidth() - 2
	visible = min(max(avail/(minColWidth+1), 1), cols)
	width = min(max(avail/visible-1, 1), maxColWidth)
	return visible, width
}

func (m *Model) ensureCursorVisible() {
	visRows := m.visibleRows()
	visCols, _ := m.columnLayout()

	m.scroll.Row = scrollTo(m.scroll.Row, m.cursor.Row, visRows)
	m.scroll.Col = scrollTo(m.scroll.Col, m.cursor.Col, visCols)
}

func scrollTo(offset, pos, visible int) int {
	if visible <= 0 {
		return 0
	}
	if pos < offset {
		offset = pos
	}
	if pos >= offset+visible {
		offset = pos - visible + 1
	}
	return max(offset, 0)
}
