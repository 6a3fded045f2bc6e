package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/tui/view"
)

const (
	helpNormal = "hjkl move · enter open/book · o flip · g slots · [ ] { } hours · x hide hour · f staff · n/p/t day · / ask · y copy · q quit"
	helpPrompt = "enter run · tab complete · esc cancel"
	helpModal  = "esc close"
)

// View renders the TUI using a boxed, parent-controlled layout.
func (m Model) View() string {
	showModal := m.mode == ModeModal && m.modalType != ModalNone
	modal := ""
	if showModal {
		modal = m.renderModal()
	}

	return view.Render(view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        showModal,
		ModalBg:          m.styles.ModalBgColor,
		EmptyPlaceholder: "Loading...",
	})
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.gridHeight() <= tableChrome {
		return "Terminal too small"
	}

	header := view.RenderHeader(view.HeaderViewState{
		Width:      m.width,
		Branch:     m.config.Branch.Name,
		Date:       m.gridCfg.Date,
		Today:      m.now(),
		Info:       m.headerInfo(),
		TitleStyle: m.styles.TitleStyle,
		InfoStyle:  m.styles.InfoStyle,
		Bg:         m.styles.colorBg,
	})

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.renderGrid(),
		m.renderPrompt(),
		view.RenderFooter(m.footerViewState()),
	)
	return view.PadLinesWithBackground(m.styles.AppStyle.Render(content), m.width, m.height, m.styles.colorBg)
}

// headerInfo describes the layout settings shown on the title bar.
func (m Model) headerInfo() string {
	cfg := m.gridCfg
	parts := []string{
		fmt.Sprintf("%02d-%02d", cfg.StartHour, cfg.EndHour),
		fmt.Sprintf("%d min", cfg.Granularity),
		string(cfg.Orientation),
	}
	if cfg.FiltersStaff() {
		parts = append(parts, cfg.StaffFilter)
	}
	if len(cfg.HiddenHours) > 0 {
		hidden := make([]string, len(cfg.HiddenHours))
		for i, h := range cfg.HiddenHours {
			hidden[i] = fmt.Sprintf("%02d", h)
		}
		parts = append(parts, "hidden "+strings.Join(hidden, ","))
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderGrid() string {
	h := m.gridHeight()
	var message string
	switch {
	case m.loading && m.layout.Empty():
		message = "Loading..."
	case len(m.layout.Staff) == 0 && m.gridCfg.FiltersStaff():
		message = fmt.Sprintf("No active staff member named %q. Press f to change the filter.", m.gridCfg.StaffFilter)
	case len(m.layout.Staff) == 0:
		message = "No active staff. Add someone with: salon staff add NAME"
	case len(m.layout.Slots) == 0:
		message = "No visible hours. Press X to show hidden hours or ] { to widen the day."
	default:
		return view.RenderTable(m.tableViewState())
	}
	return view.PlaceBox(m.width, h, lipgloss.Center, m.styles.InfoStyle.Render(message), m.styles.colorBg)
}

func (m Model) renderPrompt() string {
	line := m.styles.HelpStyle.Render("/ or a: ask the booking assistant")
	if m.mode == ModePrompt {
		line = m.styles.PromptStyle.Render(m.prompt.View())
	}
	return view.PadLinesWithBackground(view.Truncate(line, m.width), m.width, promptHeight, m.styles.colorBg)
}

func (m Model) footerViewState() view.FooterViewState {
	statusStyle := m.styles.StatusStyle
	if m.err != nil {
		statusStyle = m.styles.ErrorStyle
	}

	help := helpNormal
	switch m.mode {
	case ModePrompt:
		help = helpPrompt
	case ModeModal:
		help = helpModal
	}

	return view.FooterViewState{
		InnerW:      m.width,
		LegendText:  m.renderLegend(),
		StatusText:  m.statusText(),
		HelpText:    help,
		LegendStyle: m.styles.LegendStyle,
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		Bg:          m.styles.colorBg,
	}
}

// renderLegend lists status colors and flags data the grid cannot show.
func (m Model) renderLegend() string {
	entries := make([]string, 0, len(booking.Statuses)+3)
	for _, st := range booking.Statuses {
		entries = append(entries, m.styles.StatusBadge(st))
	}

	var issues []string
	if n := len(m.layout.Unassigned); n > 0 {
		issues = append(issues, fmt.Sprintf("%d unassigned", n))
	}
	if n := len(m.layout.Overlaps); n > 0 {
		issues = append(issues, fmt.Sprintf("%d overlapping", n))
	}
	if n := len(m.layout.Invalid); n > 0 {
		issues = append(issues, fmt.Sprintf("%d bad start time", n))
	}
	if len(issues) > 0 {
		entries = append(entries, m.styles.ErrorStyle.Render("! "+strings.Join(issues, ", ")))
	}
	return view.Legend(entries...)
}

// statusText returns the status message, or a description of the cell
// under the cursor.
func (m Model) statusText() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.loading {
		return "Loading..."
	}
	c, ok := m.cursorCell()
	if !ok {
		return ""
	}
	return describeCell(c)
}

func describeCell(c grid.Cell) string {
	where := c.Staff.Name + " · " + c.Slot.Label
	if c.Appointment == nil {
		return where + " · free"
	}
	a := c.Appointment
	return fmt.Sprintf("%s · %s (%s, %s)", where, a.Title(), a.TimeRange(), a.Status.Label())
}

// nowSlotIndex returns the slot holding the current time when viewing
// today, or -1.
func (m Model) nowSlotIndex() int {
	now := m.now()
	if !dateutil.SameDay(now, m.gridCfg.Date) {
		return -1
	}
	minutes := now.Hour()*60 + now.Minute()
	for j, s := range m.layout.Slots {
		if s.Contains(minutes, m.gridCfg.Granularity) {
			return j
		}
	}
	return -1
}
