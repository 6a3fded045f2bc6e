package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/availability"
	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/config"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/llm"
	"github.com/javiermolinar/salon/internal/summary"
	"github.com/javiermolinar/salon/internal/tui/commands"
	"github.com/javiermolinar/salon/internal/tui/input"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key press",
		zap.String("key", msg.String()),
		zap.Stringer("mode", m.mode))

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.gridCfg

	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		m.moveCursor(0, -1)
	case "l", "right":
		m.moveCursor(0, 1)
	case "k", "up":
		m.moveCursor(-1, 0)
	case "j", "down":
		m.moveCursor(1, 0)
	case "pgdown", "ctrl+d":
		m.moveCursor(max(m.visibleRows(), 1), 0)
	case "pgup", "ctrl+u":
		m.moveCursor(-max(m.visibleRows(), 1), 0)
	case "home", "0":
		m.moveCursor(0, -m.cursor.Col)

	case "enter":
		return m.activateCell()

	// Layout
	case "o":
		m.applyConfig(cfg.WithOrientation(cfg.Orientation.Toggle()), "orientation")
	case "g":
		m.applyConfig(cfg.WithGranularity(grid.NextGranularity(cfg.Granularity)), "granularity")
		m.statusMsg = fmt.Sprintf("Slots every %d min", m.gridCfg.Granularity)
	case "[":
		return m.changeHours(cfg.StartHour-1, cfg.EndHour)
	case "]":
		return m.changeHours(cfg.StartHour+1, cfg.EndHour)
	case "{":
		return m.changeHours(cfg.StartHour, cfg.EndHour-1)
	case "}":
		return m.changeHours(cfg.StartHour, cfg.EndHour+1)
	case "x":
		_, slotIdx := m.cursorIndexes()
		if slotIdx >= len(m.layout.Slots) {
			return m, nil
		}
		hour := m.layout.Slots[slotIdx].Hour()
		m.applyConfig(cfg.ToggleHidden(hour), "hide hour")
		m.statusMsg = fmt.Sprintf("Hidden %02d:00 (/unhide %d brings it back, X shows all)", hour, hour)
	case "X":
		m.applyConfig(cfg.ResetHidden(), "reset hidden hours")
		m.statusMsg = "Showing all hours"
	case "f":
		next := nextStaffFilter(cfg.StaffFilter, booking.ActiveRoster(m.staff))
		m.applyConfig(cfg.WithStaffFilter(next), "staff filter")
		if next == grid.AllStaff {
			m.statusMsg = "Showing all staff"
		} else {
			m.statusMsg = "Showing " + next
		}

	// Day navigation
	case "n", "L":
		return m.goToDay(dateutil.ShiftDays(cfg.Date, 1))
	case "p", "H":
		return m.goToDay(dateutil.ShiftDays(cfg.Date, -1))
	case "t":
		return m.goToDay(m.now())
	case "r":
		return m.reload()

	case "y":
		day := summary.Summarize(m.layout)
		day.Branch = m.config.Branch.Name
		return m, commands.CopyToClipboard(day.Format(), "Copied day summary")

	case "/", ":", "a":
		m.mode = ModePrompt
		m.prompt.SetValue("")
		if msg.String() == "a" {
			m.prompt.SetValue("/book ")
			m.prompt.CursorEnd()
		}
		m.prompt.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

// changeHours applies new business hours unless they leave no slots.
func (m Model) changeHours(start, end int) (tea.Model, tea.Cmd) {
	if start < 0 || end > 24 || start >= end {
		m.statusMsg = fmt.Sprintf("Cannot show %02d:00-%02d:00", max(start, 0), min(end, 24))
		return m, nil
	}
	m.applyConfig(m.gridCfg.WithHours(start, end), "business hours")
	m.statusMsg = fmt.Sprintf("Showing %02d:00-%02d:00", start, end)
	return m, nil
}

// goToDay switches the calendar to another day and loads it. The grid is
// cleared until the day arrives so stale bookings never show.
func (m Model) goToDay(date time.Time) (tea.Model, tea.Cmd) {
	m.appointments = nil
	m.focused = false
	m.applyConfig(m.gridCfg.WithDate(date), "day")
	return m.reload()
}

// invalidator is implemented by repositories that cache reads.
type invalidator interface {
	Invalidate()
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.repo == nil {
		return m, nil
	}
	if c, ok := m.repo.(invalidator); ok {
		c.Invalidate()
	}
	m.loading = true
	return m, commands.LoadDay(m.repo, m.gridCfg.Date)
}

// activateCell raises OnAppointmentClick on a booked cell and
// OnCreateBooking on an empty one.
func (m Model) activateCell() (tea.Model, tea.Cmd) {
	c, ok := m.cursorCell()
	if !ok {
		m.statusMsg = "No staff on duty. Add staff with: salon staff add NAME"
		return m, nil
	}

	if c.Appointment != nil {
		m.logger.Debug("raising OnAppointmentClick",
			zap.Int64("appointment", c.Appointment.ID),
			zap.String("staff", c.Staff.Name),
			zap.String("slot", c.Slot.Label))
		return m, m.callbacks.OnAppointmentClick(c.Appointment)
	}

	m.logger.Debug("raising OnCreateBooking",
		zap.String("staff", c.Staff.Name),
		zap.String("date", m.layout.DateISO()),
		zap.String("slot", c.Slot.Label))
	return m, m.callbacks.OnCreateBooking(c.Staff, m.layout.Config.Date, c.Slot)
}

// nextStaffFilter cycles all staff -> each active member -> all staff.
func nextStaffFilter(current string, roster []*booking.StaffMember) string {
	if len(roster) == 0 {
		return grid.AllStaff
	}
	if current == grid.AllStaff || strings.EqualFold(current, "all") {
		return roster[0].Name
	}
	for i, s := range roster {
		if strings.EqualFold(s.Name, current) {
			if i+1 < len(roster) {
				return roster[i+1].Name
			}
			return grid.AllStaff
		}
	}
	return grid.AllStaff
}

// handlePromptKeys handles keys while the prompt is focused.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m, nil
	case "tab":
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), input.Commands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		value := m.prompt.Value()
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m.handlePromptSubmit(value)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handlePromptSubmit(value string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(value) == "" {
		return m, nil
	}
	if !strings.HasPrefix(strings.TrimSpace(value), "/") {
		value = "/book " + value
	}

	name, args, err := input.Parse(value, input.Commands)
	if err != nil {
		m.statusMsg = fmt.Sprintf("%v (try /book, /goto, /staff, /free, /unhide)", err)
		return m, nil
	}

	switch name {
	case "/book":
		if m.repo == nil {
			return m, nil
		}
		m.statusMsg = "Drafting booking..."
		return m, commands.Draft(m.config, llm.DraftRequest{
			Request:      args,
			Now:          m.now(),
			Calendar:     m.gridCfg,
			Staff:        m.staff,
			Appointments: m.appointments,
		})
	case "/goto":
		date, err := dateutil.ParseRelativeDate(args, m.now())
		if err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		return m.goToDay(date)
	case "/staff":
		filter := args
		if strings.EqualFold(filter, "all") {
			filter = grid.AllStaff
		} else if s := booking.FindStaff(booking.ActiveRoster(m.staff), filter); s != nil {
			filter = s.Name
		} else {
			m.statusMsg = fmt.Sprintf("No active staff member named %q", args)
			return m, nil
		}
		m.applyConfig(m.gridCfg.WithStaffFilter(filter), "staff filter")
	case "/free":
		return m.jumpToOpening(booking.ParseDurationMinutes(args)), nil
	case "/hide", "/unhide":
		return m.setHidden(args, name == "/hide"), nil
	}
	return m, nil
}

// setHidden moves the listed hours into or out of the hidden set. Hours
// already in the wanted state are left alone.
func (m Model) setHidden(args string, hide bool) Model {
	hours, err := config.ParseHourList(args)
	if err == nil && len(hours) == 0 {
		err = fmt.Errorf("no hours in %q", args)
	}
	if err != nil {
		m.statusMsg = err.Error()
		return m
	}

	cfg := m.gridCfg
	changed := make([]string, 0, len(hours))
	for _, h := range hours {
		if h < 0 || h > 23 {
			m.statusMsg = fmt.Sprintf("Hour must be between 0 and 23, got %d", h)
			return m
		}
		if cfg.IsHidden(h) != hide {
			cfg = cfg.ToggleHidden(h)
			changed = append(changed, fmt.Sprintf("%02d:00", h))
		}
	}
	if len(changed) == 0 {
		if hide {
			m.statusMsg = "Already hidden"
		} else {
			m.statusMsg = "Not hidden"
		}
		return m
	}

	verb := "Showing"
	if hide {
		verb = "Hidden"
	}
	m.applyConfig(cfg, strings.ToLower(verb)+" hours")
	m.statusMsg = verb + " " + strings.Join(changed, ", ")
	return m
}

// jumpToOpening moves the cursor to the next opening of the staff member under
// the cursor, or of the first staff member with room when they are full.
func (m Model) jumpToOpening(minutes int) Model {
	staffName, _ := m.cursorTarget()
	now := m.now()

	o, ok := availability.Opening{}, false
	if i := availability.StaffIndex(m.layout, staffName); i >= 0 {
		o, ok = availability.NextOpening(m.layout, i, minutes, now)
	}
	if !ok {
		if all := availability.Openings(m.layout, minutes, now); len(all) > 0 {
			o, ok = all[0], true
		}
	}
	if !ok {
		m.statusMsg = fmt.Sprintf("No room for %s on this day", booking.FormatDuration(minutes))
		return m
	}

	m.placeCursor(o.Staff.Name, booking.TimeToMinutes(o.Start))
	m.statusMsg = fmt.Sprintf("%s is free %s-%s", o.Staff.Name, o.Start, o.End)
	return m
}

// handleModalKeys routes keys to the open modal.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalDetail:
		return m.handleDetailKeys(msg)
	case ModalBookingForm:
		return m.handleFormKeys(msg)
	case ModalDraft:
		return m.handleDraftKeys(msg)
	default:
		if msg.String() == "esc" {
			return m.closeModal(), nil
		}
	}
	return m, nil
}

func (m Model) closeModal() Model {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.detail = nil
	m.draft = nil
	m.draftErr = nil
	return m
}

// handleDetailKeys handles the appointment detail modal. Digits pick a
// status in booking.Statuses order and raise OnStatusChange.
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc", "enter", "q":
		return m.closeModal(), nil
	}

	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > len(booking.Statuses) || m.detail == nil {
		return m, nil
	}

	a := m.detail
	status := booking.Statuses[n-1]
	m = m.closeModal()
	if status == a.Status {
		return m, nil
	}

	m.logger.Debug("raising OnStatusChange",
		zap.Int64("appointment", a.ID),
		zap.String("from", string(a.Status)),
		zap.String("to", string(status)))
	m.statusMsg = fmt.Sprintf("#%d → %s", a.ID, status.Label())
	return m, m.callbacks.OnStatusChange(a, status)
}

// handleFormKeys handles the booking form modal.
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeModal(), nil
	case "tab", "down":
		m.form.next()
		return m, nil
	case "shift+tab", "up":
		m.form.prev()
		return m, nil
	case "enter":
		if m.form.focus < formFieldCount-1 {
			m.form.next()
			return m, nil
		}
		return m.saveForm()
	case "ctrl+s":
		return m.saveForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	a, err := m.form.appointment(m.config.Branch.Name)
	if err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}
	if m.repo == nil {
		return m.closeModal(), nil
	}
	m.statusMsg = "Saving..."
	return m, commands.CreateAppointment(m.repo, a)
}

// handleDraftKeys handles the assistant draft modal.
func (m Model) handleDraftKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m = m.closeModal()
		m.statusMsg = "Draft discarded"
		return m, nil
	case "enter", "y":
		if m.draft == nil || m.draftErr != nil {
			return m, nil
		}
		a, err := m.draft.Appointment(m.config.Branch.Name)
		if err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		m = m.closeModal()
		m.statusMsg = "Saving..."
		if m.repo == nil {
			return m, nil
		}
		return m, commands.CreateAppointment(m.repo, a)
	}
	return m, nil
}
