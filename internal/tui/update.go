package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/llm"
	"github.com/javiermolinar/salon/internal/tui/commands"
)

const (
	errorDisplay  = 5 * time.Second
	statusDisplay = 3 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(m.width-4, 10)
		m.ensureCursorVisible()
		return m, nil

	case commands.DayLoadedMsg:
		// Ignore days the user already navigated away from.
		if !dateutil.SameDay(msg.Date, m.gridCfg.Date) {
			return m, nil
		}
		m.staff = msg.Staff
		m.appointments = msg.Appointments
		m.loading = false
		m.rebuild()
		if !m.focused {
			m.focusNow()
			m.focused = true
		}
		if m.modalType == ModalDraft && m.draft != nil {
			m.draftErr = llm.CheckDraft(m.layout, m.draft)
		}
		m.logger.Debug("day loaded",
			zap.String("date", m.layout.DateISO()),
			zap.Int("staff", len(m.layout.Staff)),
			zap.Int("appointments", len(msg.Appointments)),
			zap.Int("unassigned", len(m.layout.Unassigned)),
			zap.Int("overlaps", len(m.layout.Overlaps)))
		return m, nil

	case commands.ErrMsg:
		m.err = msg.Err
		m.loading = false
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = time.Now().Add(errorDisplay)
		m.logger.Debug("command failed", zap.Error(msg.Err))
		return m, tea.Tick(errorDisplay, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusTime = time.Now().Add(statusDisplay)
		return m, tea.Tick(statusDisplay, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil

	case commands.AppointmentSelectedMsg:
		m.mode = ModeModal
		m.modalType = ModalDetail
		m.detail = msg.Appointment
		return m, nil

	case commands.BookingRequestedMsg:
		m.mode = ModeModal
		m.modalType = ModalBookingForm
		m.form = newBookingForm(msg.Staff, msg.Date, msg.Slot, m.gridCfg.Granularity, m.styles)
		return m, textinput.Blink

	case commands.StatusChangedMsg:
		m.statusMsg = fmt.Sprintf("#%d is now %s", msg.ID, msg.Status.Label())
		return m.reload()

	case commands.BookingSavedMsg:
		a := msg.Appointment
		if m.modalType == ModalBookingForm {
			m = m.closeModal()
		}
		m.statusMsg = fmt.Sprintf("Booked %s with %s at %s", a.Title(), a.StaffName, a.StartTime)
		m.logger.Info("appointment booked",
			zap.Int64("id", a.ID),
			zap.String("staff", a.StaffName),
			zap.String("date", dateutil.FormatISO(a.Date)),
			zap.String("start", a.StartTime))
		if !dateutil.SameDay(a.Date, m.gridCfg.Date) {
			return m.goToDay(a.Date)
		}
		return m.reload()

	case commands.DraftResultMsg:
		m.mode = ModeModal
		m.modalType = ModalDraft
		m.draft = msg.Draft
		m.statusMsg = ""
		if msg.Draft.Date != m.layout.DateISO() {
			date, err := dateutil.ParseDate(msg.Draft.Date)
			if err == nil {
				m.draftErr = errCheckingDraft
				return m.goToDay(date)
			}
		}
		m.draftErr = llm.CheckDraft(m.layout, m.draft)
		return m, nil
	}

	// Forward cursor blinks to the focused input.
	switch {
	case m.mode == ModePrompt:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	case m.mode == ModeModal && m.modalType == ModalBookingForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}

	return m, nil
}
