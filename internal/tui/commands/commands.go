// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/config"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/llm"
)

// DayLoadedMsg is sent when the roster and appointments of a day are loaded.
type DayLoadedMsg struct {
	Date         time.Time
	Staff        []*booking.StaffMember
	Appointments []*booking.Appointment
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// AppointmentSelectedMsg asks the calendar to show an appointment's details.
type AppointmentSelectedMsg struct {
	Appointment *booking.Appointment
}

// BookingRequestedMsg asks the calendar to open the booking form for a cell.
type BookingRequestedMsg struct {
	Staff *booking.StaffMember
	Date  time.Time
	Slot  grid.Slot
}

// StatusChangedMsg is sent after an appointment status was stored.
type StatusChangedMsg struct {
	ID     int64
	Status booking.Status
}

// BookingSavedMsg is sent after a new appointment was stored.
type BookingSavedMsg struct {
	Appointment *booking.Appointment
}

// DraftStartedMsg is sent when the assistant starts drafting a booking.
type DraftStartedMsg struct{}

// DraftResultMsg carries a booking drafted by the assistant.
type DraftResultMsg struct {
	Draft *llm.BookingDraft
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// LoadDay loads the staff roster and every appointment of date.
func LoadDay(repo booking.Repository, date time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		staff, err := repo.ListStaff(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading staff: %w", err)}
		}
		appts, err := repo.ListAppointmentsByDate(ctx, date)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading appointments: %w", err)}
		}

		return DayLoadedMsg{Date: date, Staff: staff, Appointments: appts}
	}
}

// SelectAppointment emits an AppointmentSelectedMsg.
func SelectAppointment(a *booking.Appointment) tea.Cmd {
	return func() tea.Msg {
		return AppointmentSelectedMsg{Appointment: a}
	}
}

// RequestBooking emits a BookingRequestedMsg.
func RequestBooking(staff *booking.StaffMember, date time.Time, slot grid.Slot) tea.Cmd {
	return func() tea.Msg {
		return BookingRequestedMsg{Staff: staff, Date: date, Slot: slot}
	}
}

// UpdateStatus stores a new status for an appointment.
func UpdateStatus(repo booking.Repository, id int64, status booking.Status) tea.Cmd {
	return func() tea.Msg {
		if err := repo.UpdateAppointmentStatus(context.Background(), id, status); err != nil {
			return ErrMsg{Err: fmt.Errorf("updating appointment #%d: %w", id, err)}
		}
		return StatusChangedMsg{ID: id, Status: status}
	}
}

// CreateAppointment stores a new appointment.
func CreateAppointment(repo booking.Repository, a *booking.Appointment) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CreateAppointment(context.Background(), a); err != nil {
			return ErrMsg{Err: fmt.Errorf("booking %s at %s: %w", a.StaffName, a.StartTime, err)}
		}
		return BookingSavedMsg{Appointment: a}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text, done string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: done}
	}
}

// Draft asks the booking assistant to turn request into a booking draft.
func Draft(cfg *config.Config, req llm.DraftRequest) tea.Cmd {
	return func() tea.Msg {
		client, err := llm.NewClient(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
		}

		draft, err := llm.NewAssistant(client).Draft(context.Background(), req)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DraftResultMsg{Draft: draft}
	}
}
