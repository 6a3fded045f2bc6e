package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/tui/commands"
)

// Callbacks are raised by the calendar when the user acts on the grid.
// Each returns a command run by the bubbletea runtime; a nil command is fine.
type Callbacks struct {
	// OnAppointmentClick is raised when enter is pressed on a booked cell.
	OnAppointmentClick func(a *booking.Appointment) tea.Cmd
	// OnStatusChange is raised when a new status is picked in the detail modal.
	OnStatusChange func(a *booking.Appointment, status booking.Status) tea.Cmd
	// OnCreateBooking is raised when enter is pressed on an empty cell. date
	// is the day shown when the cell was activated.
	OnCreateBooking func(staff *booking.StaffMember, date time.Time, slot grid.Slot) tea.Cmd
}

// DefaultCallbacks open the detail modal, persist status changes through repo
// and open the booking form.
func DefaultCallbacks(repo booking.Repository) Callbacks {
	return Callbacks{
		OnAppointmentClick: commands.SelectAppointment,
		OnStatusChange: func(a *booking.Appointment, status booking.Status) tea.Cmd {
			if repo == nil {
				return nil
			}
			return commands.UpdateStatus(repo, a.ID, status)
		},
		OnCreateBooking: commands.RequestBooking,
	}
}

func (cb Callbacks) withDefaults(repo booking.Repository) Callbacks {
	def := DefaultCallbacks(repo)
	if cb.OnAppointmentClick == nil {
		cb.OnAppointmentClick = def.OnAppointmentClick
	}
	if cb.OnStatusChange == nil {
		cb.OnStatusChange = def.OnStatusChange
	}
	if cb.OnCreateBooking == nil {
		cb.OnCreateBooking = def.OnCreateBooking
	}
	return cb
}
