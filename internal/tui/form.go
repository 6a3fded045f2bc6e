package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
)

var (
	errCustomerRequired = errors.New("customer name is required")
	errCheckingDraft    = errors.New("loading the day to check the draft")
)

const (
	fieldCustomer = iota
	fieldService
	fieldDuration
	fieldPhone
	formFieldCount
)

var formLabels = [formFieldCount]string{"Customer", "Service", "Duration", "Phone"}

// bookingForm collects a new booking for one empty cell.
type bookingForm struct {
	staff  *booking.StaffMember
	date   time.Time
	slot   grid.Slot
	inputs [formFieldCount]textinput.Model
	focus  int
}

func newBookingForm(staff *booking.StaffMember, date time.Time, slot grid.Slot, granularity int, s *Styles) bookingForm {
	f := bookingForm{staff: staff, date: date, slot: slot}

	placeholders := [formFieldCount]string{"Name", "Cut, color, nails...", "30 min", "Optional"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		in.Width = 32
		in.Prompt = ""
		in.TextStyle = s.InputText
		in.PlaceholderStyle = s.InputPlaceholder
		in.Cursor.Style = s.InputCursor
		in.Cursor.TextStyle = s.InputText
		f.inputs[i] = in
	}
	f.inputs[fieldDuration].SetValue(booking.FormatDuration(granularity))
	f.inputs[fieldCustomer].Focus()
	return f
}

func (f *bookingForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = (i + formFieldCount) % formFieldCount
	f.inputs[f.focus].Focus()
}

func (f *bookingForm) next() { f.setFocus(f.focus + 1) }
func (f *bookingForm) prev() { f.setFocus(f.focus - 1) }

func (f bookingForm) update(msg tea.Msg) (bookingForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f bookingForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// appointment builds the booking described by the form on the day the cell
// was picked.
func (f bookingForm) appointment(branch string) (*booking.Appointment, error) {
	customer := f.value(fieldCustomer)
	if customer == "" {
		return nil, errCustomerRequired
	}
	duration := f.value(fieldDuration)
	if duration == "" {
		duration = booking.FormatDuration(booking.DefaultDurationMinutes)
	}

	a, err := booking.NewAppointment(f.staff.Name, dateutil.FormatISO(f.date), f.slot.Label, duration)
	if err != nil {
		return nil, err
	}
	a.StaffID = f.staff.ID
	a.CustomerName = customer
	a.ServiceName = f.value(fieldService)
	a.Phone = f.value(fieldPhone)
	a.Branch = branch
	return a, nil
}
