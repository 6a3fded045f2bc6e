package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
)

// Draft errors.
var (
	ErrEmptyRequest = errors.New("booking request cannot be empty")
	ErrUnknownStaff = errors.New("staff member is not on the roster")
	ErrOutsideHours = errors.New("start time is outside the visible business hours")
	ErrInvalidDraft = errors.New("model returned an invalid booking")
)

var draftValidator = validator.New()

const draftPrompt = `You are the front desk assistant of a hair and beauty salon.
Turn the customer's request into exactly one appointment.

Context:
- Now: %s (%s)
- Business hours: %02d:00 to %02d:00, slots every %d minutes
- Staff on duty: %s
- Existing bookings on %s:
%s

Rules:
1. "staff" must be one of the staff on duty; pick the least busy one if the request does not name anyone
2. "date" is YYYY-MM-DD; resolve "today", "tomorrow" and weekday names against Now
3. "start" is 24-hour HH:MM inside business hours and must not overlap an existing booking of that staff member
4. "duration_minutes" is a positive integer; use 30 when unsure
5. Put anything you could not honor in "warnings"

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "staff": "string",
  "date": "YYYY-MM-DD",
  "start": "HH:MM",
  "duration_minutes": 30,
  "customer": "string",
  "service": "string",
  "phone": "string",
  "notes": "string",
  "warnings": ["string"]
}`

// DraftRequest is the input for a booking draft.
type DraftRequest struct {
	Request      string
	Now          time.Time
	Calendar     grid.Config
	Staff        []*booking.StaffMember
	Appointments []*booking.Appointment // bookings on Calendar.Date
}

// BookingDraft is an appointment proposed by the model, not yet stored.
type BookingDraft struct {
	Staff           string   `json:"staff" validate:"required,max=100"`
	Date            string   `json:"date" validate:"max=40"`
	Start           string   `json:"start" validate:"required,max=16"`
	DurationMinutes int      `json:"duration_minutes" validate:"gte=0,lte=720"`
	Customer        string   `json:"customer" validate:"max=100"`
	Service         string   `json:"service" validate:"max=100"`
	Phone           string   `json:"phone" validate:"max=40"`
	Notes           string   `json:"notes" validate:"max=1000"`
	Warnings        []string `json:"warnings" validate:"max=10"`

	staffID string
}

// Appointment converts the draft into a scheduled appointment for branch.
func (d *BookingDraft) Appointment(branch string) (*booking.Appointment, error) {
	a, err := booking.NewAppointment(d.Staff, d.Date, d.Start, booking.FormatDuration(d.DurationMinutes))
	if err != nil {
		return nil, err
	}
	a.StaffID = d.staffID
	a.CustomerName = d.Customer
	a.ServiceName = d.Service
	a.Phone = d.Phone
	a.Notes = d.Notes
	a.Branch = branch
	return a, nil
}

// Summary returns a one-line description of the draft.
func (d *BookingDraft) Summary() string {
	start := booking.TimeToMinutes(d.Start)
	when := d.Start
	if start >= 0 {
		when = booking.MinutesToTime(start) + "-" + booking.MinutesToTime(start+d.DurationMinutes)
	}
	parts := []string{d.Date, when, d.Staff}
	if d.Service != "" {
		parts = append(parts, d.Service)
	}
	if d.Customer != "" {
		parts = append(parts, "for "+d.Customer)
	}
	return strings.Join(parts, " · ")
}

// Assistant drafts bookings from natural-language requests.
type Assistant struct {
	client Client
}

// NewAssistant creates an assistant backed by client.
func NewAssistant(client Client) *Assistant {
	return &Assistant{client: client}
}

// Draft asks the model for a booking and normalizes its answer: the staff
// name is matched against the active roster, relative dates are resolved and
// the start time is converted to 24-hour form.
func (a *Assistant) Draft(ctx context.Context, req DraftRequest) (*BookingDraft, error) {
	if strings.TrimSpace(req.Request) == "" {
		return nil, ErrEmptyRequest
	}
	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	messages := buildDraftMessages(req)

	var draft BookingDraft
	if err := a.client.ChatJSON(ctx, messages, &draft); err != nil {
		return nil, fmt.Errorf("drafting booking: %w", err)
	}
	if err := draftValidator.Struct(&draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}

	if err := normalizeDraft(&draft, req); err != nil {
		return nil, err
	}
	return &draft, nil
}

func buildDraftMessages(req DraftRequest) []Message {
	roster := booking.ActiveRoster(req.Staff)
	names := make([]string, len(roster))
	for i, s := range roster {
		names[i] = s.Name
		if s.Role != "" {
			names[i] += " (" + s.Role + ")"
		}
	}

	var existing strings.Builder
	for _, appt := range req.Appointments {
		if !appt.Status.Live() {
			continue
		}
		fmt.Fprintf(&existing, "  - %s %s\n", appt.StaffName, appt.TimeRange())
	}
	if existing.Len() == 0 {
		existing.WriteString("  (none)\n")
	}

	cal := req.Calendar
	system := fmt.Sprintf(draftPrompt,
		req.Now.Format("2006-01-02 15:04"),
		req.Now.Weekday(),
		cal.StartHour, cal.EndHour, cal.Granularity,
		strings.Join(names, ", "),
		dateutil.FormatISO(cal.Date),
		strings.TrimRight(existing.String(), "\n"),
	)

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: req.Request},
	}
}

func normalizeDraft(d *BookingDraft, req DraftRequest) error {
	member := booking.FindStaff(booking.ActiveRoster(req.Staff), d.Staff)
	if member == nil {
		return fmt.Errorf("%w: %q", ErrUnknownStaff, d.Staff)
	}
	d.Staff = member.Name
	d.staffID = member.ID

	date, err := dateutil.ParseRelativeDate(d.Date, req.Now)
	if err != nil {
		return fmt.Errorf("draft date %q: %w", d.Date, err)
	}
	d.Date = dateutil.FormatISO(date)

	if booking.TimeToMinutes(d.Start) < 0 {
		return fmt.Errorf("draft start %q: %w", d.Start, booking.ErrInvalidTime)
	}
	d.Start = booking.To24Hour(d.Start)

	if d.DurationMinutes <= 0 {
		d.DurationMinutes = booking.DefaultDurationMinutes
	}
	return nil
}

// ConflictError reports the first taken cell a draft would run over.
type ConflictError struct {
	Cell grid.Cell
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s at %s is taken by %s (%s)",
		e.Cell.Staff.Name, e.Cell.Slot.Label, e.Cell.Appointment.Title(), e.Cell.Appointment.TimeRange())
}

// Unwrap lets callers match booking.ErrSlotTaken.
func (e *ConflictError) Unwrap() error {
	return booking.ErrSlotTaken
}

// CheckDraft validates a draft against the layout of its day: the staff member
// must have a row, the start must fall inside a visible slot and every visible
// slot the booking covers must be empty or hold a cancelled or rejected booking.
func CheckDraft(l *grid.Layout, d *BookingDraft) error {
	if d.Date != l.DateISO() {
		return fmt.Errorf("draft is for %s but the layout shows %s", d.Date, l.DateISO())
	}

	staffIdx := -1
	for i, s := range l.Staff {
		if strings.EqualFold(s.Name, d.Staff) {
			staffIdx = i
			break
		}
	}
	if staffIdx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownStaff, d.Staff)
	}

	start := booking.TimeToMinutes(d.Start)
	end := start + d.DurationMinutes
	startIdx := -1
	for j, s := range l.Slots {
		if s.Contains(start, l.Config.Granularity) {
			startIdx = j
			break
		}
	}
	if startIdx < 0 {
		return fmt.Errorf("%w: %s", ErrOutsideHours, d.Start)
	}

	for j := startIdx; j < len(l.Slots) && l.Slots[j].Minutes < end; j++ {
		if c := l.Cell(staffIdx, j); !c.Bookable() && c.Appointment.Status.Live() {
			return &ConflictError{Cell: c}
		}
	}
	return nil
}
