// Package booking defines the core domain types for salon.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/salon/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyStaff    = errors.New("staff name cannot be empty")
	ErrInvalidTime   = errors.New("time must be HH:MM or HH:MM AM/PM")
	ErrInvalidStatus = errors.New("unknown appointment status")
)

// Domain errors.
var (
	ErrSlotTaken           = errors.New("staff member is already booked at that time")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Status represents the state of an appointment. It only affects display.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusScheduled  Status = "scheduled"
	StatusApproved   Status = "approved"
	StatusPending    Status = "pending"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// Statuses lists every known status in display order.
var Statuses = []Status{
	StatusScheduled,
	StatusPending,
	StatusApproved,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Live returns true for statuses that still hold the staff member's time.
func (s Status) Live() bool {
	return s != StatusCancelled && s != StatusRejected
}

// Label returns a display label; unknown statuses render as "unknown".
func (s Status) Label() string {
	if !s.Valid() {
		return "unknown"
	}
	return string(s)
}

// ParseStatus parses a status name case-insensitively.
// Both "in-progress" and "in_progress" are accepted.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Appointment is a booked service for one staff member on one day.
// Only staff, date, start time and duration drive the calendar layout;
// the remaining fields are payload for the host.
type Appointment struct {
	ID        int64
	StaffID   string // empty for legacy rows matched by name
	StaffName string
	Date      time.Time
	StartTime string // "HH:MM" or "HH:MM AM/PM"
	Duration  string // free text, e.g. "45 min"
	Status    Status

	CustomerName string
	ServiceName  string
	Phone        string
	Notes        string
	Branch       string
	CreatedAt    time.Time
}

// NewAppointment creates a scheduled appointment with validation.
// date can be empty (defaults to today) or in YYYY-MM-DD format.
// start accepts 24-hour or 12-hour input and is stored as "HH:MM".
// An empty duration defaults to 30 minutes.
func NewAppointment(staffName, date, start, duration string) (*Appointment, error) {
	staffName = strings.TrimSpace(staffName)
	if staffName == "" {
		return nil, ErrEmptyStaff
	}

	day, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}

	if TimeToMinutes(start) < 0 {
		return nil, fmt.Errorf("start time %q: %w", start, ErrInvalidTime)
	}

	if strings.TrimSpace(duration) == "" {
		duration = FormatDuration(DefaultDurationMinutes)
	}

	return &Appointment{
		StaffName: staffName,
		Date:      day,
		StartTime: To24Hour(start),
		Duration:  duration,
		Status:    StatusScheduled,
		CreatedAt: time.Now(),
	}, nil
}

// StartMinutes returns the start time in minutes since midnight.
// ok is false when the start time cannot be parsed.
func (a *Appointment) StartMinutes() (mins int, ok bool) {
	mins = TimeToMinutes(a.StartTime)
	return mins, mins >= 0
}

// DurationMinutes returns the parsed duration, falling back to 30 minutes.
func (a *Appointment) DurationMinutes() int {
	return ParseDurationMinutes(a.Duration)
}

// EndMinutes returns the exclusive end in minutes since midnight.
func (a *Appointment) EndMinutes() int {
	start, ok := a.StartMinutes()
	if !ok {
		return -1
	}
	return start + a.DurationMinutes()
}

// OnDate returns true if the appointment falls on the given calendar day.
func (a *Appointment) OnDate(day time.Time) bool {
	return dateutil.SameDay(a.Date, day)
}

// SameStaff reports whether two appointments belong to the same staff member.
func (a *Appointment) SameStaff(other *Appointment) bool {
	if a.StaffID != "" && other.StaffID != "" {
		return a.StaffID == other.StaffID
	}
	return a.StaffName == other.StaffName
}

// OverlapsWith returns true if both appointments are for the same staff member
// on the same day and their [start, end) ranges intersect.
func (a *Appointment) OverlapsWith(other *Appointment) bool {
	if other == nil || !a.SameStaff(other) || !a.OnDate(other.Date) {
		return false
	}
	s1, ok1 := a.StartMinutes()
	s2, ok2 := other.StartMinutes()
	if !ok1 || !ok2 {
		return false
	}
	return s1 < other.EndMinutes() && s2 < a.EndMinutes()
}

// TimeRange returns "HH:MM-HH:MM" for display.
func (a *Appointment) TimeRange() string {
	start, ok := a.StartMinutes()
	if !ok {
		return a.StartTime
	}
	return MinutesToTime(start) + "-" + MinutesToTime(a.EndMinutes())
}

// Title returns the short text shown inside a calendar block.
func (a *Appointment) Title() string {
	switch {
	case a.CustomerName != "" && a.ServiceName != "":
		return a.CustomerName + " · " + a.ServiceName
	case a.CustomerName != "":
		return a.CustomerName
	case a.ServiceName != "":
		return a.ServiceName
	default:
		return fmt.Sprintf("#%d", a.ID)
	}
}
