// Package grid computes the staff × time calendar layout: which cell begins an
// appointment, how many slots it spans and which cells are free to book.
//
// Everything here is a pure function of a Config value and the appointment and
// staff snapshots passed in. Nothing returns an error; malformed input degrades
// to empty slots or excluded appointments.
package grid

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
)

// Orientation selects the primary axis of the grid.
type Orientation string

const (
	// TimeMajor renders one row per staff member and one column per slot.
	TimeMajor Orientation = "time-major"
	// StaffMajor renders one row per slot and one column per staff member.
	StaffMajor Orientation = "staff-major"
)

// ParseOrientation parses an orientation name.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case TimeMajor, StaffMajor:
		return o, nil
	default:
		return "", fmt.Errorf("unknown orientation %q (want %s or %s)", s, TimeMajor, StaffMajor)
	}
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == StaffMajor {
		return TimeMajor
	}
	return StaffMajor
}

// Granularities lists the selectable slot lengths in minutes.
var Granularities = []int{15, 30, 45, 60, 120}

// DefaultGranularity is the slot length used when none is configured.
const DefaultGranularity = 30

// Default business hours.
const (
	DefaultStartHour = 9
	DefaultEndHour   = 18
)

// ValidGranularity returns true if g is one of Granularities.
func ValidGranularity(g int) bool {
	return slices.Contains(Granularities, g)
}

// NextGranularity returns the granularity after g, wrapping around.
// Unknown values restart the cycle.
func NextGranularity(g int) int {
	i := slices.Index(Granularities, g)
	return Granularities[(i+1)%len(Granularities)]
}

// AllStaff is the staff filter value that shows every active staff member.
const AllStaff = ""

// Config is the layout configuration. It is a value: the With* methods return
// a modified copy and never touch the receiver.
type Config struct {
	Date        time.Time
	Granularity int
	StartHour   int
	EndHour     int
	HiddenHours []int
	StaffFilter string
	Orientation Orientation
}

// DefaultConfig returns the default configuration for the given day.
func DefaultConfig(date time.Time) Config {
	return Config{
		Date:        dateutil.TruncateToDay(date),
		Granularity: DefaultGranularity,
		StartHour:   DefaultStartHour,
		EndHour:     DefaultEndHour,
		Orientation: TimeMajor,
	}
}

func (c Config) clone() Config {
	c.HiddenHours = slices.Clone(c.HiddenHours)
	return c
}

// WithDate returns a copy viewing another day.
func (c Config) WithDate(date time.Time) Config {
	c = c.clone()
	c.Date = dateutil.TruncateToDay(date)
	return c
}

// WithGranularity returns a copy with another slot length.
func (c Config) WithGranularity(minutes int) Config {
	c = c.clone()
	c.Granularity = minutes
	return c
}

// WithHours returns a copy with other business hours. The values are not
// checked: start >= end simply yields no slots.
func (c Config) WithHours(start, end int) Config {
	c = c.clone()
	c.StartHour, c.EndHour = start, end
	return c
}

// WithStaffFilter returns a copy restricted to one staff member, or to
// everyone when name is AllStaff.
func (c Config) WithStaffFilter(name string) Config {
	c = c.clone()
	c.StaffFilter = strings.TrimSpace(name)
	return c
}

// WithOrientation returns a copy with another orientation.
func (c Config) WithOrientation(o Orientation) Config {
	c = c.clone()
	c.Orientation = o
	return c
}

// ToggleHidden returns a copy with hour added to, or removed from, the hidden set.
func (c Config) ToggleHidden(hour int) Config {
	c = c.clone()
	if i := slices.Index(c.HiddenHours, hour); i >= 0 {
		c.HiddenHours = slices.Delete(c.HiddenHours, i, i+1)
		return c
	}
	c.HiddenHours = append(c.HiddenHours, hour)
	slices.Sort(c.HiddenHours)
	return c
}

// ResetHidden returns a copy with no hidden hours.
func (c Config) ResetHidden() Config {
	c = c.clone()
	c.HiddenHours = nil
	return c
}

// IsHidden returns true if hour is excluded from the slot sequence.
func (c Config) IsHidden(hour int) bool {
	return slices.Contains(c.HiddenHours, hour)
}

// FiltersStaff returns true if the grid is restricted to one staff member.
func (c Config) FiltersStaff() bool {
	return c.StaffFilter != AllStaff && !strings.EqualFold(c.StaffFilter, "all")
}

// Slot is one point in the generated time sequence.
type Slot struct {
	Label   string // "HH:MM"
	Minutes int    // minutes since midnight
}

// Hour returns the hour of day the slot falls in.
func (s Slot) Hour() int {
	return s.Minutes / 60
}

// Contains returns true if m falls in [s.Minutes, s.Minutes+granularity).
func (s Slot) Contains(m, granularity int) bool {
	return m >= s.Minutes && m < s.Minutes+granularity
}

// GenerateSlots returns the ordered slot sequence for the configured window:
// from StartHour:00, every Granularity minutes, up to but excluding EndHour:00,
// skipping slots whose hour is hidden. It returns nil when StartHour >= EndHour
// or the granularity is not positive.
func GenerateSlots(cfg Config) []Slot {
	if cfg.StartHour >= cfg.EndHour || cfg.Granularity <= 0 {
		return nil
	}

	end := cfg.EndHour * 60
	slots := make([]Slot, 0, (end-cfg.StartHour*60)/cfg.Granularity+1)
	for m := cfg.StartHour * 60; m < end; m += cfg.Granularity {
		if cfg.IsHidden(m / 60) {
			continue
		}
		slots = append(slots, Slot{Label: booking.MinutesToTime(m), Minutes: m})
	}
	return slots
}

// IndexOf returns the index of the slot with the given label, or -1.
// Labels are normalized first, so "2:30 PM" finds "14:30".
func IndexOf(slots []Slot, label string) int {
	norm := booking.To24Hour(label)
	return slices.IndexFunc(slots, func(s Slot) bool { return s.Label == norm })
}
