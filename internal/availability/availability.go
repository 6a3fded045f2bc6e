// Package availability finds free time on a computed calendar layout.
package availability

import (
	"time"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
)

// Opening is a free stretch of one staff member's day long enough for a booking.
type Opening struct {
	Staff *booking.StaffMember
	Date  time.Time
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// Free returns true if a new booking may use the cell. Cancelled and rejected
// bookings do not hold time.
func Free(c grid.Cell) bool {
	return c.Bookable() || !c.Appointment.Status.Live()
}

// CanFit returns true if a booking of durationMinutes starting at minute start
// only covers free visible slots of staffIdx and ends before the day does.
// The slot holding start must be visible, and a hidden hour inside the booking
// makes it not fit.
func CanFit(l *grid.Layout, staffIdx, start, durationMinutes int) bool {
	if staffIdx < 0 || staffIdx >= len(l.Staff) || durationMinutes <= 0 {
		return false
	}
	end := start + durationMinutes
	if end > l.Config.EndHour*60 {
		return false
	}

	g := l.Config.Granularity
	first := -1
	for j, s := range l.Slots {
		if s.Contains(start, g) {
			first = j
			break
		}
	}
	if first < 0 {
		return false
	}

	reach := l.Slots[first].Minutes
	for j := first; j < len(l.Slots) && l.Slots[j].Minutes < end; j++ {
		if l.Slots[j].Minutes != reach || !Free(l.Cell(staffIdx, j)) {
			return false
		}
		reach += g
	}
	return reach >= end
}

// NextOpening returns the first slot of staffIdx from which a booking of
// durationMinutes fits. When the layout shows today, slots that started
// before now are skipped.
func NextOpening(l *grid.Layout, staffIdx, durationMinutes int, now time.Time) (Opening, bool) {
	earliest := 0
	if dateutil.SameDay(l.Config.Date, now) {
		earliest = now.Hour()*60 + now.Minute()
		if now.Second() > 0 || now.Nanosecond() > 0 {
			earliest++
		}
	}

	for _, s := range l.Slots {
		if s.Minutes < earliest {
			continue
		}
		if CanFit(l, staffIdx, s.Minutes, durationMinutes) {
			return Opening{
				Staff: l.Staff[staffIdx],
				Date:  l.Config.Date,
				Start: s.Label,
				End:   booking.MinutesToTime(s.Minutes + durationMinutes),
			}, true
		}
	}
	return Opening{}, false
}

// Openings returns the first opening of every staff member on the layout,
// skipping those with no room left.
func Openings(l *grid.Layout, durationMinutes int, now time.Time) []Opening {
	var out []Opening
	for i := range l.Staff {
		if o, ok := NextOpening(l, i, durationMinutes, now); ok {
			out = append(out, o)
		}
	}
	return out
}

// StaffIndex returns the row of the named staff member, or -1.
func StaffIndex(l *grid.Layout, name string) int {
	if m := booking.FindStaff(l.Staff, name); m != nil {
		for i, s := range l.Staff {
			if s == m {
				return i
			}
		}
	}
	return -1
}
