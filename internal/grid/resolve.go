package grid

import "github.com/javiermolinar/salon/internal/booking"

// CoversSlot returns true if the slot's minute value falls inside the
// appointment's [start, start+duration) range. Appointments with an
// unparseable start never cover anything.
func CoversSlot(a *booking.Appointment, s Slot) bool {
	start, ok := a.StartMinutes()
	if !ok {
		return false
	}
	return s.Minutes >= start && s.Minutes < start+a.DurationMinutes()
}

// IsStartSlot returns true if the appointment starts inside
// [slot, slot+granularity), i.e. the slot is the first one it touches.
func IsStartSlot(a *booking.Appointment, s Slot, granularity int) bool {
	start, ok := a.StartMinutes()
	if !ok {
		return false
	}
	return s.Contains(start, granularity)
}

// touches returns true if the appointment occupies the slot, either by
// covering its minute value or by starting inside its interval.
func touches(a *booking.Appointment, s Slot, granularity int) bool {
	return CoversSlot(a, s) || IsStartSlot(a, s, granularity)
}

// outranks reports whether a wins a cell over b. Live bookings beat cancelled
// and rejected ones; then the earliest start wins; then the lowest ID.
func outranks(a, b *booking.Appointment) bool {
	if a.Status.Live() != b.Status.Live() {
		return a.Status.Live()
	}
	sa, _ := a.StartMinutes()
	sb, _ := b.StartMinutes()
	if sa != sb {
		return sa < sb
	}
	return a.ID < b.ID
}

// FindOccupant returns the appointment of staff that occupies the slot, or nil.
// appts is expected to be filtered to the viewed day already. When several
// appointments occupy the same cell the one that outranks the others wins, so
// the result does not depend on the order of appts.
func FindOccupant(s Slot, granularity int, staff *booking.StaffMember, appts []*booking.Appointment) *booking.Appointment {
	var occupant *booking.Appointment
	for _, a := range appts {
		if a == nil || !staff.Assigned(a) || !touches(a, s, granularity) {
			continue
		}
		if occupant == nil || outranks(a, occupant) {
			occupant = a
		}
	}
	return occupant
}
