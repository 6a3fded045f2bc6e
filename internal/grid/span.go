package grid

import "github.com/javiermolinar/salon/internal/booking"

// ComputeSpan returns how many consecutive slots from startIdx the appointment
// occupies: every slot whose minute value is before the appointment's end.
// Hidden hours are simply absent from slots, so they do not count. The result
// is at least 1.
func ComputeSpan(a *booking.Appointment, startIdx int, slots []Slot) int {
	end := a.EndMinutes()
	span := 0
	for i := startIdx; i >= 0 && i < len(slots); i++ {
		if slots[i].Minutes >= end {
			break
		}
		span++
	}
	return max(span, 1)
}

// clampSpan limits span so the block stays inside slots and only runs over
// cells whose occupant is still a.
func clampSpan(span, startIdx int, a *booking.Appointment, occupants []*booking.Appointment) int {
	span = min(span, len(occupants)-startIdx)
	for n := 1; n < span; n++ {
		if occupants[startIdx+n] != a {
			return n
		}
	}
	return max(span, 1)
}
