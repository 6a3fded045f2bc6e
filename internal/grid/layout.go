package grid

import (
	"slices"
	"strings"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
)

// Kind is the decision taken for one (staff, slot) cell.
type Kind int

const (
	// Empty is a free, bookable cell.
	Empty Kind = iota
	// Start begins an appointment block spanning Cell.Span slots.
	Start
	// Continuation is covered by an earlier Start cell and renders nothing.
	Continuation
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Start:
		return "start"
	case Continuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// Cell is the layout decision for one staff member at one slot.
type Cell struct {
	Kind        Kind
	Staff       *booking.StaffMember
	Slot        Slot
	Appointment *booking.Appointment // nil for Empty cells
	Span        int                  // only set on Start cells

	// Clipped marks a Start cell that is not the appointment's own start slot:
	// the real start is hidden, before the window, or taken by another booking.
	Clipped bool
}

// Bookable returns true if a new appointment can be created in this cell.
func (c Cell) Bookable() bool {
	return c.Kind == Empty
}

// Key identifies a cell independently of orientation.
type Key struct {
	Staff string
	Slot  string
}

// Layout is the computed grid for one Config.
type Layout struct {
	Config Config
	Slots  []Slot
	Staff  []*booking.StaffMember

	// Unassigned holds appointments of the day whose staff is not on the
	// active roster. They appear in no cell.
	Unassigned []*booking.Appointment
	// Overlaps holds appointments that overlap a higher-ranked booking of
	// the same staff member.
	Overlaps []*booking.Appointment
	// Invalid holds appointments of the day whose start time cannot be parsed.
	Invalid []*booking.Appointment

	cells [][]Cell // [staff][slot]
}

// Build computes the layout for cfg. appts may contain bookings for any day;
// only those on cfg.Date are placed. staff is the full roster; inactive
// members and members excluded by the staff filter get no row.
//
// An occupant whose own start slot is not visible (it starts before the
// window, inside a hidden hour, or in cells won by a higher-ranked booking)
// is not skipped: its first visible covered slot starts a block with
// Clipped set, so the booking stays on screen.
func Build(cfg Config, appts []*booking.Appointment, staff []*booking.StaffMember) *Layout {
	cfg = cfg.clone()
	l := &Layout{
		Config: cfg,
		Slots:  GenerateSlots(cfg),
	}

	active := booking.ActiveRoster(staff)
	l.Staff = active
	if cfg.FiltersStaff() {
		l.Staff = slices.DeleteFunc(slices.Clone(active), func(s *booking.StaffMember) bool {
			return !strings.EqualFold(s.Name, cfg.StaffFilter)
		})
	}

	day := make([]*booking.Appointment, 0, len(appts))
	for _, a := range appts {
		if a == nil || !a.OnDate(cfg.Date) {
			continue
		}
		if _, ok := a.StartMinutes(); !ok {
			l.Invalid = append(l.Invalid, a)
			continue
		}
		if !slices.ContainsFunc(active, func(s *booking.StaffMember) bool { return s.Assigned(a) }) {
			l.Unassigned = append(l.Unassigned, a)
			continue
		}
		day = append(day, a)
	}

	l.cells = make([][]Cell, len(l.Staff))
	for i, member := range l.Staff {
		l.cells[i] = buildRow(member, l.Slots, cfg.Granularity, day)
		l.Overlaps = append(l.Overlaps, overlapping(member, day)...)
	}
	return l
}

// buildRow walks the slots once for one staff member. At each position the
// occupant either begins a block, advancing by its span, or the cell is empty.
func buildRow(member *booking.StaffMember, slots []Slot, granularity int, appts []*booking.Appointment) []Cell {
	occupants := make([]*booking.Appointment, len(slots))
	for j, s := range slots {
		occupants[j] = FindOccupant(s, granularity, member, appts)
	}

	row := make([]Cell, len(slots))
	for i := 0; i < len(slots); {
		a := occupants[i]
		if a == nil {
			row[i] = Cell{Kind: Empty, Staff: member, Slot: slots[i]}
			i++
			continue
		}

		span := clampSpan(ComputeSpan(a, i, slots), i, a, occupants)
		row[i] = Cell{
			Kind:        Start,
			Staff:       member,
			Slot:        slots[i],
			Appointment: a,
			Span:        span,
			Clipped:     !IsStartSlot(a, slots[i], granularity),
		}
		for k := 1; k < span; k++ {
			row[i+k] = Cell{Kind: Continuation, Staff: member, Slot: slots[i+k], Appointment: a}
		}
		i += span
	}
	return row
}

// overlapping returns the member's appointments that overlap a higher-ranked
// appointment, in rank order.
func overlapping(member *booking.StaffMember, appts []*booking.Appointment) []*booking.Appointment {
	var mine []*booking.Appointment
	for _, a := range appts {
		if member.Assigned(a) {
			mine = append(mine, a)
		}
	}
	slices.SortStableFunc(mine, func(a, b *booking.Appointment) int {
		switch {
		case outranks(a, b):
			return -1
		case outranks(b, a):
			return 1
		default:
			return 0
		}
	})

	var losers []*booking.Appointment
	for i, a := range mine {
		for _, winner := range mine[:i] {
			if intersects(a, winner) {
				losers = append(losers, a)
				break
			}
		}
	}
	return losers
}

func intersects(a, b *booking.Appointment) bool {
	sa, _ := a.StartMinutes()
	sb, _ := b.StartMinutes()
	return sa < b.EndMinutes() && sb < a.EndMinutes()
}

// Cell returns the decision for staff index i and slot index j.
func (l *Layout) Cell(i, j int) Cell {
	return l.cells[i][j]
}

// StaffRow returns the decisions for one staff member in slot order.
func (l *Layout) StaffRow(i int) []Cell {
	return l.cells[i]
}

// Decisions returns every cell keyed by (staff name, slot label).
func (l *Layout) Decisions() map[Key]Cell {
	out := make(map[Key]Cell, len(l.Staff)*len(l.Slots))
	for _, row := range l.cells {
		for _, c := range row {
			out[Key{Staff: c.Staff.Name, Slot: c.Slot.Label}] = c
		}
	}
	return out
}

// Placed returns the appointments of staff index i that have at least one
// Start cell, in slot order and without duplicates.
func (l *Layout) Placed(i int) []*booking.Appointment {
	var out []*booking.Appointment
	for _, c := range l.cells[i] {
		if c.Kind == Start && !slices.Contains(out, c.Appointment) {
			out = append(out, c.Appointment)
		}
	}
	return out
}

// FindAppointment returns the staff and slot indexes of the first Start cell
// of the appointment with the given ID.
func (l *Layout) FindAppointment(id int64) (staffIdx, slotIdx int, ok bool) {
	for i, row := range l.cells {
		for j, c := range row {
			if c.Kind == Start && c.Appointment.ID == id {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// DateISO returns the viewed day as YYYY-MM-DD.
func (l *Layout) DateISO() string {
	return dateutil.FormatISO(l.Config.Date)
}

// Empty returns true if the layout has no cells at all.
func (l *Layout) Empty() bool {
	return len(l.Staff) == 0 || len(l.Slots) == 0
}
