package grid

import (
	"reflect"
	"testing"
	"time"

	"github.com/javiermolinar/salon/internal/booking"
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

func testConfig(start, end, granularity int) Config {
	return DefaultConfig(testDay).WithHours(start, end).WithGranularity(granularity)
}

func staffMember(t *testing.T, name string) *booking.StaffMember {
	t.Helper()
	s, err := booking.NewStaffMember(name, "stylist")
	if err != nil {
		t.Fatalf("NewStaffMember(%q): %v", name, err)
	}
	return s
}

func appt(id int64, staff, start, duration string) *booking.Appointment {
	return &booking.Appointment{
		ID:        id,
		StaffName: staff,
		Date:      testDay,
		StartTime: start,
		Duration:  duration,
		Status:    booking.StatusScheduled,
	}
}

func labels(slots []Slot) []string {
	return slotLabels(slots)
}

func TestGenerateSlots(t *testing.T) {
	t.Run("business day at 30 minutes", func(t *testing.T) {
		slots := GenerateSlots(testConfig(9, 18, 30))
		if len(slots) != 18 {
			t.Fatalf("got %d slots, want 18", len(slots))
		}
		if slots[0].Label != "09:00" || slots[17].Label != "17:30" {
			t.Errorf("first/last = %s/%s, want 09:00/17:30", slots[0].Label, slots[17].Label)
		}
	})

	t.Run("hidden hour removes its slots only", func(t *testing.T) {
		slots := GenerateSlots(testConfig(9, 18, 30).ToggleHidden(12))
		if len(slots) != 16 {
			t.Fatalf("got %d slots, want 16", len(slots))
		}
		for _, s := range slots {
			if s.Hour() == 12 {
				t.Errorf("slot %s should be hidden", s.Label)
			}
		}
		for i := 1; i < len(slots); i++ {
			if slots[i].Minutes <= slots[i-1].Minutes {
				t.Fatalf("slots not strictly increasing at %d", i)
			}
		}
		if IndexOf(slots, "11:30") != IndexOf(slots, "13:00")-1 {
			t.Error("11:30 and 13:00 should be adjacent")
		}
	})

	t.Run("start not before end yields nothing", func(t *testing.T) {
		for _, h := range [][2]int{{12, 12}, {14, 9}} {
			if got := GenerateSlots(testConfig(h[0], h[1], 30)); len(got) != 0 {
				t.Errorf("hours %v: got %d slots, want 0", h, len(got))
			}
		}
	})

	t.Run("non positive granularity yields nothing", func(t *testing.T) {
		if got := GenerateSlots(testConfig(9, 18, 0)); len(got) != 0 {
			t.Errorf("got %d slots, want 0", len(got))
		}
	})

	t.Run("45 minute slots stop before end", func(t *testing.T) {
		got := labels(GenerateSlots(testConfig(9, 12, 45)))
		want := []string{"09:00", "09:45", "10:30", "11:15"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("end of day", func(t *testing.T) {
		slots := GenerateSlots(testConfig(22, 24, 60))
		if got := labels(slots); !reflect.DeepEqual(got, []string{"22:00", "23:00"}) {
			t.Errorf("got %v", got)
		}
	})
}

func TestConfigIsImmutable(t *testing.T) {
	base := testConfig(9, 18, 30).ToggleHidden(12)
	changed := base.ToggleHidden(13).WithGranularity(60).WithOrientation(StaffMajor)

	if !reflect.DeepEqual(base.HiddenHours, []int{12}) {
		t.Errorf("base hidden hours mutated: %v", base.HiddenHours)
	}
	if base.Granularity != 30 || base.Orientation != TimeMajor {
		t.Errorf("base mutated: %+v", base)
	}
	if !reflect.DeepEqual(changed.HiddenHours, []int{12, 13}) {
		t.Errorf("changed hidden hours = %v", changed.HiddenHours)
	}
	if got := changed.ToggleHidden(12).HiddenHours; !reflect.DeepEqual(got, []int{13}) {
		t.Errorf("toggle off = %v, want [13]", got)
	}
	if got := changed.ResetHidden().HiddenHours; len(got) != 0 {
		t.Errorf("reset = %v, want none", got)
	}
}

func TestNextGranularity(t *testing.T) {
	tests := map[int]int{15: 30, 30: 45, 45: 60, 60: 120, 120: 15, 7: 15}
	for in, want := range tests {
		if got := NextGranularity(in); got != want {
			t.Errorf("NextGranularity(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	if o, err := ParseOrientation(" Staff-Major "); err != nil || o != StaffMajor {
		t.Errorf("got %q, %v", o, err)
	}
	if _, err := ParseOrientation("diagonal"); err == nil {
		t.Error("expected error")
	}
	if TimeMajor.Toggle() != StaffMajor || StaffMajor.Toggle() != TimeMajor {
		t.Error("Toggle should swap orientations")
	}
}

func TestCoversSlot(t *testing.T) {
	a := appt(1, "Ali", "10:00", "45 min")
	tests := []struct {
		slot string
		want bool
	}{
		{"09:30", false},
		{"10:00", true},
		{"10:30", true},
		{"10:45", false},
		{"11:00", false},
	}
	for _, tt := range tests {
		s := Slot{Label: tt.slot, Minutes: booking.TimeToMinutes(tt.slot)}
		if got := CoversSlot(a, s); got != tt.want {
			t.Errorf("CoversSlot(%s) = %v, want %v", tt.slot, got, tt.want)
		}
	}

	bad := appt(2, "Ali", "noon", "30 min")
	if CoversSlot(bad, Slot{Label: "12:00", Minutes: 720}) {
		t.Error("unparseable start must not cover")
	}
}

func TestComputeSpan(t *testing.T) {
	slots := GenerateSlots(testConfig(9, 18, 30))

	tests := []struct {
		name     string
		start    string
		duration string
		want     int
	}{
		{"75 minutes from 09:00", "09:00", "75 min", 3},
		{"exactly one slot", "09:00", "30 min", 1},
		{"shorter than a slot", "09:00", "10 min", 1},
		{"two hours", "09:00", "120 min", 4},
		{"unparseable duration", "09:00", "a while", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := appt(1, "Ali", tt.start, tt.duration)
			if got := ComputeSpan(a, IndexOf(slots, tt.start), slots); got != tt.want {
				t.Errorf("ComputeSpan = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("stops at sequence end", func(t *testing.T) {
		a := appt(1, "Ali", "17:30", "120 min")
		if got := ComputeSpan(a, IndexOf(slots, "17:30"), slots); got != 1 {
			t.Errorf("ComputeSpan = %d, want 1", got)
		}
	})

	t.Run("hidden hours are skipped", func(t *testing.T) {
		hidden := GenerateSlots(testConfig(9, 18, 30).ToggleHidden(12))
		a := appt(1, "Ali", "11:30", "120 min") // ends 13:30
		if got := ComputeSpan(a, IndexOf(hidden, "11:30"), hidden); got != 2 {
			t.Errorf("ComputeSpan = %d, want 2 (11:30, 13:00)", got)
		}
	})
}

func TestStartSlotUniqueness(t *testing.T) {
	slots := GenerateSlots(testConfig(9, 18, 30))
	for _, a := range []*booking.Appointment{
		appt(1, "Ali", "09:00", "75 min"),
		appt(2, "Ali", "10:15", "90 min"),
		appt(3, "Ali", "2:00 PM", "120 min"),
	} {
		start := -1
		for i, s := range slots {
			if IsStartSlot(a, s, 30) {
				if start >= 0 {
					t.Fatalf("%s: second start slot at %s", a.StartTime, s.Label)
				}
				start = i
			}
		}
		if start < 0 {
			t.Fatalf("%s: no start slot", a.StartTime)
		}
		span := ComputeSpan(a, start, slots)
		for i := start + 1; i < start+span; i++ {
			if IsStartSlot(a, slots[i], 30) {
				t.Errorf("%s: IsStartSlot true at continuation %s", a.StartTime, slots[i].Label)
			}
		}
	}
}

func TestFindOccupant(t *testing.T) {
	ali := staffMember(t, "Ali")
	sara := staffMember(t, "Sara")
	appts := []*booking.Appointment{
		appt(1, "Sara", "10:00", "60 min"),
		appt(2, "Ali", "10:15", "30 min"),
	}

	slot := Slot{Label: "10:00", Minutes: 600}
	if got := FindOccupant(slot, 30, ali, appts); got == nil || got.ID != 2 {
		t.Errorf("misaligned start should occupy its containing slot, got %+v", got)
	}
	if got := FindOccupant(slot, 30, sara, appts); got == nil || got.ID != 1 {
		t.Errorf("got %+v, want appointment 1", got)
	}
	if got := FindOccupant(Slot{Label: "11:00", Minutes: 660}, 30, sara, appts); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestFindOccupantTieBreak(t *testing.T) {
	ali := staffMember(t, "Ali")
	slot := Slot{Label: "10:30", Minutes: 630}

	tests := []struct {
		name   string
		appts  []*booking.Appointment
		wantID int64
	}{
		{
			name:   "earliest start wins regardless of order",
			appts:  []*booking.Appointment{appt(5, "Ali", "10:30", "30 min"), appt(9, "Ali", "10:00", "60 min")},
			wantID: 9,
		},
		{
			name:   "same start lowest ID wins",
			appts:  []*booking.Appointment{appt(8, "Ali", "10:30", "30 min"), appt(3, "Ali", "10:30", "60 min")},
			wantID: 3,
		},
		{
			name: "live beats cancelled",
			appts: func() []*booking.Appointment {
				c := appt(1, "Ali", "10:00", "60 min")
				c.Status = booking.StatusCancelled
				return []*booking.Appointment{c, appt(2, "Ali", "10:30", "30 min")}
			}(),
			wantID: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindOccupant(slot, 30, ali, tt.appts)
			if got == nil || got.ID != tt.wantID {
				t.Errorf("got %+v, want ID %d", got, tt.wantID)
			}
		})
	}
}

func kinds(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Kind.String()
	}
	return out
}

func TestBuildEndToEnd(t *testing.T) {
	ali := staffMember(t, "Ali")
	appts := []*booking.Appointment{
		appt(1, "Ali", "10:00", "30 min"),
		appt(2, "Ali", "10:30", "60 min"),
	}

	l := Build(testConfig(9, 13, 30), appts, []*booking.StaffMember{ali})
	row := l.StaffRow(0)

	wantKinds := []string{"empty", "empty", "start", "start", "continuation", "empty", "empty", "empty"}
	if got := kinds(row); !reflect.DeepEqual(got, wantKinds) {
		t.Fatalf("kinds = %v, want %v", got, wantKinds)
	}
	if row[2].Appointment.ID != 1 || row[2].Span != 1 {
		t.Errorf("10:00 = %+v, want appointment 1 span 1", row[2])
	}
	if row[3].Appointment.ID != 2 || row[3].Span != 2 {
		t.Errorf("10:30 = %+v, want appointment 2 span 2", row[3])
	}
	if row[4].Appointment.ID != 2 {
		t.Errorf("11:00 continuation should belong to appointment 2")
	}
	if row[2].Clipped || row[3].Clipped {
		t.Error("blocks starting on their own slot must not be clipped")
	}
	if len(l.Overlaps) != 0 || len(l.Unassigned) != 0 {
		t.Errorf("unexpected overlaps %v / unassigned %v", l.Overlaps, l.Unassigned)
	}
}

func TestBuildEmptyStaff(t *testing.T) {
	ali := staffMember(t, "Ali")
	sara := staffMember(t, "Sara")
	l := Build(testConfig(9, 18, 30), []*booking.Appointment{appt(1, "Ali", "09:00", "30 min")}, []*booking.StaffMember{ali, sara})

	for j, c := range l.StaffRow(1) {
		if !c.Bookable() {
			t.Fatalf("Sara slot %d = %s, want empty", j, c.Kind)
		}
		if c.Staff != sara || c.Slot != l.Slots[j] {
			t.Errorf("cell %d carries wrong coordinates: %s %s", j, c.Staff.Name, c.Slot.Label)
		}
	}
}

func TestBuildFilters(t *testing.T) {
	ali := staffMember(t, "Ali")
	sara := staffMember(t, "Sara")
	gone := staffMember(t, "Noor")
	gone.Status = booking.StaffInactive

	other := appt(3, "Ali", "09:00", "30 min")
	other.Date = testDay.AddDate(0, 0, 1)
	appts := []*booking.Appointment{
		appt(1, "Ali", "09:00", "30 min"),
		appt(2, "Noor", "09:00", "30 min"),
		other,
		appt(4, "Ghost", "10:00", "30 min"),
		appt(5, "Sara", "teatime", "30 min"),
	}

	l := Build(testConfig(9, 18, 30), appts, []*booking.StaffMember{ali, sara, gone})
	if len(l.Staff) != 2 {
		t.Fatalf("roster = %d, want 2 active", len(l.Staff))
	}
	if len(l.Unassigned) != 2 {
		t.Errorf("unassigned = %d, want 2 (inactive and unknown staff)", len(l.Unassigned))
	}
	if len(l.Invalid) != 1 || l.Invalid[0].ID != 5 {
		t.Errorf("invalid = %v, want appointment 5", l.Invalid)
	}
	for _, c := range l.Decisions() {
		if c.Appointment != nil && c.Appointment.ID != 1 {
			t.Errorf("appointment %d should not be placed", c.Appointment.ID)
		}
	}

	filtered := Build(testConfig(9, 18, 30).WithStaffFilter("sara"), appts, []*booking.StaffMember{ali, sara, gone})
	if len(filtered.Staff) != 1 || filtered.Staff[0] != sara {
		t.Fatalf("filtered roster = %v", staffNames(filtered.Staff))
	}
	if len(filtered.Unassigned) != 2 {
		t.Errorf("filtering must not change unassigned, got %d", len(filtered.Unassigned))
	}

	all := Build(testConfig(9, 18, 30).WithStaffFilter("All"), appts, []*booking.StaffMember{ali, sara})
	if len(all.Staff) != 2 {
		t.Errorf("\"All\" filter should keep everyone, got %d", len(all.Staff))
	}
}

func TestBuildMatchesByStaffID(t *testing.T) {
	ali := staffMember(t, "Ali")
	renamed := staffMember(t, "Ali K.")

	a := appt(1, "Ali", "09:00", "30 min")
	a.StaffID = renamed.ID

	l := Build(testConfig(9, 10, 30), []*booking.Appointment{a}, []*booking.StaffMember{ali, renamed})
	if l.Cell(0, 0).Kind != Empty {
		t.Error("staff ID must take precedence over a matching name")
	}
	if c := l.Cell(1, 0); c.Kind != Start || c.Appointment != a {
		t.Errorf("got %+v, want start of appointment 1", c)
	}
}

func TestBuildClippedBlocks(t *testing.T) {
	ali := staffMember(t, "Ali")

	t.Run("starts before the window", func(t *testing.T) {
		l := Build(testConfig(9, 12, 30), []*booking.Appointment{appt(1, "Ali", "08:30", "60 min")}, []*booking.StaffMember{ali})
		c := l.Cell(0, 0)
		if c.Kind != Start || !c.Clipped || c.Span != 1 {
			t.Errorf("09:00 = %+v, want clipped start span 1", c)
		}
	})

	t.Run("start hour hidden", func(t *testing.T) {
		cfg := testConfig(9, 15, 30).ToggleHidden(12)
		l := Build(cfg, []*booking.Appointment{appt(1, "Ali", "12:30", "60 min")}, []*booking.StaffMember{ali})
		j := IndexOf(l.Slots, "13:00")
		c := l.Cell(0, j)
		if c.Kind != Start || !c.Clipped || c.Span != 1 {
			t.Errorf("13:00 = %+v, want clipped start span 1", c)
		}
	})
}

func TestBuildOverlaps(t *testing.T) {
	ali := staffMember(t, "Ali")
	appts := []*booking.Appointment{
		appt(2, "Ali", "10:30", "60 min"),
		appt(1, "Ali", "10:00", "60 min"),
	}

	l := Build(testConfig(9, 13, 30), appts, []*booking.StaffMember{ali})
	row := l.StaffRow(0)
	i := IndexOf(l.Slots, "10:00")

	if row[i].Appointment.ID != 1 || row[i].Span != 2 {
		t.Errorf("10:00 = %+v, want appointment 1 span 2", row[i])
	}
	if c := row[i+2]; c.Kind != Start || c.Appointment.ID != 2 || !c.Clipped || c.Span != 1 {
		t.Errorf("11:00 = %+v, want clipped appointment 2 span 1", c)
	}
	if len(l.Overlaps) != 1 || l.Overlaps[0].ID != 2 {
		t.Errorf("overlaps = %v, want appointment 2", l.Overlaps)
	}

	starts := 0
	for _, c := range row {
		if c.Kind == Start && c.Slot.Label == "10:00" {
			starts++
		}
	}
	if starts != 1 {
		t.Errorf("got %d start blocks at 10:00, want 1", starts)
	}
}

func TestBuildStartGreaterThanEnd(t *testing.T) {
	l := Build(testConfig(14, 9, 30), []*booking.Appointment{appt(1, "Ali", "10:00", "30 min")}, []*booking.StaffMember{staffMember(t, "Ali")})
	if !l.Empty() || len(l.Slots) != 0 {
		t.Errorf("want empty layout, got %d slots", len(l.Slots))
	}
	if len(l.StaffRow(0)) != 0 {
		t.Error("staff row should have no cells")
	}
}

func TestOrientationSymmetry(t *testing.T) {
	ali := staffMember(t, "Ali")
	sara := staffMember(t, "Sara")
	staff := []*booking.StaffMember{ali, sara}
	appts := []*booking.Appointment{
		appt(1, "Ali", "09:00", "75 min"),
		appt(2, "Sara", "10:15", "45 min"),
		appt(3, "Sara", "2:00 PM", "90 min"),
	}

	cfg := testConfig(9, 18, 30).ToggleHidden(12)
	timeMajor := Build(cfg, appts, staff)
	staffMajor := Build(cfg.WithOrientation(StaffMajor), appts, staff)

	if !reflect.DeepEqual(timeMajor.Decisions(), staffMajor.Decisions()) {
		t.Fatal("decisions differ between orientations")
	}

	tm := timeMajor.Rows()
	sm := staffMajor.Rows()
	if len(tm) != 2 || len(sm) != len(timeMajor.Slots) {
		t.Fatalf("dims: time-major %d rows, staff-major %d rows", len(tm), len(sm))
	}
	for i := range tm {
		for j := range tm[i] {
			if !reflect.DeepEqual(tm[i][j], sm[j][i]) {
				t.Fatalf("cell (%d,%d) differs after transpose", i, j)
			}
			if tm[i][j] != timeMajor.At(i, j) || sm[j][i] != staffMajor.At(j, i) {
				t.Fatalf("At disagrees with Rows at (%d,%d)", i, j)
			}
		}
	}

	if got := staffMajor.ColumnHeaders(); !reflect.DeepEqual(got, []string{"Ali", "Sara"}) {
		t.Errorf("staff-major columns = %v", got)
	}
	if got := timeMajor.RowHeaders(); !reflect.DeepEqual(got, []string{"Ali", "Sara"}) {
		t.Errorf("time-major rows = %v", got)
	}
	r, c := staffMajor.Locate(1, 3)
	if r != 3 || c != 1 {
		t.Errorf("Locate = (%d,%d), want (3,1)", r, c)
	}
}

func TestLayoutHelpers(t *testing.T) {
	ali := staffMember(t, "Ali")
	l := Build(testConfig(9, 12, 30), []*booking.Appointment{
		appt(7, "Ali", "10:00", "60 min"),
		appt(8, "Ali", "11:00", "30 min"),
	}, []*booking.StaffMember{ali})

	placed := l.Placed(0)
	if len(placed) != 2 || placed[0].ID != 7 || placed[1].ID != 8 {
		t.Errorf("placed = %v", placed)
	}
	i, j, ok := l.FindAppointment(8)
	if !ok || i != 0 || l.Slots[j].Label != "11:00" {
		t.Errorf("FindAppointment = %d,%d,%v", i, j, ok)
	}
	if _, _, ok := l.FindAppointment(99); ok {
		t.Error("unknown ID should not be found")
	}
	if l.DateISO() != "2025-03-10" {
		t.Errorf("DateISO = %s", l.DateISO())
	}
}
