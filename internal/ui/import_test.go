package ui

import (
	"context"
	"testing"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
)

func TestImportBookings(t *testing.T) {
	ctx := context.Background()
	source, sourcePath := newTestRepo(t)
	dest, _ := newTestRepo(t)

	// Ali exists in both databases with different IDs.
	for _, name := range []string{"Ali", "Bo"} {
		m, err := booking.NewStaffMember(name, "")
		if err != nil {
			t.Fatal(err)
		}
		if err := source.CreateStaff(ctx, m); err != nil {
			t.Fatalf("CreateStaff(source, %s): %v", name, err)
		}
	}
	destAli, _ := booking.NewStaffMember("Ali", "")
	if err := dest.CreateStaff(ctx, destAli); err != nil {
		t.Fatal(err)
	}

	sourceStaff, err := source.ListStaff(ctx)
	if err != nil {
		t.Fatal(err)
	}
	book := func(repo booking.Repository, staff *booking.StaffMember, date, start string) {
		t.Helper()
		a, err := booking.NewAppointment(staff.Name, date, start, "60 min")
		if err != nil {
			t.Fatal(err)
		}
		a.StaffID = staff.ID
		if err := repo.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("CreateAppointment(%s %s): %v", staff.Name, start, err)
		}
	}
	book(source, sourceStaff[0], "2025-03-12", "10:00") // clashes with dest
	book(source, sourceStaff[1], "2025-03-12", "11:00")
	book(source, sourceStaff[0], "2025-03-13", "09:00")
	book(source, sourceStaff[0], "2025-03-20", "09:00") // outside the range
	book(dest, destAli, "2025-03-12", "10:30")

	days, err := dateutil.NewDateRange("2025-03-12", "2025-03-13")
	if err != nil {
		t.Fatal(err)
	}
	res, err := importBookings(ctx, dest, sourcePath, days)
	if err != nil {
		t.Fatalf("importBookings: %v", err)
	}
	if res.Staff != 1 || res.Appointments != 2 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 staff, 2 appointments, 1 skipped", res)
	}

	staff, err := dest.ListStaff(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(staff) != 2 {
		t.Fatalf("expected Ali and Bo in dest, got %d staff", len(staff))
	}

	appts, err := dest.ListAppointmentsByDate(ctx, days.End)
	if err != nil {
		t.Fatal(err)
	}
	if len(appts) != 1 || appts[0].StaffID != destAli.ID {
		t.Errorf("expected the Mar 13 booking mapped to dest Ali, got %+v", appts)
	}
}

func TestResolvePath(t *testing.T) {
	if _, err := resolvePath("  "); err == nil {
		t.Error("expected an error for an empty path")
	}
	p, err := resolvePath("salon.db")
	if err != nil {
		t.Fatal(err)
	}
	if p == "salon.db" {
		t.Errorf("expected an absolute path, got %q", p)
	}
}
