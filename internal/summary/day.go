// Package summary provides per-day booking summaries built from a calendar layout.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
)

// StaffLoad is one staff member's load for the day.
type StaffLoad struct {
	Name          string
	Bookings      int // live appointments with a visible block
	BookedMinutes int
	OpenSlots     int
	TotalSlots    int
}

// Utilization returns the share of visible slots that are taken, in percent.
func (s StaffLoad) Utilization() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.TotalSlots-s.OpenSlots) / float64(s.TotalSlots) * 100
}

// DaySummary holds aggregated data for one calendar day.
type DaySummary struct {
	Date       time.Time
	Branch     string
	Staff      []StaffLoad
	Statuses   map[booking.Status]int
	Unassigned int
	Overlaps   int
	Invalid    int
}

// TotalBookings returns the number of live bookings across all staff.
func (d *DaySummary) TotalBookings() int {
	n := 0
	for _, s := range d.Staff {
		n += s.Bookings
	}
	return n
}

// OpenSlots returns the number of bookable cells across all staff.
func (d *DaySummary) OpenSlots() int {
	n := 0
	for _, s := range d.Staff {
		n += s.OpenSlots
	}
	return n
}

// Summarize builds a day summary from a computed layout.
func Summarize(l *grid.Layout) *DaySummary {
	d := &DaySummary{
		Date:       l.Config.Date,
		Statuses:   make(map[booking.Status]int),
		Unassigned: len(l.Unassigned),
		Overlaps:   len(l.Overlaps),
		Invalid:    len(l.Invalid),
	}

	for i, member := range l.Staff {
		load := StaffLoad{Name: member.Name, TotalSlots: len(l.Slots)}
		for _, c := range l.StaffRow(i) {
			if c.Bookable() {
				load.OpenSlots++
			}
		}
		for _, a := range l.Placed(i) {
			d.Statuses[a.Status]++
			if !a.Status.Live() {
				continue
			}
			load.Bookings++
			load.BookedMinutes += a.DurationMinutes()
		}
		d.Staff = append(d.Staff, load)
	}
	return d
}

// BuildDaySummary loads the day's appointments and staff and summarizes them.
func BuildDaySummary(ctx context.Context, repo booking.Repository, cfg grid.Config) (*DaySummary, *grid.Layout, error) {
	appts, err := repo.ListAppointmentsByDate(ctx, cfg.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching appointments: %w", err)
	}
	staff, err := repo.ListStaff(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching staff: %w", err)
	}

	l := grid.Build(cfg, appts, staff)
	return Summarize(l), l, nil
}

// Format renders the summary as plain text, e.g. for the clipboard.
func (d *DaySummary) Format() string {
	var b strings.Builder

	title := d.Date.Format("Monday, Jan 2 2006")
	if d.Branch != "" {
		title = d.Branch + " · " + title
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "%d bookings, %d open slots\n", d.TotalBookings(), d.OpenSlots())

	if len(d.Staff) > 0 {
		b.WriteString("\n")
	}
	for _, s := range d.Staff {
		fmt.Fprintf(&b, "  %-14s %2d bookings  %6s  %3.0f%% booked  %2d open\n",
			s.Name, s.Bookings, booking.HumanDuration(s.BookedMinutes), s.Utilization(), s.OpenSlots)
	}

	var statuses []string
	for _, st := range booking.Statuses {
		if n := d.Statuses[st]; n > 0 {
			statuses = append(statuses, fmt.Sprintf("%s %d", st, n))
		}
	}
	unknown := 0
	for st, n := range d.Statuses {
		if !st.Valid() {
			unknown += n
		}
	}
	if unknown > 0 {
		statuses = append(statuses, fmt.Sprintf("unknown %d", unknown))
	}
	if len(statuses) > 0 {
		fmt.Fprintf(&b, "\nStatus: %s\n", strings.Join(statuses, ", "))
	}

	var warnings []string
	if d.Unassigned > 0 {
		warnings = append(warnings, fmt.Sprintf("%d unassigned", d.Unassigned))
	}
	if d.Overlaps > 0 {
		warnings = append(warnings, fmt.Sprintf("%d overlapping", d.Overlaps))
	}
	if d.Invalid > 0 {
		warnings = append(warnings, fmt.Sprintf("%d with invalid start time", d.Invalid))
	}
	if len(warnings) > 0 {
		fmt.Fprintf(&b, "Attention: %s\n", strings.Join(warnings, ", "))
	}

	return b.String()
}

// DateISO returns the summarized day as YYYY-MM-DD.
func (d *DaySummary) DateISO() string {
	return dateutil.FormatISO(d.Date)
}
