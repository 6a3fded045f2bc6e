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

// PeriodSummary aggregates day summaries over an inclusive range of days.
type PeriodSummary struct {
	Start time.Time
	End   time.Time
	Days  []*DaySummary

	// Staff holds per-name totals in the order names first appear.
	Staff    []StaffLoad
	Statuses map[booking.Status]int
}

// SummarizePeriod combines day summaries. Staff are matched by name, so a
// member who joins mid-period only counts the days they were on the roster.
func SummarizePeriod(days []*DaySummary) *PeriodSummary {
	p := &PeriodSummary{Days: days, Statuses: make(map[booking.Status]int)}
	if len(days) == 0 {
		return p
	}
	p.Start, p.End = days[0].Date, days[len(days)-1].Date

	index := make(map[string]int)
	for _, d := range days {
		for st, n := range d.Statuses {
			p.Statuses[st] += n
		}
		for _, s := range d.Staff {
			i, ok := index[s.Name]
			if !ok {
				i = len(p.Staff)
				index[s.Name] = i
				p.Staff = append(p.Staff, StaffLoad{Name: s.Name})
			}
			total := &p.Staff[i]
			total.Bookings += s.Bookings
			total.BookedMinutes += s.BookedMinutes
			total.OpenSlots += s.OpenSlots
			total.TotalSlots += s.TotalSlots
		}
	}
	return p
}

// BuildPeriodSummary summarizes every day of r with the layout settings of cfg.
func BuildPeriodSummary(ctx context.Context, repo booking.Repository, cfg grid.Config, r *dateutil.DateRange) (*PeriodSummary, error) {
	var days []*DaySummary
	for _, date := range r.Days() {
		day, _, err := BuildDaySummary(ctx, repo, cfg.WithDate(date))
		if err != nil {
			return nil, fmt.Errorf("summarizing %s: %w", dateutil.FormatISO(date), err)
		}
		days = append(days, day)
	}
	return SummarizePeriod(days), nil
}

// TotalBookings returns the number of live bookings over the period.
func (p *PeriodSummary) TotalBookings() int {
	n := 0
	for _, d := range p.Days {
		n += d.TotalBookings()
	}
	return n
}

// Format renders the period with one line per day and the staff totals.
func (p *PeriodSummary) Format(branch string) string {
	var b strings.Builder

	title := fmt.Sprintf("%s to %s", p.Start.Format("Mon Jan 2"), p.End.Format("Mon Jan 2 2006"))
	if branch != "" {
		title = branch + " · " + title
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "%d bookings over %d days\n\n", p.TotalBookings(), len(p.Days))

	for _, d := range p.Days {
		fmt.Fprintf(&b, "  %s  %2d bookings  %2d open\n", d.Date.Format("Mon Jan 02"), d.TotalBookings(), d.OpenSlots())
	}

	if len(p.Staff) > 0 {
		b.WriteString("\n")
	}
	for _, s := range p.Staff {
		fmt.Fprintf(&b, "  %-14s %3d bookings  %7s  %3.0f%% booked\n",
			s.Name, s.Bookings, booking.HumanDuration(s.BookedMinutes), s.Utilization())
	}
	return b.String()
}
