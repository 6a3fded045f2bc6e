package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/salon/internal/availability"
	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/grid"
)

func (a *App) freeCmd() *cobra.Command {
	var (
		flags    gridFlags
		duration string
	)

	cmd := &cobra.Command{
		Use:   "free",
		Short: "Show the first free time per staff member",
		Long: `Find the earliest start on the day where a booking of the given length
fits without running into another booking or a hidden hour.

For today, times that have already passed are skipped.`,
		Example: `  salon free --duration "90 min"
  salon free --date tomorrow --staff Sara --duration "45 min"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			now := time.Now()
			cfg, err := flags.gridConfig(cmd, a.config.Calendar, now)
			if err != nil {
				return err
			}

			ctx := context.Background()
			staff, err := a.repo.ListStaff(ctx)
			if err != nil {
				return fmt.Errorf("fetching staff: %w", err)
			}
			appts, err := a.repo.ListAppointmentsByDate(ctx, cfg.Date)
			if err != nil {
				return fmt.Errorf("fetching appointments: %w", err)
			}
			l := grid.Build(cfg, appts, staff)
			if len(l.Staff) == 0 {
				if cfg.FiltersStaff() {
					return fmt.Errorf("no active staff member named %q", cfg.StaffFilter)
				}
				return errNoStaff
			}

			minutes := booking.ParseDurationMinutes(duration)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatHeader(fmt.Sprintf("%s · %s", cfg.Date.Format("Monday, Jan 2 2006"), booking.FormatDuration(minutes))))
			for i, member := range l.Staff {
				o, ok := availability.NextOpening(l, i, minutes, now)
				if !ok {
					fmt.Fprintf(out, "  %-14s %s\n", member.Name, formatMuted("fully booked"))
					continue
				}
				fmt.Fprintf(out, "  %-14s %s-%s\n", member.Name, o.Start, o.End)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&duration, "duration", booking.FormatDuration(booking.DefaultDurationMinutes), "Booking length, e.g. \"45 min\"")
	return cmd
}
