package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/salon/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments in a date range",
		Long: `List all appointments within a date range.

If no dates are specified, lists today's appointments.
If only --start is specified, lists appointments for that single day.
If both --start and --end are specified, lists the range (inclusive).`,
		Example: `  salon list
  salon list --start=2025-01-15
  salon list --start=2025-01-15 --end=2025-01-20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			found := 0
			for _, day := range dateRange.Days() {
				appts, err := a.repo.ListAppointmentsByDate(context.Background(), day)
				if err != nil {
					return fmt.Errorf("listing appointments: %w", err)
				}
				if len(appts) == 0 {
					continue
				}

				if found > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "=== %s ===\n", formatHeader(day.Format("Mon 2006-01-02")))
				for _, appt := range appts {
					fmt.Fprintf(out, "  %s #%d %-13s %-12s %s %s\n",
						statusSymbol(appt.Status),
						appt.ID,
						appt.TimeRange(),
						appt.StaffName,
						appt.Title(),
						formatMuted("("+appt.Status.Label()+")"),
					)
				}
				found += len(appts)
			}

			if found == 0 {
				fmt.Fprintln(out, "No appointments found in the specified date range.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")

	return cmd
}
