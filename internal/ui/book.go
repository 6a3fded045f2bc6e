package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
)

func (a *App) bookCmd() *cobra.Command {
	var (
		date     string
		start    string
		duration string
		customer string
		service  string
		phone    string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "book [staff]",
		Short: "Book an appointment",
		Long: `Book an appointment with a staff member.

The start time accepts 24-hour ("14:30") and 12-hour ("2:30 PM") input.
Bookings that overlap a live appointment of the same staff member are refused.`,
		Example: `  salon book Sara --start 2:30PM --duration "45 min" --customer Mia --service Balayage
  salon book Ali --date tomorrow --start 09:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()

			day, err := dateutil.ParseRelativeDate(date, time.Now())
			if err != nil {
				return err
			}

			staff, err := a.repo.ListStaff(ctx)
			if err != nil {
				return fmt.Errorf("fetching staff: %w", err)
			}
			member := booking.FindStaff(booking.ActiveRoster(staff), args[0])
			if member == nil {
				return fmt.Errorf("%w: %q", booking.ErrStaffNotFound, args[0])
			}

			appt, err := booking.NewAppointment(member.Name, dateutil.FormatISO(day), start, duration)
			if err != nil {
				return err
			}
			appt.StaffID = member.ID
			appt.CustomerName = customer
			appt.ServiceName = service
			appt.Phone = phone
			appt.Notes = notes
			appt.Branch = a.config.Branch.Name

			if err := a.repo.CreateAppointment(ctx, appt); err != nil {
				if errors.Is(err, booking.ErrSlotTaken) {
					return fmt.Errorf("%s is busy at %s on %s: %w", member.Name, appt.StartTime, dateutil.FormatISO(day), err)
				}
				return fmt.Errorf("creating appointment: %w", err)
			}
			a.logger.Info("appointment booked",
				zap.Int64("id", appt.ID),
				zap.String("staff", appt.StaffName),
				zap.String("date", dateutil.FormatISO(appt.Date)),
				zap.String("start", appt.StartTime),
				zap.String("duration", appt.Duration))

			fmt.Fprintf(cmd.OutOrStdout(), "Booked #%d: %s with %s on %s %s\n",
				appt.ID,
				appt.Title(),
				appt.StaffName,
				dateutil.FormatISO(appt.Date),
				appt.TimeRange(),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, tomorrow, weekday; default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM or H:MM AM/PM, required)")
	cmd.Flags().StringVar(&duration, "duration", "", `Duration, e.g. "45 min" (default: 30 min)`)
	cmd.Flags().StringVar(&customer, "customer", "", "Customer name")
	cmd.Flags().StringVar(&service, "service", "", "Service name")
	cmd.Flags().StringVar(&phone, "phone", "", "Customer phone")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	_ = cmd.MarkFlagRequired("start")

	return cmd
}
