package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/booking"
)

func (a *App) statusCmd() *cobra.Command {
	names := make([]string, len(booking.Statuses))
	for i, s := range booking.Statuses {
		names[i] = string(s)
	}

	return &cobra.Command{
		Use:   "status [appointment-id] [status]",
		Short: "Change the status of an appointment",
		Long: `Change the status of an appointment by its ID.

Statuses: ` + strings.Join(names, ", ") + `

Cancelled and rejected appointments free their slots for new bookings.`,
		Example: `  salon status 42 completed
  salon status 42 in_progress`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment ID: %w", err)
			}
			status, err := booking.ParseStatus(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := a.repo.UpdateAppointmentStatus(ctx, id, status); err != nil {
				return fmt.Errorf("updating appointment: %w", err)
			}
			a.logger.Info("appointment status changed",
				zap.Int64("id", id),
				zap.String("status", string(status)))

			fmt.Fprintf(cmd.OutOrStdout(), "#%d is now %s\n", id, formatStatus(status))
			return nil
		},
	}
}
