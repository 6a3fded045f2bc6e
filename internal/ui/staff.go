package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/booking"
)

func (a *App) staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage the staff roster",
		Long: `Add, list, activate and deactivate staff members.

Only active staff get a row in the calendar. Deactivating keeps the
member's past appointments.`,
	}

	cmd.AddCommand(a.staffAddCmd())
	cmd.AddCommand(a.staffListCmd())
	cmd.AddCommand(a.staffStatusCmd("activate", "Put a staff member back on the roster", booking.StaffActive))
	cmd.AddCommand(a.staffStatusCmd("deactivate", "Take a staff member off the roster", booking.StaffInactive))
	return cmd
}

func (a *App) staffAddCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:     "add [name]",
		Short:   "Add a staff member",
		Example: `  salon staff add Sara --role stylist`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			member, err := booking.NewStaffMember(args[0], role)
			if err != nil {
				return err
			}
			if err := a.repo.CreateStaff(context.Background(), member); err != nil {
				return fmt.Errorf("adding staff member: %w", err)
			}
			a.logger.Info("staff added", zap.String("id", member.ID), zap.String("name", member.Name))

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", member.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role, e.g. stylist or colorist")
	return cmd
}

func (a *App) staffListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			staff, err := a.repo.ListStaff(context.Background())
			if err != nil {
				return fmt.Errorf("listing staff: %w", err)
			}
			if !all {
				staff = booking.ActiveRoster(staff)
			}

			out := cmd.OutOrStdout()
			if len(staff) == 0 {
				fmt.Fprintln(out, "No staff members. Add one with: salon staff add NAME")
				return nil
			}
			for _, s := range staff {
				line := fmt.Sprintf("  %-16s %-12s", s.Name, s.Role)
				if !s.IsActive() {
					line = formatMuted(line + " (inactive)")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include inactive staff")
	return cmd
}

func (a *App) staffStatusCmd(use, short string, status booking.StaffStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [name]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()

			staff, err := a.repo.ListStaff(ctx)
			if err != nil {
				return fmt.Errorf("listing staff: %w", err)
			}
			member := booking.FindStaff(staff, args[0])
			if member == nil {
				return fmt.Errorf("%w: %q", booking.ErrStaffNotFound, args[0])
			}

			if err := a.repo.SetStaffStatus(ctx, member.ID, status); err != nil {
				return fmt.Errorf("updating staff member: %w", err)
			}
			a.logger.Info("staff status changed",
				zap.String("id", member.ID),
				zap.String("name", member.Name),
				zap.String("status", string(status)))

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", member.Name, status)
			return nil
		},
	}
}
