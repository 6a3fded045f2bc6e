package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/config"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/db"
)

// importResult counts what importBookings did.
type importResult struct {
	Staff        int // staff members created
	Appointments int // appointments created
	Skipped      int // appointments refused because the slot was taken
}

func (a *App) importCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import staff and appointments from another database",
		Long: `Copy staff and appointments from another salon database, e.g. a
second branch, into the current one.

Staff are matched by name and created when missing. Appointments that
overlap a live booking in the current database are skipped.`,
		Example: `  salon import /path/to/other.db --start 2025-03-01 --end 2025-03-31`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if a.config.Storage.Driver != config.DriverPostgres {
				destPath, err := resolvePath(a.config.Storage.DBPath)
				if err != nil {
					return err
				}
				if sourcePath == destPath {
					return errors.New("source database matches current database")
				}
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			days, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			res, err := importBookings(context.Background(), a.repo, sourcePath, days)
			if err != nil {
				return err
			}
			a.logger.Info("imported bookings",
				zap.String("source", sourcePath),
				zap.Int("staff", res.Staff),
				zap.Int("appointments", res.Appointments),
				zap.Int("skipped", res.Skipped))

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d appointments and %d staff members from %s\n",
				res.Appointments, res.Staff, sourcePath)
			if res.Skipped > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatWarn(fmt.Sprintf("Skipped %d appointments that overlap existing bookings", res.Skipped)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "First day to import (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "Last day to import (YYYY-MM-DD, defaults to start date)")
	return cmd
}

func importBookings(ctx context.Context, dest booking.Repository, sourcePath string, days *dateutil.DateRange) (importResult, error) {
	var res importResult

	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return res, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	staffIDs, created, err := importStaff(ctx, dest, sourceRepo)
	if err != nil {
		return res, err
	}
	res.Staff = created

	for _, day := range days.Days() {
		appts, err := sourceRepo.ListAppointmentsByDate(ctx, day)
		if err != nil {
			return res, fmt.Errorf("listing source appointments: %w", err)
		}
		for _, src := range appts {
			appt := *src
			appt.ID = 0
			if id, ok := staffIDs[src.StaffID]; ok {
				appt.StaffID = id
			}

			err := dest.CreateAppointment(ctx, &appt)
			switch {
			case errors.Is(err, booking.ErrSlotTaken):
				res.Skipped++
			case err != nil:
				return res, fmt.Errorf("importing appointment #%d: %w", src.ID, err)
			default:
				res.Appointments++
			}
		}
	}
	return res, nil
}

// importStaff makes sure every source staff member exists in dest and maps
// source staff IDs to destination IDs.
func importStaff(ctx context.Context, dest, source booking.Repository) (map[string]string, int, error) {
	sourceStaff, err := source.ListStaff(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing source staff: %w", err)
	}
	destStaff, err := dest.ListStaff(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing staff: %w", err)
	}

	ids := make(map[string]string, len(sourceStaff))
	created := 0
	for _, s := range sourceStaff {
		if existing := booking.FindStaff(destStaff, s.Name); existing != nil {
			ids[s.ID] = existing.ID
			continue
		}
		member := *s
		if err := dest.CreateStaff(ctx, &member); err != nil {
			return nil, created, fmt.Errorf("importing staff member %q: %w", s.Name, err)
		}
		ids[s.ID] = member.ID
		destStaff = append(destStaff, &member)
		created++
	}
	return ids, created, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
