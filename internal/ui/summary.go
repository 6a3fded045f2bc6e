package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var (
		flags gridFlags
		end   string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize a day's bookings per staff member",
		Long: `Print bookings, booked time, open slots and utilization per staff member.

Open slots and utilization follow the visible grid, so --hide and the
business hours change them. With --end, every day from --date to --end
is summarized and staff totals are added up.`,
		Example: `  salon summary
  salon summary --date friday --hide 13
  salon summary --date monday --end saturday`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			now := time.Now()
			cfg, err := flags.gridConfig(cmd, a.config.Calendar, now)
			if err != nil {
				return err
			}

			if end != "" {
				last, err := dateutil.ParseRelativeDate(end, now)
				if err != nil {
					return err
				}
				if last.Before(cfg.Date) {
					return dateutil.ErrEndDateBeforeStart
				}
				period, err := summary.BuildPeriodSummary(context.Background(), a.repo, cfg,
					&dateutil.DateRange{Start: cfg.Date, End: last})
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), period.Format(a.config.Branch.Name))
				return nil
			}

			day, _, err := summary.BuildDaySummary(context.Background(), a.repo, cfg)
			if err != nil {
				return err
			}
			day.Branch = a.config.Branch.Name

			fmt.Fprint(cmd.OutOrStdout(), day.Format())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&end, "end", "", "Last day of a multi-day summary (same formats as --date)")
	return cmd
}
