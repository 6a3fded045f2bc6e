package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/availability"
	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/llm"
)

// newLLMClient is replaced in tests.
var newLLMClient = llm.NewClient

func (a *App) assistCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "assist [request]",
		Short: "Book from a natural-language request",
		Long: `Ask the configured language model to turn a request into a booking.

The draft is checked against the day's grid and shown for confirmation
before anything is stored.`,
		Example: `  salon assist "Mia wants a balayage with Sara tomorrow at 3pm, about 2 hours"
  salon assist --yes "fade with Ali at 10"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()
			out := cmd.OutOrStdout()
			now := time.Now()

			cal := a.config.Calendar.GridConfig(now)
			staff, err := a.repo.ListStaff(ctx)
			if err != nil {
				return fmt.Errorf("fetching staff: %w", err)
			}
			appts, err := a.repo.ListAppointmentsByDate(ctx, cal.Date)
			if err != nil {
				return fmt.Errorf("fetching appointments: %w", err)
			}

			client, err := newLLMClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			fmt.Fprintln(out, formatMuted("Drafting booking..."))
			draft, err := llm.NewAssistant(client).Draft(ctx, llm.DraftRequest{
				Request:      strings.Join(args, " "),
				Now:          now,
				Calendar:     cal,
				Staff:        staff,
				Appointments: appts,
			})
			if err != nil {
				return err
			}
			a.logger.Debug("draft received",
				zap.String("staff", draft.Staff),
				zap.String("date", draft.Date),
				zap.String("start", draft.Start),
				zap.Int("duration", draft.DurationMinutes))

			layout, err := a.draftLayout(ctx, cal, draft, staff)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, formatHeader("Draft: ")+draft.Summary())
			for _, w := range draft.Warnings {
				fmt.Fprintln(out, formatWarn("  ! "+w))
			}
			if err := llm.CheckDraft(layout, draft); err != nil {
				var conflict *llm.ConflictError
				if !errors.As(err, &conflict) {
					return err
				}
				if i := availability.StaffIndex(layout, draft.Staff); i >= 0 {
					if o, ok := availability.NextOpening(layout, i, draft.DurationMinutes, now); ok {
						fmt.Fprintf(out, "%s is next free at %s-%s\n", o.Staff.Name, o.Start, o.End)
					}
				}
				return fmt.Errorf("cannot book: %w", err)
			}

			if !yes && !a.confirm(cmd, "Book it?") {
				fmt.Fprintln(out, "Discarded.")
				return nil
			}

			appt, err := draft.Appointment(a.config.Branch.Name)
			if err != nil {
				return err
			}
			if err := a.repo.CreateAppointment(ctx, appt); err != nil {
				return fmt.Errorf("creating appointment: %w", err)
			}
			a.logger.Info("appointment booked",
				zap.Int64("id", appt.ID),
				zap.String("staff", appt.StaffName),
				zap.String("date", dateutil.FormatISO(appt.Date)),
				zap.String("start", appt.StartTime),
				zap.String("source", "assistant"))

			fmt.Fprintf(out, "%s #%d\n", formatOK("Booked"), appt.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Book without asking for confirmation")
	return cmd
}

// draftLayout builds the grid the draft is checked against, loading the
// draft's day when it is not the one in cal.
func (a *App) draftLayout(ctx context.Context, cal grid.Config, draft *llm.BookingDraft, staff []*booking.StaffMember) (*grid.Layout, error) {
	date, err := dateutil.ParseDate(draft.Date)
	if err != nil {
		return nil, err
	}
	cfg := cal.WithDate(date)

	appts, err := a.repo.ListAppointmentsByDate(ctx, cfg.Date)
	if err != nil {
		return nil, fmt.Errorf("fetching appointments: %w", err)
	}
	return grid.Build(cfg, appts, staff), nil
}
