package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/salon/internal/config"
	"github.com/javiermolinar/salon/internal/dateutil"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/tui/theme"
	"github.com/javiermolinar/salon/internal/tui/view"
)

const (
	minGridCol = 6
	maxGridCol = 18
)

// gridFlags are the layout knobs shared by grid and summary.
type gridFlags struct {
	date        string
	granularity int
	startHour   int
	endHour     int
	hide        string
	staff       string
	orientation string
}

func (f *gridFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Day to show (YYYY-MM-DD, today, tomorrow, weekday; default: today)")
	cmd.Flags().IntVar(&f.granularity, "granularity", 0, "Slot length in minutes (15, 30, 45, 60, 120)")
	cmd.Flags().IntVar(&f.startHour, "start-hour", 0, "First hour shown (0-23)")
	cmd.Flags().IntVar(&f.endHour, "end-hour", 0, "Hour the day ends (1-24)")
	cmd.Flags().StringVar(&f.hide, "hide", "", "Comma-separated hours to hide, e.g. 12,13")
	cmd.Flags().StringVar(&f.staff, "staff", "", "Only show this staff member")
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "time-major (staff rows) or staff-major (time rows)")
}

// gridConfig applies the flags the user set over the configured calendar.
func (f *gridFlags) gridConfig(cmd *cobra.Command, cal config.CalendarConfig, now time.Time) (grid.Config, error) {
	date, err := dateutil.ParseRelativeDate(f.date, now)
	if err != nil {
		return grid.Config{}, err
	}
	cfg := cal.GridConfig(date)

	flags := cmd.Flags()
	if flags.Changed("granularity") {
		if !grid.ValidGranularity(f.granularity) {
			return grid.Config{}, fmt.Errorf("granularity must be one of %v", grid.Granularities)
		}
		cfg = cfg.WithGranularity(f.granularity)
	}
	start, end := cfg.StartHour, cfg.EndHour
	if flags.Changed("start-hour") {
		start = f.startHour
	}
	if flags.Changed("end-hour") {
		end = f.endHour
	}
	if start < 0 || end > 24 || start >= end {
		return grid.Config{}, fmt.Errorf("cannot show %02d:00-%02d:00: start must be before end", start, end)
	}
	cfg = cfg.WithHours(start, end)

	if flags.Changed("hide") {
		hours, err := config.ParseHourList(f.hide)
		if err != nil {
			return grid.Config{}, err
		}
		cfg = cfg.ResetHidden()
		for _, h := range hours {
			if h < 0 || h > 23 {
				return grid.Config{}, fmt.Errorf("hidden hour must be between 0 and 23, got %d", h)
			}
			if !cfg.IsHidden(h) {
				cfg = cfg.ToggleHidden(h)
			}
		}
	}
	if flags.Changed("orientation") {
		o, err := grid.ParseOrientation(f.orientation)
		if err != nil {
			return grid.Config{}, err
		}
		cfg = cfg.WithOrientation(o)
	}
	if f.staff != "" {
		cfg = cfg.WithStaffFilter(f.staff)
	}
	return cfg, nil
}

func (a *App) gridCmd() *cobra.Command {
	var (
		flags   gridFlags
		noColor bool
		width   int
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print a day as a staff × time grid",
		Long: `Print the appointment grid for one day.

Flags override the [calendar] section of the config for this run only.`,
		Example: `  salon grid
  salon grid --date tomorrow --granularity 15
  salon grid --start-hour 12 --end-hour 20 --hide 14 --orientation staff-major`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			cfg, err := flags.gridConfig(cmd, a.config.Calendar, time.Now())
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
			if width <= 0 {
				width = termWidth()
			}
			t, err := a.loadTheme()
			if err != nil {
				return err
			}
			return printLayout(cmd.OutOrStdout(), l, theme.NewPalette(t), a.config.Branch.Name, width)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	cmd.Flags().IntVar(&width, "width", 0, "Output width (default: terminal width)")
	return cmd
}

func (a *App) loadTheme() (*theme.Theme, error) {
	t, err := theme.LoadFile(a.config.UI.ThemeFile, a.config.UI.Theme)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	return t, nil
}

var errNoStaff = errors.New("no active staff; add someone with: salon staff add NAME")

// printLayout writes the layout as a bordered table followed by notes on
// bookings the grid cannot show.
func printLayout(w io.Writer, l *grid.Layout, p *theme.Palette, branch string, width int) error {
	fmt.Fprintln(w, formatHeader(branch+" · "+l.Config.Date.Format("Monday, Jan 2 2006")))

	if len(l.Staff) == 0 {
		if l.Config.FiltersStaff() {
			return fmt.Errorf("no active staff member named %q", l.Config.StaffFilter)
		}
		return errNoStaff
	}
	if len(l.Slots) == 0 {
		return errors.New("no visible hours: every hour in the window is hidden")
	}

	fmt.Fprintln(w, layoutTable(l, p, width))

	for _, a := range l.Unassigned {
		fmt.Fprintln(w, formatWarn(fmt.Sprintf("! #%d %s with %s is not on the active roster", a.ID, a.TimeRange(), a.StaffName)))
	}
	for _, a := range l.Overlaps {
		fmt.Fprintln(w, formatWarn(fmt.Sprintf("! #%d %s with %s overlaps another booking", a.ID, a.TimeRange(), a.StaffName)))
	}
	for _, a := range l.Invalid {
		fmt.Fprintln(w, formatWarn(fmt.Sprintf("! #%d has an unreadable start time %q", a.ID, a.StartTime)))
	}
	return nil
}

// layoutTable renders every row and column of l. Column widths shrink to
// fit width but never below minGridCol.
func layoutTable(l *grid.Layout, p *theme.Palette, width int) string {
	rowHeaders := l.RowHeaders()
	colHeaders := l.ColumnHeaders()

	corner := "Staff"
	if l.Config.Orientation == grid.StaffMajor {
		corner = "Time"
	}
	rowW := len(corner)
	for _, h := range rowHeaders {
		rowW = max(rowW, lipgloss.Width(h))
	}

	colW := maxGridCol
	if n := len(colHeaders); n > 0 {
		colW = min(max((width-rowW-2)/n-1, minGridCol), maxGridCol)
	}

	header := lipgloss.NewStyle().Bold(true)
	headers := []string{corner}
	headerStyles := []lipgloss.Style{header.Width(rowW)}
	for _, h := range colHeaders {
		headers = append(headers, h)
		headerStyles = append(headerStyles, header.Width(colW))
	}

	var content view.TableContent
	for r, cells := range l.Rows() {
		row := []string{rowHeaders[r]}
		styles := []lipgloss.Style{header.Width(rowW)}
		for _, c := range cells {
			row = append(row, view.CellText(c, colW))
			style := lipgloss.NewStyle().Width(colW).MaxHeight(1)
			if c.Appointment != nil {
				sc := p.ForStatus(c.Appointment.Status)
				style = style.Background(sc.Bg).Foreground(sc.Text)
			} else {
				style = style.Foreground(p.FgMuted)
			}
			styles = append(styles, style)
		}
		content.Rows = append(content.Rows, row)
		content.CellStyles = append(content.CellStyles, styles)
	}

	return view.NewTable(headers, content, headerStyles).Render()
}

// hourList formats hidden hours for display.
func hourList(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d", h)
	}
	return strings.Join(parts, ",")
}
