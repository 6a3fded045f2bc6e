package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/tui/theme"
	"github.com/javiermolinar/salon/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg     lipgloss.Color
	colorAccent lipgloss.Color

	// Title bar
	TitleStyle lipgloss.Style
	InfoStyle  lipgloss.Style

	// Table headers
	CornerStyle       lipgloss.Style
	RowHeaderStyle    lipgloss.Style
	ColumnHeaderStyle lipgloss.Style
	NowHeaderStyle    lipgloss.Style // column or row holding the current time
	BorderStyle       lipgloss.Style

	// Cells
	EmptyCellStyle lipgloss.Style
	CursorStyle    lipgloss.Style

	// Footer
	LegendStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Prompt
	PromptStyle       lipgloss.Style
	PromptText        lipgloss.Style
	PromptPlaceholder lipgloss.Style

	// Modal
	Modal            view.ModalStyles
	ModalBgColor     lipgloss.Color
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputCursor      lipgloss.Style
	InputFocused     lipgloss.Style
	InputBlurred     lipgloss.Style
	WarningStyle     lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{
		palette:     p,
		colorBg:     p.Bg,
		colorAccent: p.Accent,
	}

	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s.TitleStyle = base.Bold(true).Foreground(p.Accent)
	s.InfoStyle = base.Foreground(p.FgMuted)

	s.CornerStyle = base.Bold(true).Foreground(p.Accent)
	s.RowHeaderStyle = base.Bold(true)
	s.ColumnHeaderStyle = base.Bold(true).Align(lipgloss.Center)
	s.NowHeaderStyle = s.ColumnHeaderStyle.Foreground(p.Accent)
	s.BorderStyle = lipgloss.NewStyle().Foreground(p.Accent).Background(p.Bg)

	s.EmptyCellStyle = base.Foreground(p.FgMuted).Align(lipgloss.Center)
	s.CursorStyle = lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true)

	s.LegendStyle = base.Foreground(p.FgMuted)
	s.StatusStyle = base.Foreground(p.Accent)
	s.ErrorStyle = base.Foreground(p.Warning).Bold(true)
	s.HelpStyle = base.Foreground(p.FgMuted)

	s.PromptStyle = base
	s.PromptText = base
	s.PromptPlaceholder = base.Foreground(p.FgMuted)

	modalBg := p.Modal.Bg
	s.ModalBgColor = modalBg
	modalBase := lipgloss.NewStyle().Background(modalBg).Foreground(p.Modal.Text)
	s.Modal = view.ModalStyles{
		Frame: modalBase.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Modal.Border).
			BorderBackground(modalBg).
			Padding(1, 2),
		Title:        modalBase.Bold(true).Foreground(p.Accent),
		Body:         modalBase,
		Label:        modalBase.Foreground(p.Modal.Muted),
		Muted:        modalBase.Foreground(p.Modal.Muted),
		Footer:       modalBase.Foreground(p.Modal.Muted),
		Button:       modalBase.Foreground(p.Modal.Muted).Padding(0, 1),
		ButtonActive: lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true).Padding(0, 1),
	}
	s.InputText = modalBase
	s.InputPlaceholder = modalBase.Foreground(p.Modal.Muted)
	s.InputCursor = lipgloss.NewStyle().Foreground(p.Accent)
	s.InputFocused = modalBase.Foreground(p.Accent).Bold(true)
	s.InputBlurred = modalBase.Foreground(p.Modal.Muted)
	s.WarningStyle = modalBase.Foreground(p.Warning)

	s.AppStyle = lipgloss.NewStyle().Background(p.Bg)
	return s
}

// BlockStyle returns the block style of an appointment status. Unknown
// statuses render neutrally.
func (s *Styles) BlockStyle(status booking.Status) lipgloss.Style {
	c := s.palette.ForStatus(status)
	return lipgloss.NewStyle().Background(c.Bg).Foreground(c.Text)
}

// StatusBadge renders a status label in its accent color.
func (s *Styles) StatusBadge(status booking.Status) string {
	c := s.palette.ForStatus(status)
	return lipgloss.NewStyle().Foreground(c.Accent).Bold(true).Render(status.Label())
}

// CellStyle returns the style of one grid cell.
func (s *Styles) CellStyle(c grid.Cell, selected bool, width int) lipgloss.Style {
	var style lipgloss.Style
	switch c.Kind {
	case grid.Start:
		style = s.BlockStyle(c.Appointment.Status).Bold(true)
	case grid.Continuation:
		style = s.BlockStyle(c.Appointment.Status).Align(lipgloss.Center)
	default:
		style = s.EmptyCellStyle
	}
	if selected {
		style = style.Background(s.palette.BgSelection).Foreground(s.palette.Fg)
	}
	return style.Width(width).MaxHeight(1)
}
