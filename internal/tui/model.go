// Package tui provides the terminal calendar for salon.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/config"
	"github.com/javiermolinar/salon/internal/grid"
	"github.com/javiermolinar/salon/internal/llm"
	"github.com/javiermolinar/salon/internal/tui/commands"
	"github.com/javiermolinar/salon/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeModal
)

func (m Mode) String() string {
	switch m {
	case ModePrompt:
		return "prompt"
	case ModeModal:
		return "modal"
	default:
		return "normal"
	}
}

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone        ModalType = iota
	ModalDetail                // Appointment details and status picker
	ModalBookingForm           // New booking in an empty cell
	ModalDraft                 // Booking drafted by the assistant
)

// Position is the cursor in the layout's current orientation.
type Position struct {
	Row int
	Col int
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo      booking.Repository
	config    *config.Config
	logger    *zap.Logger
	callbacks Callbacks
	now       func() time.Time

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Layout state. gridCfg is immutable: every change replaces it and
	// rebuilds layout from the loaded day.
	gridCfg      grid.Config
	layout       *grid.Layout
	staff        []*booking.StaffMember
	appointments []*booking.Appointment
	loading      bool
	focused      bool // cursor was placed on the current time once

	cursor Position
	scroll Position
	mode   Mode

	// Modal state
	modalType ModalType
	detail    *booking.Appointment // shown in ModalDetail
	form      bookingForm
	draft     *llm.BookingDraft
	draftErr  error // CheckDraft result for the shown draft

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusTime time.Time
	err        error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger used for key presses, layout changes and callbacks.
func WithLogger(logger *zap.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithCallbacks replaces the default callbacks. Nil entries keep the default.
func WithCallbacks(cb Callbacks) ModelOption {
	return func(m *Model) {
		m.callbacks = cb.withDefaults(m.repo)
	}
}

// WithClock sets the function used for "today" and the current time.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// WithTheme overrides the configured theme.
func WithTheme(t *theme.Theme) ModelOption {
	return func(m *Model) {
		m.theme = t
	}
}

// New creates a new TUI model showing today.
func New(repo booking.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	m := &Model{
		repo:      repo,
		config:    cfg,
		logger:    zap.NewNop(),
		callbacks: Callbacks{}.withDefaults(repo),
		now:       time.Now,
		mode:      ModeNormal,
		loading:   repo != nil,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.theme == nil {
		t, err := theme.LoadFile(cfg.UI.ThemeFile, cfg.UI.Theme)
		if err != nil {
			m.logger.Warn("falling back to built-in theme", zap.Error(err))
			t = theme.Load(cfg.UI.Theme)
		}
		m.theme = t
	}
	m.styles = NewStyles(m.theme)

	m.prompt = textinput.New()
	m.prompt.Placeholder = "/book Mia, balayage with Sara tomorrow 3pm"
	m.prompt.Prompt = "> "
	m.prompt.CharLimit = 512
	m.prompt.PlaceholderStyle = m.styles.PromptPlaceholder
	m.prompt.TextStyle = m.styles.PromptText
	m.prompt.Cursor.Style = m.styles.InputCursor

	m.gridCfg = cfg.Calendar.GridConfig(m.now())
	m.rebuild()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.repo == nil {
		return nil
	}
	return commands.LoadDay(m.repo, m.gridCfg.Date)
}

// Run starts the TUI.
func Run(repo booking.Repository, cfg *config.Config, logger *zap.Logger) error {
	model := New(repo, cfg, WithLogger(logger))
	model.logger.Debug("starting calendar",
		zap.String("date", model.layout.DateISO()),
		zap.String("theme", model.theme.Name))

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
