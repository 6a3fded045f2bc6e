package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/config"
	"github.com/javiermolinar/salon/internal/db"
	"github.com/javiermolinar/salon/internal/logging"
	"github.com/javiermolinar/salon/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// calendarCacheTTL bounds how stale the calendar is after another process
// writes to the database.
const calendarCacheTTL = 30 * time.Second

// App holds the CLI application state.
type App struct {
	repo     booking.Repository
	ownsRepo bool // repo was opened by ensureRepo and is closed by Close
	config   *config.Config
	logger   *zap.Logger
	root     *cobra.Command
	in       io.Reader
	debug    bool // Enable debug logging
}

// NewApp creates a new CLI application. A nil repo is opened lazily from
// the configured database path; a nil logger logs nothing.
func NewApp(repo booking.Repository, cfg *config.Config, logger *zap.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{repo: repo, config: cfg, logger: logger, in: os.Stdin}

	a.root = &cobra.Command{
		Use:   "salon",
		Short: "A terminal appointment book for salons",
		Long: `Salon shows the day's appointments as a staff × time grid.

Run without arguments to open the calendar. The subcommands book,
change and print appointments from scripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !a.debug {
				return nil
			}
			logger, err := logging.New(logging.Options{
				Level: a.config.Log.Level,
				File:  a.config.Log.File,
				Debug: true,
			})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.Run(db.NewCached(a.repo, calendarCacheTTL), a.config, a.logger)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (to log.file or "+logging.DebugLogPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.gridCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.bookCmd())
	a.root.AddCommand(a.statusCmd())
	a.root.AddCommand(a.staffCmd())
	a.root.AddCommand(a.summaryCmd())
	a.root.AddCommand(a.freeCmd())
	a.root.AddCommand(a.assistCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "salon %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRepo opens the configured database unless a repository was given.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	storage := a.config.Storage
	target := storage.DSN
	if storage.Driver != config.DriverPostgres {
		path, err := resolvePath(storage.DBPath)
		if err != nil {
			return err
		}
		target = path
	}
	repo, err := db.Open(context.Background(), storage.Driver, target)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.logger.Debug("opened database", zap.String("driver", storage.Driver))
	a.repo = repo
	a.ownsRepo = true
	return nil
}

// Close releases the database opened by the app and flushes the logger.
func (a *App) Close() error {
	_ = a.logger.Sync()
	if a.repo == nil || !a.ownsRepo {
		return nil
	}
	return a.repo.Close()
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// confirm asks a yes/no question on the command's output.
func (a *App) confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	input, _ := bufio.NewReader(a.in).ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
