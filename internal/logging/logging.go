// Package logging builds the zap logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the log file used by --debug when no file is configured.
const DebugLogPath = "salon-debug.log"

// Options controls where and how much is logged.
type Options struct {
	Level string // "debug", "info", "warn", "error"
	File  string // JSON log file; empty disables logging unless Debug is set
	Debug bool   // force debug level, falling back to DebugLogPath
}

// New returns a logger for opts. With no file and no debug flag it returns a
// no-op logger: the TUI owns the terminal, so nothing is written to stderr.
func New(opts Options) (*zap.Logger, error) {
	file := opts.File
	level := opts.Level
	if opts.Debug {
		level = "debug"
		if file == "" {
			file = DebugLogPath
		}
	}
	if file == "" {
		return zap.NewNop(), nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	cfg.OutputPaths = []string{file}
	cfg.ErrorOutputPaths = []string{file}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("salon"), nil
}

// ParseLevel parses a level name. An empty name means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
