// Package logging builds the per-run logger: every record goes to the run
// log file, and records at or above the console level also go to stdout.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"

	"github.com/IshaanNene/newsbot/internal/config"
)

// New creates the run logger described by cfg. The returned close func
// flushes and closes the log file; call it when the run ends.
func New(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, func() error, error) {
	if console == nil {
		console = os.Stdout
	}

	consoleHandler := tint.NewHandler(console, &tint.Options{
		Level:      ParseLevel(cfg.ConsoleLevel),
		TimeFormat: time.DateTime,
		NoColor:    !cfg.Color,
	})

	if cfg.File == "" {
		return slog.New(consoleHandler), func() error { return nil }, nil
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	fileHandler := slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	})

	logger := slog.New(slogmulti.Fanout(fileHandler, consoleHandler))
	closeFn := func() error {
		return errors.Join(f.Sync(), f.Close())
	}
	return logger, closeFn, nil
}

// ParseLevel maps debug/info/warn/error to a slog level. Unknown names
// give info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
