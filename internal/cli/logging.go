package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"timetracker/internal/config"
)

// OpenLogger builds the slog logger described by cfg.Log. The TUI owns the
// terminal, so logs go to a file or nowhere. The returned func closes the file.
func OpenLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	path := strings.TrimSpace(cfg.Log.File)
	if path == "" || path == "-" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return logger, f.Close, nil
}
