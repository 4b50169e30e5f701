// Package logging builds the application's charmbracelet/log logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rewarded-arcade/internal/config"
)

// New returns a logger writing to w at the configured level.
func New(w io.Writer, cfg config.LogConfig, prefix string) (*log.Logger, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// OpenFile returns a logger appending to the configured file, for the
// interactive UI where stderr belongs to the terminal. The returned closer
// releases the file.
func OpenFile(cfg config.LogConfig, prefix string) (*log.Logger, io.Closer, error) {
	path, err := ExpandHome(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		logger, err := New(io.Discard, cfg, prefix)
		return logger, nopCloser{}, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: cannot open log file: %w", err)
	}

	logger, err := New(f, cfg, prefix)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("logging: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
