// Package logging sets up the diagnostic log.
//
// The terminal belongs to the UI, so diagnostics go to a file.
package logging

import (
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ParseLevel maps a config level name to a slog level; unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns a text logger writing to w at level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard drops everything.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

// OpenFile appends to path and returns a logger writing there. The standard
// log package is pointed at the same file. The returned func closes it.
func OpenFile(path, level string) (*slog.Logger, func() error, error) {
	f, err := tea.LogToFile(path, "coolsave")
	if err != nil {
		return nil, nil, err
	}
	return New(f, level), f.Close, nil
}
