// Package logging builds the process logger from the LOG_FORMAT and
// LOG_LEVEL settings.
//
// Formats:
//   - text: slog.TextHandler, key=value pairs.
//   - json: slog.JSONHandler, one object per line for log aggregation.
//   - compact: one human-readable line per record with the attributes as a
//     JSON object, colored when writing to a terminal.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the handler.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatCompact Format = "compact"
)

// ParseFormat maps s to a Format. The second result is false for unknown
// names.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCompact:
		return f, true
	}
	return "", false
}

// New returns a logger writing records at or above level to w.
func New(w io.Writer, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts))
	case FormatCompact:
		return slog.New(NewCompactHandler(w, level))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
