package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const compactTimeLayout = "2006-01-02 15:04:05"

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
)

// CompactHandler writes one line per record:
//
//	2026-03-02 10:40:35  WARN Secondary repair failed → {"error":"timeout"}
//
// Attribute keys inside groups are joined with '.'.
type CompactHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	colors bool
	attrs  []slog.Attr
	prefix string
}

// NewCompactHandler returns a CompactHandler writing to w. Colors are enabled
// when w is a terminal.
func NewCompactHandler(w io.Writer, level slog.Leveler) *CompactHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CompactHandler{
		mu:     &sync.Mutex{},
		out:    w,
		level:  level,
		colors: isTerminal(w),
	}
}

// Enabled reports whether level is at or above the handler's level.
func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r.
func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	if !r.Time.IsZero() {
		buf = append(buf, r.Time.Format(compactTimeLayout)...)
		buf = append(buf, ' ')
	}

	level := fmt.Sprintf("%5s", r.Level.String())
	if h.colors {
		buf = append(buf, colorForLevel(r.Level)...)
		buf = append(buf, level...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, level...)
	}
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	attrs := make(map[string]any)
	for _, a := range h.attrs {
		addAttr(attrs, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(attrs, h.prefix, a)
		return true
	})

	if len(attrs) > 0 {
		encoded, err := json.Marshal(attrs)
		if err != nil {
			encoded = []byte(`{"log_error":"unencodable attributes"}`)
		}
		buf = append(buf, " → "...)
		buf = append(buf, encoded...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if a.Key == "" {
			continue
		}
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a handler that nests later attributes under name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// addAttr flattens a into attrs. encoding/json sorts map keys, so the output
// order is stable.
func addAttr(attrs map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		if a.Key != "" {
			prefix = key + "."
		}
		for _, ga := range group {
			addAttr(attrs, prefix, ga)
		}
	case slog.KindDuration:
		attrs[key] = a.Value.Duration().String()
	case slog.KindTime:
		attrs[key] = a.Value.Time().Format(time.RFC3339)
	default:
		v := a.Value.Any()
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		attrs[key] = v
	}
}

func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return colorBlue
	case level < slog.LevelWarn:
		return colorGreen
	case level < slog.LevelError:
		return colorYellow
	default:
		return colorRed
	}
}
