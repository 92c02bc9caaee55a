package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// LogFileName is the file written inside the configured log directory.
const LogFileName = "booth.log"

// boothHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<command>\t<message>\t<key=value ...>
//
// Lines are written with a single Write so concurrent requests do not interleave.
type boothHandler struct {
	mu      *sync.Mutex
	w       io.Writer
	command string
	level   slog.Leveler
	attrs   []slog.Attr
}

func newBoothHandler(w io.Writer, command string, level slog.Leveler) *boothHandler {
	return &boothHandler{mu: &sync.Mutex{}, w: w, command: command, level: level}
}

func (h *boothHandler) Enabled(_ context.Context, l slog.Level) bool {
	if h.level == nil {
		return true
	}
	return l >= h.level.Level()
}

func (h *boothHandler) Handle(_ context.Context, r slog.Record) error {
	buf := fmt.Appendf(nil, "%s\t%s\t%s\t%s",
		r.Time.UTC().Format("2006-01-02T15:04:05Z"), r.Level, h.command, r.Message)

	for _, a := range h.attrs {
		buf = fmt.Appendf(buf, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = fmt.Appendf(buf, "\t%s=%v", a.Key, a.Value)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func (h *boothHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &boothHandler{
		mu:      h.mu,
		w:       h.w,
		command: h.command,
		level:   h.level,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *boothHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger that writes to both logDir/booth.log and stderr.
// It returns the slog.Logger, the open log file (for cleanup), and any error.
func newLogger(logDir, command string, level slog.Leveler) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	h := newBoothHandler(io.MultiWriter(f, os.Stderr), command, level)
	return slog.New(h), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the booth.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
