// Package klog is the structured logger used by the kernel, message
// layer, and harness binaries. It replaces the teacher's
// text_color_set/dw_printf console coloring with a leveled,
// field-carrying logger, while keeping the same idea of a single
// shared sink configured once at startup.
package klog

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// Logger is the interface the rest of the module depends on, so tests
// can substitute a silent or buffering logger without pulling in
// charmbracelet/log.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

type charmLogger struct {
	*log.Logger
}

func (c charmLogger) With(keyvals ...any) Logger {
	return charmLogger{c.Logger.With(keyvals...)}
}

// New builds a Logger writing to w at the given level ("debug",
// "info", "warn", "error"). An unrecognized level falls back to info,
// matching the teacher's tolerant flag parsing elsewhere in the repo.
func New(w io.Writer, level string) Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	return charmLogger{l}
}

// Discard is a Logger that drops everything, used by default in tests
// so that scheduler/message-layer unit tests stay quiet.
var Discard Logger = New(io.Discard, "error")

// SessionFilePattern expands an strftime pattern (as accepted by the
// teacher's "-T" timestamp-format flag in kissutil.go) against the
// current time, for naming a per-run log file.
func SessionFilePattern(pattern string, at time.Time) (string, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return "", err
	}
	return f.FormatString(at), nil
}

// OpenSessionFile opens (creating if needed) a log file whose name is
// derived from pattern, mirroring the teacher's log_init daily-file
// naming in log.go but driven by strftime instead of hand-rolled
// strftime-lite formatting.
func OpenSessionFile(dir, pattern string, at time.Time) (*os.File, error) {
	name, err := SessionFilePattern(pattern, at)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(dir+string(os.PathSeparator)+name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
