// Package progress carries log lines and progress updates from the payroll
// engine to whoever drives it.
package progress

import (
	"context"
	"log/slog"
)

// Stage names a phase of a run.
type Stage string

const (
	StageParse  Stage = "parse"
	StageReport Stage = "report"
	StageSave   Stage = "save"
)

// Sink receives leveled log lines and progress updates. Implementations must
// be safe to call from a goroutine other than the one that consumes them.
type Sink interface {
	Log(level slog.Level, msg string, args ...any)
	Progress(stage Stage, percent int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Log(slog.Level, string, ...any) {}
func (Nop) Progress(Stage, int)            {}

// Logger writes log lines to a slog.Logger and reports progress at debug level.
type Logger struct {
	L *slog.Logger
}

// NewLogger wraps l; a nil l uses slog.Default().
func NewLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return Logger{L: l}
}

func (s Logger) Log(level slog.Level, msg string, args ...any) {
	s.L.Log(context.Background(), level, msg, args...)
}

func (s Logger) Progress(stage Stage, percent int) {
	s.L.Debug("progress", "stage", string(stage), "percent", Clamp(percent))
}

// Clamp limits a percentage to 0..100.
func Clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

// Scaled maps the 0..100 progress of a sub-task onto Lo..Hi of the parent
// sink. Log lines pass through unchanged.
type Scaled struct {
	Sink   Sink
	Lo, Hi int
}

func (s Scaled) Log(level slog.Level, msg string, args ...any) {
	s.Sink.Log(level, msg, args...)
}

func (s Scaled) Progress(stage Stage, percent int) {
	s.Sink.Progress(stage, s.Lo+(s.Hi-s.Lo)*Clamp(percent)/100)
}
