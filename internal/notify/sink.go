// Package notify defines the notification sink the engine reports
// user-visible transitions to. The sink is fire-and-forget: it must never
// block and is never required for correctness.
package notify

import (
	"io"
	"log/slog"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Event is one structured notification.
type Event struct {
	Level  Level
	Title  string
	Detail string
	Href   string
}

// Options controls presentation hints for the hosting surface.
type Options struct {
	Toast bool
}

type Sink interface {
	Emit(event Event, opts Options)
}

// NoopSink discards all events.
type NoopSink struct{}

func (NoopSink) Emit(Event, Options) {}

// Emit sends the event to the sink, tolerating nil sinks and panicking
// implementations. Notification failures are swallowed; they must never
// reach engine callers.
func Emit(s Sink, e Event, o Options) {
	if s == nil {
		return
	}
	defer func() { _ = recover() }()
	s.Emit(e, o)
}

type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink writes notifications as structured log lines.
func NewSlogSink(w io.Writer) Sink {
	if w == nil {
		return NoopSink{}
	}
	return &slogSink{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (s *slogSink) Emit(e Event, o Options) {
	attrs := []any{
		"level", string(e.Level),
		"title", e.Title,
		"toast", o.Toast,
	}
	if e.Detail != "" {
		attrs = append(attrs, "detail", e.Detail)
	}
	if e.Href != "" {
		attrs = append(attrs, "href", e.Href)
	}
	switch e.Level {
	case LevelError:
		s.logger.Error("notification", attrs...)
	case LevelWarn:
		s.logger.Warn("notification", attrs...)
	default:
		s.logger.Info("notification", attrs...)
	}
}
