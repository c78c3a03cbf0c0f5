package synclog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes journal events to an slog.Logger.
// Useful for development when you want to see binding activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("source", event.Source.String()),
		slog.String("kind", event.Kind.String()),
	}

	if event.OpID != "" {
		attrs = append(attrs, slog.String("op_id", event.OpID))
	}
	if event.Verb != VerbNone {
		attrs = append(attrs, slog.String("verb", event.Verb.String()))
	}
	if event.Path != "" {
		attrs = append(attrs, slog.String("path", event.Path))
	}
	if event.EntityID != "" {
		attrs = append(attrs, slog.String("entity_id", event.EntityID))
	}
	if event.Kind == KindChange || event.Kind == KindOpSettle {
		attrs = append(attrs, slog.Int("attr_count", event.AttrCount))
	}
	if event.Elapsed != nil {
		attrs = append(attrs, slog.Duration("elapsed", *event.Elapsed))
	}
	if event.Error != nil {
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.StatusCode != 0 {
			attrs = append(attrs, slog.Int("status", event.Error.StatusCode))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "binding", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
