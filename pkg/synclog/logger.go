package synclog

// Logger is the interface applications implement to receive journal events.
// Pass NoopLogger to disable journaling.
type Logger interface {
	// Log records a journal event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking delays
	// the binding layer.
	Log(event Event)
}

// NoopLogger discards all events. Use when journaling is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
