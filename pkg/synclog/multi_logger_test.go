package synclog

import (
	"testing"
	"time"
)

// countingLogger records how many events it received.
type countingLogger struct {
	events []Event
}

func (c *countingLogger) Log(event Event) {
	c.events = append(c.events, event)
}

func TestMultiLoggerFanOut(t *testing.T) {
	a := &countingLogger{}
	b := &countingLogger{}
	multi := NewMultiLogger(a, b)

	event := Event{Timestamp: time.Now(), Kind: KindChange, AttrCount: 4}
	multi.Log(event)

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("fan-out: got %d/%d events, want 1/1", len(a.events), len(b.events))
	}
	if a.events[0].AttrCount != 4 {
		t.Errorf("AttrCount: got %d, want 4", a.events[0].AttrCount)
	}
}

func TestMultiLoggerEmpty(t *testing.T) {
	multi := NewMultiLogger()
	// Must not panic.
	multi.Log(Event{Timestamp: time.Now(), Kind: KindChange})
}
