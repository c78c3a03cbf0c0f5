// Package commands implements the restbind-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/restbind/restbind-go/pkg/synclog"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event synclog.Event) {
	// Header line: timestamp [op:id] SOURCE KIND [VERB path]
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	opID := shortenOpID(event.OpID)

	if event.Verb != synclog.VerbNone {
		fmt.Fprintf(w, "%s [op:%s] %-10s %-9s %s %s\n",
			ts, opID, event.Source.String(), event.Kind.String(), event.Verb.String(), event.Path)
	} else {
		fmt.Fprintf(w, "%s [op:%s] %-10s %s\n",
			ts, opID, event.Source.String(), event.Kind.String())
	}

	if event.EntityID != "" {
		fmt.Fprintf(w, "  Entity: %s\n", event.EntityID)
	}

	// Start entries carry no counts; the state they describe is pre-flight.
	if event.Kind != synclog.KindOpStart {
		if event.Source == synclog.SourceCollection {
			fmt.Fprintf(w, "  Models: %d\n", event.AttrCount)
		} else {
			fmt.Fprintf(w, "  Attrs: %d\n", event.AttrCount)
		}
	}

	if event.Elapsed != nil {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(*event.Elapsed))
	}

	if event.Error != nil {
		fmt.Fprintf(w, "  Error: %s\n", event.Error.Message)
		if event.Error.StatusCode != 0 {
			fmt.Fprintf(w, "  Status: %d\n", event.Error.StatusCode)
		}
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenOpID returns the first 8 characters of the operation ID, or a
// placeholder for entries that carry none.
func shortenOpID(id string) string {
	if id == "" {
		return "--------"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseSourceFlag parses a source string from command-line flag (case-insensitive).
func ParseSourceFlag(s string) (synclog.Source, error) {
	return parseSource(s)
}

// parseSource parses a source string (case-insensitive).
func parseSource(s string) (synclog.Source, error) {
	switch strings.ToLower(s) {
	case "entity":
		return synclog.SourceEntity, nil
	case "collection":
		return synclog.SourceCollection, nil
	default:
		return 0, fmt.Errorf("invalid source: %s (must be entity or collection)", s)
	}
}

// ParseKindFlag parses a kind string from command-line flag (case-insensitive).
func ParseKindFlag(s string) (synclog.Kind, error) {
	return parseKind(s)
}

// parseKind parses a kind string (case-insensitive).
func parseKind(s string) (synclog.Kind, error) {
	switch strings.ToLower(s) {
	case "change":
		return synclog.KindChange, nil
	case "start":
		return synclog.KindOpStart, nil
	case "settle":
		return synclog.KindOpSettle, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be change, start, or settle)", s)
	}
}

// ParseVerbFlag parses a verb string from command-line flag (case-insensitive).
func ParseVerbFlag(s string) (synclog.Verb, error) {
	return parseVerb(s)
}

// parseVerb parses a verb string (case-insensitive).
func parseVerb(s string) (synclog.Verb, error) {
	switch strings.ToLower(s) {
	case "get":
		return synclog.VerbGet, nil
	case "post":
		return synclog.VerbPost, nil
	case "put":
		return synclog.VerbPut, nil
	default:
		return 0, fmt.Errorf("invalid verb: %s (must be get, post, or put)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter synclog.Filter, output io.Writer) error {
	reader, err := synclog.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
