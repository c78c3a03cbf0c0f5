package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/restbind/restbind-go/pkg/synclog"
)

// Stats holds aggregate statistics about a journal file.
type Stats struct {
	TotalEvents    int
	EventsBySource map[synclog.Source]int
	EventsByKind   map[synclog.Kind]int
	EventsByVerb   map[synclog.Verb]int
	Operations     map[string]*OperationStats
	Failures       int
	TimeRange      struct {
		Start time.Time
		End   time.Time
	}
}

// OperationStats holds statistics for a single synchronization operation.
type OperationStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Source    synclog.Source
	Verb      synclog.Verb
	Path      string
	EntityID  string
	Settled   bool
	Failed    bool
	Elapsed   time.Duration
}

// RunStats analyzes the journal file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := synclog.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsBySource: make(map[synclog.Source]int),
		EventsByKind:   make(map[synclog.Kind]int),
		EventsByVerb:   make(map[synclog.Verb]int),
		Operations:     make(map[string]*OperationStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsBySource[event.Source]++
		stats.EventsByKind[event.Kind]++
		if event.Verb != synclog.VerbNone {
			stats.EventsByVerb[event.Verb]++
		}

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track per-operation stats
		if event.OpID != "" {
			op, ok := stats.Operations[event.OpID]
			if !ok {
				op = &OperationStats{
					FirstSeen: event.Timestamp,
					LastSeen:  event.Timestamp,
					Source:    event.Source,
				}
				stats.Operations[event.OpID] = op
			}
			op.Events++
			if event.Timestamp.After(op.LastSeen) {
				op.LastSeen = event.Timestamp
			}
			if event.Verb != synclog.VerbNone && op.Verb == synclog.VerbNone {
				op.Verb = event.Verb
			}
			if event.Path != "" && op.Path == "" {
				op.Path = event.Path
			}
			// Settle entries carry the post-merge identity, so last wins.
			if event.EntityID != "" {
				op.EntityID = event.EntityID
			}
			if event.Kind == synclog.KindOpSettle {
				op.Settled = true
				if event.Elapsed != nil {
					op.Elapsed = *event.Elapsed
				}
				if event.Failed() {
					op.Failed = true
				}
			}
		}

		// Count failures
		if event.Failed() {
			stats.Failures++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Sync Journal Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by source
	fmt.Fprintln(w, "Events by Source:")
	for _, src := range []synclog.Source{synclog.SourceEntity, synclog.SourceCollection} {
		if count := stats.EventsBySource[src]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", src.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by kind
	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range []synclog.Kind{synclog.KindChange, synclog.KindOpStart, synclog.KindOpSettle} {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by verb
	fmt.Fprintln(w, "Events by Verb:")
	for _, verb := range []synclog.Verb{synclog.VerbGet, synclog.VerbPost, synclog.VerbPut} {
		if count := stats.EventsByVerb[verb]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", verb.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Operations
	fmt.Fprintf(w, "Operations: %d\n", len(stats.Operations))
	if len(stats.Operations) > 0 {
		// Sort by first seen time
		type opInfo struct {
			id    string
			stats *OperationStats
		}
		ops := make([]opInfo, 0, len(stats.Operations))
		for id, st := range stats.Operations {
			ops = append(ops, opInfo{id, st})
		}
		sort.Slice(ops, func(i, j int) bool {
			return ops[i].stats.FirstSeen.Before(ops[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, o := range ops {
			shortID := o.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %s %s\n", shortID, o.stats.Verb.String(), o.stats.Path)
			if o.stats.EntityID != "" {
				fmt.Fprintf(w, "           Entity: %s\n", o.stats.EntityID)
			}
			switch {
			case !o.stats.Settled:
				fmt.Fprintln(w, "           Result: pending")
			case o.stats.Failed:
				fmt.Fprintf(w, "           Result: failed after %s\n", formatDuration(o.stats.Elapsed))
			default:
				fmt.Fprintf(w, "           Result: ok after %s\n", formatDuration(o.stats.Elapsed))
			}
		}
	}

	// Failures
	if stats.Failures > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Failures: %d\n", stats.Failures)
	}
}
