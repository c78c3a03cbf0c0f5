package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/restbind/restbind-go/pkg/synclog"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output     string
	OpID       string
	EntityID   string
	Path       string
	TimeStart  string
	TimeEnd    string
	Source     string
	Kind       string
	Verb       string
	FailedOnly bool
}

// RunFilter filters the journal file and writes matching events to a new file.
func RunFilter(path string, opts FilterOptions) error {
	// Build filter
	filter := synclog.Filter{
		OpID:       opts.OpID,
		EntityID:   opts.EntityID,
		Path:       opts.Path,
		FailedOnly: opts.FailedOnly,
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if opts.Source != "" {
		s, err := parseSource(opts.Source)
		if err != nil {
			return err
		}
		filter.Source = &s
	}

	if opts.Kind != "" {
		k, err := parseKind(opts.Kind)
		if err != nil {
			return err
		}
		filter.Kind = &k
	}

	if opts.Verb != "" {
		v, err := parseVerb(opts.Verb)
		if err != nil {
			return err
		}
		filter.Verb = &v
	}

	// Open input
	reader, err := synclog.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer reader.Close()

	// Create file logger to write filtered events
	logger, err := synclog.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
	return nil
}
