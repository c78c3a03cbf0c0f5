package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/restbind/restbind-go/pkg/synclog"
)

func TestFilterByOpID(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 0, time.UTC)
	events := []synclog.Event{
		{Timestamp: ts, OpID: "op-1", Source: synclog.SourceEntity, Kind: synclog.KindOpStart, Verb: synclog.VerbGet},
		{Timestamp: ts, OpID: "op-2", Source: synclog.SourceEntity, Kind: synclog.KindOpStart, Verb: synclog.VerbGet},
		{Timestamp: ts, OpID: "op-1", Source: synclog.SourceEntity, Kind: synclog.KindOpSettle, Verb: synclog.VerbGet},
	}

	path := createTestJournal(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.rblog")

	err := RunFilter(path, FilterOptions{
		Output: outPath,
		OpID:   "op-1",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	// Verify output
	reader, err := synclog.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		if event.OpID != "op-1" {
			t.Errorf("expected op-1, got %s", event.OpID)
		}
		count++
	}

	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestFilterByTimeRange(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []synclog.Event{
		{Timestamp: base, Source: synclog.SourceEntity, Kind: synclog.KindChange},
		{Timestamp: base.Add(time.Hour), Source: synclog.SourceEntity, Kind: synclog.KindChange},
		{Timestamp: base.Add(2 * time.Hour), Source: synclog.SourceEntity, Kind: synclog.KindChange},
	}

	path := createTestJournal(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.rblog")

	err := RunFilter(path, FilterOptions{
		Output:    outPath,
		TimeStart: base.Add(30 * time.Minute).Format(time.RFC3339),
		TimeEnd:   base.Add(90 * time.Minute).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	// Verify output - should only have the 10:00 + 1hr event
	reader, err := synclog.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		_, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		count++
	}

	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestFilterCommandByVerb(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []synclog.Event{
		{Timestamp: ts, OpID: "op-1", Kind: synclog.KindOpStart, Verb: synclog.VerbGet},
		{Timestamp: ts, OpID: "op-2", Kind: synclog.KindOpStart, Verb: synclog.VerbPost},
		{Timestamp: ts, OpID: "op-3", Kind: synclog.KindOpStart, Verb: synclog.VerbPut},
	}

	path := createTestJournal(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.rblog")

	err := RunFilter(path, FilterOptions{
		Output: outPath,
		Verb:   "post",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	reader, err := synclog.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		if event.Verb != synclog.VerbPost {
			t.Errorf("expected POST verb, got %v", event.Verb)
		}
		count++
	}

	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestFilterKeepsOnlyFailures(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []synclog.Event{
		{Timestamp: ts, OpID: "op-1", Kind: synclog.KindOpSettle, Verb: synclog.VerbGet},
		{Timestamp: ts, OpID: "op-2", Kind: synclog.KindOpSettle, Verb: synclog.VerbGet,
			Error: &synclog.ErrorData{Message: "boom", StatusCode: 500}},
	}

	path := createTestJournal(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.rblog")

	err := RunFilter(path, FilterOptions{
		Output:     outPath,
		FailedOnly: true,
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	reader, err := synclog.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		if !event.Failed() {
			t.Error("expected only failed events")
		}
		count++
	}

	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestFilterInvalidTimeFormat(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []synclog.Event{
		{Timestamp: ts, Source: synclog.SourceEntity, Kind: synclog.KindChange},
	}

	path := createTestJournal(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.rblog")

	err := RunFilter(path, FilterOptions{
		Output:    outPath,
		TimeStart: "yesterday",
	})
	if err == nil {
		t.Error("expected error for invalid time format")
	}
}

func TestFilterWritesCBOR(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []synclog.Event{
		{Timestamp: ts, OpID: "op-1", Source: synclog.SourceEntity, Kind: synclog.KindOpStart, Verb: synclog.VerbGet, Path: "/api/todos/1"},
	}

	path := createTestJournal(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.rblog")

	err := RunFilter(path, FilterOptions{
		Output: outPath,
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	// Verify it's readable as CBOR
	reader, err := synclog.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output as CBOR: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != nil {
		t.Fatalf("failed to read event: %v", err)
	}

	if event.OpID != "op-1" {
		t.Errorf("expected op-1, got %s", event.OpID)
	}
	if event.Path != "/api/todos/1" {
		t.Errorf("expected /api/todos/1, got %s", event.Path)
	}
}
