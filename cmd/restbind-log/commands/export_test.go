package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/restbind/restbind-go/pkg/synclog"
)

func createTestJournal(t *testing.T, events []synclog.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rblog")

	logger, err := synclog.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 123456000, time.UTC)
	elapsed := 18 * time.Millisecond
	events := []synclog.Event{
		{
			Timestamp: ts,
			OpID:      "op-42",
			Source:    synclog.SourceEntity,
			Kind:      synclog.KindOpStart,
			Verb:      synclog.VerbGet,
			Path:      "/api/todos/7",
			EntityID:  "7",
		},
		{
			Timestamp: ts.Add(time.Second),
			OpID:      "op-42",
			Source:    synclog.SourceEntity,
			Kind:      synclog.KindOpSettle,
			Verb:      synclog.VerbGet,
			Path:      "/api/todos/7",
			EntityID:  "7",
			AttrCount: 4,
			Elapsed:   &elapsed,
		},
	}

	path := createTestJournal(t, events)

	// Export to JSONL in memory (via temp file)
	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	err := RunExport(path, "jsonl", outPath)
	if err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	// Read and verify
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}

	// Parse first line
	var event1 map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event1); err != nil {
		t.Errorf("failed to parse line 1: %v", err)
	}
	if event1["OpID"] != "op-42" {
		t.Errorf("expected OpID op-42, got %v", event1["OpID"])
	}
	if event1["Path"] != "/api/todos/7" {
		t.Errorf("expected Path /api/todos/7, got %v", event1["Path"])
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 0, time.UTC)
	events := []synclog.Event{
		{
			Timestamp: ts,
			OpID:      "op-42",
			Source:    synclog.SourceCollection,
			Kind:      synclog.KindOpSettle,
			Verb:      synclog.VerbGet,
			Path:      "/api/todos",
			AttrCount: 3,
		},
	}

	path := createTestJournal(t, events)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	err := RunExport(path, "csv", outPath)
	if err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	// Check header
	if !strings.HasPrefix(string(data), "timestamp,op_id,source,kind,verb") {
		t.Errorf("expected CSV header, got: %s", string(data[:50]))
	}

	// Check data row exists
	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		t.Errorf("expected header + data row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "/api/todos") {
		t.Errorf("expected request path in data row, got: %s", lines[1])
	}
}

func TestExportWritesToStdout(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 0, time.UTC)
	events := []synclog.Event{
		{
			Timestamp: ts,
			Source:    synclog.SourceEntity,
			Kind:      synclog.KindChange,
			EntityID:  "7",
			AttrCount: 2,
		},
	}

	path := createTestJournal(t, events)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunExport(path, "jsonl", "") // empty output means stdout

	w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)

	if buf.Len() == 0 {
		t.Error("expected output to stdout")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 0, time.UTC)
	events := []synclog.Event{
		{
			Timestamp: ts,
			Source:    synclog.SourceEntity,
			Kind:      synclog.KindChange,
		},
	}

	path := createTestJournal(t, events)
	outPath := filepath.Join(t.TempDir(), "out.xml")

	err := RunExport(path, "xml", outPath)
	if err == nil {
		t.Error("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected 'unknown format' error, got: %v", err)
	}
}
