package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/restbind/restbind-go/pkg/synclog"
)

// RunExport exports the journal file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := synclog.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *synclog.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *synclog.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	// Write header
	header := []string{"timestamp", "op_id", "source", "kind", "verb", "path", "entity_id", "attr_count", "elapsed", "error", "status_code"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		elapsed := ""
		if event.Elapsed != nil {
			elapsed = event.Elapsed.String()
		}

		errMsg := ""
		statusCode := ""
		if event.Error != nil {
			errMsg = event.Error.Message
			if event.Error.StatusCode != 0 {
				statusCode = fmt.Sprintf("%d", event.Error.StatusCode)
			}
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.OpID,
			event.Source.String(),
			event.Kind.String(),
			event.Verb.String(),
			event.Path,
			event.EntityID,
			fmt.Sprintf("%d", event.AttrCount),
			elapsed,
			errMsg,
			statusCode,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
