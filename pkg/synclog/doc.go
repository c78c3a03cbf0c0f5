// Package synclog provides a structured journal of binding activity.
//
// This package defines the Logger interface and Event types for capturing
// what the binding layer does: local attribute changes, the start of
// synchronization operations, and their settlement (with timing and failure
// detail). It is separate from operational logging (slog) - the journal is
// a complete machine-readable trace for debugging and analysis.
//
// # Basic Usage
//
// Applications attach a Logger implementation when building a Resource:
//
//	// For development: log to console via slog
//	binding.WithJournal(synclog.NewSlogAdapter(slog.Default()))
//
//	// For production: write to a binary file
//	journal, _ := synclog.NewFileLogger("todos.rblog")
//	binding.WithJournal(journal)
//
//	// Both: use MultiLogger
//	binding.WithJournal(synclog.NewMultiLogger(
//	    synclog.NewSlogAdapter(slog.Default()),
//	    journal,
//	))
//
// # Event Kinds
//
//   - KindChange: attribute state was mutated locally
//   - KindOpStart: a fetch, save or listing fetch was issued
//   - KindOpSettle: the operation settled, successfully or not
//
// Start and settle entries share an operation ID, so a journal reader can
// pair them and compute in-flight windows.
//
// # File Format
//
// Journal files use CBOR encoding with the .rblog extension. The
// restbind-log CLI tool provides viewing, export and statistics.
package synclog
