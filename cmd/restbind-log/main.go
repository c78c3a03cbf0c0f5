// Command restbind-log is a tool for viewing and analyzing sync journal files.
//
// Journal files are created by attaching a file journal to a binding resource,
// for example when running restbind-cli with the -journal flag.
//
// Usage:
//
//	restbind-log <command> [flags] <file.rblog>
//
// Commands:
//
//	view     View journal file in human-readable format
//	export   Export journal file to JSON or CSV format
//	filter   Filter journal file and write to new file
//	stats    Show statistics about the journal file
//
// Examples:
//
//	# View all events
//	restbind-log view todos.rblog
//
//	# View only collection events
//	restbind-log view --source collection todos.rblog
//
//	# View only failed operations
//	restbind-log view --failed todos.rblog
//
//	# Export to JSONL
//	restbind-log export --format jsonl todos.rblog
//
//	# Keep only writes and save to a new file
//	restbind-log filter --verb put -o writes.rblog todos.rblog
//
//	# Show statistics
//	restbind-log stats todos.rblog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/restbind/restbind-go/cmd/restbind-log/commands"
	"github.com/restbind/restbind-go/pkg/synclog"
)

const usage = `restbind-log - Sync Journal Analyzer

Usage:
  restbind-log <command> [flags] <file.rblog>

Commands:
  view     View journal file in human-readable format
  export   Export journal file to JSON or CSV format
  filter   Filter journal file and write to new file
  stats    Show statistics about the journal file

Use "restbind-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `restbind-log view - View journal file in human-readable format

Usage:
  restbind-log view [flags] <file.rblog>

Flags:
`)
		fs.PrintDefaults()
	}

	source := fs.String("source", "", "Filter by source (entity, collection)")
	kind := fs.String("kind", "", "Filter by kind (change, start, settle)")
	verb := fs.String("verb", "", "Filter by verb (get, post, put)")
	opID := fs.String("op", "", "Filter by operation ID")
	failed := fs.Bool("failed", false, "Show only failed operations")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	// Build filter
	filter := synclog.Filter{
		OpID:       *opID,
		FailedOnly: *failed,
	}

	if *source != "" {
		s, err := commands.ParseSourceFlag(*source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Source = &s
	}

	if *kind != "" {
		k, err := commands.ParseKindFlag(*kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Kind = &k
	}

	if *verb != "" {
		v, err := commands.ParseVerbFlag(*verb)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Verb = &v
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `restbind-log export - Export journal file to JSON or CSV format

Usage:
  restbind-log export [flags] <file.rblog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `restbind-log filter - Filter journal file and write to new file

Usage:
  restbind-log filter [flags] <file.rblog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	opID := fs.String("op", "", "Filter by operation ID")
	entityID := fs.String("entity-id", "", "Filter by entity identity")
	reqPath := fs.String("path", "", "Filter by request path")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	source := fs.String("source", "", "Filter by source (entity, collection)")
	kind := fs.String("kind", "", "Filter by kind (change, start, settle)")
	verb := fs.String("verb", "", "Filter by verb (get, post, put)")
	failed := fs.Bool("failed", false, "Keep only failed operations")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	opts := commands.FilterOptions{
		Output:     *output,
		OpID:       *opID,
		EntityID:   *entityID,
		Path:       *reqPath,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
		Source:     *source,
		Kind:       *kind,
		Verb:       *verb,
		FailedOnly: *failed,
	}

	if err := commands.RunFilter(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `restbind-log stats - Show statistics about the journal file

Usage:
  restbind-log stats <file.rblog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
