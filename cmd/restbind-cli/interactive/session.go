// Package interactive provides the interactive command-line interface
// for the restbind client.
package interactive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/restbind/restbind-go/pkg/attrs"
	"github.com/restbind/restbind-go/pkg/binding"
	"github.com/restbind/restbind-go/pkg/discovery"
	"github.com/restbind/restbind-go/pkg/event"
	"github.com/restbind/restbind-go/pkg/rest"
	"github.com/restbind/restbind-go/pkg/synclog"
)

// Config provides access to the session settings.
// This interface allows the interactive layer to access settings
// without depending on the main package's config structure.
type Config interface {
	// IDAttribute returns the identity attribute name for bound resources.
	IDAttribute() string

	// RequestTimeout returns how long the session waits for a fetch or
	// save to settle.
	RequestTimeout() time.Duration

	// ResourcePath resolves a configured resource name to its path. It
	// reports false for unknown names.
	ResourcePath(name string) (string, bool)
}

// Session is the interactive command loop. It binds one resource at a
// time and keeps a current entity and a current collection against it.
type Session struct {
	client  rest.Client
	journal synclog.Logger
	logger  *slog.Logger
	config  Config
	rl      *readline.Instance

	res        *binding.Resource
	entity     *binding.Entity
	collection *binding.Collection

	// Watch state. Handlers stay registered on the watched entity until
	// unwatch or a resource switch removes them.
	watched  *binding.Entity
	changeID event.SubscriptionID
	errorID  event.SubscriptionID
}

// New creates an interactive session.
func New(client rest.Client, journal synclog.Logger, logger *slog.Logger, config Config) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "restbind> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Session{
		client:  client,
		journal: journal,
		logger:  logger,
		config:  config,
		rl:      rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Session) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Session) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Use binds the session to a resource collection path. The current
// entity, collection, and watch state are discarded.
func (s *Session) Use(path string) error {
	res, err := binding.NewResource(s.client, path,
		binding.WithIDAttribute(s.config.IDAttribute()),
		binding.WithJournal(s.journal),
		binding.WithLogger(s.logger),
	)
	if err != nil {
		return err
	}

	s.stopWatch()
	s.res = res
	s.entity = nil
	s.collection = nil
	return nil
}

// Run starts the interactive command loop. It blocks until the context
// is cancelled or the user exits.
func (s *Session) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "use", "u":
			s.cmdUse(args)

		case "discover", "d":
			s.cmdDiscover(ctx)

		case "new", "n":
			s.cmdNew()

		case "set":
			s.cmdSet(args)

		case "get":
			s.cmdGet(args)

		case "show":
			s.cmdShow()

		case "fetch", "f":
			s.cmdFetch(ctx, args)

		case "save":
			s.cmdSave(ctx)

		case "list", "ls":
			s.cmdList(ctx)

		case "models", "m":
			s.cmdModels()

		case "at":
			s.cmdAt(args)

		case "watch", "w":
			s.cmdWatch()

		case "unwatch":
			s.cmdUnwatch()

		case "status", "st":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
restbind Commands:
  Resource:
    use <path|name>    - Bind a resource collection (e.g. use /todos)
    discover           - Find restbind services via mDNS

  Entity:
    new                - Start a fresh entity on the bound resource
    set <key> <value>  - Merge one attribute into the current entity
    get <key>          - Read one attribute
    show               - Show all attributes of the current entity
    fetch [id]         - Fetch the record (seeds the identity when given)
    save               - Save the entity (POST when new, PUT otherwise)

  Collection:
    list               - Fetch the resource listing
    models             - Show the fetched models
    at <index>         - Select a fetched model as the current entity

  Events:
    watch              - Print change/error events for the current entity
    unwatch            - Stop printing events

  General:
    status             - Show session status
    help               - Show this help
    quit               - Exit

  Value Format:
    null, numbers, and booleans are parsed; everything else is a string
    Quotes are stripped: set title "Buy milk"`)
}

func (s *Session) cmdUse(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: use <path or configured name>")
		fmt.Fprintln(s.rl.Stdout(), "  Example: use /todos")
		return
	}

	path, ok := s.resolvePath(args[0])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown resource name: %s (use a /path or configure it)\n", args[0])
		return
	}

	if err := s.Use(path); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to bind resource: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Bound %s (id attribute: %s)\n", s.res.Base(), s.res.IDAttribute())
}

func (s *Session) cmdDiscover(ctx context.Context) {
	fmt.Fprintln(s.rl.Stdout(), "Discovering restbind services...")

	browser := discovery.NewBrowser(discovery.BrowserConfig{})

	browseCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	endpoints, err := browser.Browse(browseCtx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Discovery failed: %v\n", err)
		return
	}

	count := 0
	for ep := range endpoints {
		count++
		fmt.Fprintf(s.rl.Stdout(), "  %d. %s at %s (path: %s)\n", count, ep.Instance, ep.BaseURL(), ep.Path)
	}

	if count == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No services found")
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Found %d service(s)\n", count)
}

func (s *Session) cmdNew() {
	if s.res == nil {
		fmt.Fprintln(s.rl.Stdout(), "No resource bound (use 'use <path>' first)")
		return
	}

	s.entity = s.res.NewEntity(nil)
	fmt.Fprintln(s.rl.Stdout(), "Started a fresh entity")
}

func (s *Session) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: set <key> <value>")
		fmt.Fprintln(s.rl.Stdout(), "  Example: set title \"Buy milk\"")
		return
	}
	if s.entity == nil {
		fmt.Fprintln(s.rl.Stdout(), "No entity selected (use 'new', 'fetch <id>' or 'at <index>')")
		return
	}

	key := args[0]
	value := parseValue(strings.Join(args[1:], " "))
	s.entity.Set(attrs.Map{key: value})
	fmt.Fprintf(s.rl.Stdout(), "%s = %s\n", key, formatValue(value))
}

func (s *Session) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: get <key>")
		return
	}
	if s.entity == nil {
		fmt.Fprintln(s.rl.Stdout(), "No entity selected (use 'new', 'fetch <id>' or 'at <index>')")
		return
	}

	value, ok := s.entity.Get(args[0])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "%s is not set\n", args[0])
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s = %s\n", args[0], formatValue(value))
}

func (s *Session) cmdShow() {
	if s.entity == nil {
		fmt.Fprintln(s.rl.Stdout(), "No entity selected (use 'new', 'fetch <id>' or 'at <index>')")
		return
	}

	snapshot := s.entity.Attributes()

	fmt.Fprintf(s.rl.Stdout(), "\nEntity: %s\n", s.describeEntity(s.entity))
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(s.rl.Stdout(), "  %-16s %s\n", k+":", formatValue(snapshot[k]))
	}
	fmt.Fprintln(s.rl.Stdout())
}

func (s *Session) cmdFetch(ctx context.Context, args []string) {
	if s.res == nil {
		fmt.Fprintln(s.rl.Stdout(), "No resource bound (use 'use <path>' first)")
		return
	}

	if len(args) > 0 {
		s.entity = s.res.NewEntity(attrs.Map{s.config.IDAttribute(): parseValue(args[0])})
	}
	if s.entity == nil {
		fmt.Fprintln(s.rl.Stdout(), "No entity selected (use 'fetch <id>', 'new' or 'at <index>')")
		return
	}

	op, err := s.entity.Fetch(ctx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Fetch failed: %v\n", err)
		return
	}

	if err := s.waitOp(ctx, op); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Fetch failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Fetched %s\n", s.describeEntity(s.entity))
}

func (s *Session) cmdSave(ctx context.Context) {
	if s.entity == nil {
		fmt.Fprintln(s.rl.Stdout(), "No entity selected (use 'new', 'fetch <id>' or 'at <index>')")
		return
	}

	wasNew := s.entity.IsNew()

	op := s.entity.Save(ctx)
	if err := s.waitOp(ctx, op); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Save failed: %v\n", err)
		return
	}

	if wasNew {
		fmt.Fprintf(s.rl.Stdout(), "Created %s\n", s.describeEntity(s.entity))
	} else {
		fmt.Fprintf(s.rl.Stdout(), "Saved %s\n", s.describeEntity(s.entity))
	}
}

func (s *Session) cmdList(ctx context.Context) {
	if s.res == nil {
		fmt.Fprintln(s.rl.Stdout(), "No resource bound (use 'use <path>' first)")
		return
	}

	if s.collection == nil {
		s.collection = s.res.NewCollection()
	}

	op := s.collection.Fetch(ctx)
	if err := s.waitOp(ctx, op); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Fetch failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Fetched %d model(s)\n", s.collection.Len())
}

func (s *Session) cmdModels() {
	if s.collection == nil || s.collection.Len() == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No models fetched (use 'list' first)")
		return
	}

	models := s.collection.Models()

	fmt.Fprintf(s.rl.Stdout(), "\nModels (%d):\n", len(models))
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	for i, m := range models {
		fmt.Fprintf(s.rl.Stdout(), "  %d. %s\n", i, s.describeEntity(m))
	}
	fmt.Fprintln(s.rl.Stdout())
}

func (s *Session) cmdAt(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: at <index>")
		return
	}
	if s.collection == nil {
		fmt.Fprintln(s.rl.Stdout(), "No models fetched (use 'list' first)")
		return
	}

	i, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid index: %s\n", args[0])
		return
	}

	model := s.collection.At(i)
	if model == nil {
		fmt.Fprintf(s.rl.Stdout(), "No model at index %d (have %d)\n", i, s.collection.Len())
		return
	}

	s.entity = model
	fmt.Fprintf(s.rl.Stdout(), "Selected %s\n", s.describeEntity(model))
}

func (s *Session) cmdWatch() {
	if s.entity == nil {
		fmt.Fprintln(s.rl.Stdout(), "No entity selected (use 'new', 'fetch <id>' or 'at <index>')")
		return
	}
	if s.watched == s.entity {
		fmt.Fprintln(s.rl.Stdout(), "Already watching this entity")
		return
	}

	s.stopWatch()

	entity := s.entity
	s.watched = entity
	s.changeID = entity.On(event.Change, func(args ...any) {
		fmt.Fprintf(s.rl.Stdout(), "\n[%s] change: %s\n",
			time.Now().Format("15:04:05"), s.describeEntity(entity))
		s.rl.Refresh()
	})
	s.errorID = entity.On(event.Error, func(args ...any) {
		msg := "unknown error"
		if len(args) > 0 {
			if err, ok := args[0].(error); ok {
				msg = err.Error()
			}
		}
		fmt.Fprintf(s.rl.Stdout(), "\n[%s] error: %s\n",
			time.Now().Format("15:04:05"), msg)
		s.rl.Refresh()
	})

	fmt.Fprintf(s.rl.Stdout(), "Watching %s\n", s.describeEntity(entity))
}

func (s *Session) cmdUnwatch() {
	if s.watched == nil {
		fmt.Fprintln(s.rl.Stdout(), "Not watching")
		return
	}
	s.stopWatch()
	fmt.Fprintln(s.rl.Stdout(), "Stopped watching")
}

func (s *Session) cmdStatus() {
	fmt.Fprintln(s.rl.Stdout(), "\nSession Status")
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	if s.res != nil {
		fmt.Fprintf(s.rl.Stdout(), "  Resource:    %s\n", s.res.Base())
		fmt.Fprintf(s.rl.Stdout(), "  ID attr:     %s\n", s.res.IDAttribute())
	} else {
		fmt.Fprintln(s.rl.Stdout(), "  Resource:    (none)")
	}
	if s.entity != nil {
		fmt.Fprintf(s.rl.Stdout(), "  Entity:      %s\n", s.describeEntity(s.entity))
	} else {
		fmt.Fprintln(s.rl.Stdout(), "  Entity:      (none)")
	}
	if s.collection != nil {
		fmt.Fprintf(s.rl.Stdout(), "  Models:      %d\n", s.collection.Len())
	} else {
		fmt.Fprintln(s.rl.Stdout(), "  Models:      (none)")
	}
	watching := "no"
	if s.watched != nil {
		watching = "yes"
	}
	fmt.Fprintf(s.rl.Stdout(), "  Watching:    %s\n", watching)
	fmt.Fprintln(s.rl.Stdout())
}

// resolvePath expands a bare resource name through the configured
// names. Paths starting with a slash pass through unchanged.
func (s *Session) resolvePath(arg string) (string, bool) {
	if strings.HasPrefix(arg, "/") {
		return arg, true
	}
	return s.config.ResourcePath(arg)
}

// stopWatch removes the event handlers from the watched entity, if any.
func (s *Session) stopWatch() {
	if s.watched == nil {
		return
	}
	s.watched.Off(event.Change, s.changeID)
	s.watched.Off(event.Error, s.errorID)
	s.watched = nil
}

// waitOp blocks until the operation settles or the request timeout
// elapses, whichever comes first.
func (s *Session) waitOp(ctx context.Context, op *binding.Op) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout())
	defer cancel()
	return op.Wait(waitCtx)
}

// describeEntity renders a short entity summary like "id=7 (4 attrs)".
func (s *Session) describeEntity(e *binding.Entity) string {
	n := len(e.Attributes())
	if id, ok := e.ID(); ok {
		return fmt.Sprintf("id=%s (%d attrs)", formatValue(id), n)
	}
	return fmt.Sprintf("unsaved entity (%d attrs)", n)
}

// parseValue converts a command argument into an attribute value. The
// word null becomes nil, then numbers and booleans are tried, and
// anything else is a string with surrounding quotes stripped.
func parseValue(s string) any {
	if s == "null" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return strings.Trim(s, "\"'")
}

// formatValue renders an attribute value for display. Decoded JSON
// numbers arrive as float64; whole numbers print without a decimal
// point.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
