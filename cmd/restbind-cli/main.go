// Command restbind-cli is an interactive client for REST resources.
//
// This command demonstrates a complete binding session with:
//   - CLI argument parsing
//   - Configuration file support
//   - Entity fetch, save, and attribute editing
//   - Collection listing
//   - Change and error event watching
//   - mDNS service discovery
//   - Sync journaling
//
// Usage:
//
//	restbind-cli [flags]
//
// Flags:
//
//	-base string       REST base URL (e.g. http://localhost:3000)
//	-config string     Configuration file path
//	-resource string   Resource path to bind at startup (e.g. /todos)
//	-id-attr string    Identity attribute name (default "id")
//	-journal string    Sync journal file path (.rblog)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-timeout duration  Timeout for fetch and save operations (default 10s)
//	-demo              Serve a seeded in-process backend and bind to it
//
// Examples:
//
//	# Connect to a local API and bind the todos resource
//	restbind-cli -base http://localhost:3000 -resource /todos
//
//	# Record a journal for later analysis with restbind-log
//	restbind-cli -base http://localhost:3000 -journal session.rblog
//
//	# Use a config file
//	restbind-cli -config ~/.restbind.yaml
//
//	# Explore without a backend; the demo API is announced via mDNS
//	restbind-cli -demo
//
// Interactive Commands:
//
//	use <path|name>   - Bind a resource collection
//	discover          - Find restbind services via mDNS
//	new               - Start a fresh entity
//	set <key> <value> - Merge one attribute
//	fetch [id]        - Fetch the record
//	save              - Save the entity (POST when new, PUT otherwise)
//	list              - Fetch the resource listing
//	at <index>        - Select a fetched model
//	watch             - Print change/error events
//	status            - Show session status
//	quit              - Exit
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/restbind/restbind-go/cmd/restbind-cli/interactive"
	"github.com/restbind/restbind-go/pkg/rest"
	"github.com/restbind/restbind-go/pkg/synclog"
)

// Config holds the session configuration.
// It implements interactive.Config.
type Config struct {
	BaseURL          string
	ConfigFile       string
	Resource         string
	IDAttributeValue string
	Journal          string
	LogLevel         string
	TimeoutValue     time.Duration
	Demo             bool

	// Headers come from the config file only (e.g. authorization).
	Headers map[string]string

	// Resources maps short names to paths, from the config file only.
	Resources map[string]string
}

// IDAttribute implements interactive.Config.
func (c *Config) IDAttribute() string {
	return c.IDAttributeValue
}

// RequestTimeout implements interactive.Config.
func (c *Config) RequestTimeout() time.Duration {
	return c.TimeoutValue
}

// ResourcePath implements interactive.Config.
func (c *Config) ResourcePath(name string) (string, bool) {
	path, ok := c.Resources[name]
	return path, ok
}

var config Config

func init() {
	flag.StringVar(&config.BaseURL, "base", "", "REST base URL (e.g. http://localhost:3000)")
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&config.Resource, "resource", "", "Resource path to bind at startup (e.g. /todos)")
	flag.StringVar(&config.IDAttributeValue, "id-attr", "id", "Identity attribute name")
	flag.StringVar(&config.Journal, "journal", "", "Sync journal file path (.rblog)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.DurationVar(&config.TimeoutValue, "timeout", 10*time.Second, "Timeout for fetch and save operations")
	flag.BoolVar(&config.Demo, "demo", false, "Serve a seeded in-process backend and bind to it")
}

func main() {
	flag.Parse()

	// Merge the config file under explicit flags
	if config.ConfigFile != "" {
		fc, err := LoadFileConfig(config.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := applyFileConfig(fc); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
	}

	// Setup logging
	logger := setupLogging(config.LogLevel)

	if config.Demo {
		baseURL, shutdown, err := startDemoBackend()
		if err != nil {
			log.Fatalf("Failed to start demo backend: %v", err)
		}
		defer shutdown()
		config.BaseURL = baseURL
		if config.Resource == "" {
			config.Resource = demoResource
		}
	}

	if config.BaseURL == "" {
		log.Fatalf("Base URL required (use -base, -demo or a config file)")
	}

	log.Println("restbind Interactive Client")
	log.Println("===========================")
	log.Printf("Base URL: %s", config.BaseURL)
	if config.Resource != "" {
		log.Printf("Resource: %s", config.Resource)
	}

	// Open the sync journal if requested
	var journal synclog.Logger = synclog.NoopLogger{}
	if config.Journal != "" {
		fileJournal, err := synclog.NewFileLogger(config.Journal)
		if err != nil {
			log.Fatalf("Failed to open journal: %v", err)
		}
		defer fileJournal.Close()
		journal = fileJournal
		log.Printf("Journaling to %s", config.Journal)
	}

	// Create the REST client
	opts := []rest.Option{
		rest.WithTimeout(config.TimeoutValue),
		rest.WithLogger(logger),
	}
	if len(config.Headers) > 0 {
		opts = append(opts, rest.WithHeaders(config.Headers))
	}

	client, err := rest.New(config.BaseURL, opts...)
	if err != nil {
		log.Fatalf("Failed to create REST client: %v", err)
	}

	session, err := interactive.New(client, journal, logger, &config)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(session.Stdout())

	if config.Resource != "" {
		if err := session.Use(config.Resource); err != nil {
			log.Fatalf("Failed to bind resource: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go session.Run(ctx, cancel)

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Context was cancelled by the quit command
	}

	log.Println("Goodbye!")
}

// applyFileConfig copies file settings into the global config. A value
// set on the command line wins over the file.
func applyFileConfig(fc *FileConfig) error {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["base"] && fc.BaseURL != "" {
		config.BaseURL = fc.BaseURL
	}
	if !set["resource"] && fc.Resource != "" {
		config.Resource = fc.Resource
	}
	if !set["id-attr"] && fc.IDAttribute != "" {
		config.IDAttributeValue = fc.IDAttribute
	}
	if !set["journal"] && fc.Journal != "" {
		config.Journal = fc.Journal
	}
	if !set["log-level"] && fc.LogLevel != "" {
		config.LogLevel = fc.LogLevel
	}
	if !set["timeout"] {
		d, ok, err := fc.ParseTimeout()
		if err != nil {
			return err
		}
		if ok {
			config.TimeoutValue = d
		}
	}
	config.Headers = fc.Headers
	config.Resources = fc.Resources
	return nil
}

// setupLogging configures the standard logger for session output and
// returns a structured logger for the library layers.
func setupLogging(level string) *slog.Logger {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn":
		lvl = slog.LevelWarn
		log.SetFlags(log.Ltime)
	case "error":
		lvl = slog.LevelError
		log.SetFlags(log.Ltime)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
