package binding

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/restbind/restbind-go/pkg/rest"
	"github.com/restbind/restbind-go/pkg/synclog"
)

var (
	// ErrNilClient is returned when a resource is built without a remote client.
	ErrNilClient = errors.New("binding: remote client is nil")
	// ErrEmptyBase is returned when a resource is built without a base path.
	ErrEmptyBase = errors.New("binding: resource base path is empty")
	// ErrMissingID is returned by Fetch when the entity has no identity attribute.
	ErrMissingID = errors.New("binding: entity has no identity attribute")
	// ErrNotObject reports a response body that is not a JSON object.
	ErrNotObject = errors.New("binding: response body is not a JSON object")
	// ErrNotArray reports a response body that is not a JSON array of objects.
	ErrNotArray = errors.New("binding: response body is not a JSON array of objects")
)

// DefaultIDAttribute is the attribute key that identifies records unless
// WithIDAttribute overrides it.
const DefaultIDAttribute = "id"

// Resource describes one remote REST collection: how to reach it, where it
// lives and which attribute identifies its records. Entities and
// collections created from the same Resource share its configuration.
type Resource struct {
	client  rest.Client
	base    string
	idKey   string
	journal synclog.Logger
	logger  *slog.Logger
}

// Option configures a Resource.
type Option func(*Resource)

// WithIDAttribute sets the attribute key that identifies records. Empty
// keys are ignored.
func WithIDAttribute(key string) Option {
	return func(r *Resource) {
		if key != "" {
			r.idKey = key
		}
	}
}

// WithJournal records every change and synchronization operation of the
// resource's entities and collections to the given journal.
func WithJournal(journal synclog.Logger) Option {
	return func(r *Resource) {
		if journal != nil {
			r.journal = journal
		}
	}
}

// WithLogger enables operational debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resource) {
		r.logger = logger
	}
}

// NewResource creates a resource rooted at base, e.g. "/api/todos". The
// base path is normalized to a leading slash and no trailing slash.
func NewResource(client rest.Client, base string, opts ...Option) (*Resource, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, ErrEmptyBase
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}

	r := &Resource{
		client:  client,
		base:    base,
		idKey:   DefaultIDAttribute,
		journal: synclog.NoopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Base returns the path listing and create requests are issued against.
func (r *Resource) Base() string {
	return r.base
}

// IDAttribute returns the attribute key that identifies records.
func (r *Resource) IDAttribute() string {
	return r.idKey
}

// recordPath returns the path of the record identified by id.
func (r *Resource) recordPath(id any) string {
	return r.base + "/" + idSegment(id)
}

// formatID renders an identity value the way it appears on the wire. JSON
// numbers decode as float64; whole values render without a decimal point
// so that a record decoded as id 7 is fetched from ".../7".
func formatID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// idSegment renders an identity value as a single escaped path segment.
func idSegment(id any) string {
	return url.PathEscape(formatID(id))
}

func (r *Resource) debugLog(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Resource) journalChange(source synclog.Source, entityID string, attrCount int) {
	r.journal.Log(synclog.Event{
		Timestamp: time.Now(),
		Source:    source,
		Kind:      synclog.KindChange,
		EntityID:  entityID,
		AttrCount: attrCount,
	})
}

func (r *Resource) journalOpStart(op *Op, source synclog.Source, verb synclog.Verb, path, entityID string) {
	r.debugLog("operation started", "op_id", op.ID(), "verb", verb.String(), "path", path)
	r.journal.Log(synclog.Event{
		Timestamp: time.Now(),
		OpID:      op.ID(),
		Source:    source,
		Kind:      synclog.KindOpStart,
		Verb:      verb,
		Path:      path,
		EntityID:  entityID,
	})
}

func (r *Resource) journalOpSettle(op *Op, source synclog.Source, verb synclog.Verb, path, entityID string, started time.Time, attrCount int, err error) {
	elapsed := time.Since(started)
	ev := synclog.Event{
		Timestamp: time.Now(),
		OpID:      op.ID(),
		Source:    source,
		Kind:      synclog.KindOpSettle,
		Verb:      verb,
		Path:      path,
		EntityID:  entityID,
		AttrCount: attrCount,
		Elapsed:   &elapsed,
	}
	if err != nil {
		ev.Error = &synclog.ErrorData{Message: err.Error(), StatusCode: statusCode(err)}
		r.debugLog("operation failed", "op_id", op.ID(), "verb", verb.String(), "path", path, "error", err)
	} else {
		r.debugLog("operation settled", "op_id", op.ID(), "verb", verb.String(), "path", path, "elapsed", elapsed)
	}
	r.journal.Log(ev)
}

// statusCode extracts the HTTP status of a remote failure, or 0.
func statusCode(err error) int {
	var se *rest.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
