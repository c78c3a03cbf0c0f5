package synclog

import "time"

// Event represents one journal entry captured by the binding layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// OpID correlates the start and settle entries of one operation
	// (UUID). Empty for local changes made outside an operation.
	OpID string `cbor:"2,keyasint,omitempty"`

	// Source indicates whether an entity or a collection produced the
	// event.
	Source Source `cbor:"3,keyasint"`

	// Kind classifies the entry.
	Kind Kind `cbor:"4,keyasint"`

	// Verb is the REST verb of the operation (operations only).
	Verb Verb `cbor:"5,keyasint,omitempty"`

	// Path is the request path of the operation (operations only).
	Path string `cbor:"6,keyasint,omitempty"`

	// EntityID is the identity attribute value, when known.
	EntityID string `cbor:"7,keyasint,omitempty"`

	// AttrCount is the number of attributes (entity) or models
	// (collection) after the event applied.
	AttrCount int `cbor:"8,keyasint,omitempty"`

	// Elapsed is the operation duration (settle entries only).
	Elapsed *time.Duration `cbor:"9,keyasint,omitempty"`

	// Error carries failure detail for failed settles.
	Error *ErrorData `cbor:"10,keyasint,omitempty"`
}

// Failed reports whether the event records a failure.
func (e Event) Failed() bool {
	return e.Error != nil
}

// Source indicates what kind of object produced an event.
type Source uint8

const (
	// SourceEntity indicates a single bound record.
	SourceEntity Source = 0
	// SourceCollection indicates an ordered set of records.
	SourceCollection Source = 1
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceEntity:
		return "ENTITY"
	case SourceCollection:
		return "COLLECTION"
	default:
		return "UNKNOWN"
	}
}

// Kind classifies a journal entry.
type Kind uint8

const (
	// KindChange indicates attribute or membership state was mutated.
	KindChange Kind = 0
	// KindOpStart indicates a synchronization operation was issued.
	KindOpStart Kind = 1
	// KindOpSettle indicates a synchronization operation settled.
	KindOpSettle Kind = 2
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChange:
		return "CHANGE"
	case KindOpStart:
		return "OP_START"
	case KindOpSettle:
		return "OP_SETTLE"
	default:
		return "UNKNOWN"
	}
}

// Verb is the REST verb of an operation.
type Verb uint8

const (
	// VerbNone marks entries that carry no operation, such as local
	// changes.
	VerbNone Verb = 0
	// VerbGet is a read (entity fetch or listing fetch).
	VerbGet Verb = 1
	// VerbPost is a create.
	VerbPost Verb = 2
	// VerbPut is an update.
	VerbPut Verb = 3
)

// String returns the verb name.
func (v Verb) String() string {
	switch v {
	case VerbNone:
		return ""
	case VerbGet:
		return "GET"
	case VerbPost:
		return "POST"
	case VerbPut:
		return "PUT"
	default:
		return "UNKNOWN"
	}
}

// ErrorData captures the failure attached to a settle entry.
type ErrorData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// StatusCode is the HTTP status, when the failure carried one.
	StatusCode int `cbor:"2,keyasint,omitempty"`
}
