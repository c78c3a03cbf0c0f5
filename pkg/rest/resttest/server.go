package resttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// Server is an in-memory REST backend. It is safe for concurrent use and
// serves the four operations the binding layer issues:
//
//	GET    /{resource}       list (JSON array, insertion order)
//	POST   /{resource}       create (assigns an integer id when absent)
//	GET    /{resource}/{id}  read
//	PUT    /{resource}/{id}  replace
//
// IDKey is the identity attribute of stored records and defaults to "id".
// Set it before serving requests.
type Server struct {
	IDKey string

	mu      sync.Mutex
	records map[string][]map[string]any
	nextID  map[string]int
}

// NewServer creates an empty backend with no registered resources.
func NewServer() *Server {
	return &Server{
		IDKey:   "id",
		records: make(map[string][]map[string]any),
		nextID:  make(map[string]int),
	}
}

// Resource registers an empty resource at path, e.g. "/api/todos".
func (s *Server) Resource(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.register(path)
}

// Seed registers the resource at path and appends the given records,
// assigning ids to records that lack one. Records are stored as given;
// callers should not mutate them afterwards.
func (s *Server) Seed(path string, recs ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.register(path)
	for _, rec := range recs {
		if _, ok := rec[s.IDKey]; !ok {
			s.nextID[key]++
			rec[s.IDKey] = float64(s.nextID[key])
		}
		s.records[key] = append(s.records[key], rec)
	}
}

// Records returns a snapshot of the records stored for the resource at
// path, in insertion order. Unknown resources return nil.
func (s *Server) Records(path string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, ok := s.records[normalize(path)]
	if !ok {
		return nil
	}
	out := make([]map[string]any, len(recs))
	copy(out, recs)
	return out
}

// register normalizes and registers a resource path, returning its key.
func (s *Server) register(path string) string {
	key := normalize(path)
	if _, ok := s.records[key]; !ok {
		s.records[key] = []map[string]any{}
	}
	return key
}

// ServeHTTP dispatches a request against the registered resources.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := normalize(r.URL.Path)

	// Collection-level routes first: the full path is a registered resource.
	if _, ok := s.records[path]; ok {
		switch r.Method {
		case http.MethodGet:
			s.list(w, path)
		case http.MethodPost:
			s.create(w, r, path)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	// Record-level routes: the parent of the last segment is the resource.
	resource, id := splitLast(path)
	if _, ok := s.records[resource]; !ok || id == "" {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.read(w, resource, id)
	case http.MethodPut:
		s.replace(w, r, resource, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) list(w http.ResponseWriter, resource string) {
	writeJSON(w, http.StatusOK, s.records[resource])
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, resource string) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	if _, hasID := rec[s.IDKey]; !hasID {
		s.nextID[resource]++
		rec[s.IDKey] = float64(s.nextID[resource])
	}
	s.records[resource] = append(s.records[resource], rec)

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) read(w http.ResponseWriter, resource, id string) {
	for _, rec := range s.records[resource] {
		if idString(rec[s.IDKey]) == id {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeError(w, http.StatusNotFound, "no such record")
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request, resource, id string) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	for i, existing := range s.records[resource] {
		if idString(existing[s.IDKey]) != id {
			continue
		}
		// Replace wholesale, keeping the identity from the URL when the
		// body omits it.
		if _, hasID := rec[s.IDKey]; !hasID {
			rec[s.IDKey] = existing[s.IDKey]
		}
		s.records[resource][i] = rec
		writeJSON(w, http.StatusOK, rec)
		return
	}
	writeError(w, http.StatusNotFound, "no such record")
}

// decodeRecord reads a JSON object body; on failure it writes a 400 and
// returns false.
func decodeRecord(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var rec map[string]any
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if rec == nil {
		rec = map[string]any{}
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// normalize strips the trailing slash and guarantees a leading one.
func normalize(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// splitLast splits "/api/todos/7" into "/api/todos" and "7".
func splitLast(path string) (string, string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return path, ""
	}
	return path[:i], path[i+1:]
}

// idString renders an identity value the way it appears in a URL segment.
// JSON numbers decode as float64, so whole values print without a decimal
// point.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Compile-time interface satisfaction check.
var _ http.Handler = (*Server)(nil)
