package attrs

import "sync"

// Map holds attribute data keyed by name. Values are JSON-shaped: strings,
// bools, float64 numbers, nil, nested maps and slices.
type Map map[string]any

// Clone returns a shallow copy of m. Cloning a nil map yields an empty,
// non-nil Map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store is the mutable attribute state of a bound record.
// It is safe for concurrent use. Create instances with NewStore.
type Store struct {
	mu     sync.RWMutex
	values Map
}

// NewStore creates a store seeded with a shallow copy of initial.
// A nil initial map creates an empty store.
func NewStore(initial Map) *Store {
	return &Store{values: initial.Clone()}
}

// Get returns the value stored under key. The second return reports whether
// the key is present, keeping absent keys distinct from keys stored with
// nil or an empty value.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.values[key]
	return ok
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

// Merge applies partial key-wise: every key in partial is written, whether
// or not its value differs from the stored one, and keys not mentioned are
// untouched. Merging a nil or empty map changes nothing.
func (s *Store) Merge(partial Map) {
	if len(partial) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range partial {
		s.values[k] = v
	}
}

// Snapshot returns a shallow copy of the current attribute state. Mutating
// the returned map does not affect the store.
func (s *Store) Snapshot() Map {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values.Clone()
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}
