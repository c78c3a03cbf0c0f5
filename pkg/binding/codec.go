package binding

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/restbind/restbind-go/pkg/attrs"
)

// decodeObject decodes a response body into an attribute map. Empty bodies
// and JSON null decode to nil, which merges as a no-op.
func decodeObject(raw json.RawMessage) (attrs.Map, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	return attrs.Map(m), nil
}

// decodeList decodes a listing body into attribute maps, preserving order.
// Empty bodies and JSON null decode to an empty listing.
func decodeList(raw json.RawMessage) ([]attrs.Map, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	out := make([]attrs.Map, len(records))
	for i, rec := range records {
		out[i] = attrs.Map(rec)
	}
	return out, nil
}
