// Package attrs provides the mutable attribute state entities are built on.
//
// A Store holds JSON-shaped key/value data. Writes merge key-wise: a partial
// update overwrites the keys it mentions and leaves every other key alone.
// Reads use the comma-ok form, so a key that is absent is distinguishable
// from a key stored with an empty or nil value:
//
//	s := attrs.NewStore(attrs.Map{"name": ""})
//	v, ok := s.Get("name") // "" , true
//	_, ok = s.Get("age")   // nil, false
//
// Store methods are safe for concurrent use. The Store never rejects a
// value: validation is the caller's concern.
package attrs
