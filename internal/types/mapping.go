package types

import (
	"maps"
	"slices"
)

// Mapping translates canonical tag keys to the raw field names of one format.
//
// The forward direction must be injective: two canonical keys may never share
// a raw name, otherwise reading that raw field back would be ambiguous.
// NewMapping enforces this, so the reverse lookup is always well defined.
type Mapping struct {
	forward map[string]string
	reverse map[string]string
}

// NewMapping builds a Mapping from a canonical→raw table.
//
// Returns *MappingCollisionError if two canonical keys map to the same raw name.
func NewMapping(forward map[string]string) (Mapping, error) {
	m := Mapping{
		forward: make(map[string]string, len(forward)),
		reverse: make(map[string]string, len(forward)),
	}

	// Sorted so the reported collision is stable.
	for _, key := range slices.Sorted(maps.Keys(forward)) {
		raw := forward[key]
		if prev, ok := m.reverse[raw]; ok {
			return Mapping{}, &MappingCollisionError{Raw: raw, Keys: []string{prev, key}}
		}
		m.forward[key] = raw
		m.reverse[raw] = key
	}

	return m, nil
}

// MustMapping is like NewMapping but panics on a collision.
// It is meant for package-level mapping tables registered from init().
func MustMapping(forward map[string]string) Mapping {
	m, err := NewMapping(forward)
	if err != nil {
		panic(err)
	}
	return m
}

// Raw returns the raw field name for a canonical key.
func (m Mapping) Raw(key string) (string, bool) {
	raw, ok := m.forward[key]
	return raw, ok
}

// Canonical returns the canonical key for a raw field name.
func (m Mapping) Canonical(raw string) (string, bool) {
	key, ok := m.reverse[raw]
	return key, ok
}

// Len returns the number of entries.
func (m Mapping) Len() int {
	return len(m.forward)
}

// Keys returns the canonical keys in sorted order.
func (m Mapping) Keys() []string {
	return slices.Sorted(maps.Keys(m.forward))
}
