package types

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ReservedPrefix marks computed, read-only keys such as "__length".
//
// Callers across the system hardcode this marker, so it must never change.
const ReservedPrefix = "__"

// Computed (info) keys. They are derived from stream properties and are
// never written to a file.
const (
	KeyLength  = "__length"
	KeyBitrate = "__bitrate"
)

// KeyTitle is the only key the façade fabricates when a file has no value for it.
const KeyTitle = "title"

// InfoTags lists the computed keys in the order they are resolved.
var InfoTags = []string{KeyBitrate, KeyLength}

// ValidTags is the published canonical vocabulary. It is advisory: adapters
// that pass unmapped fields through may surface keys outside this list.
var ValidTags = []string{
	// Ogg Vorbis field names
	"title", "version", "album", "tracknumber", "artist", "genre", "performer",
	"copyright", "license", "organization", "description", "location",
	"contact", "isrc", "date",

	// Other common fields
	"arranger", "author", "composer", "conductor", "lyricist", "discnumber",
	"labelid", "part", "website", "language", "encodedby", "bpm",
	"albumartist", "originaldate", "originalalbum", "originalartist",
	"recordingdate",
}

// IsValidTag reports whether key belongs to the published vocabulary.
func IsValidTag(key string) bool {
	return slices.Contains(ValidTags, key)
}

// IsReserved reports whether key lives in the internal computed namespace.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, ReservedPrefix)
}

// IsInfoTag reports whether key is one of the computed keys.
func IsInfoTag(key string) bool {
	return slices.Contains(InfoTags, key)
}

// Value is the value of a single tag: an ordered sequence of strings.
//
// A nil or empty Value means the tag is absent. Single-valued fields are
// one-element sequences.
type Value []string

// Scalar returns a one-element Value.
func Scalar(s string) Value {
	return Value{s}
}

// IsEmpty reports whether v carries no data.
func (v Value) IsEmpty() bool {
	return len(v) == 0
}

// First returns the first element, or "" when v is empty.
func (v Value) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// String surfaces v as a scalar by joining its elements with ", ".
func (v Value) String() string {
	return strings.Join(v, ", ")
}

// Clone returns a copy of v that shares no memory with it.
func (v Value) Clone() Value {
	if v == nil {
		return nil
	}
	return slices.Clone(v)
}

// TagSet maps canonical tag keys to values.
//
// It is the unit exchanged with callers: produced by every read, consumed by
// every write. Keys are unique and order is irrelevant.
type TagSet map[string]Value

// Get returns a copy of the value for key, or nil if absent.
func (ts TagSet) Get(key string) Value {
	return ts[key].Clone()
}

// GetFirst returns the first value for key, or "" if absent.
//
//	artist := tags.GetFirst("artist")
func (ts TagSet) GetFirst(key string) string {
	return ts[key].First()
}

// Has reports whether key has a non-empty value.
func (ts TagSet) Has(key string) bool {
	return !ts[key].IsEmpty()
}

// Set sets the values for key. Calling Set with no values removes the key.
//
//	tags.Set("genre", "Rock", "Alternative") // multi-value
func (ts TagSet) Set(key string, values ...string) {
	if len(values) == 0 {
		delete(ts, key)
		return
	}
	ts[key] = slices.Clone(values)
}

// Delete removes key.
func (ts TagSet) Delete(key string) {
	delete(ts, key)
}

// Keys returns the keys in sorted order.
func (ts TagSet) Keys() []string {
	return slices.Sorted(maps.Keys(ts))
}

// All returns an iterator over the tags in key order.
//
//	for key, values := range tags.All() {
//		fmt.Printf("%s: %v\n", key, values)
//	}
//
// Do not modify the yielded slices.
func (ts TagSet) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range ts.Keys() {
			if !yield(key, ts[key]) {
				return
			}
		}
	}
}

// Filter returns an iterator over the tags whose key matches predicate.
//
//	for key, values := range tags.Filter(types.IsReserved) {
//		fmt.Printf("%s: %v\n", key, values)
//	}
func (ts TagSet) Filter(predicate func(string) bool) iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for key, values := range ts.All() {
			if predicate(key) {
				if !yield(key, values) {
					return
				}
			}
		}
	}
}

// Clone creates a deep copy of the set.
func (ts TagSet) Clone() TagSet {
	if ts == nil {
		return nil
	}
	clone := make(TagSet, len(ts))
	for key, values := range ts {
		clone[key] = values.Clone()
	}
	return clone
}

// Without returns a deep copy of the set with keys removed.
func (ts TagSet) Without(keys ...string) TagSet {
	clone := ts.Clone()
	for _, key := range keys {
		delete(clone, key)
	}
	return clone
}

// Equal reports whether both sets hold the same keys with the same ordered values.
func (ts TagSet) Equal(other TagSet) bool {
	return maps.EqualFunc(ts, other, func(a, b Value) bool {
		return slices.Equal(a, b)
	})
}

// Length returns the computed stream length in seconds.
func (ts TagSet) Length() (float64, bool) {
	s := ts.GetFirst(KeyLength)
	if s == "" {
		return 0, false
	}
	length, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return length, true
}

// Bitrate returns the computed bitrate in bits per second.
func (ts TagSet) Bitrate() (int, bool) {
	s := ts.GetFirst(KeyBitrate)
	if s == "" {
		return 0, false
	}
	bitrate, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return bitrate, true
}

// FormatLength renders a length in seconds the way it is stored in a TagSet.
func FormatLength(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

// FormatBitrate renders a bitrate the way it is stored in a TagSet.
func FormatBitrate(bps int) string {
	return strconv.Itoa(bps)
}
