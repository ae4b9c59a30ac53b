// Package registry holds the format adapters and the contract they implement.
//
// Each codec family lives in its own package and registers an Adapter from
// init(). The façade looks adapters up by format and never probes codec
// objects for capabilities at runtime: everything it needs is declared on
// the Adapter descriptor.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/simonhull/audiotags/internal/types"
)

// DefaultIgnored lists raw names that never surface as tags, whatever the
// format: embedded artwork and lyrics blobs.
var DefaultIgnored = []string{"coverart", "cover", "lyrics", "Cover Art (front)"}

// Handle is an open codec handle for one file.
//
// A Handle is owned by exactly one façade and is not safe for concurrent use.
type Handle interface {
	// Keys lists the raw field names currently present.
	Keys() []string

	// Get returns the raw value of a field in whatever shape the codec
	// uses (string, []string, numbers, byte slices, codec structs).
	Get(name string) (any, bool)

	// Set stages a write. Empty values stage a delete, which reports
	// DeleteAbsent when there was nothing to remove. Nothing is persisted
	// until Save.
	Set(name string, values []string) (types.DeleteResult, error)

	// EnsureTags makes sure the file has a tag block to write into.
	EnsureTags() (types.EnsureResult, error)

	// Save persists staged changes.
	Save() error

	// Discard drops every change staged since the last successful Save
	// (or since Open), leaving the handle as it was then.
	Discard()

	// Warnings returns non-fatal problems found while opening, such as
	// malformed fields that were skipped.
	Warnings() []error

	// StreamInfo returns what the codec knows about the audio stream.
	StreamInfo() types.StreamInfo

	// Close releases the handle.
	Close() error
}

// OpenFunc opens a codec handle. Any error means the file is not readable
// by this adapter; the façade reports it as *types.NotReadableError.
type OpenFunc func(path string) (Handle, error)

// Adapter describes one format variant: its capabilities, its field-name
// mapping and how to open a handle.
type Adapter struct {
	Open    OpenFunc
	Mapping types.Mapping
	Name    string
	Ignored []string
	Formats []types.Format

	// Writable reports whether Save can persist changes.
	Writable bool

	// Others reports whether unmapped raw fields pass through verbatim.
	Others bool
}

// IsIgnored reports whether a raw name or canonical key must never surface.
// Names are compared case-insensitively: several adapters lower-case their
// raw surface.
func (a *Adapter) IsIgnored(name string) bool {
	return slices.ContainsFunc(a.Ignored, func(ignored string) bool {
		return strings.EqualFold(ignored, name)
	})
}

// Validate checks the descriptor is usable.
func (a *Adapter) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("adapter has no name")
	}
	if a.Open == nil {
		return fmt.Errorf("adapter %s: no open function", a.Name)
	}
	if len(a.Formats) == 0 {
		return fmt.Errorf("adapter %s: no formats", a.Name)
	}
	return nil
}

var (
	mu       sync.RWMutex
	adapters = make(map[types.Format]*Adapter)
)

// Register registers an adapter for all of its formats.
// This is called by adapter packages during initialization (init functions).
//
// Panics if the descriptor is invalid: a broken adapter is a programming
// error that should fail at startup, not on the first file.
func Register(a *Adapter) {
	if err := a.Validate(); err != nil {
		panic(err)
	}
	mu.Lock()
	defer mu.Unlock()
	for _, f := range a.Formats {
		adapters[f] = a
	}
}

// Get returns the adapter for a format.
// Returns nil if no adapter is registered for the format.
func Get(format types.Format) *Adapter {
	mu.RLock()
	defer mu.RUnlock()
	return adapters[format]
}

// Formats returns every format with a registered adapter, in enum order.
func Formats() []types.Format {
	mu.RLock()
	defer mu.RUnlock()
	formats := make([]types.Format, 0, len(adapters))
	for f := range adapters {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// Ignored builds an ignore list from the defaults plus format extras.
func Ignored(extra ...string) []string {
	return append(slices.Clone(DefaultIgnored), extra...)
}
