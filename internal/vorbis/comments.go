// Package vorbis provides the field store shared by the Vorbis-comment style
// adapters (FLAC, and the TagLib property map used for Ogg, Opus, APE and
// friends).
//
// Vorbis comment field names are case-insensitive. Comments keeps every
// field under its lower-cased name and preserves insertion order so a file
// is rewritten with its fields in the order they were read.
package vorbis

import (
	"fmt"
	"slices"
	"strings"
)

// Comments is an ordered, case-insensitive multi-map of comment fields.
//
// The zero value is ready to use.
type Comments struct {
	values map[string][]string // normalized name -> values
	order  []string            // normalized names, insertion order
}

// Normalize returns the lookup form of a field name.
func Normalize(name string) string {
	return strings.ToLower(name)
}

// ParseComment splits a single "KEY=VALUE" comment.
//
// Returns an error if the comment has no '=' or an empty key.
func ParseComment(comment string) (key, value string, err error) {
	key, value, found := strings.Cut(comment, "=")
	if !found {
		return "", "", fmt.Errorf("missing '=' in comment: %q", comment)
	}
	if key == "" {
		return "", "", fmt.Errorf("empty field name in comment: %q", comment)
	}
	return key, value, nil
}

// FormatComment joins a field name and value into "KEY=VALUE".
func FormatComment(key, value string) string {
	return key + "=" + value
}

// Add appends a value to a field, creating it if needed.
func (c *Comments) Add(name, value string) {
	c.init()
	norm := Normalize(name)
	if _, ok := c.values[norm]; !ok {
		c.order = append(c.order, norm)
	}
	c.values[norm] = append(c.values[norm], value)
}

// Set replaces all values of a field. Setting no values deletes it.
//
// Returns false if values is empty and the field was already absent.
func (c *Comments) Set(name string, values []string) bool {
	if len(values) == 0 {
		return c.Delete(name)
	}
	c.init()
	norm := Normalize(name)
	if _, ok := c.values[norm]; !ok {
		c.order = append(c.order, norm)
	}
	c.values[norm] = slices.Clone(values)
	return true
}

// Delete removes a field. Returns false if it was not present.
func (c *Comments) Delete(name string) bool {
	norm := Normalize(name)
	if _, ok := c.values[norm]; !ok {
		return false
	}
	delete(c.values, norm)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == norm })
	return true
}

// Get returns a copy of a field's values, looked up case-insensitively.
func (c *Comments) Get(name string) ([]string, bool) {
	values, ok := c.values[Normalize(name)]
	if !ok {
		return nil, false
	}
	return slices.Clone(values), true
}

// Keys returns the normalized field names in insertion order.
func (c *Comments) Keys() []string {
	return slices.Clone(c.order)
}

// Len returns the number of distinct fields.
func (c *Comments) Len() int {
	return len(c.order)
}

// Lines renders the fields as "KEY=VALUE" comments in insertion order,
// using upper-case names as the Vorbis convention recommends.
func (c *Comments) Lines() []string {
	var lines []string
	for _, norm := range c.order {
		key := strings.ToUpper(norm)
		for _, v := range c.values[norm] {
			lines = append(lines, FormatComment(key, v))
		}
	}
	return lines
}

// Clone returns an independent copy.
func (c *Comments) Clone() *Comments {
	clone := &Comments{}
	for _, norm := range c.order {
		clone.Set(norm, c.values[norm])
	}
	return clone
}

func (c *Comments) init() {
	if c.values == nil {
		c.values = make(map[string][]string)
	}
}

// FromLines parses "KEY=VALUE" comments into a Comments store.
//
// Malformed comments are skipped and reported in the returned slice so the
// caller can surface them as warnings.
func FromLines(lines []string) (*Comments, []error) {
	c := &Comments{}
	var errs []error
	for _, line := range lines {
		key, value, err := ParseComment(line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.Add(key, value)
	}
	return c, errs
}

// FromMap loads a name -> values map, sorting names for a stable order.
func FromMap(m map[string][]string) *Comments {
	c := &Comments{}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		c.Set(name, m[name])
	}
	return c
}
