// Package tlib adapts every format TagLib understands through its unified
// property map: Ogg Vorbis, Opus, WAV, AIFF, WavPack, Monkey's Audio,
// Musepack and WMA.
//
// TagLib reports property names in upper case. They are lower-cased on the
// raw surface and upper-cased again on write.
package tlib

import (
	"fmt"
	"strings"

	"go.senan.xyz/taglib"

	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
	"github.com/simonhull/audiotags/internal/vorbis"
)

// Mapping holds the canonical keys whose TagLib property name differs.
var Mapping = types.MustMapping(map[string]string{
	"labelid": "catalognumber",
})

func init() {
	registry.Register(&registry.Adapter{
		Name: "taglib",
		Formats: []types.Format{
			types.FormatOgg,
			types.FormatOpus,
			types.FormatWAV,
			types.FormatAIFF,
			types.FormatWavPack,
			types.FormatAPE,
			types.FormatMusepack,
			types.FormatWMA,
		},
		Mapping:  Mapping,
		Ignored:  registry.Ignored(),
		Writable: true,
		Others:   true,
		Open:     Open,
	})
}

type handle struct {
	path     string
	comments *vorbis.Comments
	saved    *vorbis.Comments
	info     types.StreamInfo
	dirty    bool
}

// Open reads the property map and audio properties.
func Open(path string) (registry.Handle, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	comments := vorbis.FromMap(tags)
	h := &handle{path: path, comments: comments, saved: comments.Clone()}

	// Properties are best-effort; some containers report none
	if props, err := taglib.ReadProperties(path); err == nil {
		h.info = propertiesInfo(props)
	}

	return h, nil
}

// propertiesInfo converts TagLib's audio properties. TagLib reports the
// bitrate in kbit/s.
func propertiesInfo(props taglib.Properties) types.StreamInfo {
	return types.StreamInfo{}.
		WithLength(props.Length.Seconds()).
		WithBitrate(int(props.Bitrate) * 1000)
}

func (h *handle) Keys() []string {
	return h.comments.Keys()
}

func (h *handle) Get(name string) (any, bool) {
	return h.comments.Get(name)
}

func (h *handle) Set(name string, values []string) (types.DeleteResult, error) {
	changed := h.comments.Set(name, values)
	if !changed {
		return types.DeleteAbsent, nil
	}
	h.dirty = true
	return types.DeleteRemoved, nil
}

func (h *handle) EnsureTags() (types.EnsureResult, error) {
	// TagLib creates whatever tag block the container needs on write
	if h.comments.Len() > 0 {
		return types.EnsureExisting, nil
	}
	return types.EnsureCreated, nil
}

func (h *handle) Save() error {
	if !h.dirty {
		return nil
	}
	if err := taglib.WriteTags(h.path, propertyMap(h.comments), taglib.Clear); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	h.saved = h.comments.Clone()
	h.dirty = false
	return nil
}

func (h *handle) Discard() {
	if h.saved != nil {
		h.comments = h.saved.Clone()
	}
	h.dirty = false
}

func (h *handle) Warnings() []error { return nil }

func (h *handle) StreamInfo() types.StreamInfo {
	return h.info
}

func (h *handle) Close() error {
	return nil
}

// propertyMap renders the store as a complete TagLib property map. It is
// written with taglib.Clear, so fields missing from the map are removed.
func propertyMap(c *vorbis.Comments) map[string][]string {
	m := make(map[string][]string, c.Len())
	for _, name := range c.Keys() {
		values, _ := c.Get(name)
		m[strings.ToUpper(name)] = values
	}
	return m
}
