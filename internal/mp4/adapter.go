package mp4

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/dhowden/tag"

	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
)

// Mapping from canonical keys to iTunes atom names.
var Mapping = types.MustMapping(map[string]string{
	"title":       "\xa9nam",
	"artist":      "\xa9ART",
	"album":       "\xa9alb",
	"albumartist": "aART",
	"composer":    "\xa9wrt",
	"genre":       "\xa9gen",
	"date":        "\xa9day",
	"comment":     "\xa9cmt",
	"tracknumber": "trkn",
	"discnumber":  "disk",
	"copyright":   "cprt",
	"encodedby":   "\xa9too",
	"grouping":    "\xa9grp",
	"bpm":         "tmpo",
	"compilation": "cpil",
})

var errReadOnly = errors.New("mp4 tags are read-only")

func init() {
	registry.Register(&registry.Adapter{
		Name:    "mp4",
		Formats: []types.Format{types.FormatM4A, types.FormatM4B},
		Mapping: Mapping,
		Ignored: registry.Ignored("covr", "\xa9lyr"),
		Open:    Open,
	})
}

type handle struct {
	raw  map[string]any
	info types.StreamInfo
}

// Open reads the ilst atoms and the movie header of an MP4 file.
func Open(path string) (registry.Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	if !IsMP4(f, stat.Size(), path) {
		return nil, &types.CorruptedFileError{Path: path, Reason: "missing ftyp atom"}
	}

	m, err := tag.ReadAtoms(f)
	if err != nil {
		return nil, fmt.Errorf("reading atoms: %w", err)
	}

	// Stream info is best-effort; tags are still useful without it
	info, _ := ProbeMovie(f, stat.Size(), path) //nolint:errcheck // missing mvhd leaves length absent

	return &handle{raw: maps.Clone(m.Raw()), info: info}, nil
}

func (h *handle) Keys() []string {
	return slices.Sorted(maps.Keys(h.raw))
}

func (h *handle) Get(name string) (any, bool) {
	v, ok := h.raw[name]
	return v, ok
}

func (h *handle) Set(string, []string) (types.DeleteResult, error) {
	return types.DeleteAbsent, errReadOnly
}

func (h *handle) EnsureTags() (types.EnsureResult, error) {
	return types.EnsureUnsupported, nil
}

func (h *handle) Save() error {
	return errReadOnly
}

// Discard is a no-op: nothing can be staged on a read-only handle.
func (h *handle) Discard() {}

func (h *handle) Warnings() []error { return nil }

func (h *handle) StreamInfo() types.StreamInfo {
	return h.info
}

func (h *handle) Close() error {
	return nil
}
