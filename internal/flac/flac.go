// Package flac adapts the Vorbis comment block of FLAC files.
//
// Raw field names are lower-cased comment names; unmapped fields pass
// through to the caller. Saving rewrites the whole file through a
// temporary file so a failed write never truncates the audio.
package flac

import (
	"fmt"
	"os"
	"slices"

	goflac "github.com/go-flac/go-flac"
	"github.com/go-flac/flacvorbis"

	"github.com/simonhull/audiotags/internal/atomicfile"
	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
	"github.com/simonhull/audiotags/internal/vorbis"
)

// Mapping holds the canonical keys whose comment name differs.
var Mapping = types.MustMapping(map[string]string{
	"labelid": "catalognumber",
})

func init() {
	registry.Register(&registry.Adapter{
		Name:     "flac",
		Formats:  []types.Format{types.FormatFLAC},
		Mapping:  Mapping,
		Ignored:  registry.Ignored("metadata_block_picture"),
		Writable: true,
		Others:   true,
		Open:     Open,
	})
}

type handle struct {
	path     string
	file     *goflac.File
	comments *vorbis.Comments
	vendor   string
	info     types.StreamInfo
	warnings []error

	// index of the VORBIS_COMMENT block in file.Meta, -1 when absent
	commentBlock int

	// state as of the last Save, restored by Discard
	saved      *vorbis.Comments
	savedBlock int
}

// Open parses the metadata blocks of a FLAC file.
func Open(path string) (registry.Handle, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing flac: %w", err)
	}

	h := &handle{
		path:         path,
		file:         f,
		comments:     &vorbis.Comments{},
		commentBlock: -1,
	}

	audioSize := stat.Size() - metadataSize(f)

	for i, block := range f.Meta {
		switch block.Type {
		case goflac.StreamInfo:
			info, err := parseStreamInfo(block.Data, audioSize)
			if err != nil {
				return nil, err
			}
			h.info = info
		case goflac.VorbisComment:
			if h.commentBlock >= 0 {
				continue
			}
			cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, fmt.Errorf("parsing vorbis comment: %w", err)
			}
			h.commentBlock = i
			h.vendor = cmt.Vendor
			// Malformed comments are dropped; the rest of the block is still usable
			h.comments, h.warnings = vorbis.FromLines(cmt.Comments)
		}
	}

	h.checkpoint()
	return h, nil
}

// metadataSize is the byte length of the magic plus every metadata block,
// i.e. the offset where the audio frames start.
func metadataSize(f *goflac.File) int64 {
	size := int64(len("fLaC"))
	for _, block := range f.Meta {
		size += 4 + int64(len(block.Data))
	}
	return size
}

func (h *handle) checkpoint() {
	h.saved = h.comments.Clone()
	h.savedBlock = h.commentBlock
}

func (h *handle) Keys() []string {
	return h.comments.Keys()
}

func (h *handle) Get(name string) (any, bool) {
	return h.comments.Get(name)
}

func (h *handle) Set(name string, values []string) (types.DeleteResult, error) {
	if !h.comments.Set(name, values) {
		return types.DeleteAbsent, nil
	}
	return types.DeleteRemoved, nil
}

func (h *handle) EnsureTags() (types.EnsureResult, error) {
	if h.commentBlock >= 0 {
		return types.EnsureExisting, nil
	}
	blk := flacvorbis.New().Marshal()
	h.file.Meta = append(h.file.Meta, &blk)
	h.commentBlock = len(h.file.Meta) - 1
	return types.EnsureCreated, nil
}

func (h *handle) Save() error {
	if _, err := h.EnsureTags(); err != nil {
		return err
	}

	cmt := flacvorbis.New()
	if h.vendor != "" {
		cmt.Vendor = h.vendor
	}
	cmt.Comments = h.comments.Lines()
	blk := cmt.Marshal()
	h.file.Meta[h.commentBlock] = &blk

	if err := atomicfile.WriteBytes(h.path, h.file.Marshal()); err != nil {
		return fmt.Errorf("saving flac: %w", err)
	}
	h.checkpoint()
	return nil
}

func (h *handle) Discard() {
	h.comments = h.saved.Clone()
	if h.savedBlock < 0 && h.commentBlock >= 0 {
		// The block was only created in memory
		h.file.Meta = slices.Delete(h.file.Meta, h.commentBlock, h.commentBlock+1)
	}
	h.commentBlock = h.savedBlock
}

func (h *handle) Warnings() []error {
	return h.warnings
}

func (h *handle) StreamInfo() types.StreamInfo {
	return h.info
}

func (h *handle) Close() error {
	h.file = nil
	return nil
}
