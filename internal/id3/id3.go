// Package id3 adapts ID3v2 tags on MPEG audio files.
//
// Raw field names are frame IDs. User-defined text frames surface as
// "TXXX:<description>" and comments as "COMM" (or "COMM:<description>" for
// described comments), so several frames sharing an ID stay addressable.
//
// ID3v2.4 stores multiple values in one text frame separated by NUL. ID3v2.3
// has no such convention; sequences are collapsed into a single value joined
// with "/" on write, and are not split again on read.
package id3

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"

	binutil "github.com/simonhull/audiotags/internal/binary"
	"github.com/simonhull/audiotags/internal/mpeg"
	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
)

const (
	userTextID = "TXXX"
	commentID  = "COMM"
	lengthID   = "TLEN"

	commentLanguage = "eng"
)

// Mapping from canonical keys to frame names.
var Mapping = types.MustMapping(map[string]string{
	"title":                "TIT2",
	"version":              "TIT3",
	"grouping":             "TIT1",
	"artist":               "TPE1",
	"albumartist":          "TPE2",
	"conductor":            "TPE3",
	"arranger":             "TPE4",
	"album":                "TALB",
	"composer":             "TCOM",
	"lyricist":             "TEXT",
	"genre":                "TCON",
	"date":                 "TDRC",
	"originaldate":         "TDOR",
	"originalalbum":        "TOAL",
	"originalartist":       "TOPE",
	"tracknumber":          "TRCK",
	"discnumber":           "TPOS",
	"copyright":            "TCOP",
	"organization":         "TPUB",
	"encodedby":            "TENC",
	"bpm":                  "TBPM",
	"isrc":                 "TSRC",
	"language":             "TLAN",
	"comment":              commentID,
	"labelid":              "TXXX:CATALOGNUMBER",
	"musicbrainz_albumid":  "TXXX:MusicBrainz Album Id",
	"musicbrainz_artistid": "TXXX:MusicBrainz Artist Id",
})

func init() {
	registry.Register(&registry.Adapter{
		Name:     "id3",
		Formats:  []types.Format{types.FormatMP3},
		Mapping:  Mapping,
		Ignored:  registry.Ignored("APIC", "USLT"),
		Writable: true,
		Open:     Open,
	})
}

type handle struct {
	tag    *id3v2.Tag
	info   types.StreamInfo
	hadTag bool

	// frames and tag presence as of the last Save, restored by Discard
	saved       map[string][]id3v2.Framer
	savedHadTag bool
}

// Open parses the ID3v2 tag and probes the MPEG stream.
//
// A file with neither an ID3v2 tag nor a recognizable MPEG frame is
// rejected: there is nothing to read and nothing safe to write into.
func Open(path string) (registry.Handle, error) {
	info, hadTag, err := probe(path)
	if err != nil {
		return nil, err
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("parsing id3v2: %w", err)
	}

	h := &handle{tag: tag, info: info, hadTag: hadTag}
	if !h.info.HasLength {
		h.info = h.lengthFromFrame()
	}
	h.checkpoint()
	return h, nil
}

// checkpoint copies the current frames. Frame slices are cloned because
// the library recycles sequence storage when frames are deleted.
func (h *handle) checkpoint() {
	h.saved = make(map[string][]id3v2.Framer)
	for id, frames := range h.tag.AllFrames() {
		h.saved[id] = slices.Clone(frames)
	}
	h.savedHadTag = h.hadTag
}

func probe(path string) (types.StreamInfo, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.StreamInfo{}, false, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return types.StreamInfo{}, false, fmt.Errorf("stat: %w", err)
	}

	sr := binutil.NewSafeReader(f, stat.Size(), path)
	hadTag := mpeg.TagSize(sr) > 0

	info, err := mpeg.Probe(f, stat.Size(), path)
	if err != nil && !hadTag {
		return types.StreamInfo{}, false, err
	}
	return info, hadTag, nil
}

// lengthFromFrame falls back to the TLEN frame, which holds milliseconds.
func (h *handle) lengthFromFrame() types.StreamInfo {
	tf := h.tag.GetTextFrame(lengthID)
	ms, err := strconv.ParseFloat(strings.TrimSpace(strings.Trim(tf.Text, "\x00")), 64)
	if err != nil || ms <= 0 {
		return h.info
	}
	return h.info.WithLength(ms / 1000)
}

func (h *handle) Keys() []string {
	var keys []string
	for id, frames := range h.tag.AllFrames() {
		switch id {
		case userTextID, commentID:
			for _, f := range frames {
				keys = append(keys, describedName(id, description(f)))
			}
		default:
			keys = append(keys, id)
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

func (h *handle) Get(name string) (any, bool) {
	id, desc := splitName(name)

	switch id {
	case userTextID, commentID:
		var values []string
		for _, f := range h.tag.GetFrames(id) {
			if description(f) != desc {
				continue
			}
			switch f := f.(type) {
			case id3v2.UserDefinedTextFrame:
				values = append(values, splitValues(f.Value)...)
			case id3v2.CommentFrame:
				values = append(values, splitValues(f.Text)...)
			}
		}
		return values, len(values) > 0
	}

	frames := h.tag.GetFrames(id)
	switch {
	case len(frames) == 0:
		return nil, false
	case isTextID(id):
		tf, ok := frames[0].(id3v2.TextFrame)
		if !ok {
			return frames[0], true
		}
		values := splitValues(tf.Text)
		return values, len(values) > 0
	case len(frames) == 1:
		return frames[0], true
	default:
		return frames, true
	}
}

func (h *handle) Set(name string, values []string) (types.DeleteResult, error) {
	id, desc := splitName(name)
	_, present := h.Get(name)

	enc, joined := h.encode(values)

	switch id {
	case userTextID, commentID:
		h.deleteDescribed(id, desc)
		if len(values) == 0 {
			break
		}
		if id == userTextID {
			h.tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    enc,
				Description: desc,
				Value:       joined,
			})
		} else {
			h.tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    enc,
				Language:    commentLanguage,
				Description: desc,
				Text:        joined,
			})
		}
	default:
		if !isTextID(id) {
			return types.DeleteAbsent, fmt.Errorf("frame %s is not a text frame", id)
		}
		h.tag.DeleteFrames(id)
		if len(values) > 0 {
			h.tag.AddTextFrame(id, enc, joined)
		}
	}

	if len(values) == 0 && !present {
		return types.DeleteAbsent, nil
	}
	return types.DeleteRemoved, nil
}

// deleteDescribed removes the TXXX or COMM frames with one description and
// keeps the rest.
func (h *handle) deleteDescribed(id, desc string) {
	frames := slices.Clone(h.tag.GetFrames(id))
	h.tag.DeleteFrames(id)
	for _, f := range frames {
		if description(f) != desc {
			h.tag.AddFrame(id, f)
		}
	}
}

// encode picks the text encoding and multi-value separator for the tag version.
func (h *handle) encode(values []string) (id3v2.Encoding, string) {
	if h.tag.Version() == 3 {
		return id3v2.EncodingUTF16, strings.Join(values, "/")
	}
	return id3v2.EncodingUTF8, strings.Join(values, "\x00")
}

func (h *handle) EnsureTags() (types.EnsureResult, error) {
	if h.hadTag {
		return types.EnsureExisting, nil
	}
	// The tag header is written on the first Save.
	h.hadTag = true
	return types.EnsureCreated, nil
}

func (h *handle) Save() error {
	if err := h.tag.Save(); err != nil {
		return fmt.Errorf("saving id3v2: %w", err)
	}
	h.checkpoint()
	return nil
}

func (h *handle) Discard() {
	h.tag.DeleteAllFrames()
	for id, frames := range h.saved {
		for _, f := range frames {
			h.tag.AddFrame(id, f)
		}
	}
	h.hadTag = h.savedHadTag
}

func (h *handle) Warnings() []error { return nil }

func (h *handle) StreamInfo() types.StreamInfo {
	return h.info
}

func (h *handle) Close() error {
	err := h.tag.Close()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

// splitName splits "TXXX:desc" into the frame ID and description.
func splitName(name string) (id, desc string) {
	id, desc, _ = strings.Cut(name, ":")
	return id, desc
}

func describedName(id, desc string) string {
	if desc == "" {
		return id
	}
	return id + ":" + desc
}

func description(f id3v2.Framer) string {
	switch f := f.(type) {
	case id3v2.UserDefinedTextFrame:
		return f.Description
	case id3v2.CommentFrame:
		return f.Description
	}
	return ""
}

func isTextID(id string) bool {
	return strings.HasPrefix(id, "T") && id != userTextID
}

// splitValues splits a NUL-separated text frame, dropping the terminator.
func splitValues(text string) []string {
	values := strings.Split(text, "\x00")
	for len(values) > 0 && values[len(values)-1] == "" {
		values = values[:len(values)-1]
	}
	return values
}
