package audiotags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
)

var errClosed = errors.New("file is closed")

// File is an audio file opened for tag access.
//
// File exposes every supported format through the same canonical key
// space. It holds the codec handle open until Close is called and is not
// safe for concurrent use; use one File per goroutine.
//
//	file, err := audiotags.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//
//	tags := file.ReadAll()
//	fmt.Println(tags.GetFirst("artist"), "-", tags.GetFirst("title"))
type File struct {
	// Path to the audio file
	Path string

	// Format the file was opened as
	Format Format

	// Warnings encountered while reading (non-fatal issues), deduplicated
	Warnings []Warning

	adapter *registry.Adapter
	handle  registry.Handle
	logger  *zap.Logger
	options *openOptions
	seen    map[Warning]struct{}
}

// Open opens an audio file for reading and writing tags.
//
// The format is chosen from the file extension, falling back to magic
// bytes, unless WithFormat is given. Opening fails fast: any problem
// reading the file yields a *NotReadableError and no File.
//
// Example:
//
//	file, err := audiotags.Open("song.mp3")
//	if errors.Is(err, audiotags.ErrNotReadable) {
//		// skip this file
//	}
func Open(path string, opts ...Option) (*File, error) {
	options := applyOptions(opts)

	format := options.format
	if format == FormatUnknown {
		detected, err := detectFormat(path)
		if err != nil {
			return nil, &NotReadableError{Path: path, Err: err}
		}
		format = detected
	}

	return open(path, format, options)
}

// OpenWith opens a file with the adapter for an explicit format.
func OpenWith(path string, format Format, opts ...Option) (*File, error) {
	options := applyOptions(opts)
	return open(path, format, options)
}

func detectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return FormatUnknown, fmt.Errorf("stat file: %w", err)
	}
	return types.DetectFormat(f, stat.Size(), path)
}

func open(path string, format Format, options *openOptions) (*File, error) {
	adapter := registry.Get(format)
	if adapter == nil {
		return nil, &NotReadableError{
			Path:   path,
			Format: format,
			Err: &UnsupportedFormatError{
				Path:   path,
				Reason: fmt.Sprintf("no adapter registered for format %s", format),
			},
		}
	}

	h, err := adapter.Open(path)
	if err != nil {
		options.logger.Debug("open failed",
			zap.String("path", path),
			zap.Stringer("format", format),
			zap.Error(err))
		return nil, &NotReadableError{Path: path, Format: format, Err: err}
	}

	f := &File{
		Path:    path,
		Format:  format,
		adapter: adapter,
		handle:  h,
		logger:  options.logger.With(zap.String("path", path), zap.Stringer("format", format)),
		options: options,
		seen:    make(map[Warning]struct{}),
	}
	for _, w := range h.Warnings() {
		f.warn("open", "", w.Error())
	}
	return f, nil
}

// Close releases the codec handle.
//
// After Close is called, the File should not be used. Calling Close more
// than once is a no-op.
func (f *File) Close() error {
	if f.handle == nil {
		return nil
	}
	err := f.handle.Close()
	f.handle = nil
	return err
}

// Writable reports whether WriteTags can persist changes for this file.
func (f *File) Writable() bool {
	return f.adapter.Writable
}

// ReadAll returns every tag the file exposes, plus the computed keys and
// the title fallback.
//
// Raw fields are translated through the format's mapping; unmapped fields
// pass through verbatim when the format allows it. Ignored fields (cover
// art, lyrics) never appear. A passthrough field whose name starts with
// ReservedPrefix is dropped with a warning.
//
// ReadAll never fails on an open File. Calling it twice without an
// intervening write returns equal sets.
func (f *File) ReadAll() TagSet {
	if f.handle == nil {
		return TagSet{}
	}

	keys := make([]string, 0)
	seen := make(map[string]bool)
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	for _, raw := range f.handle.Keys() {
		if f.adapter.IsIgnored(raw) {
			continue
		}
		key, ok := f.adapter.Mapping.Canonical(raw)
		if !ok {
			if !f.adapter.Others {
				continue
			}
			if types.IsReserved(raw) {
				f.warn("read", raw, "raw field uses the reserved prefix; dropped")
				continue
			}
			key = raw
		}
		add(key)
	}
	add(KeyTitle)
	for _, key := range InfoTags {
		add(key)
	}

	return f.ReadTags(keys...)
}

// ReadTags resolves only the requested keys. Keys that cannot be resolved
// are omitted from the result.
func (f *File) ReadTags(keys ...string) TagSet {
	tags := make(TagSet, len(keys))
	if f.handle == nil {
		return tags
	}
	for _, key := range keys {
		if v, ok := f.resolve(key); ok {
			tags[key] = v
		}
	}
	return tags
}

// resolve looks up one canonical key. The order is: computed keys, the
// format mapping, verbatim passthrough, then the title fallback.
func (f *File) resolve(key string) (Value, bool) {
	if f.adapter.IsIgnored(key) {
		return nil, false
	}

	if types.IsReserved(key) {
		return f.computed(key)
	}

	if raw, ok := f.adapter.Mapping.Raw(key); ok && !f.adapter.IsIgnored(raw) {
		if v := f.raw(raw); !v.IsEmpty() {
			return v, true
		}
	}

	if f.adapter.Others {
		if v := f.raw(key); !v.IsEmpty() {
			return v, true
		}
	}

	if key == KeyTitle {
		return Value{filepath.Base(f.Path)}, true
	}

	return nil, false
}

// computed resolves the reserved keys. Reserved keys other than the
// computed ones never resolve.
func (f *File) computed(key string) (Value, bool) {
	info := f.handle.StreamInfo()

	switch key {
	case KeyLength:
		if info.HasLength {
			return Value{types.FormatLength(info.Length)}, true
		}
	case KeyBitrate:
		if info.HasBitrate {
			return Value{types.FormatBitrate(info.Bitrate)}, true
		}
	default:
		return nil, false
	}

	// The codec may still expose the value as a raw field
	if v := f.raw(key); !v.IsEmpty() {
		return v, true
	}
	return nil, false
}

// raw fetches and normalizes one raw field.
func (f *File) raw(name string) Value {
	v, ok := f.handle.Get(name)
	if !ok {
		return nil
	}
	return normalize(v)
}

// RawFields returns the codec's raw surface, normalized to string values.
//
// Unlike ReadAll no mapping, ignore list or fallback is applied. It is
// meant for inspecting files, not for round-tripping.
func (f *File) RawFields() map[string]Value {
	fields := make(map[string]Value)
	if f.handle == nil {
		return fields
	}
	for _, name := range f.handle.Keys() {
		if v := f.raw(name); !v.IsEmpty() {
			fields[name] = v
		}
	}
	return fields
}

// warn records a warning once and logs it.
func (f *File) warn(stage, key, message string) {
	w := Warning{Stage: stage, Key: key, Message: message}
	if _, dup := f.seen[w]; dup {
		return
	}
	f.seen[w] = struct{}{}
	f.logger.Warn(message, zap.String("stage", stage), zap.String("key", key))
	if !f.options.ignoreWarnings {
		f.Warnings = append(f.Warnings, w)
	}
}
