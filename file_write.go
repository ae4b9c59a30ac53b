package audiotags

import (
	"fmt"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/simonhull/audiotags/internal/atomicfile"
	"github.com/simonhull/audiotags/internal/types"
)

// stagedField is one raw field write planned by WriteTags.
type stagedField struct {
	key    string
	raw    string
	values Value
}

// WriteTags writes a TagSet to the file.
//
// Every key is translated through the format mapping, passed through
// verbatim if the format allows unmapped fields, or dropped. Computed and
// reserved keys are never written. An empty Value deletes the field.
// Keys not present in tags are left untouched.
//
// Formats without write support return *NotWritableError and the file is
// not modified. The caller's TagSet is never modified. If staging or saving
// fails, the staged changes are discarded so the File keeps reporting what
// is on disk.
//
// Options can be provided to customize save behavior:
//
//	err := file.WriteTags(tags,
//	    audiotags.WithBackup(".bak"),
//	    audiotags.WithPreserveModTime(),
//	)
func (f *File) WriteTags(tags TagSet, opts ...WriteOption) error {
	if f.handle == nil {
		return errClosed
	}
	if !f.adapter.Writable {
		return &NotWritableError{Path: f.Path, Format: f.Format, Reason: "format is read-only"}
	}

	options := &writeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	staged := f.plan(tags.Clone())

	var modTime time.Time
	if options.preserveModTime {
		if info, err := os.Stat(f.Path); err == nil {
			modTime = info.ModTime()
		}
	}

	if options.backupSuffix != "" {
		if err := atomicfile.Copy(f.Path, f.Path+options.backupSuffix); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := f.stage(staged); err != nil {
		f.handle.Discard()
		return err
	}
	if err := f.handle.Save(); err != nil {
		f.handle.Discard()
		return fmt.Errorf("save: %w", err)
	}
	f.logger.Debug("tags written", zap.Int("fields", len(staged)))

	if !modTime.IsZero() {
		_ = os.Chtimes(f.Path, modTime, modTime) //nolint:errcheck // Non-fatal: tags were written successfully
	}

	if options.validate {
		if err := f.validate(staged); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// stage prepares the tag block and stages every planned field on the
// handle. Nothing is persisted.
func (f *File) stage(staged []stagedField) error {
	ensured, err := f.handle.EnsureTags()
	if err != nil {
		return fmt.Errorf("prepare tags: %w", err)
	}
	switch ensured {
	case types.EnsureUnsupported:
		return &NotWritableError{Path: f.Path, Format: f.Format, Reason: "format cannot carry a tag block"}
	case types.EnsureCreated:
		f.logger.Debug("created empty tag block")
	}

	for _, field := range staged {
		result, err := f.handle.Set(field.raw, field.values)
		if err != nil {
			return fmt.Errorf("stage %s: %w", field.key, err)
		}
		if result == types.DeleteAbsent && field.values.IsEmpty() {
			f.logger.Debug("delete of absent field", zap.String("key", field.key))
		}
	}
	return nil
}

// plan maps canonical keys to raw field writes, in key order.
func (f *File) plan(tags TagSet) []stagedField {
	var staged []stagedField
	for key, values := range tags.All() {
		if types.IsReserved(key) {
			continue
		}

		raw, ok := f.adapter.Mapping.Raw(key)
		if !ok {
			if !f.adapter.Others {
				f.logger.Debug("no field for key; dropped", zap.String("key", key))
				continue
			}
			raw = key
		}

		if f.adapter.IsIgnored(key) || f.adapter.IsIgnored(raw) {
			continue
		}
		staged = append(staged, stagedField{key: key, raw: raw, values: values})
	}
	return staged
}

// validate re-opens the written file and compares every written key.
func (f *File) validate(staged []stagedField) error {
	written, err := OpenWith(f.Path, f.Format, WithLogger(f.logger))
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close() //nolint:errcheck // Best effort close

	for _, field := range staged {
		got, ok := written.resolve(field.key)
		switch {
		case field.values.IsEmpty():
			if ok && field.key != KeyTitle {
				return fmt.Errorf("%s: still present after delete", field.key)
			}
		case !slices.Equal(got, field.values):
			return fmt.Errorf("%s mismatch: got %q, want %q", field.key, got, field.values)
		}
	}
	return nil
}
