package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrNotReadable matches any *NotReadableError.
	ErrNotReadable = errors.New("not readable")
	// ErrNotWritable matches any *NotWritableError.
	ErrNotWritable = errors.New("not writable")
)

// NotReadableError is returned when a file's tags cannot be opened or parsed.
//
// It is fatal for that file: no partial TagSet is produced.
type NotReadableError struct {
	Err    error
	Path   string
	Format Format
}

func (e *NotReadableError) Error() string {
	if e.Format != FormatUnknown {
		return fmt.Sprintf("%s: cannot read %s tags: %v", e.Path, e.Format, e.Err)
	}
	return fmt.Sprintf("%s: cannot read tags: %v", e.Path, e.Err)
}

func (e *NotReadableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotReadable) match.
func (e *NotReadableError) Is(target error) bool { return target == ErrNotReadable }

// NotWritableError is returned when tags cannot be written to a file,
// either because its format has no write support or because the codec
// refused to create a tag block.
type NotWritableError struct {
	Path   string
	Reason string
	Format Format
}

func (e *NotWritableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: write not supported for %s: %s", e.Path, e.Format, e.Reason)
	}
	return fmt.Sprintf("%s: write not supported for %s", e.Path, e.Format)
}

// Is lets errors.Is(err, ErrNotWritable) match.
func (e *NotWritableError) Is(target error) bool { return target == ErrNotWritable }

// UnsupportedFormatError is returned when no adapter can handle a file.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// MappingCollisionError reports a field mapping that is not injective.
type MappingCollisionError struct {
	Raw  string
	Keys []string
}

func (e *MappingCollisionError) Error() string {
	return fmt.Sprintf("raw field %q is mapped from more than one key: %s",
		e.Raw, strings.Join(e.Keys, ", "))
}

// Warning represents a non-fatal issue encountered while reading tags.
//
// Examples include a raw field whose name collides with the reserved
// prefix, or a value that could not be decoded and was passed through.
type Warning struct {
	// Stage where the warning occurred ("open", "read", "write")
	Stage string

	// Tag key or raw field name involved, if any
	Key string

	// Warning message
	Message string
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Key != "" {
		return fmt.Sprintf("%s (%s): %s", w.Stage, w.Key, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// EnsureResult is the outcome of making sure a file has a tag block to write into.
type EnsureResult int

const (
	// EnsureExisting means the file already had a tag block.
	EnsureExisting EnsureResult = iota
	// EnsureCreated means an empty tag block was created.
	EnsureCreated
	// EnsureUnsupported means the format cannot carry a tag block.
	EnsureUnsupported
)

func (r EnsureResult) String() string {
	switch r {
	case EnsureExisting:
		return "existing"
	case EnsureCreated:
		return "created"
	case EnsureUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("EnsureResult(%d)", int(r))
	}
}

// DeleteResult is the outcome of staging a delete.
type DeleteResult int

const (
	// DeleteRemoved means the field existed and was removed.
	DeleteRemoved DeleteResult = iota
	// DeleteAbsent means the field was already absent; nothing changed.
	DeleteAbsent
)

func (r DeleteResult) String() string {
	if r == DeleteAbsent {
		return "absent"
	}
	return "removed"
}
