package audiotags

import (
	"github.com/simonhull/audiotags/internal/binary"
	"github.com/simonhull/audiotags/internal/types"
)

// Sentinels for errors.Is.
var (
	ErrNotReadable = types.ErrNotReadable
	ErrNotWritable = types.ErrNotWritable
)

// NotReadableError is an alias to types.NotReadableError.
// Re-exporting from internal/types to maintain public API.
type NotReadableError = types.NotReadableError

// NotWritableError is an alias to types.NotWritableError.
// Re-exporting from internal/types to maintain public API.
type NotWritableError = types.NotWritableError

// OutOfBoundsError is an alias to binary.OutOfBoundsError.
// Re-exporting from internal/binary to maintain public API.
type OutOfBoundsError = binary.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exporting from internal/types to maintain public API.
type CorruptedFileError = types.CorruptedFileError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning
