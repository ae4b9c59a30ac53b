package audiotags

import (
	"io"

	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown  = types.FormatUnknown
	FormatFLAC     = types.FormatFLAC
	FormatMP3      = types.FormatMP3
	FormatM4A      = types.FormatM4A
	FormatM4B      = types.FormatM4B
	FormatOgg      = types.FormatOgg
	FormatOpus     = types.FormatOpus
	FormatWAV      = types.FormatWAV
	FormatAIFF     = types.FormatAIFF
	FormatWavPack  = types.FormatWavPack
	FormatAPE      = types.FormatAPE
	FormatMusepack = types.FormatMusepack
	FormatWMA      = types.FormatWMA
	FormatModule   = types.FormatModule
)

// DetectFormat is a wrapper around types.DetectFormat.
// Maintains the public API while delegating to internal implementation.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// SupportedFormats lists every format an adapter is registered for.
func SupportedFormats() []Format {
	return registry.Formats()
}

// IsWritable reports whether tags can be written for a format.
func IsWritable(format Format) bool {
	a := registry.Get(format)
	return a != nil && a.Writable
}
