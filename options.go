package audiotags

import (
	"runtime"

	"go.uber.org/zap"
)

// Option configures behavior when opening audio files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := audiotags.Open("song.flac",
//	    audiotags.WithLogger(logger),
//	    audiotags.WithFormat(audiotags.FormatFLAC),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	logger         *zap.Logger
	format         Format // Skip detection when set
	ignoreWarnings bool   // Suppress File.Warnings
	concurrency    int    // ReadMany worker limit
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		logger:      zap.NewNop(),
		concurrency: runtime.NumCPU(),
	}
}

func applyOptions(opts []Option) *openOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithLogger sets the logger used for warnings and write diagnostics.
//
// By default nothing is logged. Warnings are always collected in
// File.Warnings regardless of the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFormat bypasses format detection and opens the file with the adapter
// registered for format.
//
// Example:
//
//	// A FLAC stream saved with a .bin extension
//	file, err := audiotags.Open("dump.bin", audiotags.WithFormat(audiotags.FormatFLAC))
func WithFormat(format Format) Option {
	return func(o *openOptions) {
		o.format = format
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues (reserved-prefix collisions,
// etc.) are collected in File.Warnings. This option discards them. They
// are still logged.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithConcurrency limits how many files ReadMany reads at once.
//
// The default is runtime.NumCPU(). Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WriteOption configures behavior when writing tags.
//
// Example:
//
//	err := file.WriteTags(tags,
//	    audiotags.WithBackup(".bak"),
//	    audiotags.WithValidation(),
//	)
type WriteOption func(*writeOptions)

// writeOptions holds configuration for writing tags.
type writeOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
}

// WithBackup copies the original file before writing.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will create "song.mp3.bak"
// before modifying "song.mp3".
//
// If the backup file already exists, it will be overwritten.
func WithBackup(suffix string) WriteOption {
	return func(o *writeOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing and compares every
// written key.
//
// Formats that collapse multiple values into one (ID3v2.3) fail
// validation for multi-valued keys, since the values did not round-trip.
func WithValidation() WriteOption {
	return func(o *writeOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// Use this when you want to maintain the original file timestamps,
// such as when updating metadata without changing the "modified" date.
func WithPreserveModTime() WriteOption {
	return func(o *writeOptions) {
		o.preserveModTime = true
	}
}
