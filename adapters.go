package audiotags

// Adapters register themselves with the internal registry on import.
import (
	_ "github.com/simonhull/audiotags/internal/flac" // Register FLAC adapter
	_ "github.com/simonhull/audiotags/internal/flat" // Register tagless formats
	_ "github.com/simonhull/audiotags/internal/id3"  // Register MP3 adapter
	_ "github.com/simonhull/audiotags/internal/mp4"  // Register M4A/M4B adapter
	_ "github.com/simonhull/audiotags/internal/tlib" // Register TagLib formats
)
