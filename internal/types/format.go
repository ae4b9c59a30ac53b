package types

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/simonhull/audiotags/internal/binary"
)

// Format identifies the container/tag family of an audio file.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatFLAC represents FLAC audio files.
	FormatFLAC
	// FormatMP3 represents MP3 audio files.
	FormatMP3
	// FormatM4A represents M4A audio files.
	FormatM4A
	// FormatM4B represents M4B audiobook files.
	FormatM4B
	// FormatOgg represents Ogg Vorbis audio files.
	FormatOgg
	// FormatOpus represents Opus audio files.
	FormatOpus
	// FormatWAV represents WAV audio files.
	FormatWAV
	// FormatAIFF represents AIFF audio files.
	FormatAIFF
	// FormatWavPack represents WavPack audio files.
	FormatWavPack
	// FormatAPE represents Monkey's Audio files.
	FormatAPE
	// FormatMusepack represents Musepack audio files.
	FormatMusepack
	// FormatWMA represents Windows Media Audio files.
	FormatWMA
	// FormatModule represents tracker modules, which carry no tag block.
	FormatModule
)

var formatNames = map[Format]string{
	FormatUnknown:  "Unknown",
	FormatFLAC:     "FLAC",
	FormatMP3:      "MP3",
	FormatM4A:      "M4A",
	FormatM4B:      "M4B",
	FormatOgg:      "Ogg Vorbis",
	FormatOpus:     "Opus",
	FormatWAV:      "WAV",
	FormatAIFF:     "AIFF",
	FormatWavPack:  "WavPack",
	FormatAPE:      "APE",
	FormatMusepack: "Musepack",
	FormatWMA:      "WMA",
	FormatModule:   "Module",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatFLAC:
		return []string{".flac"}
	case FormatMP3:
		return []string{".mp3"}
	case FormatM4A:
		return []string{".m4a", ".mp4", ".m4p", ".aac"}
	case FormatM4B:
		return []string{".m4b"}
	case FormatOgg:
		return []string{".ogg", ".oga"}
	case FormatOpus:
		return []string{".opus"}
	case FormatWAV:
		return []string{".wav"}
	case FormatAIFF:
		return []string{".aiff", ".aif"}
	case FormatWavPack:
		return []string{".wv"}
	case FormatAPE:
		return []string{".ape"}
	case FormatMusepack:
		return []string{".mpc"}
	case FormatWMA:
		return []string{".wma"}
	case FormatModule:
		return []string{".mod", ".s3m", ".xm", ".it"}
	default:
		return nil
	}
}

// FormatForExtension maps a path's extension to a format, case-insensitively.
// Returns FormatUnknown if the extension is not recognized.
func FormatForExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return FormatUnknown
	}
	for f := range formatNames {
		for _, candidate := range f.Extensions() {
			if candidate == ext {
				return f
			}
		}
	}
	return FormatUnknown
}

// DetectFormat determines the format of an audio file.
//
// The extension is consulted first, as it is the cheapest and matches how
// callers usually pick an adapter. Files with an unknown extension are
// identified by their magic bytes.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if f := FormatForExtension(path); f != FormatUnknown {
		return f, nil
	}
	return DetectMagic(r, size, path)
}

// DetectMagic determines the format by examining magic bytes.
//
// Detection is based on file signatures at the beginning of the file and
// does not validate the rest of the structure.
func DetectMagic(r io.ReaderAt, size int64, path string) (Format, error) { //nolint:gocyclo // Format detection requires checking multiple magic byte patterns
	// File must be at least 4 bytes for any meaningful detection
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	switch string(magic) {
	case "fLaC":
		return FormatFLAC, nil
	case "wvpk":
		return FormatWavPack, nil
	case "MAC ":
		return FormatAPE, nil
	case "MPCK":
		return FormatMusepack, nil
	}

	// ID3v2 tag, or an MPEG frame sync for untagged MP3
	if string(magic[:3]) == "ID3" {
		return FormatMP3, nil
	}
	if magic[0] == 0xFF && (magic[1]&0xE0) == 0xE0 {
		return FormatMP3, nil
	}

	// ASF header object GUID starts with 30 26 B2 75
	if magic[0] == 0x30 && magic[1] == 0x26 && magic[2] == 0xB2 && magic[3] == 0x75 {
		return FormatWMA, nil
	}

	if string(magic) == "OggS" {
		return detectOggCodec(sr, size), nil
	}

	if string(magic) == "RIFF" && size >= 12 {
		waveTag := make([]byte, 4)
		if err := sr.ReadAt(waveTag, 8, "WAVE tag"); err == nil && string(waveTag) == "WAVE" {
			return FormatWAV, nil
		}
	}

	if string(magic) == "FORM" && size >= 12 {
		aiffTag := make([]byte, 4)
		if err := sr.ReadAt(aiffTag, 8, "AIFF tag"); err == nil {
			if string(aiffTag) == "AIFF" || string(aiffTag) == "AIFC" {
				return FormatAIFF, nil
			}
		}
	}

	return detectMP4Brand(sr, size, path)
}

// detectOggCodec tells Opus apart from Vorbis by the first packet's magic.
func detectOggCodec(sr *binary.SafeReader, size int64) Format {
	// Ogg page header: 27 bytes fixed + segment table (variable).
	// Minimum needed: 27 (header) + 1 (segment table) + 8 (OpusHead) = 36 bytes
	if size < 36 {
		return FormatOgg
	}
	segCount := make([]byte, 1)
	if err := sr.ReadAt(segCount, 26, "segment count"); err != nil {
		return FormatOgg
	}
	packetOffset := int64(27 + int(segCount[0]))
	if packetOffset+8 > size {
		return FormatOgg
	}
	codecMagic := make([]byte, 8)
	if err := sr.ReadAt(codecMagic, packetOffset, "codec magic"); err == nil && string(codecMagic) == "OpusHead" {
		return FormatOpus
	}
	return FormatOgg
}

// detectMP4Brand checks for an ftyp atom and its major brand.
func detectMP4Brand(sr *binary.SafeReader, size int64, path string) (Format, error) {
	unsupported := func(reason string) (Format, error) {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: reason}
	}

	if size < 12 {
		return unsupported("unsupported file format")
	}

	atomSize, err := binary.Read[uint32](sr, 0, "ftyp atom size")
	if err != nil {
		return unsupported("failed to read file header")
	}
	atomType := make([]byte, 4)
	if err := sr.ReadAt(atomType, 4, "ftyp atom type"); err != nil {
		return unsupported("failed to read file header")
	}
	if string(atomType) != "ftyp" {
		return unsupported("unsupported file format")
	}
	// ftyp atom must be at least 16 bytes (size + type + brand + version)
	if atomSize < 16 {
		return unsupported("ftyp atom too small")
	}

	brand := make([]byte, 4)
	if err := sr.ReadAt(brand, 8, "major brand"); err != nil {
		return unsupported("failed to read major brand")
	}

	switch string(brand) {
	case "M4B ":
		return FormatM4B, nil
	case "M4A ", "mp42", "isom":
		return FormatM4A, nil
	}
	return unsupported("unsupported file brand")
}
