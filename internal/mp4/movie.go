package mp4

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotags/internal/binary"
	"github.com/simonhull/audiotags/internal/types"
)

// IsMP4 reports whether the file starts with an ftyp box.
func IsMP4(r io.ReaderAt, size int64, path string) bool {
	sr := binary.NewSafeReader(r, size, path)
	a, err := readAtomHeader(sr, 0)
	return err == nil && a.Type == "ftyp"
}

// ProbeMovie reads the presentation length from the movie header and
// estimates the bitrate from the file size.
func ProbeMovie(r io.ReaderAt, size int64, path string) (types.StreamInfo, error) {
	sr := binary.NewSafeReader(r, size, path)

	moov, err := findAtom(sr, 0, size, "moov")
	if err != nil {
		return types.StreamInfo{}, err
	}
	mvhd, err := findAtom(sr, moov.DataOffset(), moov.End(), "mvhd")
	if err != nil {
		return types.StreamInfo{}, err
	}

	timescale, duration, err := parseMvhd(sr, mvhd)
	if err != nil {
		return types.StreamInfo{}, err
	}
	if timescale == 0 {
		return types.StreamInfo{}, &types.CorruptedFileError{
			Path:   path,
			Offset: mvhd.Offset,
			Reason: "mvhd timescale is zero",
		}
	}

	seconds := float64(duration) / float64(timescale)
	info := types.StreamInfo{}.WithLength(seconds)
	return info.WithBitrate(types.EstimateBitrate(size, seconds)), nil
}

// parseMvhd returns the movie timescale and duration.
//
// Version 0 stores 32-bit times, version 1 stores 64-bit creation,
// modification and duration fields.
func parseMvhd(sr *binary.SafeReader, mvhd atom) (timescale uint32, duration uint64, err error) {
	offset := mvhd.DataOffset()

	version, err := binary.Read[uint8](sr, offset, "mvhd version")
	if err != nil {
		return 0, 0, err
	}
	offset += 4 // version + flags

	switch version {
	case 0:
		offset += 8
		if timescale, err = binary.Read[uint32](sr, offset, "mvhd timescale"); err != nil {
			return 0, 0, err
		}
		d, err := binary.Read[uint32](sr, offset+4, "mvhd duration")
		if err != nil {
			return 0, 0, err
		}
		return timescale, uint64(d), nil
	case 1:
		offset += 16
		if timescale, err = binary.Read[uint32](sr, offset, "mvhd timescale"); err != nil {
			return 0, 0, err
		}
		if duration, err = binary.Read[uint64](sr, offset+4, "mvhd duration"); err != nil {
			return 0, 0, err
		}
		return timescale, duration, nil
	default:
		return 0, 0, fmt.Errorf("unsupported mvhd version %d", version)
	}
}
