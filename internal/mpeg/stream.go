// Package mpeg probes MPEG audio (Layer III) streams for length and bitrate.
//
// The ID3 codec library only handles the tag block; the numbers reported for
// the computed __length and __bitrate keys come from here.
package mpeg

import (
	"encoding/binary"
	"fmt"
	"io"

	binutil "github.com/simonhull/audiotags/internal/binary"
	"github.com/simonhull/audiotags/internal/types"
)

// maxSyncScan bounds how far past the tag we look for the first frame.
const maxSyncScan = 64 * 1024

const (
	versionMPEG25 = 0
	versionMPEG2  = 2
	versionMPEG1  = 3
)

// Layer III bitrates in kbps, by version family.
var (
	bitratesV1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitratesV2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// Sample rates in Hz, indexed by version then sample rate index.
var sampleRates = map[uint32][3]int{
	versionMPEG1:  {44100, 48000, 32000},
	versionMPEG2:  {22050, 24000, 16000},
	versionMPEG25: {11025, 12000, 8000},
}

// FrameHeader is a decoded MPEG audio frame header.
type FrameHeader struct {
	Version    uint32
	Bitrate    int // bits per second
	SampleRate int
	Mono       bool
}

// SamplesPerFrame returns the number of PCM samples one Layer III frame decodes to.
func (h FrameHeader) SamplesPerFrame() int {
	if h.Version == versionMPEG1 {
		return 1152
	}
	return 576
}

// sideInfoSize is the Layer III side information length, which precedes the
// Xing/Info header inside the first frame.
func (h FrameHeader) sideInfoSize() int64 {
	switch {
	case h.Version == versionMPEG1 && !h.Mono:
		return 32
	case h.Version == versionMPEG1 || !h.Mono:
		return 17
	default:
		return 9
	}
}

// ParseFrameHeader validates and decodes a 32-bit frame header.
func ParseFrameHeader(header uint32) (FrameHeader, error) {
	// Frame sync: 11 bits set
	if header&0xFFE00000 != 0xFFE00000 {
		return FrameHeader{}, fmt.Errorf("invalid frame sync")
	}

	version := (header >> 19) & 0x3
	if version == 1 {
		return FrameHeader{}, fmt.Errorf("reserved MPEG version")
	}

	// Layer III is encoded as 01
	if layer := (header >> 17) & 0x3; layer != 1 {
		return FrameHeader{}, fmt.Errorf("unsupported layer")
	}

	bitrateIdx := (header >> 12) & 0xF
	table := bitratesV2
	if version == versionMPEG1 {
		table = bitratesV1
	}
	bitrate := table[bitrateIdx] * 1000
	if bitrate == 0 {
		return FrameHeader{}, fmt.Errorf("free or invalid bitrate index %d", bitrateIdx)
	}

	sampleRateIdx := (header >> 10) & 0x3
	if sampleRateIdx == 3 {
		return FrameHeader{}, fmt.Errorf("reserved sample rate index")
	}

	return FrameHeader{
		Version:    version,
		Bitrate:    bitrate,
		SampleRate: sampleRates[version][sampleRateIdx],
		Mono:       (header>>6)&0x3 == 3,
	}, nil
}

// Probe finds the first audio frame after any ID3v2 tag and derives the
// stream length and bitrate from it.
//
// VBR files with a Xing/Info or VBRI header get an exact length; CBR files
// are estimated from the audio payload size.
func Probe(r io.ReaderAt, size int64, path string) (types.StreamInfo, error) {
	sr := binutil.NewSafeReader(r, size, path)

	tagSize := TagSize(sr)
	audioEnd := size
	if hasID3v1(sr) {
		audioEnd -= 128
	}

	limit := min(audioEnd-4, tagSize+maxSyncScan)
	for offset := tagSize; offset < limit; offset++ {
		raw, err := binutil.Read[uint32](sr, offset, "MPEG frame header")
		if err != nil {
			break
		}
		header, err := ParseFrameHeader(raw)
		if err != nil {
			continue
		}

		audioSize := audioEnd - offset
		if seconds, bytes, ok := parseVBRHeader(sr, offset, header); ok {
			info := types.StreamInfo{}.WithLength(seconds)
			if bytes <= 0 {
				bytes = audioSize
			}
			return info.WithBitrate(types.EstimateBitrate(bytes, seconds)), nil
		}

		seconds := float64(audioSize*8) / float64(header.Bitrate)
		return types.StreamInfo{}.WithLength(seconds).WithBitrate(header.Bitrate), nil
	}

	return types.StreamInfo{}, fmt.Errorf("%s: no valid MPEG frame found", path)
}

// parseVBRHeader looks for a Xing/Info or VBRI header in the first frame.
// Returns the exact length and, when recorded, the stream byte count.
func parseVBRHeader(sr *binutil.SafeReader, frameOffset int64, h FrameHeader) (seconds float64, bytes int64, ok bool) {
	xingOffset := frameOffset + 4 + h.sideInfoSize()
	if buf, err := sr.Bytes(xingOffset, 16, "Xing header"); err == nil {
		if magic := string(buf[0:4]); magic == "Xing" || magic == "Info" {
			flags := binary.BigEndian.Uint32(buf[4:8])
			// Frames field is present if bit 0 is set
			if flags&0x1 == 0 {
				return 0, 0, false
			}
			frames := binary.BigEndian.Uint32(buf[8:12])
			if flags&0x2 != 0 {
				bytes = int64(binary.BigEndian.Uint32(buf[12:16]))
			}
			return framesToSeconds(frames, h), bytes, frames > 0
		}
	}

	// VBRI always sits 32 bytes after the frame header
	if buf, err := sr.Bytes(frameOffset+36, 18, "VBRI header"); err == nil && string(buf[0:4]) == "VBRI" {
		bytes = int64(binary.BigEndian.Uint32(buf[10:14]))
		frames := binary.BigEndian.Uint32(buf[14:18])
		return framesToSeconds(frames, h), bytes, frames > 0
	}

	return 0, 0, false
}

func framesToSeconds(frames uint32, h FrameHeader) float64 {
	return float64(uint64(frames)*uint64(h.SamplesPerFrame())) / float64(h.SampleRate)
}
